// internal/app/system/sms/gateway.go

// Package sms wraps the outbound text-message gateway. The core only
// ever sees the Gateway interface; the Twilio implementation and the
// dev no-op live here together with inbound webhook signature
// validation.
package sms

import (
	"context"
	"fmt"

	"github.com/dalemusser/texthub/internal/domain/faults"
	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Gateway sends one text to one recipient. Implementations must be
// safe for concurrent use. Failures are per-call; callers decide
// whether a failed delivery matters.
type Gateway interface {
	Send(ctx context.Context, to, body string) (deliveryID string, err error)
}

// TwilioGateway sends through the Twilio Messaging API from a single
// shared number.
type TwilioGateway struct {
	client *twilio.RestClient
	from   string
	log    *zap.Logger
}

func NewTwilioGateway(accountSID, authToken, from string, logger *zap.Logger) *TwilioGateway {
	return &TwilioGateway{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
		log:  logger,
	}
}

func (g *TwilioGateway) Send(ctx context.Context, to, body string) (string, error) {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(g.from)
	params.SetBody(body)

	resp, err := g.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", faults.ErrGatewaySend, err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// NopGateway logs instead of sending. Used when no gateway
// credentials are configured (local development, tests).
type NopGateway struct {
	log *zap.Logger
}

func NewNopGateway(logger *zap.Logger) *NopGateway {
	return &NopGateway{log: logger}
}

func (g *NopGateway) Send(ctx context.Context, to, body string) (string, error) {
	id := uuid.NewString()
	g.log.Info("sms suppressed (no gateway configured)",
		zap.String("to", to),
		zap.Int("body_len", len(body)),
		zap.String("delivery_id", id))
	return id, nil
}

// WebhookValidator checks X-Twilio-Signature headers on inbound
// webhook requests.
type WebhookValidator struct {
	rv twclient.RequestValidator
}

func NewWebhookValidator(authToken string) *WebhookValidator {
	return &WebhookValidator{rv: twclient.NewRequestValidator(authToken)}
}

// Validate reports whether signature is valid for the given public
// URL and POST params.
func (v *WebhookValidator) Validate(url string, params map[string]string, signature string) bool {
	return v.rv.Validate(url, params, signature)
}
