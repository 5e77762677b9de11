// internal/app/features/smswebhook/handler.go

// Package smswebhook is the inbound edge: it adapts the gateway's
// webhook POST to the router/fan-out core and renders the reply as
// TwiML. All replies are 200s — the gateway retries non-2xx, and a
// routing miss is a conversation, not a failure.
package smswebhook

import (
	"context"
	"errors"
	"net/http"

	fanoutsvc "github.com/dalemusser/texthub/internal/app/services/fanout"
	smsrouter "github.com/dalemusser/texthub/internal/app/services/router"
	groupstore "github.com/dalemusser/texthub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/texthub/internal/app/store/memberships"
	messagestore "github.com/dalemusser/texthub/internal/app/store/messages"
	userstore "github.com/dalemusser/texthub/internal/app/store/users"
	"github.com/dalemusser/texthub/internal/app/system/metrics"
	"github.com/dalemusser/texthub/internal/app/system/sms"
	"github.com/dalemusser/texthub/internal/app/system/timeouts"
	"github.com/dalemusser/texthub/internal/domain/faults"
	"github.com/dalemusser/texthub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	notRegisteredText = "This phone number is not registered. Sign up at the website to join."
	emptyMessageText  = "Message cannot be empty."
	sendFailedText    = "Sorry, there was an error sending your message. Please try again."
)

// Handler is the shared dependency container for the webhook feature.
type Handler struct {
	DB     *mongo.Database
	Fanout *fanoutsvc.Service

	// Validator is nil when signature validation is disabled (local
	// development behind no public URL).
	Validator *sms.WebhookValidator
	BaseURL   string

	Log *zap.Logger

	users       *userstore.Store
	groups      *groupstore.Store
	memberships *membershipstore.Store
	messages    *messagestore.Store
}

func NewHandler(db *mongo.Database, fanout *fanoutsvc.Service, validator *sms.WebhookValidator, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Fanout:      fanout,
		Validator:   validator,
		BaseURL:     baseURL,
		Log:         logger,
		users:       userstore.New(db),
		groups:      groupstore.New(db),
		memberships: membershipstore.New(db),
		messages:    messagestore.New(db),
	}
}

// HandleInbound processes one gateway webhook POST (From, Body form
// fields).
func (h *Handler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		metrics.WebhookRequests.WithLabelValues("rejected").Inc()
		writeTwiML(w, "")
		return
	}

	if !h.validSignature(r) {
		metrics.WebhookRequests.WithLabelValues("rejected").Inc()
		writeTwiML(w, "")
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")
	reqID := uuid.NewString()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	reply, outcome := h.process(ctx, from, body, reqID)
	metrics.WebhookRequests.WithLabelValues(outcome).Inc()
	writeTwiML(w, reply)
}

// validSignature checks X-Twilio-Signature over the public URL and
// the posted params.
func (h *Handler) validSignature(r *http.Request) bool {
	if h.Validator == nil {
		return true
	}
	sig := r.Header.Get("X-Twilio-Signature")
	if sig == "" {
		return false
	}

	params := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		params[k] = r.PostForm.Get(k)
	}
	return h.Validator.Validate(h.BaseURL+r.URL.RequestURI(), params, sig)
}

// process resolves the sender, routes the body, and hands the result
// to the fan-out service. It returns the reply text ("" for silent
// success) and the metrics outcome label.
func (h *Handler) process(ctx context.Context, from, body, reqID string) (reply, outcome string) {
	sender, err := h.users.GetByPhone(ctx, from)
	if err != nil {
		if errors.Is(err, faults.ErrUserNotFound) {
			return notRegisteredText, "unknown_sender"
		}
		h.Log.Error("webhook: sender lookup failed",
			zap.String("req_id", reqID), zap.Error(err))
		return sendFailedText, "error"
	}

	candidates, groupsByID, err := h.senderCandidates(ctx, sender.ID)
	if err != nil {
		h.Log.Error("webhook: candidate load failed",
			zap.String("req_id", reqID), zap.Error(err))
		return sendFailedText, "error"
	}

	decision := smsrouter.Route(candidates, body)
	switch {
	case decision.NoGroups:
		return smsrouter.NoGroupsText, "no_groups"
	case decision.NeedsClarification:
		return smsrouter.ClarificationText(decision.CandidateNames), "clarification"
	}

	group := groupsByID[decision.Target.ID]
	if _, err := h.Fanout.Send(ctx, sender, group, decision.Content); err != nil {
		if errors.Is(err, faults.ErrEmptyMessage) {
			return emptyMessageText, "clarification"
		}
		h.Log.Error("webhook: send failed",
			zap.String("req_id", reqID),
			zap.String("group_id", group.ID.Hex()),
			zap.Error(err))
		return sendFailedText, "error"
	}

	h.Log.Info("webhook: message delivered",
		zap.String("req_id", reqID),
		zap.String("group_id", group.ID.Hex()),
		zap.String("sender_id", sender.ID.Hex()))
	return "", "delivered"
}

// senderCandidates assembles the router's view of the sender's active
// groups, in join order, with each group's latest message time.
func (h *Handler) senderCandidates(ctx context.Context, senderID primitive.ObjectID) ([]smsrouter.Candidate, map[primitive.ObjectID]models.Group, error) {
	ms, err := h.memberships.ListActiveByUser(ctx, senderID)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]primitive.ObjectID, len(ms))
	for i, m := range ms {
		ids[i] = m.GroupID
	}

	groups, err := h.groups.ListByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[primitive.ObjectID]models.Group, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	latest, err := h.messages.LatestPerGroup(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	candidates := make([]smsrouter.Candidate, 0, len(ms))
	for _, m := range ms {
		g, ok := byID[m.GroupID]
		if !ok {
			continue
		}
		c := smsrouter.Candidate{ID: g.ID, Name: g.Name}
		if at, ok := latest[g.ID]; ok {
			t := at
			c.LastMessageAt = &t
		}
		candidates = append(candidates, c)
	}
	return candidates, byID, nil
}
