// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	groupsapifeature "github.com/dalemusser/texthub/internal/app/features/groupsapi"
	healthfeature "github.com/dalemusser/texthub/internal/app/features/health"
	smswebhookfeature "github.com/dalemusser/texthub/internal/app/features/smswebhook"
	usersapifeature "github.com/dalemusser/texthub/internal/app/features/usersapi"
	groupdir "github.com/dalemusser/texthub/internal/app/services/directory"
	fanoutsvc "github.com/dalemusser/texthub/internal/app/services/fanout"
	membershipsvc "github.com/dalemusser/texthub/internal/app/services/membership"
	userstore "github.com/dalemusser/texthub/internal/app/store/users"
	"github.com/dalemusser/texthub/internal/app/system/auth"
	"github.com/dalemusser/texthub/internal/app/system/metrics"
	"github.com/dalemusser/texthub/internal/app/system/sms"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. TextHub builds its stores and
// services here, picks the SMS gateway (real Twilio when credentials
// are configured, a logging no-op otherwise), and mounts:
//   - /health        liveness check for load balancers
//   - /metrics       Prometheus scrape endpoint
//   - /webhook/sms   inbound SMS from the gateway
//   - /api/users     registration and login
//   - /api/groups    the authenticated JSON API
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.TextHubMongoDatabase

	// Gateway selection. Local development runs without Twilio
	// credentials and gets the logging gateway.
	var gateway sms.Gateway
	if appCfg.TwilioAccountSID != "" {
		gateway = sms.NewTwilioGateway(appCfg.TwilioAccountSID, appCfg.TwilioAuthToken, appCfg.TwilioFromNumber, logger)
	} else {
		gateway = sms.NewNopGateway(logger)
	}

	var validator *sms.WebhookValidator
	if appCfg.ValidateSignature && appCfg.TwilioAuthToken != "" {
		validator = sms.NewWebhookValidator(appCfg.TwilioAuthToken)
	}

	// Services
	membership := membershipsvc.New(db, appCfg.MembershipCap, logger)
	directory := groupdir.New(db)
	fanout := fanoutsvc.New(db, gateway, appCfg.MaxMessageLength, logger)

	// Token auth
	issuer := auth.NewTokenIssuer(appCfg.JWTSecret, appCfg.TokenTTL)
	users := userstore.New(db)
	mw := auth.NewMiddleware(issuer, users, logger)

	r := chi.NewRouter()
	r.Use(metrics.Middleware)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.TextHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Inbound SMS webhook
	webhookHandler := smswebhookfeature.NewHandler(db, fanout, validator, appCfg.BaseURL, logger)
	r.Mount("/webhook/sms", smswebhookfeature.Routes(webhookHandler))

	// Account registration and login
	usersHandler := usersapifeature.NewHandler(users, issuer, logger)
	r.Mount("/api/users", usersapifeature.Routes(usersHandler))

	// Authenticated group API
	groupsHandler := groupsapifeature.NewHandler(db, directory, membership, fanout, logger)
	r.Mount("/api/groups", groupsapifeature.Routes(groupsHandler, mw))

	return r, nil
}
