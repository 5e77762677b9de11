// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for TextHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, twilio_account_sid, etc.
//   - Environment variables: TEXTHUB_MONGO_URI, TEXTHUB_TWILIO_ACCOUNT_SID, etc.
//   - Command-line flags: --mongo_uri, --twilio_account_sid, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "texthub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Token signing
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Bearer token signing secret (must be strong in production)"},
	{Name: "token_ttl", Default: "24h", Desc: "Bearer token lifetime (e.g., 24h, 30m)"},

	// Twilio configuration
	{Name: "twilio_account_sid", Default: "", Desc: "Twilio account SID (blank selects the logging no-op gateway)"},
	{Name: "twilio_auth_token", Default: "", Desc: "Twilio auth token"},
	{Name: "twilio_from_number", Default: "", Desc: "E.164 number outbound SMS are sent from"},
	{Name: "validate_signature", Default: true, Desc: "Verify X-Twilio-Signature on inbound webhooks"},

	// Base URL as the SMS provider sees it
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Public base URL used for webhook signature validation"},

	// Messaging limits
	{Name: "membership_cap", Default: 10, Desc: "Max concurrently-active groups per user"},
	{Name: "max_message_length", Default: 1600, Desc: "Max message length in runes"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, TEXTHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TEXTHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		TokenTTL:  appValues.Duration("token_ttl", 24*time.Hour),

		TwilioAccountSID:  appValues.String("twilio_account_sid"),
		TwilioAuthToken:   appValues.String("twilio_auth_token"),
		TwilioFromNumber:  appValues.String("twilio_from_number"),
		ValidateSignature: appValues.Bool("validate_signature"),

		BaseURL: appValues.String("base_url"),

		MembershipCap:    appValues.Int("membership_cap"),
		MaxMessageLength: appValues.Int("max_message_length"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
//
// TextHub validates the MongoDB URI format to catch configuration
// errors early, and requires complete Twilio credentials whenever any
// of them is set: a half-configured gateway would fail on the first
// outbound message instead of at startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	anyTwilio := appCfg.TwilioAccountSID != "" || appCfg.TwilioAuthToken != "" || appCfg.TwilioFromNumber != ""
	allTwilio := appCfg.TwilioAccountSID != "" && appCfg.TwilioAuthToken != "" && appCfg.TwilioFromNumber != ""
	if anyTwilio && !allTwilio {
		return fmt.Errorf("twilio configuration is incomplete: twilio_account_sid, twilio_auth_token, and twilio_from_number must all be set")
	}

	if appCfg.ValidateSignature && appCfg.TwilioAuthToken == "" {
		logger.Warn("validate_signature is on but twilio_auth_token is blank; webhook signature validation is disabled")
	}

	if appCfg.MembershipCap <= 0 {
		return fmt.Errorf("membership_cap must be positive, got %d", appCfg.MembershipCap)
	}
	if appCfg.MaxMessageLength <= 0 {
		return fmt.Errorf("max_message_length must be positive, got %d", appCfg.MaxMessageLength)
	}

	return nil
}
