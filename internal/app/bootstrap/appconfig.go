// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers framework-level settings (HTTP ports, TLS,
// log level, request limits). AppConfig is everything specific to
// TextHub: the MongoDB connection, the Twilio account used to send and
// receive SMS, token signing, and the messaging limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Token signing configuration
	JWTSecret string        // Secret for signing API bearer tokens (must be strong in production)
	TokenTTL  time.Duration // Bearer token lifetime

	// Twilio configuration. With blank credentials the app falls back
	// to a logging no-op gateway, which is what you want locally.
	TwilioAccountSID  string // Twilio account SID
	TwilioAuthToken   string // Twilio auth token (also used to validate webhook signatures)
	TwilioFromNumber  string // E.164 number messages are sent from
	ValidateSignature bool   // Verify X-Twilio-Signature on inbound webhooks

	// Base URL as Twilio sees it, used to reconstruct the signed
	// webhook URL behind proxies.
	BaseURL string // e.g., "https://texthub.example.com"

	// Messaging limits
	MembershipCap    int // Max concurrently-active groups per user
	MaxMessageLength int // Max message length in runes
}
