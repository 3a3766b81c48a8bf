// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging,
// CORS). AppConfig is everything specific to SDG Bridge: database connection
// strings, session and CSRF secrets, and the Google OAuth credentials.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: sdgbridge-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionTTL    time.Duration // How long a signed-in session lasts

	// CSRF protection
	CSRFKey string // 32-byte secret for gorilla/csrf token signing

	// Google OAuth configuration. Leaving both blank disables the
	// "Sign in with Google" path; password login still works.
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth callbacks and absolute links
	BaseURL string // e.g., "https://sdgbridge.org" or "http://localhost:3000"
}
