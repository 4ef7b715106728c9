package toyyibpay

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default gateway endpoints.
const (
	DefaultProdBaseURL = "https://toyyibpay.com"
	DefaultDevBaseURL  = "https://dev.toyyibpay.com"

	// DefaultTimeout bounds every gateway request unless overridden.
	DefaultTimeout = 30 * time.Second
)

// Config carries everything a client needs to talk to the gateway. Construct
// it directly or with FromEnv, then pass it to NewClient / NewPooledClient.
// A Config is treated as immutable once a client is built from it.
type Config struct {
	// APIKey is the merchant secret key sent with every request. Required.
	APIKey string

	// CategoryID is the default bill category used when CreateBill is not
	// given an explicit category code.
	CategoryID string

	// Environment selects the gateway deployment. Defaults to production.
	Environment Environment

	// DevBaseURL and ProdBaseURL override the gateway endpoints, mainly for
	// tests. Leave empty for the public URLs.
	DevBaseURL  string
	ProdBaseURL string

	// ReturnURL and CallbackURL are the defaults applied to bills that do not
	// specify their own.
	ReturnURL   string
	CallbackURL string

	// SecretKey is the shared secret for webhook signature verification.
	// Optional; when empty, webhook handlers cannot verify signatures.
	SecretKey string

	// Timeout bounds each gateway request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// DatabaseURL is a Postgres connection string for the optional payment
	// store. The core client never reads it.
	DatabaseURL string

	// AdditionalHeaders are set on every outbound request.
	AdditionalHeaders map[string]string
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	if c == nil || c.APIKey == "" {
		return NewConfigurationError("API key is required")
	}
	return nil
}

// BaseURL returns the gateway base URL for the configured environment.
// Anything other than production selects the dev deployment.
func (c *Config) BaseURL() string {
	if c.Environment == EnvProduction || c.Environment == "" {
		if c.ProdBaseURL != "" {
			return c.ProdBaseURL
		}
		return DefaultProdBaseURL
	}
	if c.DevBaseURL != "" {
		return c.DevBaseURL
	}
	return DefaultDevBaseURL
}

// APIBaseURL returns the base URL of the gateway's API endpoints.
func (c *Config) APIBaseURL() string {
	return c.BaseURL() + "/index.php/api"
}

// PaymentURL returns the hosted payment page for a bill code under the
// configured environment.
func (c *Config) PaymentURL(billCode string) string {
	return c.BaseURL() + "/" + billCode
}

func (c *Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// FromEnv builds a Config from environment variables:
//
//	TOYYIBPAY_API_KEY       API key (required for Validate to pass)
//	TOYYIBPAY_CATEGORY_ID   default category ID
//	TOYYIBPAY_ENVIRONMENT   dev / staging / production
//	TOYYIBPAY_RETURN_URL    default return URL
//	TOYYIBPAY_CALLBACK_URL  default callback URL
//	TOYYIBPAY_SECRET_KEY    webhook signature secret
//	TOYYIBPAY_TIMEOUT       request timeout in seconds
//	DATABASE_URL            Postgres connection string for the payment store
func FromEnv() *Config {
	cfg := &Config{
		APIKey:      os.Getenv("TOYYIBPAY_API_KEY"),
		CategoryID:  os.Getenv("TOYYIBPAY_CATEGORY_ID"),
		Environment: Environment(os.Getenv("TOYYIBPAY_ENVIRONMENT")),
		ReturnURL:   os.Getenv("TOYYIBPAY_RETURN_URL"),
		CallbackURL: os.Getenv("TOYYIBPAY_CALLBACK_URL"),
		SecretKey:   os.Getenv("TOYYIBPAY_SECRET_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
	if cfg.Environment == "" {
		cfg.Environment = EnvProduction
	}
	if v := os.Getenv("TOYYIBPAY_TIMEOUT"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			cfg.Timeout = time.Duration(secs * float64(time.Second))
		}
	}
	return cfg
}

// LoadEnv loads variables from the given .env files (or ./.env when none are
// given) into the process environment, then builds a Config from it.
func LoadEnv(filenames ...string) (*Config, error) {
	if err := godotenv.Load(filenames...); err != nil {
		return nil, NewConfigurationError(fmt.Sprintf("failed to load env file: %v", err))
	}
	return FromEnv(), nil
}

// defaultConfig is the optional process-wide config used by NewClient(nil).
// It exists purely for ergonomics; mutating it after clients are built is
// not thread-safe and not supported.
var defaultConfig *Config

// SetDefaultConfig installs the process-wide default config.
func SetDefaultConfig(cfg *Config) { defaultConfig = cfg }

// DefaultConfig returns the process-wide default config, or an error when
// none has been installed.
func DefaultConfig() (*Config, error) {
	if defaultConfig == nil {
		return nil, NewConfigurationError(
			"no default configuration set: call SetDefaultConfig or pass an explicit Config")
	}
	return defaultConfig, nil
}

// ResetDefaultConfig clears the process-wide default config.
func ResetDefaultConfig() { defaultConfig = nil }
