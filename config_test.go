package toyyibpay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"default is production", Config{}, DefaultProdBaseURL},
		{"production", Config{Environment: EnvProduction}, DefaultProdBaseURL},
		{"dev", Config{Environment: EnvDev}, DefaultDevBaseURL},
		{"staging uses dev deployment", Config{Environment: EnvStaging}, DefaultDevBaseURL},
		{"production override", Config{ProdBaseURL: "http://localhost:8080"}, "http://localhost:8080"},
		{"dev override", Config{Environment: EnvDev, DevBaseURL: "http://localhost:9090"}, "http://localhost:9090"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.BaseURL())
		})
	}
}

func TestConfigURLHelpers(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "https://toyyibpay.com/index.php/api", cfg.APIBaseURL())
	assert.Equal(t, "https://toyyibpay.com/abc123", cfg.PaymentURL("abc123"))
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, (&Config{}).Validate())
	assert.NoError(t, (&Config{APIKey: "k"}).Validate())

	var nilCfg *Config
	err := nilCfg.Validate()
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TOYYIBPAY_API_KEY", "env-key")
	t.Setenv("TOYYIBPAY_CATEGORY_ID", "env-cat")
	t.Setenv("TOYYIBPAY_ENVIRONMENT", "dev")
	t.Setenv("TOYYIBPAY_RETURN_URL", "https://shop.example.com/return")
	t.Setenv("TOYYIBPAY_CALLBACK_URL", "https://shop.example.com/callback")
	t.Setenv("TOYYIBPAY_SECRET_KEY", "whsec")
	t.Setenv("TOYYIBPAY_TIMEOUT", "2.5")
	t.Setenv("DATABASE_URL", "postgres://localhost/payments")

	cfg := FromEnv()
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "env-cat", cfg.CategoryID)
	assert.Equal(t, EnvDev, cfg.Environment)
	assert.Equal(t, "https://shop.example.com/return", cfg.ReturnURL)
	assert.Equal(t, "https://shop.example.com/callback", cfg.CallbackURL)
	assert.Equal(t, "whsec", cfg.SecretKey)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "postgres://localhost/payments", cfg.DatabaseURL)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("TOYYIBPAY_ENVIRONMENT", "")
	t.Setenv("TOYYIBPAY_TIMEOUT", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.Zero(t, cfg.Timeout)
	assert.Equal(t, DefaultTimeout, cfg.timeout())
}

func TestDefaultConfigHolder(t *testing.T) {
	ResetDefaultConfig()
	_, err := DefaultConfig()
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))

	SetDefaultConfig(&Config{APIKey: "held"})
	defer ResetDefaultConfig()

	cfg, err := DefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, "held", cfg.APIKey)
}
