package billing

import (
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
)

// StripeConfig holds the portal's Stripe credentials and mode. Test and
// live keys are deliberately cross-checked against IsTestMode so a live
// key cannot slip into a staging deploy unnoticed.
type StripeConfig struct {
	SecretKey       string `json:"secret_key" mapstructure:"secret_key"`
	WebhookSecret   string `json:"webhook_secret" mapstructure:"webhook_secret"`
	IsTestMode      bool   `json:"is_test_mode" mapstructure:"is_test_mode"`
	DefaultCurrency string `json:"default_currency" mapstructure:"default_currency"`
}

// DefaultStripeConfig is test mode, USD, no keys.
func DefaultStripeConfig() *StripeConfig {
	return &StripeConfig{
		IsTestMode:      true,
		DefaultCurrency: "usd",
	}
}

// Validate checks the key is present and matches the configured mode.
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}

	wantPrefix, mode := "sk_live", "live"
	if c.IsTestMode {
		wantPrefix, mode = "sk_test", "test"
	}
	if len(c.SecretKey) > len(wantPrefix) && !strings.HasPrefix(c.SecretKey, wantPrefix) {
		return fmt.Errorf("stripe: %s mode enabled but secret key is not a %s key", mode, mode)
	}

	if c.DefaultCurrency == "" {
		return fmt.Errorf("stripe: default currency is required")
	}
	return nil
}

// InitStripeClient installs the API key on the global Stripe client.
func (c *StripeConfig) InitStripeClient() {
	stripe.Key = c.SecretKey
}
