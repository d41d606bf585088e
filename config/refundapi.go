package config

import (
	"strings"
	"time"
)

// RefundAPIConfig describes the remote refund API the UI talks to.
type RefundAPIConfig struct {
	// BaseURL is used for server-to-server calls.
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:3333"`

	// PublicURL is used to build browser-facing receipt links.
	// Defaults to BaseURL.
	PublicURL string `env:"API_PUBLIC_URL"`

	// Timeout bounds each outbound call.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`

	// ErrorMessagePath is the JMESPath expression that extracts the
	// user-facing message from an error body.
	ErrorMessagePath string `env:"API_ERROR_MESSAGE_PATH" envDefault:"message"`

	// PageSize is the fixed number of refunds per dashboard page.
	PageSize int `env:"PAGE_SIZE" envDefault:"5"`

	// Locale and CurrencySymbol control amount formatting.
	Locale         string `env:"LOCALE"          envDefault:"pt-BR"`
	CurrencySymbol string `env:"CURRENCY_SYMBOL" envDefault:"R$"`
}

// Sanitize applies guardrails to refund API configuration values.
func (c *RefundAPIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.PublicURL = strings.TrimRight(strings.TrimSpace(c.PublicURL), "/")
	if c.PublicURL == "" {
		c.PublicURL = c.BaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if strings.TrimSpace(c.ErrorMessagePath) == "" {
		c.ErrorMessagePath = "message"
	}
	if c.PageSize <= 0 {
		c.PageSize = 5
	}
	if c.PageSize > 100 {
		c.PageSize = 100
	}
	if c.Locale == "" {
		c.Locale = "pt-BR"
	}
	if c.CurrencySymbol == "" {
		c.CurrencySymbol = "R$"
	}
}
