package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the production MultiMail API endpoint used when
// MULTIMAIL_API_URL is not set.
const DefaultBaseURL = "https://api.multimail.dev"

// Config holds the process configuration resolved once at startup. It is
// immutable after Load and passed explicitly to every component that needs
// it; handlers never read the environment themselves.
type Config struct {
	// APIKey is the MultiMail credential attached as a bearer token to every
	// authenticated API call. Required.
	APIKey string

	// DefaultMailboxID is the mailbox used by mailbox-scoped operations when
	// the caller does not pass an explicit mailbox_id. Optional.
	DefaultMailboxID string

	// BaseURL is the API endpoint base with any trailing slash stripped.
	BaseURL string
}

// ErrMissingAPIKey is returned when MULTIMAIL_API_KEY is not set. The process
// cannot operate without a credential and must not start.
var ErrMissingAPIKey = errors.New("MULTIMAIL_API_KEY environment variable is required")

// Load reads the gateway configuration from the environment:
//
//	MULTIMAIL_API_KEY     required credential
//	MULTIMAIL_MAILBOX_ID  optional default mailbox
//	MULTIMAIL_API_URL     optional API base, defaults to DefaultBaseURL
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MULTIMAIL")
	v.AutomaticEnv()
	v.SetDefault("api_url", DefaultBaseURL)

	// AutomaticEnv resolves keys lazily; BindEnv makes the three settings
	// explicit so IsSet and defaults behave consistently.
	for _, key := range []string{"api_key", "mailbox_id", "api_url"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		APIKey:           v.GetString("api_key"),
		DefaultMailboxID: v.GetString("mailbox_id"),
		BaseURL:          strings.TrimRight(v.GetString("api_url"), "/"),
	}

	if cfg.APIKey == "" {
		return Config{}, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return cfg, nil
}
