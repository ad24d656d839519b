package config

import (
	"fmt"
	"net/url"
	"strings"
)

// EnvSchemaVersion is the .env layout this build understands
const EnvSchemaVersion = "1.0"

// MinAPIKeyLength is the shortest API key accepted without a warning
const MinAPIKeyLength = 16

// Placeholder values shipped in the example .env file
const (
	PlaceholderAPIKey       = "generate_with_openssl_rand_hex_32"
	PlaceholderClientSecret = "your_osu_client_secret"
)

type warningRule struct {
	applies func(c *Config) bool
	message func(c *Config) string
}

func staticMessage(msg string) func(*Config) string {
	return func(*Config) string { return msg }
}

var warningRules = []warningRule{
	{
		applies: func(c *Config) bool {
			return c.EnvSchemaVersion != "" && c.EnvSchemaVersion != EnvSchemaVersion
		},
		message: func(c *Config) string {
			return fmt.Sprintf("ENV_SCHEMA_VERSION is %s but this build expects %s; your .env file may be outdated",
				c.EnvSchemaVersion, EnvSchemaVersion)
		},
	},
	{
		applies: func(c *Config) bool { return !c.OAuthConfigured() },
		message: staticMessage("OSU_CLIENT_ID and OSU_CLIENT_SECRET are not set; account linking is disabled"),
	},
	{
		applies: func(c *Config) bool { return c.OsuClientSecret == PlaceholderClientSecret },
		message: staticMessage("OSU_CLIENT_SECRET appears to be using the example value - copy it from your osu! OAuth application settings"),
	},
	{
		applies: func(c *Config) bool { return c.APIKey == PlaceholderAPIKey },
		message: staticMessage("API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32"),
	},
	{
		applies: func(c *Config) bool { return c.APIKey != PlaceholderAPIKey && len(c.APIKey) < MinAPIKeyLength },
		message: staticMessage(fmt.Sprintf("API_KEY is shorter than %d characters", MinAPIKeyLength)),
	},
	{
		applies: func(c *Config) bool {
			u, err := url.Parse(c.OsuRedirectURI)
			return c.IsProduction() && err == nil && u.Scheme == "http"
		},
		message: staticMessage("OSU_REDIRECT_URI uses plain http in production; osu! will send authorization codes unencrypted"),
	},
	{
		applies: func(c *Config) bool { return c.IsProduction() && c.StorageBackend == StorageBackendFile },
		message: staticMessage("STORAGE_BACKEND=file in production; links and tokens live in one process's data directory"),
	},
}

// Warnings lists settings that load and validate but are probably mistakes
func (c *Config) Warnings() []string {
	var warnings []string
	for _, rule := range warningRules {
		if rule.applies(c) {
			warnings = append(warnings, rule.message(c))
		}
	}
	return warnings
}

// IsProduction reports whether ENVIRONMENT names a production deployment
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Environment) {
	case "prod", "production":
		return true
	}
	return false
}
