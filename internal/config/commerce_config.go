package config

import (
	"strings"

	"github.com/rs/zerolog"
)

// CommerceConfig is the configuration surface of the commerce platform
// connection: one project, one OAuth client.
type CommerceConfig interface {
	GetProjectKey() string
	GetClientID() string
	GetClientSecret() string
	GetAPIURL() string
	GetAuthURL() string
	GetScopes() []string
}

type Commerce struct{}

var _ CommerceConfig = Commerce{}

func (Commerce) GetProjectKey() string {
	return GetEnv("CTP_PROJECT_KEY", "")
}

func (Commerce) GetClientID() string {
	return GetEnv("CTP_CLIENT_ID", "")
}

func (Commerce) GetClientSecret() string {
	return GetEnv("CTP_CLIENT_SECRET", "")
}

func (Commerce) GetAPIURL() string {
	return GetEnv("CTP_API_URL", "https://api.europe-west1.gcp.commercetools.com")
}

func (Commerce) GetAuthURL() string {
	return GetEnv("CTP_AUTH_URL", "https://auth.europe-west1.gcp.commercetools.com")
}

// GetScopes returns the space-delimited CTP_SCOPES list.
func (Commerce) GetScopes() []string {
	return strings.Fields(GetEnv("CTP_SCOPES", ""))
}

// Validate logs an error naming every missing commerce setting. Incomplete
// configuration is reported, not fatal: the process may still serve flows
// that do not reach the platform.
func Validate(c CommerceConfig, log zerolog.Logger) {
	var missing []string
	if c.GetProjectKey() == "" {
		missing = append(missing, "CTP_PROJECT_KEY")
	}
	if c.GetClientID() == "" {
		missing = append(missing, "CTP_CLIENT_ID")
	}
	if c.GetClientSecret() == "" {
		missing = append(missing, "CTP_CLIENT_SECRET")
	}
	if len(c.GetScopes()) == 0 {
		missing = append(missing, "CTP_SCOPES")
	}
	if len(missing) > 0 {
		log.Error().Strs("missing", missing).Msg("incomplete commerce configuration")
	}
}
