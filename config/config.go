// Package config loads tool configuration from the environment, optionally
// seeded from a .env file. All variables carry the W365LAB_ prefix, e.g.
// W365LAB_TENANT_ID. Cobra flags may override individual values after load.
package config

import (
	"fmt"
	"strings"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// GraphPowerShellClientID is the well-known public client used for the
// device-code fallback when no app registration is configured.
const GraphPowerShellClientID = "14d82eec-204b-4c2f-b7e8-296a70dab67e"

// DefaultScopes is the delegated scope set requested on device-code sign-in:
// directory read/write plus Cloud PC device management.
var DefaultScopes = []string{
	"User.ReadWrite.All",
	"Group.ReadWrite.All",
	"Directory.ReadWrite.All",
	"CloudPC.ReadWrite.All",
}

type Config struct {
	// TenantID is the Azure AD tenant GUID or domain. Required.
	TenantID string `env:"TENANT_ID"`

	// ClientID identifies the app registration. Defaults to the public
	// Microsoft Graph PowerShell client, which is sufficient for the
	// device-code flow.
	ClientID string `env:"CLIENT_ID"`

	// ClientSecret enables the non-interactive client-credentials flow.
	ClientSecret string `env:"CLIENT_SECRET,unset"`

	// UseDeviceCode forces the device-code flow even when a secret is set.
	UseDeviceCode bool `env:"DEVICE_CODE" envDefault:"false"`

	// GraphHost allows pointing at a sovereign cloud Graph endpoint.
	GraphHost string `env:"GRAPH_HOST" envDefault:"graph.microsoft.com"`

	// Scopes overrides the delegated scopes requested on device-code sign-in.
	Scopes []string `env:"SCOPES" envSeparator:" "`

	// DefaultDomain skips the tenant default-domain lookup when set.
	DefaultDomain string `env:"DEFAULT_DOMAIN"`

	// UsageLocation is the two-letter ISO country code stamped on new users
	// so licenses can be assigned.
	UsageLocation string `env:"USAGE_LOCATION" envDefault:"US"`

	// RegionName is the Microsoft-hosted network region used when a policy
	// is created without an explicit domain-join configuration.
	RegionName string `env:"REGION_NAME" envDefault:"automatic"`

	// LicenseGroupName is the well-known group new lab users join so group
	// based licensing applies, and the fallback policy assignment target.
	LicenseGroupName string `env:"LICENSE_GROUP" envDefault:"Windows 365 Lab Users"`

	// RoleGroupName, when set, is a second group every new lab user joins.
	RoleGroupName string `env:"ROLE_GROUP"`

	// FixedPassword, when set, is used for every created user instead of a
	// per-user random password.
	FixedPassword string `env:"FIXED_PASSWORD,unset"`

	// LogJSON emits structured JSON logs instead of console output.
	LogJSON bool `env:"LOG_JSON" envDefault:"false"`
}

// Load reads a .env file when present (missing files are not an error) and
// parses W365LAB_* environment variables.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "W365LAB_"}); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails and defaults that cannot be expressed as
// struct tags.
func (c *Config) Sanitize() {
	c.TenantID = strings.TrimSpace(c.TenantID)
	c.GraphHost = strings.TrimPrefix(strings.TrimSpace(c.GraphHost), "https://")
	c.UsageLocation = strings.ToUpper(strings.TrimSpace(c.UsageLocation))
	if c.ClientID == "" {
		c.ClientID = GraphPowerShellClientID
	}
	if len(c.Scopes) == 0 {
		c.Scopes = append([]string(nil), DefaultScopes...)
	}
}

// GraphURL is the base URL of the Graph endpoint, without a trailing slash.
func (c Config) GraphURL() string {
	return "https://" + c.GraphHost
}

// Validate checks the fields every remote operation depends on.
func (c Config) Validate() error {
	if c.TenantID == "" {
		return fmt.Errorf("tenant id is required: set W365LAB_TENANT_ID or pass --tenant")
	}
	if len(c.UsageLocation) != 2 {
		return fmt.Errorf("usage location must be a two-letter ISO country code, got %q", c.UsageLocation)
	}
	return nil
}
