package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("W365LAB_TENANT_ID", "contoso.onmicrosoft.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "contoso.onmicrosoft.com", cfg.TenantID)
	assert.Equal(t, GraphPowerShellClientID, cfg.ClientID)
	assert.Equal(t, "graph.microsoft.com", cfg.GraphHost)
	assert.Equal(t, "US", cfg.UsageLocation)
	assert.Equal(t, "automatic", cfg.RegionName)
	assert.Equal(t, "Windows 365 Lab Users", cfg.LicenseGroupName)
	assert.Equal(t, DefaultScopes, cfg.Scopes)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("W365LAB_TENANT_ID", "  11111111-1111-1111-1111-111111111111  ")
	t.Setenv("W365LAB_CLIENT_ID", "my-app")
	t.Setenv("W365LAB_GRAPH_HOST", "https://graph.microsoft.us")
	t.Setenv("W365LAB_USAGE_LOCATION", "de")
	t.Setenv("W365LAB_SCOPES", "User.Read.All Group.Read.All")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", cfg.TenantID)
	assert.Equal(t, "my-app", cfg.ClientID)
	assert.Equal(t, "graph.microsoft.us", cfg.GraphHost, "scheme prefix is stripped")
	assert.Equal(t, "https://graph.microsoft.us", cfg.GraphURL())
	assert.Equal(t, "DE", cfg.UsageLocation)
	assert.Equal(t, []string{"User.Read.All", "Group.Read.All"}, cfg.Scopes)
}

func TestValidate(t *testing.T) {
	cfg := Config{TenantID: "contoso.onmicrosoft.com", UsageLocation: "US"}
	assert.NoError(t, cfg.Validate())

	missingTenant := Config{UsageLocation: "US"}
	assert.Error(t, missingTenant.Validate())

	badLocation := Config{TenantID: "contoso.onmicrosoft.com", UsageLocation: "USA"}
	assert.Error(t, badLocation.Validate())
}
