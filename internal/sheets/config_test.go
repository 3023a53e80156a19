package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	valid := func(mutate func(*Config)) Config {
		c := DefaultConfig()
		mutate(&c)
		return c
	}

	tests := []struct {
		name    string
		errMsg  string
		config  Config
		wantErr bool
	}{
		{
			name: "oauth with refresh token",
			config: valid(func(c *Config) {
				c.ClientID, c.ClientSecret, c.RefreshToken = "id", "secret", "token"
			}),
		},
		{
			name: "oauth with token file",
			config: valid(func(c *Config) {
				c.ClientID, c.ClientSecret, c.TokenFile = "id", "secret", "/tmp/token.json"
			}),
		},
		{
			name:   "service account",
			config: valid(func(c *Config) { c.ServiceAccountPath = "/path/to/key.json" }),
		},
		{
			name:    "missing auth",
			config:  DefaultConfig(),
			wantErr: true,
			errMsg:  "no authentication method configured",
		},
		{
			name: "partial oauth credentials",
			config: valid(func(c *Config) {
				c.ClientID, c.RefreshToken = "id", "token"
			}),
			wantErr: true,
			errMsg:  "no authentication method configured",
		},
		{
			name: "multiple auth methods",
			config: valid(func(c *Config) {
				c.ClientID, c.ClientSecret, c.RefreshToken = "id", "secret", "token"
				c.ServiceAccountPath = "/path/to/key.json"
			}),
			wantErr: true,
			errMsg:  "multiple authentication methods",
		},
		{
			name: "empty sheet title",
			config: valid(func(c *Config) {
				c.ServiceAccountPath = "/k.json"
				c.SheetTitle = ""
			}),
			wantErr: true,
			errMsg:  "sheet title",
		},
		{
			name: "zero batch size",
			config: valid(func(c *Config) {
				c.ServiceAccountPath = "/k.json"
				c.BatchSize = 0
			}),
			wantErr: true,
			errMsg:  "batch size must be positive",
		},
		{
			name: "negative retry delay",
			config: valid(func(c *Config) {
				c.ServiceAccountPath = "/k.json"
				c.RetryDelay = -time.Second
			}),
			wantErr: true,
			errMsg:  "retry delay cannot be negative",
		},
		{
			name: "zero retries is valid",
			config: valid(func(c *Config) {
				c.ServiceAccountPath = "/k.json"
				c.RetryAttempts = 0
				c.RetryDelay = 0
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "env-id")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "env-secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "env-token")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "env-sheet")
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "")

	c := DefaultConfig()
	c.SpreadsheetID = "explicit"
	c.LoadFromEnv()

	assert.Equal(t, "env-id", c.ClientID)
	assert.Equal(t, "env-secret", c.ClientSecret)
	assert.Equal(t, "env-token", c.RefreshToken)
	assert.Equal(t, "explicit", c.SpreadsheetID, "explicit values win over the environment")
	assert.True(t, c.HasOAuth())
	assert.NoError(t, c.Validate())
}
