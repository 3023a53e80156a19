package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "at", RefreshToken: "rt", TokenType: "Bearer"}

	require.NoError(t, SaveToken(path, token))

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "rt", loaded.RefreshToken)
	assert.Equal(t, "at", loaded.AccessToken)

	_, err = LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenServer.Close()

	tokenFile := filepath.Join(t.TempDir(), "token.json")
	cfg := LoginConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		TokenFile:    tokenFile,
		ListenAddr:   "127.0.0.1:0",
		Timeout:      10 * time.Second,
		Endpoint: &oauth2.Endpoint{
			AuthURL:   tokenServer.URL + "/auth",
			TokenURL:  tokenServer.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	var consentURL string
	token, err := Login(context.Background(), cfg, func(authURL string) {
		consentURL = authURL
		u, err := url.Parse(authURL)
		if err != nil {
			return
		}
		q := u.Query()
		callback := q.Get("redirect_uri") + "?code=the-code&state=" + url.QueryEscape(q.Get("state"))
		go func() {
			resp, err := http.Get(callback) //nolint:noctx // test helper
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
	})
	require.NoError(t, err)
	assert.Equal(t, "rt", token.RefreshToken)
	assert.Contains(t, consentURL, "access_type=offline")

	saved, err := LoadToken(tokenFile)
	require.NoError(t, err)
	assert.Equal(t, "rt", saved.RefreshToken)
}

func TestLogin_StateMismatch(t *testing.T) {
	cfg := LoginConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		ListenAddr:   "127.0.0.1:0",
		Timeout:      10 * time.Second,
	}

	_, err := Login(context.Background(), cfg, func(authURL string) {
		u, _ := url.Parse(authURL)
		callback := u.Query().Get("redirect_uri") + "?code=x&state=forged"
		go func() {
			resp, err := http.Get(callback) //nolint:noctx // test helper
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}

func TestLogin_RequiresClient(t *testing.T) {
	_, err := Login(context.Background(), LoginConfig{}, func(string) {})
	assert.Error(t, err)
}
