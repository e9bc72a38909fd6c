package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestRefresh_Success(t *testing.T) {
	srv := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "client-id", r.Form.Get("client_id"))
		assert.Equal(t, "old-refresh", r.Form.Get("refresh_token"))
		w.Write([]byte(`{"access_token":"new-access","expires_in":3600}`))
	})

	creds := NewCredentials("old-access", "old-refresh")
	ts := NewTokenSource(srv.URL, "client-id", "client-secret", "", creds, 5*time.Second)

	res := ts.Refresh(context.Background())
	require.Equal(t, "success", res.Status)
	assert.Equal(t, 3600, res.ExpiresIn)
	assert.InDelta(t, 1.0, res.ExpiresInHours, 0.001)
	assert.False(t, res.Rotated)

	// El almacén compartido quedó actualizado para el gateway.
	assert.Equal(t, "new-access", creds.AccessToken())
}

func TestRefresh_RotatedTokenPersistedToEnv(t *testing.T) {
	srv := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"new-access","refresh_token":"rotated-refresh","expires_in":3600}`))
	})

	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("YAHOO_REFRESH_TOKEN=old-refresh\nOTHER=keep\n"), 0o600))

	creds := NewCredentials("old-access", "old-refresh")
	ts := NewTokenSource(srv.URL, "id", "secret", envPath, creds, 5*time.Second)

	res := ts.Refresh(context.Background())
	require.Equal(t, "success", res.Status)
	assert.True(t, res.Rotated)

	env, err := godotenv.Read(envPath)
	require.NoError(t, err)
	assert.Equal(t, "rotated-refresh", env["YAHOO_REFRESH_TOKEN"])
	assert.Equal(t, "keep", env["OTHER"])
}

func TestRefresh_UpstreamRejects(t *testing.T) {
	srv := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	creds := NewCredentials("a", "r")
	ts := NewTokenSource(srv.URL, "id", "secret", "", creds, 5*time.Second)

	res := ts.Refresh(context.Background())
	assert.Equal(t, "error", res.Status)
	assert.Contains(t, res.Message, "400")

	// La credencial previa no se toca en un refresh fallido.
	assert.Equal(t, "a", creds.AccessToken())
}

func TestRefresh_MissingCredentials(t *testing.T) {
	creds := NewCredentials("a", "")
	ts := NewTokenSource("http://unused", "", "", "", creds, time.Second)

	res := ts.Refresh(context.Background())
	assert.Equal(t, "error", res.Status)
	assert.Contains(t, res.Message, "missing credentials")
}

func TestRefresh_IdempotentUnderRetry(t *testing.T) {
	calls := 0
	srv := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"access_token":"access-v2","expires_in":3600}`))
	})

	creds := NewCredentials("a", "r")
	ts := NewTokenSource(srv.URL, "id", "secret", "", creds, 5*time.Second)

	// Dos refreshes seguidos son seguros: el segundo emite otro token válido.
	require.Equal(t, "success", ts.Refresh(context.Background()).Status)
	require.Equal(t, "success", ts.Refresh(context.Background()).Status)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "access-v2", creds.AccessToken())
}
