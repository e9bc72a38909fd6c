package yahoo

// token.go — refresh del access token OAuth2 de Yahoo.
//
// El access token dura ~1h; el refresh token es de larga vida pero Yahoo
// puede rotarlo en cualquier intercambio. Refresh nunca devuelve error de Go:
// el resultado es estructurado y los callers ramifican sobre Status, igual
// que hace el gateway en el retry de 401.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Credentials guarda el par de tokens vigente, compartido entre el gateway y
// el refresher. Las lecturas son lock-cortas: nunca se sostiene el lock
// durante una llamada de red.
type Credentials struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// NewCredentials crea el almacén con los tokens iniciales del entorno.
func NewCredentials(accessToken, refreshToken string) *Credentials {
	return &Credentials{accessToken: accessToken, refreshToken: refreshToken}
}

// AccessToken devuelve el access token vigente.
func (c *Credentials) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// update intercambia el par de tokens de forma atómica.
func (c *Credentials) update(access, refresh string, expiresIn int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	c.refreshToken = refresh
	c.expiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
}

func (c *Credentials) currentRefresh() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshToken
}

// RefreshResult es el resultado estructurado de un intento de refresh.
type RefreshResult struct {
	Status         string  `json:"status"` // "success" | "error"
	Message        string  `json:"message"`
	ExpiresIn      int     `json:"expires_in,omitempty"`
	ExpiresInHours float64 `json:"expires_in_hours,omitempty"`
	Rotated        bool    `json:"refresh_token_rotated,omitempty"`
}

// Success devuelve true si el refresh emitió un token nuevo.
func (r RefreshResult) Success() bool { return r.Status == "success" }

// TokenSource intercambia el refresh token por access tokens nuevos contra el
// endpoint de OAuth2.
type TokenSource struct {
	httpc        *http.Client
	tokenURL     string
	clientID     string
	clientSecret string
	creds        *Credentials
	envPath      string // .env donde persistir un refresh token rotado; "" = no persistir
}

// NewTokenSource crea el refresher. creds es el almacén compartido que el
// gateway usa para firmar requests.
func NewTokenSource(tokenURL, clientID, clientSecret, envPath string, creds *Credentials, timeout time.Duration) *TokenSource {
	return &TokenSource{
		httpc:        &http.Client{Timeout: timeout},
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		creds:        creds,
		envPath:      envPath,
	}
}

// tokenResponse es la respuesta JSON del endpoint de intercambio.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Refresh intercambia el refresh token por un access token nuevo y actualiza
// el almacén compartido. Idempotente bajo retry: dos refreshes seguidos
// simplemente emiten dos tokens válidos.
func (t *TokenSource) Refresh(ctx context.Context) RefreshResult {
	oldRefresh := t.creds.currentRefresh()

	if t.clientID == "" || t.clientSecret == "" || oldRefresh == "" {
		return RefreshResult{Status: "error", Message: "missing credentials in environment"}
	}

	form := url.Values{
		"client_id":     {t.clientID},
		"client_secret": {t.clientSecret},
		"refresh_token": {oldRefresh},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return RefreshResult{Status: "error", Message: fmt.Sprintf("build refresh request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpc.Do(req)
	if err != nil {
		return RefreshResult{Status: "error", Message: fmt.Sprintf("error refreshing token: %v", err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return RefreshResult{
			Status:  "error",
			Message: fmt.Sprintf("failed to refresh token: %d: %s", resp.StatusCode, truncateBody(body)),
		}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return RefreshResult{Status: "error", Message: fmt.Sprintf("parse token response: %v", err)}
	}
	if tr.AccessToken == "" {
		return RefreshResult{Status: "error", Message: "token response without access_token"}
	}

	if tr.ExpiresIn == 0 {
		tr.ExpiresIn = 3600
	}
	newRefresh := tr.RefreshToken
	if newRefresh == "" {
		newRefresh = oldRefresh
	}
	rotated := newRefresh != oldRefresh

	t.creds.update(tr.AccessToken, newRefresh, tr.ExpiresIn)

	if rotated {
		t.persistRotated(newRefresh)
	}

	slog.Info("yahoo token refreshed", "expires_in", tr.ExpiresIn, "rotated", rotated)

	return RefreshResult{
		Status:         "success",
		Message:        "token refreshed successfully",
		ExpiresIn:      tr.ExpiresIn,
		ExpiresInHours: float64(tr.ExpiresIn) / 3600,
		Rotated:        rotated,
	}
}

// persistRotated reescribe el .env con el refresh token rotado para que la
// próxima ejecución arranque con la credencial vigente. Un fallo aquí no
// invalida el refresh: el token nuevo ya está en memoria.
func (t *TokenSource) persistRotated(newRefresh string) {
	if t.envPath == "" {
		return
	}

	env, err := godotenv.Read(t.envPath)
	if err != nil {
		env = map[string]string{}
	}
	env["YAHOO_REFRESH_TOKEN"] = newRefresh

	if err := godotenv.Write(env, t.envPath); err != nil {
		slog.Warn("could not persist rotated refresh token", "path", t.envPath, "err", err)
	}
}
