package yahoo

// client.go — access gateway a la API de fantasy de Yahoo.
//
// Único choke point de lecturas upstream: ningún componente lo puentea.
// Orden por llamada: cache lookup → rate limit → request → en 401 un único
// refresh-and-retry → cache store. El gateway es dueño exclusivo del cache y
// del rate limiter (una instancia por proceso, inyectada desde main).

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

const defaultBase = "https://fantasysports.yahooapis.com/fantasy/v2"

// Options agrupa el tuning del gateway.
type Options struct {
	MaxCalls   int           // llamadas por ventana del rate limiter
	RateWindow time.Duration
	CacheTTL   time.Duration // TTL por defecto del cache de respuestas
	Timeout    time.Duration // timeout por request saliente
	UserGUID   string        // GUID del usuario para localizar su equipo
}

// Client es el gateway HTTP con rate limiting, cache y refresh de token.
type Client struct {
	httpc    *http.Client
	base     string
	limiter  *RateLimiter
	cache    *ResponseCache
	tokens   *TokenSource
	creds    *Credentials
	userGUID string
}

// NewClient crea el gateway. Si base está vacío usa el URL de producción.
func NewClient(base string, opts Options, creds *Credentials, tokens *TokenSource) *Client {
	if base == "" {
		base = defaultBase
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Client{
		httpc:    &http.Client{Timeout: opts.Timeout},
		base:     strings.TrimRight(base, "/"),
		limiter:  NewRateLimiter(opts.MaxCalls, opts.RateWindow),
		cache:    NewResponseCache(opts.CacheTTL),
		tokens:   tokens,
		creds:    creds,
		userGUID: opts.UserGUID,
	}
}

// Get hace una lectura upstream con cache.
func (c *Client) Get(ctx context.Context, endpoint string) ([]byte, error) {
	return c.call(ctx, endpoint, true, true)
}

// GetNoCache hace una lectura upstream saltándose el cache (lectura y escritura).
func (c *Client) GetNoCache(ctx context.Context, endpoint string) ([]byte, error) {
	return c.call(ctx, endpoint, false, true)
}

// call implementa el flujo completo del gateway. retryOnAuthFail limita el
// ciclo refresh-retry a una vez por llamada lógica, por muchos 401 que
// devuelva el upstream.
func (c *Client) call(ctx context.Context, endpoint string, useCache, retryOnAuthFail bool) ([]byte, error) {
	if useCache {
		if payload, ok := c.cache.Get(endpoint); ok {
			return payload, nil
		}
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/%s?format=json", c.base, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.creds.AccessToken())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{Endpoint: endpoint, Err: err}
		}
		return nil, fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if useCache {
			c.cache.Set(endpoint, body)
		}
		return body, nil

	case resp.StatusCode == http.StatusUnauthorized && retryOnAuthFail:
		slog.Debug("access token rejected, refreshing", "endpoint", endpoint)
		if res := c.tokens.Refresh(ctx); res.Success() {
			// Token nuevo: reintentar la misma llamada una única vez.
			return c.call(ctx, endpoint, useCache, false)
		}
		return nil, &AuthError{Body: truncateBody(body)}

	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &AuthError{Body: truncateBody(body)}

	default:
		return nil, &APIError{Status: resp.StatusCode, Body: truncateBody(body)}
	}
}

// Status agrega el estado del limiter y del cache para la superficie de
// diagnóstico (api-status).
type Status struct {
	RateLimit RateStatus `json:"rate_limit"`
	Cache     CacheStats `json:"cache"`
}

// Status devuelve el estado del gateway. No bloquea.
func (c *Client) Status() Status {
	return Status{RateLimit: c.limiter.Status(), Cache: c.cache.Stats()}
}

// ClearCache invalida entradas por substring del endpoint (vacío = todas).
func (c *Client) ClearCache(pattern string) int {
	return c.cache.Clear(pattern)
}

// isTimeout distingue los timeouts (transitorios) del resto de errores de red.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
