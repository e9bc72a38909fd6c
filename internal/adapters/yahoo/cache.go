package yahoo

// cache.go — memoización corta de respuestas del upstream.
//
// TTL corto (minutos): los datos de fantasy cambian entre semanas pero no
// entre dos llamadas consecutivas de la misma conversación. La eviction es
// lazy en el lookup; un Get nunca devuelve una entrada más vieja que su TTL.

import (
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	payload  []byte
	storedAt time.Time
	ttl      time.Duration
}

func (e cacheEntry) expired(now time.Time) bool {
	return now.Sub(e.storedAt) > e.ttl
}

// ResponseCache es un cache en memoria keyed por endpoint.
// Estado process-wide: una sola instancia construida en el arranque e
// inyectada; no hay persistencia entre ejecuciones.
type ResponseCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	defaultTTL time.Duration
	hits       uint64
	misses     uint64
	now        func() time.Time
}

// CacheStats es el resumen no bloqueante del estado del cache.
type CacheStats struct {
	Entries     int     `json:"entries"`
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	HitRate     float64 `json:"hit_rate"`
	ApproxBytes int     `json:"approx_bytes"`
}

// NewResponseCache crea un cache con el TTL por defecto dado.
func NewResponseCache(defaultTTL time.Duration) *ResponseCache {
	return &ResponseCache{
		entries:    make(map[string]cacheEntry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get devuelve el payload cacheado si existe y no expiró. El segundo valor
// es el señalizador de miss; las entradas vencidas se evictan aquí.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if entry.expired(c.now()) {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}
	c.hits++
	return entry.payload, true
}

// Set almacena payload con el TTL por defecto, sobreescribiendo cualquier
// entrada previa para la misma key.
func (c *ResponseCache) Set(key string, payload []byte) {
	c.SetTTL(key, payload, c.defaultTTL)
}

// SetTTL almacena payload con un TTL explícito.
func (c *ResponseCache) SetTTL(key string, payload []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{payload: payload, storedAt: c.now(), ttl: ttl}
}

// Clear elimina las entradas cuya key contiene pattern como substring, o
// todas si pattern es vacío. Devuelve cuántas se eliminaron.
func (c *ResponseCache) Clear(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pattern == "" {
		n := len(c.entries)
		c.entries = make(map[string]cacheEntry)
		return n
	}

	n := 0
	for key := range c.entries {
		if strings.Contains(key, pattern) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// Stats devuelve contadores desde el arranque y una estimación de memoria
// (keys + payloads; el overhead del map no se cuenta).
func (c *ResponseCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	bytes := 0
	for key, entry := range c.entries {
		bytes += len(key) + len(entry.payload)
	}

	st := CacheStats{
		Entries:     len(c.entries),
		Hits:        c.hits,
		Misses:      c.misses,
		ApproxBytes: bytes,
	}
	if total := c.hits + c.misses; total > 0 {
		st.HitRate = float64(c.hits) / float64(total)
	}
	return st
}
