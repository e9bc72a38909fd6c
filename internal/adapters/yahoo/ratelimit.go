package yahoo

// ratelimit.go — sliding window limiter para la API de Yahoo.
//
// Yahoo corta a ~20 req/min por token, así que el límite se mide sobre una
// ventana deslizante real, no sobre un token bucket: ningún intervalo de
// `window` puede observar más de `max` llamadas completadas. Los callers se
// suspenden (goroutine parked, sin consumir thread) y se liberan en orden de
// llegada: los senders bloqueados sobre el canal forman una cola FIFO en el
// runtime.

import (
	"context"
	"sync"
	"time"
)

// RateLimiter limita las llamadas salientes a max por ventana deslizante.
type RateLimiter struct {
	max    int
	window time.Duration

	// slots es el semáforo: un hueco ocupado por llamada, liberado `window`
	// después de adquirirlo.
	slots chan struct{}

	mu    sync.Mutex
	calls []time.Time // timestamps dentro de la ventana, para Status
	now   func() time.Time
}

// RateStatus es el estado del limiter en un instante, sin efectos secundarios.
type RateStatus struct {
	CallsUsed      int           `json:"calls_used"`
	CallsRemaining int           `json:"calls_remaining"`
	MaxCalls       int           `json:"max_calls"`
	Window         time.Duration `json:"-"`
	WindowSeconds  int           `json:"window_seconds"`
	ResetIn        time.Duration `json:"-"`
	ResetInSecs    float64       `json:"reset_in_seconds"`
}

// NewRateLimiter crea un limiter de max llamadas por window.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	if max <= 0 {
		max = 1
	}
	return &RateLimiter{
		max:    max,
		window: window,
		slots:  make(chan struct{}, max),
		now:    time.Now,
	}
}

// Acquire suspende al caller hasta que emitir una llamada más no exceda el
// presupuesto, registra el timestamp y devuelve. Solo falla si el contexto se
// cancela durante la espera; la presión de cuota pura nunca devuelve error.
func (l *RateLimiter) Acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	l.mu.Lock()
	now := l.now()
	l.prune(now)
	l.calls = append(l.calls, now)
	l.mu.Unlock()

	// El hueco se libera exactamente una ventana después de la adquisición:
	// eso garantiza el límite sobre cualquier intervalo deslizante.
	time.AfterFunc(l.window, func() { <-l.slots })

	return nil
}

// Status devuelve el uso actual de la ventana. No bloquea ni modifica nada
// más allá del prune de timestamps vencidos.
func (l *RateLimiter) Status() RateStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	st := RateStatus{
		CallsUsed:      len(l.calls),
		CallsRemaining: l.max - len(l.calls),
		MaxCalls:       l.max,
		Window:         l.window,
		WindowSeconds:  int(l.window / time.Second),
	}
	if len(l.calls) > 0 {
		st.ResetIn = l.calls[0].Add(l.window).Sub(now)
		if st.ResetIn < 0 {
			st.ResetIn = 0
		}
		st.ResetInSecs = st.ResetIn.Seconds()
	}
	return st
}

// prune descarta timestamps que ya salieron de la ventana. Caller sostiene mu.
func (l *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.calls) && !l.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.calls = append(l.calls[:0], l.calls[i:]...)
	}
}
