package yahoo

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_SlidingWindowBound(t *testing.T) {
	const (
		maxCalls = 3
		window   = 200 * time.Millisecond
		total    = 10
	)
	l := NewRateLimiter(maxCalls, window)

	var mu sync.Mutex
	var completions []time.Time

	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, l.Acquire(context.Background()))
			mu.Lock()
			completions = append(completions, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, completions, total)
	sort.Slice(completions, func(i, j int) bool { return completions[i].Before(completions[j]) })

	// Ninguna ventana deslizante puede contener más de maxCalls: la llamada
	// i+maxCalls tiene que quedar al menos una ventana después de la i.
	// Margen de 20ms por granularidad de timers.
	for i := 0; i+maxCalls < len(completions); i++ {
		gap := completions[i+maxCalls].Sub(completions[i])
		assert.GreaterOrEqual(t, gap, window-20*time.Millisecond,
			"call %d completed %v after call %d", i+maxCalls, gap, i)
	}
}

func TestRateLimiter_DoesNotBlockUnderLimit(t *testing.T) {
	l := NewRateLimiter(5, time.Minute)

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRateLimiter_ContextCancelledWhileWaiting(t *testing.T) {
	l := NewRateLimiter(1, time.Minute)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_Status(t *testing.T) {
	l := NewRateLimiter(10, time.Minute)

	st := l.Status()
	assert.Equal(t, 0, st.CallsUsed)
	assert.Equal(t, 10, st.CallsRemaining)
	assert.Equal(t, 60, st.WindowSeconds)

	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))

	st = l.Status()
	assert.Equal(t, 2, st.CallsUsed)
	assert.Equal(t, 8, st.CallsRemaining)
	assert.Greater(t, st.ResetInSecs, 0.0)
}

func TestRateLimiter_StatusPrunesExpired(t *testing.T) {
	l := NewRateLimiter(5, time.Minute)
	require.NoError(t, l.Acquire(context.Background()))

	// Avanzar el reloj más allá de la ventana: el timestamp sale del conteo.
	l.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	st := l.Status()
	assert.Equal(t, 0, st.CallsUsed)
	assert.Equal(t, 5, st.CallsRemaining)
}
