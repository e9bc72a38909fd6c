package advisor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/rosterbot/internal/domain"
	"github.com/alejandrodnm/rosterbot/internal/domain/strategy"
)

// scored construye un jugador puntuado con el mínimo de campos que usa el
// assigner.
func scored(name string, composite float64, positions ...string) domain.ScoredPlayer {
	return domain.ScoredPlayer{
		EnrichedPlayer: domain.EnrichedPlayer{
			Player: domain.Player{
				ID:        "461.p." + name,
				Name:      name,
				Positions: positions,
			},
		},
		Composite: composite,
	}
}

func flexSlots() []domain.RosterSlot {
	return []domain.RosterSlot{
		{Label: "QB", Eligible: []string{"QB"}},
		{Label: "RB1", Eligible: []string{"RB"}},
		{Label: "RB2", Eligible: []string{"RB"}},
		{Label: "WR1", Eligible: []string{"WR"}},
		{Label: "WR2", Eligible: []string{"WR"}},
		{Label: "TE", Eligible: []string{"TE"}},
		{Label: "FLEX", Eligible: []string{"RB", "WR", "TE"}},
	}
}

func TestOptimizeFillsEverySlot(t *testing.T) {
	players := []domain.ScoredPlayer{
		scored("Allen", 24, "QB"),
		scored("McCaffrey", 22, "RB"),
		scored("Robinson", 20, "RB"),
		scored("Gibbs", 15, "RB"),
		scored("Jefferson", 21, "WR"),
		scored("Chase", 19, "WR"),
		scored("Olave", 12, "WR"),
		scored("Kelce", 16, "TE"),
		scored("LaPorta", 10, "TE"),
	}

	result := Optimize(players, flexSlots(), strategy.Balanced)

	require.Len(t, result.Starters, 7)
	assert.Equal(t, "Allen", result.Starters["QB"].Name)
	assert.Equal(t, "McCaffrey", result.Starters["RB1"].Name)
	assert.Equal(t, "Robinson", result.Starters["RB2"].Name)
	assert.Equal(t, "Jefferson", result.Starters["WR1"].Name)
	assert.Equal(t, "Chase", result.Starters["WR2"].Name)
	assert.Equal(t, "Kelce", result.Starters["TE"].Name)
	// El FLEX recibe al mejor RB/WR/TE que quedó libre.
	assert.Equal(t, "Gibbs", result.Starters["FLEX"].Name)

	require.Len(t, result.Bench, 2)
	assert.Equal(t, "Olave", result.Bench[0].Name)
	assert.Equal(t, "LaPorta", result.Bench[1].Name)
	assert.Equal(t, "balanced", result.Strategy)
}

func TestOptimizeConstrainedSlotsFirst(t *testing.T) {
	// El único TE vale más que todos: si el FLEX se asignara primero se lo
	// llevaría y el slot TE quedaría vacío.
	players := []domain.ScoredPlayer{
		scored("Kelce", 25, "TE"),
		scored("Gibbs", 20, "RB"),
	}
	slots := []domain.RosterSlot{
		{Label: "FLEX", Eligible: []string{"RB", "WR", "TE"}},
		{Label: "TE", Eligible: []string{"TE"}},
	}

	result := Optimize(players, slots, strategy.Balanced)

	assert.Equal(t, "Kelce", result.Starters["TE"].Name)
	assert.Equal(t, "Gibbs", result.Starters["FLEX"].Name)
}

func TestOptimizeUnfillableSlotLeftEmptyWithNote(t *testing.T) {
	players := []domain.ScoredPlayer{scored("Allen", 24, "QB")}
	slots := []domain.RosterSlot{
		{Label: "QB", Eligible: []string{"QB"}},
		{Label: "K", Eligible: []string{"K"}},
	}

	result := Optimize(players, slots, strategy.Balanced)

	_, ok := result.Starters["K"]
	assert.False(t, ok)
	require.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[0], "K")
	assert.Contains(t, result.Recommendations[0], "slot left empty")
}

func TestOptimizeTieBreaks(t *testing.T) {
	proj := 14.0
	a := scored("Adams", 18, "WR")
	b := scored("Brown", 18, "WR")
	b.PrimaryProjection = &proj

	slots := []domain.RosterSlot{{Label: "WR1", Eligible: []string{"WR"}}}

	// Mismo composite: gana la proyección primaria más alta.
	result := Optimize([]domain.ScoredPlayer{a, b}, slots, strategy.Balanced)
	assert.Equal(t, "Brown", result.Starters["WR1"].Name)

	// Sin proyecciones, desempata el nombre.
	b.PrimaryProjection = nil
	result = Optimize([]domain.ScoredPlayer{b, a}, slots, strategy.Balanced)
	assert.Equal(t, "Adams", result.Starters["WR1"].Name)
}

func TestOptimizeInjuredStarterFlagged(t *testing.T) {
	hurt := scored("Burrow", 4, "QB")
	hurt.Injury = domain.InjuryOut

	slots := []domain.RosterSlot{{Label: "QB", Eligible: []string{"QB"}}}
	result := Optimize([]domain.ScoredPlayer{hurt}, slots, strategy.Balanced)

	// Penalizado pero nunca excluido: sin alternativa, titulariza igual.
	assert.Equal(t, "Burrow", result.Starters["QB"].Name)
	require.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[0], "Burrow")
}

func TestOptimizeDeterministic(t *testing.T) {
	players := []domain.ScoredPlayer{
		scored("Allen", 24, "QB"),
		scored("McCaffrey", 22, "RB"),
		scored("Jefferson", 21, "WR"),
		scored("Kelce", 16, "TE"),
		scored("Gibbs", 15, "RB"),
	}

	first := Optimize(players, flexSlots(), strategy.Aggressive)
	for i := 0; i < 50; i++ {
		again := Optimize(players, flexSlots(), strategy.Aggressive)
		require.Equal(t, first, again, fmt.Sprintf("iteration %d diverged", i))
	}
}
