package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/rosterbot/internal/adapters/storage"
	"github.com/alejandrodnm/rosterbot/internal/domain"
)

func openRecorder(t *testing.T) *storage.Recorder {
	t.Helper()
	r, err := storage.NewRecorder(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func scoredPick(id, name, pos string, composite float64) domain.ScoredPlayer {
	return domain.ScoredPlayer{
		EnrichedPlayer: domain.EnrichedPlayer{
			Player: domain.Player{ID: id, Name: name, Positions: []string{pos}},
		},
		Composite: composite,
		Tier:      domain.TierSolid,
	}
}

func TestSaveLineupAndHistory(t *testing.T) {
	r := openRecorder(t)
	ctx := context.Background()

	result := domain.LineupResult{
		Strategy: "balanced",
		Starters: map[string]domain.ScoredPlayer{
			"QB":  scoredPick("461.p.1", "Josh Allen", "QB", 24.0),
			"RB1": scoredPick("461.p.2", "Bijan Robinson", "RB", 20.0),
		},
		Bench:           []domain.ScoredPlayer{scoredPick("461.p.3", "Chris Olave", "WR", 11.0)},
		Recommendations: []string{"nota"},
	}

	require.NoError(t, r.SaveLineup(ctx, "461.l.61410", 3, result))
	require.NoError(t, r.SaveLineup(ctx, "461.l.61410", 4, result))
	require.NoError(t, r.SaveLineup(ctx, "999.l.1", 3, result))

	history, err := r.LineupHistory(ctx, "461.l.61410", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Los titulares se serializan en orden de slot, con score.
	assert.Contains(t, history[0].Starters, "QB:Josh Allen(24.00)")
	assert.Contains(t, history[0].Starters, "RB1:Bijan Robinson(20.00)")
	assert.Equal(t, "balanced", history[0].Strategy)
}

func TestLineupHistoryLimit(t *testing.T) {
	r := openRecorder(t)
	ctx := context.Background()

	result := domain.LineupResult{Strategy: "balanced", Starters: map[string]domain.ScoredPlayer{}}
	for week := 1; week <= 5; week++ {
		require.NoError(t, r.SaveLineup(ctx, "461.l.61410", week, result))
	}

	history, err := r.LineupHistory(ctx, "461.l.61410", 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSaveDraftPicks(t *testing.T) {
	r := openRecorder(t)
	ctx := context.Background()

	picks := []domain.ScoredPlayer{
		scoredPick("461.p.10", "Chris Olave", "WR", 21.0),
		scoredPick("461.p.11", "Jaylen Warren", "RB", 18.0),
	}

	require.NoError(t, r.SaveDraftPicks(ctx, "461.l.61410", "aggressive", picks))

	// Un segundo run no colisiona con el primero.
	require.NoError(t, r.SaveDraftPicks(ctx, "461.l.61410", "aggressive", picks))

	// Sin picks no se escribe nada.
	require.NoError(t, r.SaveDraftPicks(ctx, "461.l.61410", "aggressive", nil))
}

func TestLineupHistoryEmptyLeague(t *testing.T) {
	r := openRecorder(t)

	history, err := r.LineupHistory(context.Background(), "461.l.61410", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}
