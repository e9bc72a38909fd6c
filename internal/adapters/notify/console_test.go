package notify_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/rosterbot/internal/adapters/notify"
	"github.com/alejandrodnm/rosterbot/internal/domain"
)

func starter(name, slotPos string, composite float64) domain.ScoredPlayer {
	return domain.ScoredPlayer{
		EnrichedPlayer: domain.EnrichedPlayer{
			Player: domain.Player{
				ID:        "461.p." + name,
				Name:      name,
				Team:      "MIN",
				Positions: []string{slotPos},
			},
		},
		Composite: composite,
		Tier:      domain.TierSolid,
	}
}

func TestConsole_NotifyLineup_Table(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	result := domain.LineupResult{
		Strategy: "balanced",
		Starters: map[string]domain.ScoredPlayer{
			"WR1": starter("Jefferson", "WR", 18.5),
			"QB":  starter("Allen", "QB", 24.0),
		},
		Bench:           []domain.ScoredPlayer{starter("Olave", "WR", 11.2)},
		Recommendations: []string{"consider swapping Olave in for Addison at WR2"},
	}

	err := n.NotifyLineup(context.Background(), result)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "balanced")
	assert.Contains(t, out, "Jefferson")
	assert.Contains(t, out, "Olave")
	assert.Contains(t, out, "consider swapping")
	// QB se imprime antes que WR1 con independencia del orden del map.
	assert.Less(t, strings.Index(out, "Allen"), strings.Index(out, "Jefferson"))
}

func TestConsole_NotifyLineup_Compact(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	result := domain.LineupResult{
		Strategy: "aggressive",
		Starters: map[string]domain.ScoredPlayer{"QB": starter("Allen", "QB", 24.0)},
	}

	err := n.NotifyLineup(context.Background(), result)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "aggressive")
	assert.Contains(t, out, "QB:Allen(24.0)")
	// Una sola línea en modo compacto.
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestConsole_NotifyDraft(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	err := n.NotifyDraft(context.Background(), []domain.ScoredPlayer{
		starter("Olave", "WR", 21.0),
		starter("Gibbs", "RB", 18.0),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Olave")
	assert.Contains(t, out, "21.00")
	assert.Less(t, strings.Index(out, "Olave"), strings.Index(out, "Gibbs"))
}

func TestConsole_NotifyDraft_Empty(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	err := n.NotifyDraft(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no draft candidates")
}

func TestConsole_NotifyStandings(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	err := n.NotifyStandings(context.Background(), []domain.TeamRecord{
		{Rank: 1, Team: "Los Galácticos", Wins: 9, Losses: 2, Ties: 1, PointsFor: 1204.5, PointsAgainst: 1010.2},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Los Galácticos")
	assert.Contains(t, out, "9-2-1")
	assert.Contains(t, out, "1204.5")
}

func TestConsole_PrintLeagues(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	n.PrintLeagues([]domain.League{
		{Key: "461.l.61410", Name: "Oficina", Season: 2025, NumTeams: 10, CurrentWeek: 3, ScoringType: "head"},
		{Key: "390.l.1", Name: "Vieja", Season: 2019, Finished: true},
	})

	out := buf.String()
	assert.Contains(t, out, "461.l.61410")
	assert.Contains(t, out, "Oficina")
	assert.Contains(t, out, "final")
}

func TestConsole_PrintRoster_InjuryAndBye(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	n.PrintRoster([]domain.Player{
		{Name: "Joe Burrow", Team: "CIN", Positions: []string{"QB"}, Injury: domain.InjuryIR, ByeWeek: 12, OwnedPct: 99.1},
		{Name: "Jake Moody", Team: "SF", Positions: []string{"K"}},
	})

	out := buf.String()
	assert.Contains(t, out, "IR")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "OK")
}
