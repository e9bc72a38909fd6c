package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/rosterbot/internal/domain"
)

func TestRecommendBoostsScarcePosition(t *testing.T) {
	// Roster con los RB cubiertos y cero WR: un WR mediano debe superar a un
	// RB con composite bruto más alto.
	roster := []domain.Player{
		{ID: "461.p.r1", Name: "McCaffrey", Positions: []string{"RB"}},
		{ID: "461.p.r2", Name: "Robinson", Positions: []string{"RB"}},
	}
	available := []domain.ScoredPlayer{
		scored("Gibbs", 18, "RB"),
		scored("Olave", 14, "WR"),
	}

	picks := Recommend(available, roster, 5)
	require.Len(t, picks, 2)

	// Olave: 14 × 1.5 = 21 > Gibbs: 18 × 1.
	assert.Equal(t, "Olave", picks[0].Name)
	assert.InDelta(t, 21.0, picks[0].Composite, 1e-9)
	assert.Equal(t, "Gibbs", picks[1].Name)
	assert.InDelta(t, 18.0, picks[1].Composite, 1e-9)
}

func TestRecommendPartialNeedScalesBoost(t *testing.T) {
	// Un RB rostered de dos objetivo: boost intermedio 1.25.
	roster := []domain.Player{
		{ID: "461.p.r1", Name: "McCaffrey", Positions: []string{"RB"}},
	}
	available := []domain.ScoredPlayer{scored("Gibbs", 16, "RB")}

	picks := Recommend(available, roster, 1)
	require.Len(t, picks, 1)
	assert.InDelta(t, 20.0, picks[0].Composite, 1e-9)
}

func TestRecommendNeverReturnsRosteredPlayers(t *testing.T) {
	mine := scored("Jefferson", 25, "WR")
	roster := []domain.Player{mine.Player}
	available := []domain.ScoredPlayer{
		mine,
		scored("Chase", 20, "WR"),
	}

	picks := Recommend(available, roster, 10)
	require.Len(t, picks, 1)
	assert.Equal(t, "Chase", picks[0].Name)
}

func TestRecommendCapsAtN(t *testing.T) {
	available := []domain.ScoredPlayer{
		scored("Chase", 20, "WR"),
		scored("Olave", 14, "WR"),
		scored("Gibbs", 12, "RB"),
	}

	picks := Recommend(available, nil, 2)
	require.Len(t, picks, 2)
	assert.Equal(t, "Chase", picks[0].Name)

	assert.Empty(t, Recommend(available, nil, 0))
}

func TestRecommendUnknownPositionNoBoost(t *testing.T) {
	available := []domain.ScoredPlayer{scored("Mystery", 10)}

	picks := Recommend(available, nil, 1)
	require.Len(t, picks, 1)
	assert.InDelta(t, 10.0, picks[0].Composite, 1e-9)
}
