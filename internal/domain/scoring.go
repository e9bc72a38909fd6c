package domain

import (
	"math"

	"github.com/alejandrodnm/rosterbot/internal/domain/strategy"
)

const (
	// trendVolumeCap normaliza el volumen de adds a [0,1]: 5000 adds o más
	// en la ventana de trending satura el término de momentum.
	trendVolumeCap = 5000.0

	// injuryPenalty es la penalización fuerte para estados del set "out".
	// No excluye al jugador: el assigner puede necesitarlo si no hay
	// alternativa sana elegible para un slot.
	injuryPenalty = 20.0
)

// Umbrales de tier sobre el composite score.
const (
	tierEliteMin = 20.0
	tierSolidMin = 14.0
	tierFlexMin  = 8.0
)

// Composite calcula el score compuesto de un jugador bajo un perfil.
// Determinista: misma entrada y perfil producen bit a bit el mismo resultado
// (sin reloj, sin aleatoriedad, sin iteración de maps).
//
// Términos:
//
//	proj     = wProj×primaria + wSec×secundaria   (secundaria ausente → primaria)
//	matchup  = wMatchup × clamp(score, -1, 1)
//	trend    = wTrend × min(volumen/cap, 1)       (nunca negativo)
//	stability= -wStability × |primaria - secundaria|
//	injury   = -20 si el estado está en el set "out"
func Composite(e EnrichedPlayer, s strategy.Strategy) float64 {
	primary := e.PrimaryOrZero()

	secondary := primary
	if e.SecondaryProjection != nil {
		secondary = *e.SecondaryProjection
	}

	score := s.Projection*primary + s.Secondary*secondary

	if e.Matchup != nil {
		score += s.Matchup * clamp(e.Matchup.Score, -1, 1)
	}

	if e.TrendVolume != nil && *e.TrendVolume > 0 {
		score += s.Trend * math.Min(*e.TrendVolume/trendVolumeCap, 1)
	}

	score -= s.Stability * math.Abs(primary-secondary)

	if e.IsOut() {
		score -= injuryPenalty
	}

	return score
}

// Score aplica Composite y clasifica el tier del jugador.
func Score(e EnrichedPlayer, s strategy.Strategy) ScoredPlayer {
	composite := Composite(e, s)
	return ScoredPlayer{
		EnrichedPlayer: e,
		Composite:      composite,
		Tier:           tierFor(composite),
	}
}

// ScoreAll puntúa un snapshot completo preservando el orden de entrada.
func ScoreAll(players []EnrichedPlayer, s strategy.Strategy) []ScoredPlayer {
	out := make([]ScoredPlayer, 0, len(players))
	for _, e := range players {
		out = append(out, Score(e, s))
	}
	return out
}

// tierFor mapea un composite score a su tier.
func tierFor(score float64) Tier {
	switch {
	case score >= tierEliteMin:
		return TierElite
	case score >= tierSolidMin:
		return TierSolid
	case score >= tierFlexMin:
		return TierFlex
	default:
		return TierBench
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
