package ports

import (
	"context"

	"github.com/alejandrodnm/rosterbot/internal/domain"
)

// Signal agrupa las señales opcionales de una fuente secundaria para un
// jugador. Campos nil = la fuente no devolvió ese dato; el aggregator
// preserva la distinción entre ausencia y cero.
type Signal struct {
	Projection  *float64
	Matchup     *domain.Matchup
	TrendVolume *float64
}

// SignalSource es una fuente de enriquecimiento secundaria (proyecciones,
// matchups, trending). Su ausencia o fallo nunca tumba el pipeline: el
// aggregator degrada a datos primarios.
type SignalSource interface {
	// Name identifica la fuente en logs y recomendaciones.
	Name() string

	// Signals devuelve señales indexadas por domain.MatchKey para los
	// jugadores dados. Un jugador sin entrada queda sin enriquecer.
	Signals(ctx context.Context, week int, players []domain.Player) (map[string]Signal, error)
}
