package ports

import (
	"context"

	"github.com/alejandrodnm/rosterbot/internal/domain"
)

// Recorder persiste un histórico ligero de recomendaciones emitidas.
// Es opcional (nil = desactivado): el pipeline nunca depende de estado
// persistido entre ejecuciones.
type Recorder interface {
	// SaveLineup registra el resumen de una optimización de lineup.
	SaveLineup(ctx context.Context, leagueKey string, week int, result domain.LineupResult) error

	// SaveDraftPicks registra las recomendaciones de draft emitidas.
	SaveDraftPicks(ctx context.Context, leagueKey string, strategy string, picks []domain.ScoredPlayer) error

	// Close cierra la conexión limpiamente.
	Close() error
}
