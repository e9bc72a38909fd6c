package ports

import (
	"context"

	"github.com/alejandrodnm/rosterbot/internal/domain"
)

// Notifier presenta resultados al usuario. La implementación de consola
// imprime tablas formateadas.
type Notifier interface {
	// NotifyLineup muestra titulares, banca y recomendaciones.
	NotifyLineup(ctx context.Context, result domain.LineupResult) error

	// NotifyDraft muestra el ranking de picks recomendados.
	NotifyDraft(ctx context.Context, picks []domain.ScoredPlayer) error

	// NotifyStandings muestra la clasificación de la liga.
	NotifyStandings(ctx context.Context, records []domain.TeamRecord) error
}
