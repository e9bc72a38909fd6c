package advisor

// enrich.go — agregador de señales: combina el roster primario con las
// fuentes secundarias de proyecciones, trending y matchups.
//
// La ausencia de un dato nunca se convierte en cero: los campos enriquecidos
// son punteros y quedan nil si ninguna fuente los aportó.

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/alejandrodnm/rosterbot/internal/domain"
	"github.com/alejandrodnm/rosterbot/internal/ports"
)

// Aggregator enriquece jugadores con señales externas. El orden de sources
// es el orden de prioridad: la primera fuente que aporta un campo gana.
type Aggregator struct {
	sources []ports.SignalSource
	workers int
}

// NewAggregator crea el agregador. Si workers <= 0 usa runtime.NumCPU() × 2.
func NewAggregator(workers int, sources ...ports.SignalSource) *Aggregator {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	return &Aggregator{sources: sources, workers: workers}
}

// Enrich devuelve un EnrichedPlayer por cada jugador, en el mismo orden.
//
// El fallo de una fuente degrada (se pierden sus señales, se loguea) pero
// nunca aborta el batch. Si hay fuentes configuradas y ninguna aportó nada,
// el resultado sigue siendo utilizable y el error InsufficientDataError lo
// señala para que el caller decida si continuar en modo primario.
func (a *Aggregator) Enrich(ctx context.Context, week int, players []domain.Player) ([]domain.EnrichedPlayer, error) {
	signals := a.collectSignals(ctx, week, players)

	type work struct {
		idx    int
		player domain.Player
	}
	type result struct {
		idx      int
		enriched domain.EnrichedPlayer
	}

	workCh := make(chan work, len(players))
	resultCh := make(chan result, len(players))

	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range workCh {
				resultCh <- result{idx: w.idx, enriched: mergeSignals(w.player, signals)}
			}
		}()
	}

	for i, p := range players {
		workCh <- work{idx: i, player: p}
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	enriched := make([]domain.EnrichedPlayer, len(players))
	for r := range resultCh {
		enriched[r.idx] = r.enriched
	}

	if len(a.sources) > 0 && totalSignals(signals) == 0 {
		return enriched, &domain.InsufficientDataError{
			Source: "signals",
			Reason: "no source returned data for any roster player",
		}
	}
	return enriched, nil
}

// collectSignals consulta todas las fuentes en paralelo. Devuelve un mapa de
// señales por fuente, en el mismo orden de prioridad que a.sources; la
// posición de una fuente fallida queda nil.
func (a *Aggregator) collectSignals(ctx context.Context, week int, players []domain.Player) []map[string]ports.Signal {
	results := make([]map[string]ports.Signal, len(a.sources))

	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func(i int, src ports.SignalSource) {
			defer wg.Done()
			sigs, err := src.Signals(ctx, week, players)
			if err != nil {
				slog.Warn("signal source failed",
					"source", src.Name(),
					"week", week,
					"err", err,
				)
				return
			}
			results[i] = sigs
			slog.Debug("signal source responded",
				"source", src.Name(),
				"signals", len(sigs),
			)
		}(i, src)
	}
	wg.Wait()

	return results
}

// mergeSignals combina las señales de todas las fuentes para un jugador.
// La proyección de la fuente más prioritaria es la primaria; la primera
// proyección de otra fuente pasa a secundaria. Matchup y trending los aporta
// la primera fuente que los tenga.
func mergeSignals(p domain.Player, perSource []map[string]ports.Signal) domain.EnrichedPlayer {
	e := domain.EnrichedPlayer{Player: p}
	key := p.MatchKey()

	for _, sigs := range perSource {
		if sigs == nil {
			continue
		}
		sig, ok := sigs[key]
		if !ok {
			continue
		}

		if sig.Projection != nil {
			switch {
			case e.PrimaryProjection == nil:
				e.PrimaryProjection = sig.Projection
			case e.SecondaryProjection == nil:
				e.SecondaryProjection = sig.Projection
			}
		}
		if sig.TrendVolume != nil && e.TrendVolume == nil {
			e.TrendVolume = sig.TrendVolume
		}
		if sig.Matchup != nil && e.Matchup == nil {
			e.Matchup = sig.Matchup
		}
	}
	return e
}

func totalSignals(perSource []map[string]ports.Signal) int {
	total := 0
	for _, sigs := range perSource {
		total += len(sigs)
	}
	return total
}
