package advisor

// lineup.go — asignación greedy de titulares por slot.
//
// Los slots se procesan del más restringido al más flexible para que un FLEX
// no consuma al mejor RB antes de que el slot RB lo reclame. El resultado es
// determinista: mismo input, mismo lineup.

import (
	"fmt"
	"sort"

	"github.com/alejandrodnm/rosterbot/internal/domain"
	"github.com/alejandrodnm/rosterbot/internal/domain/strategy"
)

// Optimize asigna los jugadores puntuados a los slots titulares y manda el
// resto a la banca. Un slot sin candidato elegible queda vacío con una nota;
// nunca es un error.
func Optimize(players []domain.ScoredPlayer, slots []domain.RosterSlot, strat strategy.Strategy) domain.LineupResult {
	result := domain.LineupResult{
		Starters: make(map[string]domain.ScoredPlayer),
		Strategy: strat.Name,
	}

	// Orden de asignación por restricción, estable para preservar el orden
	// declarado entre slots igual de restringidos (RB1 antes que RB2).
	order := make([]domain.RosterSlot, 0, len(slots))
	for _, s := range slots {
		if !s.IsBench() {
			order = append(order, s)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(order[i].Eligible) < len(order[j].Eligible)
	})

	assigned := make(map[string]bool, len(order))
	for _, slot := range order {
		best, ok := bestCandidate(players, assigned, slot)
		if !ok {
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("no eligible player available for %s, slot left empty", slot.Label))
			continue
		}
		result.Starters[slot.Label] = best
		assigned[best.ID] = true
	}

	for _, p := range players {
		if !assigned[p.ID] {
			result.Bench = append(result.Bench, p)
		}
	}
	sort.SliceStable(result.Bench, func(i, j int) bool {
		return betterScored(result.Bench[i], result.Bench[j])
	})

	// Las notas se generan en el orden declarado de slots para que el output
	// sea reproducible.
	for _, slot := range slots {
		if slot.IsBench() {
			continue
		}
		starter, ok := result.Starters[slot.Label]
		if !ok {
			continue
		}
		if starter.IsOut() {
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("%s starter %s is %s, check availability before lock", slot.Label, starter.Name, starter.Injury))
		}
		for _, b := range result.Bench {
			if slot.Accepts(b.Player) && b.Composite > starter.Composite {
				result.Recommendations = append(result.Recommendations,
					fmt.Sprintf("consider swapping %s in for %s at %s", b.Name, starter.Name, slot.Label))
				break
			}
		}
	}

	return result
}

// bestCandidate devuelve el mejor jugador elegible aún sin asignar para un
// slot. Desempate: mayor composite, mayor proyección primaria, nombre.
func bestCandidate(players []domain.ScoredPlayer, assigned map[string]bool, slot domain.RosterSlot) (domain.ScoredPlayer, bool) {
	var best domain.ScoredPlayer
	found := false
	for _, p := range players {
		if assigned[p.ID] || !slot.Accepts(p.Player) {
			continue
		}
		if !found || betterScored(p, best) {
			best = p
			found = true
		}
	}
	return best, found
}

// betterScored impone un orden total sobre jugadores puntuados.
func betterScored(a, b domain.ScoredPlayer) bool {
	if a.Composite != b.Composite {
		return a.Composite > b.Composite
	}
	if pa, pb := a.PrimaryOrZero(), b.PrimaryOrZero(); pa != pb {
		return pa > pb
	}
	return a.Name < b.Name
}
