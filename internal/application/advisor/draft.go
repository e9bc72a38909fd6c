package advisor

// draft.go — recomendación de picks reponderada por escasez posicional.
//
// Un roster sin WR necesita un WR mediano más que otro RB élite: el composite
// se multiplica por un boost proporcional a los huecos que quedan frente al
// objetivo posicional. Con el roster completo en una posición el boost es 1
// y el ranking vuelve a ser el composite puro.

import (
	"sort"

	"github.com/alejandrodnm/rosterbot/internal/domain"
)

// Objetivos de titulares por posición en una liga estándar. El boost escala
// con la fracción del objetivo aún sin cubrir.
var draftTargets = map[string]int{
	"QB":  1,
	"RB":  2,
	"WR":  2,
	"TE":  1,
	"K":   1,
	"DEF": 1,
}

// scarcityBoost es el multiplicador extra máximo: una posición con cero
// rostered llega a composite × 1.5.
const scarcityBoost = 0.5

// Recommend devuelve hasta n picks ordenados por composite ajustado a la
// necesidad del roster. Los candidatos llegan ya puntuados bajo el perfil
// elegido. Jugadores ya rostered nunca aparecen. El Composite de cada pick es
// el valor ajustado; el Tier conserva la fuerza bruta del jugador.
func Recommend(available []domain.ScoredPlayer, roster []domain.Player, n int) []domain.ScoredPlayer {
	if n <= 0 {
		return nil
	}

	rostered := make(map[string]bool, len(roster))
	counts := make(map[string]int, len(roster))
	for _, p := range roster {
		rostered[p.ID] = true
		counts[p.PrimaryPosition()]++
	}

	picks := make([]domain.ScoredPlayer, 0, len(available))
	for _, p := range available {
		if rostered[p.ID] {
			continue
		}
		adjusted := p
		adjusted.Composite = p.Composite * needMultiplier(p.PrimaryPosition(), counts)
		picks = append(picks, adjusted)
	}

	sort.SliceStable(picks, func(i, j int) bool {
		return betterScored(picks[i], picks[j])
	})

	if len(picks) > n {
		picks = picks[:n]
	}
	return picks
}

// needMultiplier devuelve el boost de escasez para una posición dado el
// conteo actual del roster.
func needMultiplier(position string, counts map[string]int) float64 {
	target, ok := draftTargets[position]
	if !ok || target == 0 {
		return 1
	}

	missing := target - counts[position]
	if missing <= 0 {
		return 1
	}
	return 1 + scarcityBoost*float64(missing)/float64(target)
}
