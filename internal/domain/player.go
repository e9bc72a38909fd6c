package domain

import "strings"

// Player es el registro base de un jugador dentro de un snapshot de liga.
// Inmutable una vez creado por el normalizador; se descarta al refrescar el snapshot.
type Player struct {
	ID        string   // player_key del upstream, único dentro del snapshot
	Name      string
	Team      string   // abreviatura del equipo NFL (ej. "KC")
	Positions []string // posiciones elegibles, orden del upstream, nunca vacío
	ByeWeek   int      // 0 = desconocido
	Injury    InjuryStatus
	OwnedPct  float64 // % de ligas donde está rostereado
	TrendDelta float64 // cambio semanal de ownership (+ = trending up)
}

// InjuryStatus es el estado de lesión reportado por el upstream.
type InjuryStatus string

const (
	InjuryNone         InjuryStatus = ""
	InjuryQuestionable InjuryStatus = "Q"
	InjuryDoubtful     InjuryStatus = "D"
	InjuryOut          InjuryStatus = "O"
	InjuryIR           InjuryStatus = "IR"
	InjuryPUP          InjuryStatus = "PUP"
)

// outStatuses son los estados que reciben la penalización fuerte de scoring.
// El jugador sigue siendo asignable: si no hay alternativa sana para un slot,
// el assigner puede necesitarlo igual.
var outStatuses = map[InjuryStatus]bool{
	InjuryOut: true,
	InjuryIR:  true,
	InjuryPUP: true,
}

// IsOut devuelve true si el estado de lesión está en el set "out".
func (p Player) IsOut() bool {
	return outStatuses[p.Injury]
}

// PrimaryPosition devuelve la primera posición elegible.
func (p Player) PrimaryPosition() string {
	if len(p.Positions) == 0 {
		return ""
	}
	return p.Positions[0]
}

// Eligible devuelve true si el jugador puede ocupar la posición dada.
func (p Player) Eligible(pos string) bool {
	for _, el := range p.Positions {
		if el == pos {
			return true
		}
	}
	return false
}

// MatchKey devuelve la clave de cruce entre fuentes: nombre normalizado + equipo.
// Las fuentes secundarias usan esquemas de id propios, así que el cruce se hace
// por nombre y abreviatura de equipo.
func (p Player) MatchKey() string {
	return MatchKey(p.Name, p.Team)
}

// MatchKey normaliza nombre+equipo para cruzar jugadores entre fuentes.
// Quita sufijos generacionales, puntuación y distinción de mayúsculas.
func MatchKey(name, team string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, suffix := range []string{" jr.", " jr", " sr.", " sr", " iii", " ii", " iv", " v"} {
		n = strings.TrimSuffix(n, suffix)
	}
	n = strings.Map(func(r rune) rune {
		switch r {
		case '.', '\'', '-':
			return -1
		}
		return r
	}, n)
	n = strings.Join(strings.Fields(n), " ")
	return n + "|" + strings.ToUpper(strings.TrimSpace(team))
}

// Matchup describe el enfrentamiento de la semana para un jugador.
type Matchup struct {
	Opponent    string  // abreviatura del rival (ej. "@DEN")
	Score       float64 // favorabilidad en [-1, 1]: -1 pésimo, +1 óptimo
	Description string  // texto corto para el output (ej. "vs bottom-5 pass defense")
}

// EnrichedPlayer es un Player más las señales externas cruzadas por MatchKey.
// Los campos puntero distinguen ausencia de cero: una fuente que no devolvió
// datos deja nil, nunca 0.
type EnrichedPlayer struct {
	Player

	PrimaryProjection   *float64 // proyección de la fuente primaria
	SecondaryProjection *float64 // proyección de la fuente secundaria (opcional)
	Matchup             *Matchup
	TrendVolume         *float64 // adds/drops recientes en la fuente de trending
}

// PrimaryOrZero devuelve la proyección primaria o 0 si la fuente no devolvió datos.
func (e EnrichedPlayer) PrimaryOrZero() float64 {
	if e.PrimaryProjection == nil {
		return 0
	}
	return *e.PrimaryProjection
}

// Tier clasifica un jugador según su composite score.
type Tier string

const (
	TierElite  Tier = "elite"
	TierSolid  Tier = "solid"
	TierFlex   Tier = "flex"
	TierBench  Tier = "bench"
)

// ScoredPlayer es el resultado del scoring engine: read-only aguas abajo.
type ScoredPlayer struct {
	EnrichedPlayer

	Composite float64
	Tier      Tier
}
