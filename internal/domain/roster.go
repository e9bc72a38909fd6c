package domain

// RosterSlot es una posición del lineup que requiere exactamente una asignación.
// Los slots flexibles (FLEX, W/R/T) aceptan un superset de posiciones.
type RosterSlot struct {
	Label    string   // QB, RB, WR, TE, FLEX, K, DEF, BENCH
	Eligible []string // posiciones que el slot acepta
}

// IsBench devuelve true si el slot es de banca.
func (s RosterSlot) IsBench() bool {
	return s.Label == "BENCH"
}

// Accepts devuelve true si un jugador con las posiciones dadas puede ocupar el slot.
func (s RosterSlot) Accepts(p Player) bool {
	for _, pos := range s.Eligible {
		if p.Eligible(pos) {
			return true
		}
	}
	return false
}

// DefaultSlots devuelve la configuración estándar de liga:
// 1 QB, 2 RB, 2 WR, 1 TE, 1 FLEX(RB/WR/TE), 1 K, 1 DEF.
// La banca no se declara: todo jugador sin slot titular va a la banca.
func DefaultSlots() []RosterSlot {
	return []RosterSlot{
		{Label: "QB", Eligible: []string{"QB"}},
		{Label: "RB1", Eligible: []string{"RB"}},
		{Label: "RB2", Eligible: []string{"RB"}},
		{Label: "WR1", Eligible: []string{"WR"}},
		{Label: "WR2", Eligible: []string{"WR"}},
		{Label: "TE", Eligible: []string{"TE"}},
		{Label: "FLEX", Eligible: []string{"RB", "WR", "TE"}},
		{Label: "K", Eligible: []string{"K"}},
		{Label: "DEF", Eligible: []string{"DEF"}},
	}
}

// LineupResult es el resultado de una optimización de lineup.
// No se persiste como estado: el recorder opcional guarda solo un resumen.
type LineupResult struct {
	Starters        map[string]ScoredPlayer // slot label → titular
	Bench           []ScoredPlayer          // ordenada por composite descendente
	Strategy        string
	Recommendations []string // rationale en texto libre, incl. avisos de slot vacío
}

// StarterIDs devuelve el set de ids asignados a slots titulares.
func (r LineupResult) StarterIDs() map[string]bool {
	ids := make(map[string]bool, len(r.Starters))
	for _, p := range r.Starters {
		ids[p.ID] = true
	}
	return ids
}
