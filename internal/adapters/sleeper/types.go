package sleeper

// types.go — shapes del API público de Sleeper.
// Solo los campos que consume el enriquecimiento; el resto se ignora.

// player es una entrada del índice /players/nfl.
type player struct {
	FullName string `json:"full_name"`
	Team     string `json:"team"`
	Position string `json:"position"`
}

// projection es la proyección semanal de un jugador. Los defenses vienen
// keyed por abreviatura de equipo (ej. "SF") en el mismo payload.
type projection struct {
	PtsPPR *float64 `json:"pts_ppr"`
}

// trendingEntry es una fila de /players/nfl/trending/add.
type trendingEntry struct {
	PlayerID string  `json:"player_id"`
	Count    float64 `json:"count"`
}

// game es un partido del schedule semanal.
type game struct {
	Home string `json:"home"`
	Away string `json:"away"`
}
