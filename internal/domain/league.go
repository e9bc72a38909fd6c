package domain

// League es el snapshot de una liga descubierta para el usuario autenticado.
type League struct {
	Key         string // ej. "461.l.61410"
	ID          string
	Name        string
	Season      int
	NumTeams    int
	CurrentWeek int
	ScoringType string // "head" | "points" | ...
	Finished    bool
}

// TeamInfo identifica un equipo dentro de una liga.
type TeamInfo struct {
	Key           string
	Name          string
	Manager       string
	DraftPosition int    // 0 = sin draft
	DraftGrade    string // "" = sin nota
	Moves         int
	Trades        int
}

// TeamRecord es una fila de standings. Siempre proviene del upstream:
// nunca se fabrica un récord placeholder cuando faltan datos.
type TeamRecord struct {
	Rank          int
	Team          string
	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PointsAgainst float64
}

// PlayerSort son los criterios de orden que entiende el upstream.
type PlayerSort string

const (
	SortRank     PlayerSort = "OR"  // overall rank
	SortPoints   PlayerSort = "PTS" // puntos de temporada
	SortOwned    PlayerSort = "O"   // % ownership
	SortTrending PlayerSort = "A"   // % added
)

// PlayerFilter parametriza las consultas de jugadores al upstream.
type PlayerFilter struct {
	Position       string // "" o "all" = sin filtro
	Sort           PlayerSort
	Count          int
	FreeAgentsOnly bool // status=A
}

// DraftRanking es una fila del ranking pre-draft con datos de ADP.
type DraftRanking struct {
	Player

	Rank           int
	ADP            float64 // average draft position; 0 = sin datos
	AverageRound   float64
	PercentDrafted float64
}
