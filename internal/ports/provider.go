package ports

import (
	"context"

	"github.com/alejandrodnm/rosterbot/internal/domain"
)

// LeagueProvider es la fuente primaria de datos de fantasy.
// Toda lectura pasa por el access gateway del adapter: cache → rate limit →
// request → refresh-and-retry en fallo de auth.
type LeagueProvider interface {
	// Leagues descubre las ligas NFL activas del usuario autenticado.
	Leagues(ctx context.Context) ([]domain.League, error)

	// MyTeam localiza el equipo del usuario en la liga dada.
	// Devuelve *yahoo.MissingTeamError si ningún equipo pertenece al login.
	MyTeam(ctx context.Context, leagueKey string) (domain.TeamInfo, error)

	// Roster devuelve los jugadores del equipo dado.
	Roster(ctx context.Context, teamKey string) ([]domain.Player, error)

	// Standings devuelve la clasificación de la liga. Si el upstream no trae
	// standings parseables devuelve error: nunca fabrica récords 0-0-0.
	Standings(ctx context.Context, leagueKey string) ([]domain.TeamRecord, error)

	// Players consulta jugadores de la liga según el filtro (waiver wire con
	// FreeAgentsOnly, posición, orden y count).
	Players(ctx context.Context, leagueKey string, f domain.PlayerFilter) ([]domain.Player, error)

	// DraftRankings devuelve el ranking pre-draft con ADP, ordenado por ADP.
	DraftRankings(ctx context.Context, leagueKey string, f domain.PlayerFilter) ([]domain.DraftRanking, error)

	// AllTeams lista todos los equipos de la liga, ordenados por draft position.
	AllTeams(ctx context.Context, leagueKey string) ([]domain.TeamInfo, error)
}
