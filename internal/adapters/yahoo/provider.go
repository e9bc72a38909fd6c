package yahoo

// provider.go — implementación de ports.LeagueProvider sobre el gateway.
// Construye los endpoint strings (path + filtros) y delega el parse en
// normalize.go.

import (
	"context"
	"fmt"
	"sort"

	"github.com/alejandrodnm/rosterbot/internal/domain"
)

// Leagues descubre las ligas NFL activas del usuario autenticado.
func (c *Client) Leagues(ctx context.Context) ([]domain.League, error) {
	payload, err := c.Get(ctx, "users;use_login=1/games;game_keys=nfl/leagues")
	if err != nil {
		return nil, err
	}
	return normalizeLeagues(payload)
}

// MyTeam localiza el equipo del usuario en la liga: primero por el flag
// is_owned_by_current_login, después por GUID del manager.
func (c *Client) MyTeam(ctx context.Context, leagueKey string) (domain.TeamInfo, error) {
	payload, err := c.Get(ctx, fmt.Sprintf("league/%s/teams", leagueKey))
	if err != nil {
		return domain.TeamInfo{}, err
	}

	teams, err := normalizeTeams(payload)
	if err != nil {
		return domain.TeamInfo{}, err
	}

	for _, t := range teams {
		if t.ownedByUser(c.userGUID) && t.TeamKey != "" {
			return t.toDomain(), nil
		}
	}
	return domain.TeamInfo{}, &MissingTeamError{LeagueKey: leagueKey}
}

// Roster devuelve los jugadores del equipo dado.
func (c *Client) Roster(ctx context.Context, teamKey string) ([]domain.Player, error) {
	payload, err := c.Get(ctx, fmt.Sprintf("team/%s/roster", teamKey))
	if err != nil {
		return nil, err
	}

	players, err := normalizeRoster(payload)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, &domain.InsufficientDataError{Source: "roster", Reason: "no players in upstream payload"}
	}
	return players, nil
}

// Standings devuelve la clasificación. Si el upstream no trae standings
// parseables el error se reporta tal cual: no se reconstruyen récords
// placeholder desde metadata de equipos.
func (c *Client) Standings(ctx context.Context, leagueKey string) ([]domain.TeamRecord, error) {
	payload, err := c.Get(ctx, fmt.Sprintf("league/%s/standings", leagueKey))
	if err != nil {
		return nil, err
	}

	records, err := normalizeStandings(payload)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &domain.InsufficientDataError{Source: "standings", Reason: "league payload without team_standings"}
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Rank < records[j].Rank })
	return records, nil
}

// Players consulta jugadores según el filtro. Con FreeAgentsOnly construye el
// endpoint de waiver wire (status=A).
func (c *Client) Players(ctx context.Context, leagueKey string, f domain.PlayerFilter) ([]domain.Player, error) {
	payload, err := c.Get(ctx, playersEndpoint(leagueKey, f))
	if err != nil {
		return nil, err
	}

	raw, err := normalizePlayers(payload)
	if err != nil {
		return nil, err
	}

	players := make([]domain.Player, 0, len(raw))
	for _, pj := range raw {
		dp := pj.toDomain()
		if dp.Name == "" {
			continue
		}
		players = append(players, dp)
	}
	return players, nil
}

// DraftRankings devuelve el ranking pre-draft ordenado por ADP. Jugadores sin
// draft_analysis quedan al final con su rank posicional.
func (c *Client) DraftRankings(ctx context.Context, leagueKey string, f domain.PlayerFilter) ([]domain.DraftRanking, error) {
	f.FreeAgentsOnly = false
	if f.Sort == "" {
		f.Sort = domain.SortRank
	}
	payload, err := c.Get(ctx, playersEndpoint(leagueKey, f))
	if err != nil {
		return nil, err
	}

	raw, err := normalizePlayers(payload)
	if err != nil {
		return nil, err
	}

	rankings := make([]domain.DraftRanking, 0, len(raw))
	for i, pj := range raw {
		dp := pj.toDomain()
		if dp.Name == "" {
			continue
		}
		r := domain.DraftRanking{Player: dp, Rank: i + 1}
		if pj.DraftAnalysis != nil {
			r.ADP = float64(pj.DraftAnalysis.AveragePick)
			r.AverageRound = float64(pj.DraftAnalysis.AverageRound)
			r.PercentDrafted = float64(pj.DraftAnalysis.PercentDrafted)
		}
		rankings = append(rankings, r)
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return effectiveADP(rankings[i]) < effectiveADP(rankings[j])
	})
	return rankings, nil
}

// AllTeams lista los equipos de la liga ordenados por draft position.
func (c *Client) AllTeams(ctx context.Context, leagueKey string) ([]domain.TeamInfo, error) {
	payload, err := c.Get(ctx, fmt.Sprintf("league/%s/teams", leagueKey))
	if err != nil {
		return nil, err
	}

	raw, err := normalizeTeams(payload)
	if err != nil {
		return nil, err
	}

	teams := make([]domain.TeamInfo, 0, len(raw))
	for _, t := range raw {
		if t.TeamKey == "" {
			continue
		}
		teams = append(teams, t.toDomain())
	}

	sort.SliceStable(teams, func(i, j int) bool {
		return draftPosOrLast(teams[i]) < draftPosOrLast(teams[j])
	})
	return teams, nil
}

// playersEndpoint arma el endpoint de players con los filtros soportados
// por el upstream: status, position, sort y count.
func playersEndpoint(leagueKey string, f domain.PlayerFilter) string {
	endpoint := fmt.Sprintf("league/%s/players", leagueKey)
	if f.FreeAgentsOnly {
		endpoint += ";status=A"
	}
	if f.Position != "" && f.Position != "all" {
		endpoint += ";position=" + f.Position
	}
	sortKey := f.Sort
	if sortKey == "" {
		sortKey = domain.SortRank
	}
	endpoint += ";sort=" + string(sortKey)
	if f.Count > 0 {
		endpoint += fmt.Sprintf(";count=%d", f.Count)
	}
	return endpoint
}

func effectiveADP(r domain.DraftRanking) float64 {
	if r.ADP > 0 {
		return r.ADP
	}
	return 999 + float64(r.Rank)
}

func draftPosOrLast(t domain.TeamInfo) int {
	if t.DraftPosition > 0 {
		return t.DraftPosition
	}
	return 999
}
