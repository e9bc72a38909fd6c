package yahoo

// normalize.go — frontera del normalizador: payloads JSON → records de dominio.
//
// Todo conocimiento de la forma del payload de Yahoo vive en este archivo,
// detrás de structs tipados. El resto del sistema solo ve domain.Player y
// compañía; un cambio de shape upstream se absorbe aquí. Un parse que no
// produce nada distinguible devuelve InsufficientDataError, nunca un slice
// vacío silencioso.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alejandrodnm/rosterbot/internal/domain"
)

// flexFloat tolera números que Yahoo a veces serializa como strings
// (ej. "ownership_percentage": "43").
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" || s == "N/A" || s == "-" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("flexFloat: %q: %w", s, err)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var v flexFloat
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = flexInt(v)
	return nil
}

// --- shapes del upstream ---

type leagueJSON struct {
	LeagueKey   string  `json:"league_key"`
	LeagueID    string  `json:"league_id"`
	Name        string  `json:"name"`
	Season      flexInt `json:"season"`
	NumTeams    flexInt `json:"num_teams"`
	ScoringType string  `json:"scoring_type"`
	CurrentWeek flexInt `json:"current_week"`
	IsFinished  flexInt `json:"is_finished"`
}

type leaguesPayload struct {
	FantasyContent struct {
		Users []struct {
			Games []struct {
				Leagues []leagueJSON `json:"leagues"`
			} `json:"games"`
		} `json:"users"`
	} `json:"fantasy_content"`
}

type managerJSON struct {
	GUID     string `json:"guid"`
	Nickname string `json:"nickname"`
}

type teamJSON struct {
	TeamKey              string        `json:"team_key"`
	TeamID               string        `json:"team_id"`
	Name                 string        `json:"name"`
	DraftGrade           string        `json:"draft_grade"`
	DraftPosition        flexInt       `json:"draft_position"`
	NumberOfMoves        flexInt       `json:"number_of_moves"`
	NumberOfTrades       flexInt       `json:"number_of_trades"`
	IsOwnedByCurrentLogin flexInt      `json:"is_owned_by_current_login"`
	Managers             []managerJSON `json:"managers"`
	Standings            *teamStandingsJSON `json:"team_standings,omitempty"`
}

type teamStandingsJSON struct {
	Rank          flexInt `json:"rank"`
	OutcomeTotals struct {
		Wins   flexInt `json:"wins"`
		Losses flexInt `json:"losses"`
		Ties   flexInt `json:"ties"`
	} `json:"outcome_totals"`
	PointsFor     flexFloat `json:"points_for"`
	PointsAgainst flexFloat `json:"points_against"`
}

type teamsPayload struct {
	FantasyContent struct {
		League struct {
			Teams []teamJSON `json:"teams"`
		} `json:"league"`
	} `json:"fantasy_content"`
}

type standingsPayload struct {
	FantasyContent struct {
		League struct {
			Standings struct {
				Teams []teamJSON `json:"teams"`
			} `json:"standings"`
		} `json:"league"`
	} `json:"fantasy_content"`
}

type playerJSON struct {
	PlayerKey string `json:"player_key"`
	Name      struct {
		Full string `json:"full"`
	} `json:"name"`
	EditorialTeamAbbr string   `json:"editorial_team_abbr"`
	DisplayPosition   string   `json:"display_position"`
	EligiblePositions []string `json:"eligible_positions"`
	ByeWeeks          struct {
		Week flexInt `json:"week"`
	} `json:"bye_weeks"`
	Status    string `json:"status"`
	Ownership struct {
		OwnershipPercentage flexFloat `json:"ownership_percentage"`
		WeeklyChange        flexFloat `json:"weekly_change"`
	} `json:"ownership"`
	DraftAnalysis *struct {
		AveragePick    flexFloat `json:"average_pick"`
		AverageRound   flexFloat `json:"average_round"`
		PercentDrafted flexFloat `json:"percent_drafted"`
	} `json:"draft_analysis,omitempty"`
}

type playersPayload struct {
	FantasyContent struct {
		League struct {
			Players []playerJSON `json:"players"`
		} `json:"league"`
	} `json:"fantasy_content"`
}

type rosterPayload struct {
	FantasyContent struct {
		Team struct {
			Roster struct {
				Players []playerJSON `json:"players"`
			} `json:"roster"`
		} `json:"team"`
	} `json:"fantasy_content"`
}

// --- normalización a dominio ---

func (p playerJSON) toDomain() domain.Player {
	positions := p.EligiblePositions
	if len(positions) == 0 && p.DisplayPosition != "" {
		// display_position puede venir compuesto ("WR,TE")
		for _, pos := range strings.Split(p.DisplayPosition, ",") {
			positions = append(positions, strings.TrimSpace(pos))
		}
	}
	return domain.Player{
		ID:         p.PlayerKey,
		Name:       p.Name.Full,
		Team:       p.EditorialTeamAbbr,
		Positions:  positions,
		ByeWeek:    int(p.ByeWeeks.Week),
		Injury:     domain.InjuryStatus(p.Status),
		OwnedPct:   float64(p.Ownership.OwnershipPercentage),
		TrendDelta: float64(p.Ownership.WeeklyChange),
	}
}

func (t teamJSON) toDomain() domain.TeamInfo {
	manager := ""
	if len(t.Managers) > 0 {
		manager = t.Managers[0].Nickname
	}
	return domain.TeamInfo{
		Key:           t.TeamKey,
		Name:          t.Name,
		Manager:       manager,
		DraftPosition: int(t.DraftPosition),
		DraftGrade:    t.DraftGrade,
		Moves:         int(t.NumberOfMoves),
		Trades:        int(t.NumberOfTrades),
	}
}

// ownedByUser decide si el equipo pertenece al login actual, primero por el
// flag del upstream y después por GUID del manager.
func (t teamJSON) ownedByUser(guid string) bool {
	if t.IsOwnedByCurrentLogin == 1 {
		return true
	}
	if guid == "" {
		return false
	}
	for _, m := range t.Managers {
		if m.GUID == guid {
			return true
		}
	}
	return false
}

func normalizeLeagues(payload []byte) ([]domain.League, error) {
	var p leaguesPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("normalize leagues: %w", err)
	}

	var leagues []domain.League
	for _, user := range p.FantasyContent.Users {
		for _, game := range user.Games {
			for _, lg := range game.Leagues {
				if lg.LeagueKey == "" {
					continue
				}
				leagues = append(leagues, domain.League{
					Key:         lg.LeagueKey,
					ID:          lg.LeagueID,
					Name:        lg.Name,
					Season:      int(lg.Season),
					NumTeams:    int(lg.NumTeams),
					CurrentWeek: int(lg.CurrentWeek),
					ScoringType: lg.ScoringType,
					Finished:    lg.IsFinished == 1,
				})
			}
		}
	}
	return leagues, nil
}

func normalizeTeams(payload []byte) ([]teamJSON, error) {
	var p teamsPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("normalize teams: %w", err)
	}
	return p.FantasyContent.League.Teams, nil
}

func normalizeStandings(payload []byte) ([]domain.TeamRecord, error) {
	var p standingsPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("normalize standings: %w", err)
	}

	var records []domain.TeamRecord
	for _, t := range p.FantasyContent.League.Standings.Teams {
		if t.Standings == nil || t.Name == "" {
			continue
		}
		st := t.Standings
		records = append(records, domain.TeamRecord{
			Rank:          int(st.Rank),
			Team:          t.Name,
			Wins:          int(st.OutcomeTotals.Wins),
			Losses:        int(st.OutcomeTotals.Losses),
			Ties:          int(st.OutcomeTotals.Ties),
			PointsFor:     float64(st.PointsFor),
			PointsAgainst: float64(st.PointsAgainst),
		})
	}
	return records, nil
}

func normalizePlayers(payload []byte) ([]playerJSON, error) {
	var p playersPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("normalize players: %w", err)
	}
	return p.FantasyContent.League.Players, nil
}

func normalizeRoster(payload []byte) ([]domain.Player, error) {
	var p rosterPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("normalize roster: %w", err)
	}

	players := make([]domain.Player, 0, len(p.FantasyContent.Team.Roster.Players))
	for _, pj := range p.FantasyContent.Team.Roster.Players {
		dp := pj.toDomain()
		if dp.Name == "" {
			continue
		}
		players = append(players, dp)
	}
	return players, nil
}
