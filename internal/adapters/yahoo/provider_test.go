package yahoo

import (
	"context"
	"net/http"
	"testing"

	"github.com/alejandrodnm/rosterbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teamsBody = `{
  "fantasy_content": {"league": {"teams": [
    {"team_key": "461.l.61410.t.1", "name": "Rivals", "draft_position": "3",
     "managers": [{"guid": "OTHER", "nickname": "someone"}]},
    {"team_key": "461.l.61410.t.7", "name": "My Squad", "draft_position": 1,
     "draft_grade": "A-", "is_owned_by_current_login": 1,
     "managers": [{"guid": "GUID123", "nickname": "me"}]}
  ]}}}`

func TestMyTeam_FoundByLoginFlag(t *testing.T) {
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(teamsBody))
	}, nil)

	team, err := c.MyTeam(context.Background(), "461.l.61410")
	require.NoError(t, err)
	assert.Equal(t, "461.l.61410.t.7", team.Key)
	assert.Equal(t, "My Squad", team.Name)
	assert.Equal(t, 1, team.DraftPosition)
	assert.Equal(t, "A-", team.DraftGrade)
}

func TestMyTeam_FoundByGUID(t *testing.T) {
	// Sin flag de login: el fallback es el GUID del manager.
	body := `{"fantasy_content": {"league": {"teams": [
	  {"team_key": "461.l.61410.t.2", "name": "Mine",
	   "managers": [{"guid": "GUID123", "nickname": "me"}]}
	]}}}`
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}, nil)

	team, err := c.MyTeam(context.Background(), "461.l.61410")
	require.NoError(t, err)
	assert.Equal(t, "461.l.61410.t.2", team.Key)
}

func TestMyTeam_Missing(t *testing.T) {
	body := `{"fantasy_content": {"league": {"teams": [
	  {"team_key": "461.l.61410.t.1", "name": "Rivals",
	   "managers": [{"guid": "OTHER", "nickname": "x"}]}
	]}}}`
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}, nil)

	_, err := c.MyTeam(context.Background(), "461.l.61410")

	var missing *MissingTeamError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "461.l.61410", missing.LeagueKey)
}

func TestLeagues_Normalized(t *testing.T) {
	body := `{"fantasy_content": {"users": [{"games": [{"leagues": [
	  {"league_key": "461.l.61410", "league_id": "61410", "name": "Main League",
	   "season": "2025", "num_teams": 12, "scoring_type": "head",
	   "current_week": "3", "is_finished": 0}
	]}]}]}}`
	var gotPath string
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(body))
	}, nil)

	leagues, err := c.Leagues(context.Background())
	require.NoError(t, err)
	require.Len(t, leagues, 1)
	assert.Equal(t, "Main League", leagues[0].Name)
	assert.Equal(t, 2025, leagues[0].Season)
	assert.Equal(t, 3, leagues[0].CurrentWeek)
	assert.False(t, leagues[0].Finished)
	assert.Contains(t, gotPath, "users;use_login=1/games;game_keys=nfl/leagues")
}

func TestStandings_NeverFabricated(t *testing.T) {
	// Payload sin team_standings: error explícito, jamás récords 0-0-0.
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(teamsBody))
	}, nil)

	_, err := c.Standings(context.Background(), "461.l.61410")

	var insufficient *domain.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "standings", insufficient.Source)
}

func TestStandings_SortedByRank(t *testing.T) {
	body := `{"fantasy_content": {"league": {"standings": {"teams": [
	  {"name": "Second", "team_standings": {"rank": 2,
	   "outcome_totals": {"wins": "5", "losses": 4, "ties": 0},
	   "points_for": "1012.5", "points_against": 998.2}},
	  {"name": "First", "team_standings": {"rank": 1,
	   "outcome_totals": {"wins": 8, "losses": 1, "ties": 0},
	   "points_for": 1190.1, "points_against": "904"}}
	]}}}}`
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}, nil)

	records, err := c.Standings(context.Background(), "461.l.61410")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "First", records[0].Team)
	assert.Equal(t, 8, records[0].Wins)
	assert.InDelta(t, 1012.5, records[1].PointsFor, 0.001)
}

func TestPlayers_WaiverWireEndpoint(t *testing.T) {
	var gotPath string
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"fantasy_content": {"league": {"players": [
		  {"player_key": "461.p.30123", "name": {"full": "Jordan Mason"},
		   "editorial_team_abbr": "MIN", "display_position": "RB",
		   "bye_weeks": {"week": "6"}, "status": "Q",
		   "ownership": {"ownership_percentage": "47", "weekly_change": 12}}
		]}}}`))
	}, nil)

	players, err := c.Players(context.Background(), "461.l.61410", domain.PlayerFilter{
		Position:       "RB",
		Sort:           domain.SortTrending,
		Count:          20,
		FreeAgentsOnly: true,
	})
	require.NoError(t, err)
	assert.Contains(t, gotPath, "league/461.l.61410/players;status=A;position=RB;sort=A;count=20")

	require.Len(t, players, 1)
	p := players[0]
	assert.Equal(t, "461.p.30123", p.ID)
	assert.Equal(t, []string{"RB"}, p.Positions)
	assert.Equal(t, 6, p.ByeWeek)
	assert.Equal(t, domain.InjuryQuestionable, p.Injury)
	assert.InDelta(t, 47.0, p.OwnedPct, 0.001)
	assert.InDelta(t, 12.0, p.TrendDelta, 0.001)
}

func TestDraftRankings_SortedByADP(t *testing.T) {
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fantasy_content": {"league": {"players": [
		  {"player_key": "p.1", "name": {"full": "No Data"},
		   "editorial_team_abbr": "DAL", "display_position": "WR"},
		  {"player_key": "p.2", "name": {"full": "Late Pick"},
		   "editorial_team_abbr": "NYJ", "display_position": "RB",
		   "draft_analysis": {"average_pick": "24.3", "percent_drafted": "0.98"}},
		  {"player_key": "p.3", "name": {"full": "Early Pick"},
		   "editorial_team_abbr": "SF", "display_position": "RB",
		   "draft_analysis": {"average_pick": 3.1, "percent_drafted": 1}}
		]}}}`))
	}, nil)

	rankings, err := c.DraftRankings(context.Background(), "461.l.61410", domain.PlayerFilter{Count: 50})
	require.NoError(t, err)
	require.Len(t, rankings, 3)

	// ADP ascendente; los jugadores sin draft_analysis van al final.
	assert.Equal(t, "Early Pick", rankings[0].Name)
	assert.Equal(t, "Late Pick", rankings[1].Name)
	assert.Equal(t, "No Data", rankings[2].Name)
}

func TestAllTeams_SortedByDraftPosition(t *testing.T) {
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(teamsBody))
	}, nil)

	teams, err := c.AllTeams(context.Background(), "461.l.61410")
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "My Squad", teams[0].Name) // draft position 1
	assert.Equal(t, "Rivals", teams[1].Name)   // draft position 3 (string en el payload)
}

func TestRoster_EmptyIsInsufficientData(t *testing.T) {
	c := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fantasy_content": {"team": {"roster": {"players": []}}}}`))
	}, nil)

	_, err := c.Roster(context.Background(), "461.l.61410.t.7")

	var insufficient *domain.InsufficientDataError
	assert.ErrorAs(t, err, &insufficient)
}
