package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/rosterbot/internal/domain"
)

// Console implementa ports.Notifier sobre stdout.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout. Con table=false
// imprime el resumen compacto de una línea.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Orden canónico de slots para que el lineup siempre se imprima igual.
var slotOrder = map[string]int{
	"QB": 0, "RB1": 1, "RB2": 2, "WR1": 3, "WR2": 4,
	"TE": 5, "FLEX": 6, "K": 7, "DEF": 8,
}

// NotifyLineup imprime titulares, banca y recomendaciones.
func (c *Console) NotifyLineup(_ context.Context, result domain.LineupResult) error {
	labels := sortedSlotLabels(result.Starters)

	if !c.table {
		c.printLineupCompact(result, labels)
		return nil
	}

	fmt.Fprintf(c.out, "\n[%s] optimal lineup — strategy: %s\n",
		time.Now().Format("15:04:05"), result.Strategy)

	table := tablewriter.NewWriter(c.out)
	table.Header("Slot", "Player", "Pos", "Team", "Status", "Proj", "Score", "Tier")
	for _, label := range labels {
		p := result.Starters[label]
		table.Append(
			label,
			p.Name,
			strings.Join(p.Positions, "/"),
			p.Team,
			injuryLabel(p.Injury),
			projLabel(p.PrimaryProjection),
			fmt.Sprintf("%.2f", p.Composite),
			string(p.Tier),
		)
	}
	table.Render()

	if len(result.Bench) > 0 {
		fmt.Fprintln(c.out, "\n  Bench:")
		for _, p := range result.Bench {
			fmt.Fprintf(c.out, "    %-24s %-8s %s  score %.2f\n",
				p.Name, strings.Join(p.Positions, "/"), injuryLabel(p.Injury), p.Composite)
		}
	}

	for _, rec := range result.Recommendations {
		fmt.Fprintf(c.out, "  >> %s\n", rec)
	}
	fmt.Fprintln(c.out)
	return nil
}

// printLineupCompact resume el lineup en una línea por consulta.
func (c *Console) printLineupCompact(result domain.LineupResult, labels []string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s lineup:", time.Now().Format("15:04:05"), result.Strategy)
	for _, label := range labels {
		p := result.Starters[label]
		fmt.Fprintf(&sb, " %s:%s(%.1f)", label, p.Name, p.Composite)
	}
	if len(result.Recommendations) > 0 {
		fmt.Fprintf(&sb, " | %d notes", len(result.Recommendations))
	}
	fmt.Fprintln(c.out, sb.String())
}

// NotifyDraft imprime el ranking de picks recomendados.
func (c *Console) NotifyDraft(_ context.Context, picks []domain.ScoredPlayer) error {
	if len(picks) == 0 {
		fmt.Fprintln(c.out, "no draft candidates available")
		return nil
	}

	fmt.Fprintf(c.out, "\n[%s] draft board — need-adjusted\n", time.Now().Format("15:04:05"))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Player", "Pos", "Team", "Bye", "Score", "Tier")
	for i, p := range picks {
		table.Append(
			fmt.Sprintf("%d", i+1),
			p.Name,
			strings.Join(p.Positions, "/"),
			p.Team,
			byeLabel(p.ByeWeek),
			fmt.Sprintf("%.2f", p.Composite),
			string(p.Tier),
		)
	}
	table.Render()
	fmt.Fprintln(c.out)
	return nil
}

// NotifyStandings imprime la clasificación tal como vino del upstream.
func (c *Console) NotifyStandings(_ context.Context, records []domain.TeamRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(c.out, "no standings available")
		return nil
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Rank", "Team", "W-L-T", "PF", "PA")
	for _, r := range records {
		table.Append(
			fmt.Sprintf("%d", r.Rank),
			r.Team,
			fmt.Sprintf("%d-%d-%d", r.Wins, r.Losses, r.Ties),
			fmt.Sprintf("%.1f", r.PointsFor),
			fmt.Sprintf("%.1f", r.PointsAgainst),
		)
	}
	table.Render()
	return nil
}

// PrintLeagues imprime el listado de ligas descubiertas.
func (c *Console) PrintLeagues(leagues []domain.League) {
	if len(leagues) == 0 {
		fmt.Fprintln(c.out, "no NFL leagues found for this login")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Key", "Name", "Season", "Teams", "Week", "Scoring")
	for _, lg := range leagues {
		week := fmt.Sprintf("%d", lg.CurrentWeek)
		if lg.Finished {
			week = "final"
		}
		table.Append(
			lg.Key,
			lg.Name,
			fmt.Sprintf("%d", lg.Season),
			fmt.Sprintf("%d", lg.NumTeams),
			week,
			lg.ScoringType,
		)
	}
	table.Render()
}

// PrintRoster imprime un roster plano sin puntuar.
func (c *Console) PrintRoster(players []domain.Player) {
	if len(players) == 0 {
		fmt.Fprintln(c.out, "empty roster")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Player", "Pos", "Team", "Bye", "Status", "Owned%")
	for _, p := range players {
		table.Append(
			p.Name,
			strings.Join(p.Positions, "/"),
			p.Team,
			byeLabel(p.ByeWeek),
			injuryLabel(p.Injury),
			fmt.Sprintf("%.1f", p.OwnedPct),
		)
	}
	table.Render()
}

// PrintTeams imprime los equipos de la liga en orden de draft.
func (c *Console) PrintTeams(teams []domain.TeamInfo) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Draft", "Team", "Manager", "Grade", "Moves", "Trades")
	for _, t := range teams {
		pos := "-"
		if t.DraftPosition > 0 {
			pos = fmt.Sprintf("%d", t.DraftPosition)
		}
		grade := t.DraftGrade
		if grade == "" {
			grade = "-"
		}
		table.Append(
			pos,
			t.Name,
			t.Manager,
			grade,
			fmt.Sprintf("%d", t.Moves),
			fmt.Sprintf("%d", t.Trades),
		)
	}
	table.Render()
}

// PrintRankings imprime el ranking pre-draft con ADP.
func (c *Console) PrintRankings(rankings []domain.DraftRanking) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Rank", "Player", "Pos", "Team", "ADP", "Avg Round", "Drafted%")
	for _, r := range rankings {
		adp := "-"
		if r.ADP > 0 {
			adp = fmt.Sprintf("%.1f", r.ADP)
		}
		table.Append(
			fmt.Sprintf("%d", r.Rank),
			r.Name,
			strings.Join(r.Positions, "/"),
			r.Team,
			adp,
			fmt.Sprintf("%.1f", r.AverageRound),
			fmt.Sprintf("%.1f", r.PercentDrafted),
		)
	}
	table.Render()
}

// --- helpers ---

func sortedSlotLabels(starters map[string]domain.ScoredPlayer) []string {
	labels := make([]string, 0, len(starters))
	for label := range starters {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		oi, iok := slotOrder[labels[i]]
		oj, jok := slotOrder[labels[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok:
			return true
		case jok:
			return false
		}
		return labels[i] < labels[j]
	})
	return labels
}

func injuryLabel(s domain.InjuryStatus) string {
	if s == domain.InjuryNone {
		return "OK"
	}
	return string(s)
}

func projLabel(proj *float64) string {
	if proj == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *proj)
}

func byeLabel(week int) string {
	if week == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", week)
}
