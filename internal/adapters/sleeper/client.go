package sleeper

// client.go — fuente secundaria de señales: proyecciones, trending y matchups.
//
// Sleeper es un API público sin auth; aún así se limita el rate y se
// reintenta con backoff para no castigar la fuente. Su caída nunca tumba el
// pipeline: el aggregator degrada a datos primarios.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/rosterbot/internal/domain"
	"github.com/alejandrodnm/rosterbot/internal/ports"
)

const (
	defaultBase = "https://api.sleeper.app/v1"

	// Sleeper recomienda < 1000 req/min; nos quedamos muy por debajo.
	ratePerSec = 5

	maxRetries    = 2
	baseRetryWait = 300 * time.Millisecond

	trendingLookbackHours = 48
	trendingLimit         = 300
)

// Client consume el API de Sleeper e implementa ports.SignalSource.
type Client struct {
	httpc   *http.Client
	base    string
	limiter *rate.Limiter
	season  int

	// Índice de jugadores: MatchKey → sleeper id. Es un payload de ~5MB,
	// se descarga una vez por proceso.
	indexOnce sync.Once
	indexErr  error
	index     map[string]string
}

// New crea el cliente. Si base está vacío usa el URL de producción.
func New(base string, season int) *Client {
	if base == "" {
		base = defaultBase
	}
	return &Client{
		httpc:   &http.Client{Timeout: 15 * time.Second},
		base:    strings.TrimRight(base, "/"),
		limiter: rate.NewLimiter(ratePerSec, 5),
		season:  season,
	}
}

// Name implementa ports.SignalSource.
func (c *Client) Name() string { return "sleeper" }

// Signals devuelve proyección, trending y matchup por MatchKey para los
// jugadores dados. Un dato que la fuente no tiene queda nil, nunca cero.
func (c *Client) Signals(ctx context.Context, week int, players []domain.Player) (map[string]ports.Signal, error) {
	if err := c.ensureIndex(ctx); err != nil {
		return nil, fmt.Errorf("sleeper: player index: %w", err)
	}

	projections, err := c.fetchProjections(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("sleeper: projections week %d: %w", week, err)
	}

	trending, err := c.fetchTrending(ctx)
	if err != nil {
		// Trending es mejora, no requisito: seguimos sin él.
		slog.Warn("sleeper trending unavailable", "err", err)
		trending = map[string]float64{}
	}

	opponents, err := c.fetchOpponents(ctx, week)
	if err != nil {
		slog.Warn("sleeper schedule unavailable", "err", err)
		opponents = map[string]string{}
	}

	defenseRank := rankDefenses(projections)

	signals := make(map[string]ports.Signal, len(players))
	for _, p := range players {
		key := p.MatchKey()
		sleeperID, ok := c.index[key]
		if !ok {
			continue
		}

		var sig ports.Signal
		if proj, ok := projections[sleeperID]; ok && proj.PtsPPR != nil {
			v := *proj.PtsPPR
			sig.Projection = &v
		}
		if count, ok := trending[sleeperID]; ok {
			v := count
			sig.TrendVolume = &v
		}
		if opp, ok := opponents[strings.ToUpper(p.Team)]; ok {
			sig.Matchup = matchupFor(opp, defenseRank)
		}

		if sig.Projection != nil || sig.TrendVolume != nil || sig.Matchup != nil {
			signals[key] = sig
		}
	}
	return signals, nil
}

// ensureIndex descarga el índice de jugadores una sola vez por proceso.
func (c *Client) ensureIndex(ctx context.Context) error {
	c.indexOnce.Do(func() {
		var raw map[string]player
		if err := c.get(ctx, "/players/nfl", &raw); err != nil {
			c.indexErr = err
			return
		}

		c.index = make(map[string]string, len(raw))
		for id, p := range raw {
			if p.FullName == "" || p.Team == "" {
				continue
			}
			c.index[domain.MatchKey(p.FullName, p.Team)] = id
		}
		slog.Debug("sleeper player index loaded", "players", len(c.index))
	})
	return c.indexErr
}

func (c *Client) fetchProjections(ctx context.Context, week int) (map[string]projection, error) {
	var out map[string]projection
	path := fmt.Sprintf("/projections/nfl/regular/%d/%d", c.season, week)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) fetchTrending(ctx context.Context) (map[string]float64, error) {
	var entries []trendingEntry
	path := fmt.Sprintf("/players/nfl/trending/add?lookback_hours=%d&limit=%d", trendingLookbackHours, trendingLimit)
	if err := c.get(ctx, path, &entries); err != nil {
		return nil, err
	}

	counts := make(map[string]float64, len(entries))
	for _, e := range entries {
		counts[e.PlayerID] = e.Count
	}
	return counts, nil
}

// fetchOpponents devuelve equipo → rival de la semana ("@DEN" si es visitante).
func (c *Client) fetchOpponents(ctx context.Context, week int) (map[string]string, error) {
	var games []game
	path := fmt.Sprintf("/schedule/nfl/regular/%d/%d", c.season, week)
	if err := c.get(ctx, path, &games); err != nil {
		return nil, err
	}

	opponents := make(map[string]string, len(games)*2)
	for _, g := range games {
		if g.Home == "" || g.Away == "" {
			continue
		}
		opponents[g.Home] = g.Away
		opponents[g.Away] = "@" + g.Home
	}
	return opponents, nil
}

// rankDefenses ordena las defensas por puntos proyectados (más puntos =
// defensa más peligrosa para el rival). Las defensas vienen en el payload de
// proyecciones keyed por abreviatura de equipo.
func rankDefenses(projections map[string]projection) map[string]int {
	type defProj struct {
		team string
		pts  float64
	}

	// Los ids de jugadores son numéricos largos; los de defensas son la
	// abreviatura del equipo.
	var defenses []defProj
	for id, proj := range projections {
		if proj.PtsPPR == nil || !isTeamAbbr(id) {
			continue
		}
		defenses = append(defenses, defProj{team: id, pts: *proj.PtsPPR})
	}

	// Orden descendente por proyección: rank 1 = defensa más fuerte.
	// Desempate por nombre para que el rank sea determinista.
	sort.Slice(defenses, func(i, j int) bool {
		if defenses[i].pts != defenses[j].pts {
			return defenses[i].pts > defenses[j].pts
		}
		return defenses[i].team < defenses[j].team
	})

	ranks := make(map[string]int, len(defenses))
	for i, d := range defenses {
		ranks[d.team] = i + 1
	}
	return ranks
}

// matchupFor convierte el rank de la defensa rival en un score acotado en
// [-1, 1]: rival débil → positivo, rival duro → negativo.
func matchupFor(opponent string, defenseRank map[string]int) *domain.Matchup {
	team := strings.TrimPrefix(opponent, "@")
	rank, ok := defenseRank[team]
	if !ok || len(defenseRank) < 2 {
		return &domain.Matchup{Opponent: opponent}
	}

	n := float64(len(defenseRank))
	mid := (n + 1) / 2
	score := (float64(rank) - mid) / (n - mid) // rank 1 → -1, rank n → +1
	score = math.Max(-1, math.Min(1, score))

	desc := fmt.Sprintf("vs #%d defense", rank)
	switch {
	case rank <= 5:
		desc = "vs top-5 defense"
	case rank > len(defenseRank)-5:
		desc = "vs bottom-5 defense"
	}

	return &domain.Matchup{Opponent: opponent, Score: score, Description: desc}
}

func isTeamAbbr(id string) bool {
	if len(id) < 2 || len(id) > 3 {
		return false
	}
	for _, r := range id {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// get hace un GET con rate limiting y retries con backoff exponencial.
func (c *Client) get(ctx context.Context, path string, out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpc.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("status %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("status %d: %s", resp.StatusCode, body)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
