package main

// Servidor MCP: expone las operaciones del advisor como herramientas tipadas.
// Esta capa valida argumentos y delega; la lógica vive en internal/.

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alejandrodnm/rosterbot/config"
	"github.com/alejandrodnm/rosterbot/internal/adapters/sleeper"
	"github.com/alejandrodnm/rosterbot/internal/adapters/storage"
	"github.com/alejandrodnm/rosterbot/internal/adapters/yahoo"
	"github.com/alejandrodnm/rosterbot/internal/application/advisor"
	"github.com/alejandrodnm/rosterbot/internal/domain"
)

type LeagueArgs struct {
	LeagueKey string `json:"league_key" jsonschema:"League key, e.g. 461.l.61410 (required)"`
}

type WaiverArgs struct {
	LeagueKey string `json:"league_key" jsonschema:"League key (required)"`
	Position  string `json:"position,omitempty" jsonschema:"Position filter: QB|RB|WR|TE|K|DEF (empty = all)"`
	Sort      string `json:"sort,omitempty" jsonschema:"Sort: OR=rank PTS=points O=ownership A=trending (default OR)"`
	Count     int    `json:"count,omitempty" jsonschema:"Max players to return (default 20)"`
}

type RankingsArgs struct {
	LeagueKey string `json:"league_key" jsonschema:"League key (required)"`
	Position  string `json:"position,omitempty" jsonschema:"Position filter (empty = all)"`
	Count     int    `json:"count,omitempty" jsonschema:"Max players to return (default 20)"`
}

type LineupArgs struct {
	LeagueKey string `json:"league_key" jsonschema:"League key (required)"`
	Week      int    `json:"week,omitempty" jsonschema:"NFL week (0 = current week of the league)"`
	Strategy  string `json:"strategy,omitempty" jsonschema:"conservative|balanced|aggressive (default balanced)"`
}

type DraftArgs struct {
	LeagueKey string `json:"league_key" jsonschema:"League key (required)"`
	Week      int    `json:"week,omitempty" jsonschema:"NFL week for projections (0 = current)"`
	Strategy  string `json:"strategy,omitempty" jsonschema:"conservative|balanced|aggressive (default balanced)"`
	Count     int    `json:"count,omitempty" jsonschema:"Max picks to recommend (default 10)"`
}

type ClearCacheArgs struct {
	Pattern string `json:"pattern,omitempty" jsonschema:"Endpoint substring to invalidate (empty = everything)"`
}

type EmptyArgs struct{}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	addr := flag.String("addr", "", "HTTP listen address (empty = stdio transport)")
	mcpPath := flag.String("path", "/mcp", "HTTP path for MCP endpoint")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}
	setupLogger(cfg.Log)

	creds := yahoo.NewCredentials(cfg.Yahoo.AccessToken, cfg.Yahoo.RefreshToken)
	tokens := yahoo.NewTokenSource(cfg.API.TokenURL, cfg.Yahoo.ConsumerKey, cfg.Yahoo.ConsumerSecret,
		cfg.Yahoo.EnvPath, creds, cfg.RequestTimeout())
	client := yahoo.NewClient(cfg.API.YahooBase, yahoo.Options{
		MaxCalls:   cfg.Yahoo.RateMaxCalls,
		RateWindow: cfg.RateWindow(),
		CacheTTL:   cfg.CacheTTL(),
		Timeout:    cfg.RequestTimeout(),
		UserGUID:   cfg.Yahoo.UserGUID,
	}, creds, tokens)

	var agg *advisor.Aggregator
	if cfg.Enrich.SleeperEnabled {
		agg = advisor.NewAggregator(cfg.Enrich.Workers,
			sleeper.New(cfg.API.SleeperBase, cfg.Enrich.Season))
	} else {
		agg = advisor.NewAggregator(cfg.Enrich.Workers)
	}

	opts := []advisor.Option{advisor.WithDraft(cfg.Draft.Enabled)}
	if cfg.Storage.DSN != "" {
		recorder, err := storage.NewRecorder(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer recorder.Close()
		opts = append(opts, advisor.WithRecorder(recorder))
	}

	svc := advisor.NewService(client, agg, opts...)

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "rosterbot-mcp",
			Version: "1.0.0",
		},
		nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_leagues",
		Description: "List the user's active NFL fantasy leagues",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ EmptyArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(svc.Leagues(ctx))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_league_info",
		Description: "Basic info for one league: season, teams, current week, scoring",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LeagueArgs) (*mcp.CallToolResult, any, error) {
		if err := requireLeague(args.LeagueKey); err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(svc.League(ctx, args.LeagueKey))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_standings",
		Description: "League standings with W-L-T records and points for/against",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LeagueArgs) (*mcp.CallToolResult, any, error) {
		if err := requireLeague(args.LeagueKey); err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(svc.Standings(ctx, args.LeagueKey))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_my_team",
		Description: "The user's team in the league: name, manager, draft position",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LeagueArgs) (*mcp.CallToolResult, any, error) {
		if err := requireLeague(args.LeagueKey); err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(svc.MyTeam(ctx, args.LeagueKey))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_roster",
		Description: "The user's current roster with positions, byes and injury status",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LeagueArgs) (*mcp.CallToolResult, any, error) {
		if err := requireLeague(args.LeagueKey); err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(svc.Roster(ctx, args.LeagueKey))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_teams",
		Description: "All teams in the league sorted by draft position",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LeagueArgs) (*mcp.CallToolResult, any, error) {
		if err := requireLeague(args.LeagueKey); err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(svc.AllTeams(ctx, args.LeagueKey))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_waiver_wire",
		Description: "Available free agents, filterable by position and sortable by rank/points/ownership/trending",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args WaiverArgs) (*mcp.CallToolResult, any, error) {
		if err := requireLeague(args.LeagueKey); err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(svc.WaiverWire(ctx, args.LeagueKey, domain.PlayerFilter{
			Position: args.Position,
			Sort:     normalizeSort(args.Sort),
			Count:    defaultCount(args.Count, 20),
		}))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_optimal_lineup",
		Description: "Optimal lineup for a week under a strategy, with bench and swap notes",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LineupArgs) (*mcp.CallToolResult, any, error) {
		if err := requireLeague(args.LeagueKey); err != nil {
			return toolError(err), nil, nil
		}
		week := resolveWeek(ctx, svc, args.LeagueKey, args.Week)
		return toolJSON(svc.OptimalLineup(ctx, args.LeagueKey, week, args.Strategy))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_draft_rankings",
		Description: "Pre-draft player rankings with average draft position",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RankingsArgs) (*mcp.CallToolResult, any, error) {
		if err := requireLeague(args.LeagueKey); err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(svc.DraftRankings(ctx, args.LeagueKey, domain.PlayerFilter{
			Position: args.Position,
			Count:    defaultCount(args.Count, 20),
		}))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_draft_recommendation",
		Description: "Need-adjusted draft picks for the user's roster (requires DRAFT_AVAILABLE=true)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DraftArgs) (*mcp.CallToolResult, any, error) {
		if err := requireLeague(args.LeagueKey); err != nil {
			return toolError(err), nil, nil
		}
		week := resolveWeek(ctx, svc, args.LeagueKey, args.Week)
		return toolJSON(svc.DraftRecommendation(ctx, args.LeagueKey, week, args.Strategy, defaultCount(args.Count, 10)))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_refresh_token",
		Description: "Force an OAuth access token refresh against the provider",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ EmptyArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(tokens.Refresh(ctx), nil)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_api_status",
		Description: "Rate limiter usage and response cache statistics",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ EmptyArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(client.Status(), nil)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_clear_cache",
		Description: "Invalidate cached API responses, optionally by endpoint substring",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ClearCacheArgs) (*mcp.CallToolResult, any, error) {
		cleared := client.ClearCache(args.Pattern)
		return toolJSON(map[string]int{"cleared": cleared}, nil)
	})

	if *addr != "" {
		runHTTP(server, *addr, *mcpPath)
		return
	}

	slog.Info("rosterbot mcp server on stdio")
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		slog.Error("mcp server exited", "err", err)
		os.Exit(1)
	}
}

func runHTTP(server *mcp.Server, addr, path string) {
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	http.Handle(path, handler)
	slog.Info("rosterbot mcp server listening", "addr", addr, "path", path)
	if err := http.ListenAndServe(addr, nil); err != nil {
		slog.Error("http server exited", "err", err)
		os.Exit(1)
	}
}

// resolveWeek usa la semana actual de la liga cuando el cliente no la indica.
func resolveWeek(ctx context.Context, svc *advisor.Service, leagueKey string, week int) int {
	if week > 0 {
		return week
	}
	lg, err := svc.League(ctx, leagueKey)
	if err != nil || lg.CurrentWeek == 0 {
		return 1
	}
	return lg.CurrentWeek
}

func requireLeague(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("league_key is required")
	}
	return nil
}

func normalizeSort(s string) domain.PlayerSort {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PTS":
		return domain.SortPoints
	case "O":
		return domain.SortOwned
	case "A":
		return domain.SortTrending
	default:
		return domain.SortRank
	}
}

func defaultCount(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}

func toolJSON(v any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
