package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alejandrodnm/rosterbot/config"
	"github.com/alejandrodnm/rosterbot/internal/adapters/notify"
	"github.com/alejandrodnm/rosterbot/internal/adapters/sleeper"
	"github.com/alejandrodnm/rosterbot/internal/adapters/storage"
	"github.com/alejandrodnm/rosterbot/internal/adapters/yahoo"
	"github.com/alejandrodnm/rosterbot/internal/application/advisor"
	"github.com/alejandrodnm/rosterbot/internal/domain"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	leagueKey := flag.String("league", "", "league key, e.g. 461.l.61410")
	week := flag.Int("week", 0, "NFL week (0 = current week of the league)")
	strategyName := flag.String("strategy", "balanced", "scoring strategy: conservative|balanced|aggressive")

	leagues := flag.Bool("leagues", false, "list NFL leagues for this login")
	roster := flag.Bool("roster", false, "print my roster in the league")
	standings := flag.Bool("standings", false, "print league standings")
	teams := flag.Bool("teams", false, "print all teams in draft order")
	lineup := flag.Bool("lineup", false, "compute the optimal lineup")
	waiver := flag.Bool("waiver", false, "list waiver wire free agents")
	rankings := flag.Bool("rankings", false, "print pre-draft rankings with ADP")
	draft := flag.Bool("draft", false, "recommend draft picks (requires draft.enabled)")
	history := flag.Bool("history", false, "print recent lineup history for the league")

	position := flag.String("position", "", "position filter for -waiver/-rankings (QB|RB|WR|TE|K|DEF)")
	sortBy := flag.String("sort", "OR", "player sort for -waiver: OR|PTS|O|A")
	count := flag.Int("count", 20, "max players for -waiver/-rankings")
	picks := flag.Int("picks", 10, "max picks for -draft")

	status := flag.Bool("status", false, "print rate limit and cache status")
	clearCache := flag.Bool("clear-cache", false, "clear the response cache")
	pattern := flag.String("pattern", "", "endpoint substring for -clear-cache (empty = all)")
	refresh := flag.Bool("refresh", false, "force an OAuth token refresh")

	table := flag.Bool("table", true, "print full tables (false = compact one-liners)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
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

	opts := []advisor.Option{advisor.WithDraft(cfg.Draft.Enabled)}

	var recorder *storage.Recorder
	if cfg.Storage.DSN != "" {
		recorder, err = storage.NewRecorder(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer recorder.Close()
		opts = append(opts, advisor.WithRecorder(recorder))
	}

	svc := advisor.NewService(client, buildAggregator(cfg), opts...)
	console := notify.NewConsoleWriter(os.Stdout, *table)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *refresh:
		result := tokens.Refresh(ctx)
		printJSON(result)
		if !result.Success() {
			os.Exit(1)
		}

	case *status:
		printJSON(client.Status())

	case *clearCache:
		cleared := client.ClearCache(*pattern)
		fmt.Printf("cleared %d cached responses\n", cleared)

	case *leagues:
		found, err := svc.Leagues(ctx)
		exitOn(err, "league discovery failed")
		console.PrintLeagues(found)

	case *roster:
		players, err := svc.Roster(ctx, requireLeague(*leagueKey))
		exitOn(err, "roster fetch failed")
		console.PrintRoster(players)

	case *standings:
		records, err := svc.Standings(ctx, requireLeague(*leagueKey))
		exitOn(err, "standings fetch failed")
		exitOn(console.NotifyStandings(ctx, records), "print failed")

	case *teams:
		all, err := svc.AllTeams(ctx, requireLeague(*leagueKey))
		exitOn(err, "teams fetch failed")
		console.PrintTeams(all)

	case *waiver:
		players, err := svc.WaiverWire(ctx, requireLeague(*leagueKey), domain.PlayerFilter{
			Position: *position,
			Sort:     domain.PlayerSort(strings.ToUpper(*sortBy)),
			Count:    *count,
		})
		exitOn(err, "waiver wire fetch failed")
		console.PrintRoster(players)

	case *rankings:
		board, err := svc.DraftRankings(ctx, requireLeague(*leagueKey), domain.PlayerFilter{
			Position: *position,
			Count:    *count,
		})
		exitOn(err, "draft rankings fetch failed")
		console.PrintRankings(board)

	case *lineup:
		key := requireLeague(*leagueKey)
		result, err := svc.OptimalLineup(ctx, key, resolveWeek(ctx, svc, key, *week), *strategyName)
		exitOn(err, "lineup optimization failed")
		exitOn(console.NotifyLineup(ctx, result), "print failed")

	case *draft:
		key := requireLeague(*leagueKey)
		board, err := svc.DraftRecommendation(ctx, key, resolveWeek(ctx, svc, key, *week), *strategyName, *picks)
		exitOn(err, "draft recommendation failed")
		exitOn(console.NotifyDraft(ctx, board), "print failed")

	case *history:
		if recorder == nil {
			slog.Error("no storage configured, set storage.dsn in the config")
			os.Exit(1)
		}
		records, err := recorder.LineupHistory(ctx, requireLeague(*leagueKey), 10)
		exitOn(err, "history fetch failed")
		for _, rec := range records {
			fmt.Printf("%s  week %-2d %-12s %s\n",
				rec.CreatedAt.Format("2006-01-02 15:04"), rec.Week, rec.Strategy, rec.Starters)
		}

	default:
		flag.Usage()
		os.Exit(2)
	}
}

// buildAggregator cablea las fuentes secundarias habilitadas.
func buildAggregator(cfg *config.Config) *advisor.Aggregator {
	if !cfg.Enrich.SleeperEnabled {
		return advisor.NewAggregator(cfg.Enrich.Workers)
	}
	return advisor.NewAggregator(cfg.Enrich.Workers,
		sleeper.New(cfg.API.SleeperBase, cfg.Enrich.Season))
}

// resolveWeek usa la semana actual de la liga cuando no se pasa -week.
func resolveWeek(ctx context.Context, svc *advisor.Service, leagueKey string, week int) int {
	if week > 0 {
		return week
	}
	lg, err := svc.League(ctx, leagueKey)
	if err != nil || lg.CurrentWeek == 0 {
		slog.Warn("could not resolve current week, defaulting to 1", "league", leagueKey)
		return 1
	}
	return lg.CurrentWeek
}

func requireLeague(key string) string {
	if key == "" {
		slog.Error("missing -league flag")
		os.Exit(2)
	}
	return key
}

func exitOn(err error, msg string) {
	if err != nil {
		slog.Error(msg, "err", err)
		os.Exit(1)
	}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		slog.Error("marshal output", "err", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
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
