package advisor

// service.go — orquestación del pipeline de consejo.
//
// El servicio compone provider primario, agregador de señales, scoring y
// asignación. El recorder es opcional: su fallo se loguea y nunca bloquea una
// recomendación.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/alejandrodnm/rosterbot/internal/domain"
	"github.com/alejandrodnm/rosterbot/internal/domain/strategy"
	"github.com/alejandrodnm/rosterbot/internal/ports"
)

// ErrDraftDisabled se devuelve cuando se pide una recomendación de draft con
// la feature desactivada por configuración.
var ErrDraftDisabled = errors.New("advisor: draft recommendations are disabled")

// candidatos que se traen del waiver wire para una recomendación de draft.
const draftPoolSize = 50

// Service expone las operaciones de consejo sobre una liga.
type Service struct {
	provider ports.LeagueProvider
	agg      *Aggregator
	recorder ports.Recorder // nil = histórico desactivado
	slots    []domain.RosterSlot

	draftEnabled bool

	// Descubrimiento de ligas memoizado por proceso: el set de ligas del
	// usuario no cambia a mitad de sesión.
	mu      sync.Mutex
	leagues map[string]domain.League
}

// Option configura el servicio.
type Option func(*Service)

// WithRecorder activa el histórico de recomendaciones.
func WithRecorder(r ports.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithSlots reemplaza la configuración estándar de slots.
func WithSlots(slots []domain.RosterSlot) Option {
	return func(s *Service) { s.slots = slots }
}

// WithDraft habilita las recomendaciones de draft.
func WithDraft(enabled bool) Option {
	return func(s *Service) { s.draftEnabled = enabled }
}

// NewService crea el servicio de consejo.
func NewService(provider ports.LeagueProvider, agg *Aggregator, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		agg:      agg,
		slots:    domain.DefaultSlots(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Leagues devuelve las ligas del usuario, descubriéndolas la primera vez.
func (s *Service) Leagues(ctx context.Context) ([]domain.League, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.discoverLocked(ctx); err != nil {
		return nil, err
	}

	out := make([]domain.League, 0, len(s.leagues))
	for _, lg := range s.leagues {
		out = append(out, lg)
	}
	sortLeagues(out)
	return out, nil
}

// League devuelve la info de una liga descubierta.
func (s *Service) League(ctx context.Context, leagueKey string) (domain.League, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.discoverLocked(ctx); err != nil {
		return domain.League{}, err
	}

	lg, ok := s.leagues[leagueKey]
	if !ok {
		return domain.League{}, fmt.Errorf("advisor: league %s not found for this login", leagueKey)
	}
	return lg, nil
}

func (s *Service) discoverLocked(ctx context.Context) error {
	if s.leagues != nil {
		return nil
	}

	found, err := s.provider.Leagues(ctx)
	if err != nil {
		return fmt.Errorf("discover leagues: %w", err)
	}

	s.leagues = make(map[string]domain.League, len(found))
	for _, lg := range found {
		s.leagues[lg.Key] = lg
	}
	slog.Info("leagues discovered", "count", len(s.leagues))
	return nil
}

// MyTeam localiza el equipo del usuario en la liga.
func (s *Service) MyTeam(ctx context.Context, leagueKey string) (domain.TeamInfo, error) {
	return s.provider.MyTeam(ctx, leagueKey)
}

// Roster devuelve el roster del equipo del usuario en la liga.
func (s *Service) Roster(ctx context.Context, leagueKey string) ([]domain.Player, error) {
	team, err := s.provider.MyTeam(ctx, leagueKey)
	if err != nil {
		return nil, err
	}
	return s.provider.Roster(ctx, team.Key)
}

// Standings devuelve la clasificación de la liga, siempre datos reales.
func (s *Service) Standings(ctx context.Context, leagueKey string) ([]domain.TeamRecord, error) {
	return s.provider.Standings(ctx, leagueKey)
}

// AllTeams lista los equipos de la liga.
func (s *Service) AllTeams(ctx context.Context, leagueKey string) ([]domain.TeamInfo, error) {
	return s.provider.AllTeams(ctx, leagueKey)
}

// WaiverWire lista agentes libres según el filtro.
func (s *Service) WaiverWire(ctx context.Context, leagueKey string, f domain.PlayerFilter) ([]domain.Player, error) {
	f.FreeAgentsOnly = true
	return s.provider.Players(ctx, leagueKey, f)
}

// DraftRankings devuelve el ranking pre-draft con ADP.
func (s *Service) DraftRankings(ctx context.Context, leagueKey string, f domain.PlayerFilter) ([]domain.DraftRanking, error) {
	return s.provider.DraftRankings(ctx, leagueKey, f)
}

// OptimalLineup ejecuta el pipeline completo para una semana:
// roster → enriquecimiento → scoring → asignación de slots.
//
// Si ninguna fuente secundaria aportó señales, el lineup se calcula igual en
// modo primario y se deja constancia en el log.
func (s *Service) OptimalLineup(ctx context.Context, leagueKey string, week int, strategyName string) (domain.LineupResult, error) {
	strat, err := strategy.ForName(strategyName)
	if err != nil {
		return domain.LineupResult{}, err
	}

	roster, err := s.Roster(ctx, leagueKey)
	if err != nil {
		return domain.LineupResult{}, fmt.Errorf("optimal lineup: %w", err)
	}

	scored, err := s.enrichAndScore(ctx, week, roster, strat)
	if err != nil {
		return domain.LineupResult{}, err
	}

	result := Optimize(scored, s.slots, strat)

	if s.recorder != nil {
		if err := s.recorder.SaveLineup(ctx, leagueKey, week, result); err != nil {
			slog.Warn("lineup history not recorded", "league", leagueKey, "err", err)
		}
	}
	return result, nil
}

// DraftRecommendation puntúa el pool de agentes libres y lo repondera por la
// escasez posicional del roster actual. Requiere la feature activada.
func (s *Service) DraftRecommendation(ctx context.Context, leagueKey string, week int, strategyName string, n int) ([]domain.ScoredPlayer, error) {
	if !s.draftEnabled {
		return nil, ErrDraftDisabled
	}

	strat, err := strategy.ForName(strategyName)
	if err != nil {
		return nil, err
	}

	roster, err := s.Roster(ctx, leagueKey)
	if err != nil {
		// Sin equipo todavía (pre-draft) se recomienda sobre roster vacío.
		var noTeam interface{ MissingTeam() bool }
		if !errors.As(err, &noTeam) {
			return nil, fmt.Errorf("draft recommendation: %w", err)
		}
		roster = nil
	}

	available, err := s.provider.Players(ctx, leagueKey, domain.PlayerFilter{
		Sort:           domain.SortRank,
		Count:          draftPoolSize,
		FreeAgentsOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("draft recommendation: %w", err)
	}

	scored, err := s.enrichAndScore(ctx, week, available, strat)
	if err != nil {
		return nil, err
	}

	picks := Recommend(scored, roster, n)

	if s.recorder != nil {
		if err := s.recorder.SaveDraftPicks(ctx, leagueKey, strat.Name, picks); err != nil {
			slog.Warn("draft history not recorded", "league", leagueKey, "err", err)
		}
	}
	return picks, nil
}

// enrichAndScore aplica el agregador y el scoring. La falta total de señales
// degrada a modo primario; cualquier otro error aborta.
func (s *Service) enrichAndScore(ctx context.Context, week int, players []domain.Player, strat strategy.Strategy) ([]domain.ScoredPlayer, error) {
	enriched, err := s.agg.Enrich(ctx, week, players)
	if err != nil {
		var insufficient *domain.InsufficientDataError
		if !errors.As(err, &insufficient) {
			return nil, fmt.Errorf("enrich roster: %w", err)
		}
		slog.Warn("no external signals, scoring on primary data only", "week", week)
	}
	return domain.ScoreAll(enriched, strat), nil
}

// sortLeagues ordena por temporada descendente y nombre para un listado
// estable.
func sortLeagues(leagues []domain.League) {
	sort.Slice(leagues, func(i, j int) bool {
		if leagues[i].Season != leagues[j].Season {
			return leagues[i].Season > leagues[j].Season
		}
		return leagues[i].Name < leagues[j].Name
	})
}
