package storage

// sqlite.go — histórico ligero de recomendaciones emitidas.
//
// Estrategia:
//   - `lineups`: una fila por optimización con los titulares serializados.
//   - `draft_picks`: una fila por pick recomendado, agrupadas por run_id.
//   - Prune automático al arrancar: todo lo anterior a 90 días.
//
// El pipeline nunca lee de aquí para decidir: es un registro de auditoría
// para comparar recomendaciones pasadas con resultados reales.

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/alejandrodnm/rosterbot/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS lineups (
    id          TEXT PRIMARY KEY,
    league_key  TEXT    NOT NULL,
    week        INTEGER NOT NULL,
    strategy    TEXT    NOT NULL,
    starters    TEXT    NOT NULL,
    bench_count INTEGER NOT NULL DEFAULT 0,
    notes       INTEGER NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS draft_picks (
    run_id      TEXT    NOT NULL,
    league_key  TEXT    NOT NULL,
    strategy    TEXT    NOT NULL,
    pick_order  INTEGER NOT NULL,
    player_id   TEXT    NOT NULL,
    player_name TEXT    NOT NULL,
    position    TEXT,
    composite   REAL    NOT NULL DEFAULT 0,
    tier        TEXT,
    created_at  DATETIME NOT NULL,
    PRIMARY KEY (run_id, pick_order)
);

CREATE INDEX IF NOT EXISTS idx_lineups_league ON lineups(league_key, week);
CREATE INDEX IF NOT EXISTS idx_lineups_at     ON lineups(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_picks_league   ON draft_picks(league_key);
`

// retención del histórico: una temporada y media de margen.
const retention = 90 * 24 * time.Hour

// Recorder implementa ports.Recorder sobre SQLite (pure Go, sin CGo).
type Recorder struct {
	db *sql.DB
}

// LineupRecord es una fila del histórico de lineups.
type LineupRecord struct {
	ID        string
	LeagueKey string
	Week      int
	Strategy  string
	Starters  string
	CreatedAt time.Time
}

// NewRecorder abre (o crea) la base de datos en la ruta dada, aplica el
// schema y limpia entradas antiguas.
func NewRecorder(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewRecorder: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewRecorder: apply schema: %w", err)
	}

	r := &Recorder{db: db}
	r.pruneOld(context.Background())
	return r, nil
}

// SaveLineup registra el resumen de una optimización.
func (r *Recorder) SaveLineup(ctx context.Context, leagueKey string, week int, result domain.LineupResult) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO lineups (id, league_key, week, strategy, starters, bench_count, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(),
		leagueKey,
		week,
		result.Strategy,
		serializeStarters(result.Starters),
		len(result.Bench),
		len(result.Recommendations),
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("storage.SaveLineup: insert: %w", err)
	}
	return nil
}

// SaveDraftPicks registra las recomendaciones de un run de draft.
func (r *Recorder) SaveDraftPicks(ctx context.Context, leagueKey string, strategy string, picks []domain.ScoredPlayer) error {
	if len(picks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveDraftPicks: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO draft_picks
			(run_id, league_key, strategy, pick_order, player_id, player_name,
			 position, composite, tier, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveDraftPicks: prepare: %w", err)
	}
	defer stmt.Close()

	runID := uuid.New().String()
	now := time.Now().UTC()
	for i, p := range picks {
		if _, err := stmt.ExecContext(ctx,
			runID,
			leagueKey,
			strategy,
			i+1,
			p.ID,
			p.Name,
			p.PrimaryPosition(),
			p.Composite,
			string(p.Tier),
			now,
		); err != nil {
			return fmt.Errorf("storage.SaveDraftPicks: insert pick %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveDraftPicks: commit: %w", err)
	}
	return nil
}

// LineupHistory devuelve los últimos lineups registrados para una liga,
// el más reciente primero.
func (r *Recorder) LineupHistory(ctx context.Context, leagueKey string, limit int) ([]LineupRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, league_key, week, strategy, starters, created_at
		FROM lineups
		WHERE league_key = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, leagueKey, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.LineupHistory: query: %w", err)
	}
	defer rows.Close()

	var records []LineupRecord
	for rows.Next() {
		var rec LineupRecord
		if err := rows.Scan(&rec.ID, &rec.LeagueKey, &rec.Week, &rec.Strategy, &rec.Starters, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage.LineupHistory: scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close cierra la base de datos.
func (r *Recorder) Close() error {
	return r.db.Close()
}

// pruneOld borra el histórico más viejo que la retención. Los errores se
// ignoran: prune es mantenimiento, no funcionalidad.
func (r *Recorder) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retention)
	r.db.ExecContext(ctx, `DELETE FROM lineups WHERE created_at < ?`, cutoff)
	r.db.ExecContext(ctx, `DELETE FROM draft_picks WHERE created_at < ?`, cutoff)
}

// serializeStarters aplana los titulares a "SLOT:Nombre(score)" en orden de
// label para que la fila sea comparable entre runs.
func serializeStarters(starters map[string]domain.ScoredPlayer) string {
	labels := make([]string, 0, len(starters))
	for label := range starters {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		p := starters[label]
		parts = append(parts, fmt.Sprintf("%s:%s(%.2f)", label, p.Name, p.Composite))
	}
	return strings.Join(parts, "|")
}
