// Package store persists analysis summaries in a results table backed by
// SQLite or PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/lickcalc/internal/licks"
)

// ErrNotFound is returned by Get when no record has the requested ID
var ErrNotFound = errors.New("result not found")

// Supported backends
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// DefaultSQLitePath is used when the sqlite backend has no DSN
const DefaultSQLitePath = "lickcalc.db"

// Record is one row of the results table: the summary of a session or of
// one epoch of it
type Record struct {
	ID        uuid.UUID
	CreatedAt time.Time
	AnimalID  string
	Source    string
	Epoch     string // empty for a whole session

	Params  licks.Params
	Stats   licks.SegmentStats
	Weibull licks.WeibullFit

	MeanInterburstInterval float64
}

// NewRecord builds a record from an analysis result
func NewRecord(animalID, source, epoch string, a *licks.Analysis) Record {
	return Record{
		AnimalID:               animalID,
		Source:                 source,
		Epoch:                  epoch,
		Params:                 a.Params,
		Stats:                  a.Stats,
		Weibull:                a.Weibull,
		MeanInterburstInterval: a.MeanInterburstInterval,
	}
}

// Store is a results table in a SQL database
type Store struct {
	db      *sql.DB
	backend string
	logger  *zap.SugaredLogger
}

// Open connects to the results database. backend is "sqlite" or "postgres";
// an empty sqlite DSN means DefaultSQLitePath.
func Open(ctx context.Context, backend, dsn string, logger *zap.SugaredLogger) (*Store, error) {
	backend = strings.ToLower(backend)
	switch backend {
	case BackendSQLite:
		if dsn == "" {
			dsn = DefaultSQLitePath
		}
	case BackendPostgres:
		if dsn == "" {
			return nil, errors.New("postgres backend requires a connection string")
		}
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend)
	}

	db, err := sql.Open(backend, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == BackendSQLite {
		// SQLite serializes writers
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", backend, err)
	}

	logger.Infof("results table opened (%s)", backend)
	return &Store{db: db, backend: backend, logger: logger}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

const createResultsTable = `
CREATE TABLE IF NOT EXISTS lick_results (
	id                    TEXT PRIMARY KEY,
	created_at            TIMESTAMP NOT NULL,
	animal_id             TEXT NOT NULL,
	source                TEXT NOT NULL,
	epoch                 TEXT NOT NULL,
	burst_ili_threshold   DOUBLE PRECISION NOT NULL,
	cluster_ili_threshold DOUBLE PRECISION NOT NULL,
	min_licks_per_burst   INTEGER NOT NULL,
	long_lick_threshold   DOUBLE PRECISION NOT NULL,
	remove_long_licks     BOOLEAN NOT NULL,
	min_bursts_weibull    INTEGER NOT NULL,
	total_licks           INTEGER NOT NULL,
	n_bursts              INTEGER NOT NULL,
	mean_licks_per_burst  DOUBLE PRECISION,
	intraburst_freq       DOUBLE PRECISION,
	n_long_licks          INTEGER,
	max_lick_duration     DOUBLE PRECISION,
	weibull_alpha         DOUBLE PRECISION,
	weibull_beta          DOUBLE PRECISION,
	weibull_rsq           DOUBLE PRECISION,
	mean_ibi              DOUBLE PRECISION
)`

const createResultsIndex = `CREATE INDEX IF NOT EXISTS lick_results_created_at ON lick_results (created_at)`

// Migrate creates the results table if it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range []string{createResultsTable, createResultsIndex} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate results table: %w", err)
		}
	}
	return nil
}

const resultColumns = `id, created_at, animal_id, source, epoch,
	burst_ili_threshold, cluster_ili_threshold, min_licks_per_burst, long_lick_threshold, remove_long_licks, min_bursts_weibull,
	total_licks, n_bursts, mean_licks_per_burst, intraburst_freq, n_long_licks, max_lick_duration,
	weibull_alpha, weibull_beta, weibull_rsq, mean_ibi`

// Save inserts one record and returns its new ID
func (s *Store) Save(ctx context.Context, r Record) (uuid.UUID, error) {
	ids, err := s.SaveAll(ctx, []Record{r})
	if err != nil {
		return uuid.Nil, err
	}
	return ids[0], nil
}

// SaveAll inserts records in one transaction, so a session and its epochs are
// stored together or not at all
func (s *Store) SaveAll(ctx context.Context, records []Record) ([]uuid.UUID, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := s.rebind(`INSERT INTO lick_results (` + resultColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	now := time.Now().UTC()
	ids := make([]uuid.UUID, len(records))
	for i, r := range records {
		ids[i] = uuid.New()

		var longCount sql.NullInt64
		maxDuration := sql.NullFloat64{}
		if r.Stats.LongLicks != nil {
			longCount = sql.NullInt64{Int64: int64(r.Stats.LongLicks.Count), Valid: true}
			maxDuration = nullFloat64(r.Stats.LongLicks.MaxDuration)
		}

		_, err := tx.ExecContext(ctx, query,
			ids[i].String(), now, r.AnimalID, r.Source, r.Epoch,
			r.Params.BurstILIThreshold, r.Params.ClusterILIThreshold, r.Params.MinLicksPerBurst,
			r.Params.LongLickThreshold, r.Params.LongLickRemoval, r.Params.MinBurstsForWeibull,
			r.Stats.TotalLicks, r.Stats.BurstCount,
			nullFloat64(r.Stats.MeanLicksPerBurst), nullFloat64(r.Stats.IntraburstFrequency),
			longCount, maxDuration,
			nullFloat64(r.Weibull.Alpha), nullFloat64(r.Weibull.Beta), nullFloat64(r.Weibull.RSquared),
			nullFloat64(r.MeanInterburstInterval),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit results: %w", err)
	}
	s.logger.Debugw("saved results", "count", len(records))
	return ids, nil
}

// Get returns the record with the given ID
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+resultColumns+` FROM lick_results WHERE id = ?`), id.String())
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to get result %s: %w", id, err)
	}
	return r, nil
}

// List returns up to limit records, newest first
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT `+resultColumns+` FROM lick_results ORDER BY created_at DESC, id LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var r Record
	var id string
	var mean, freq, maxDuration, alpha, beta, rsq, ibi sql.NullFloat64
	var longCount sql.NullInt64

	err := row.Scan(
		&id, &r.CreatedAt, &r.AnimalID, &r.Source, &r.Epoch,
		&r.Params.BurstILIThreshold, &r.Params.ClusterILIThreshold, &r.Params.MinLicksPerBurst,
		&r.Params.LongLickThreshold, &r.Params.LongLickRemoval, &r.Params.MinBurstsForWeibull,
		&r.Stats.TotalLicks, &r.Stats.BurstCount, &mean, &freq, &longCount, &maxDuration,
		&alpha, &beta, &rsq, &ibi,
	)
	if err != nil {
		return Record{}, err
	}

	if r.ID, err = uuid.Parse(id); err != nil {
		return Record{}, fmt.Errorf("invalid result id %q: %w", id, err)
	}
	r.Stats.MeanLicksPerBurst = floatOrNaN(mean)
	r.Stats.IntraburstFrequency = floatOrNaN(freq)
	if longCount.Valid {
		r.Stats.LongLicks = &licks.LongLickStats{Count: int(longCount.Int64), MaxDuration: floatOrNaN(maxDuration)}
	}
	r.Weibull = licks.WeibullFit{Alpha: floatOrNaN(alpha), Beta: floatOrNaN(beta), RSquared: floatOrNaN(rsq)}
	r.MeanInterburstInterval = floatOrNaN(ibi)
	return r, nil
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL
func (s *Store) rebind(query string) string {
	if s.backend != BackendPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func nullFloat64(f float64) sql.NullFloat64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func floatOrNaN(f sql.NullFloat64) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64
}
