// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists pipeline runs to a local SQLite database so a
// session's results survive the process.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/vo-explorer/internal/pipeline"
	"github.com/pdiddy/vo-explorer/pkg/types"
)

const dbFile = "vo-explorer.db"

// DefaultDir is the archive location when none is configured.
const DefaultDir = "archive"

// Store manages the results database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the archive database at cfg.Dir/vo-explorer.db,
// creating the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			cluster TEXT NOT NULL,
			started TEXT NOT NULL,
			candidates INTEGER NOT NULL,
			matched INTEGER NOT NULL,
			resolved INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS stars (
			run_id TEXT NOT NULL REFERENCES runs(id),
			main_id TEXT NOT NULL,
			gaia_id TEXT NOT NULL,
			source_id INTEGER NOT NULL,
			ra REAL,
			dec REAL,
			g_mag REAL,
			parallax REAL,
			variable_flag TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			run_id TEXT NOT NULL REFERENCES runs(id),
			source_id INTEGER NOT NULL,
			description TEXT,
			url TEXT,
			rows INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stars_run_id ON stars(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_run_id ON products(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun records one pipeline run and returns its generated identifier.
func (s *Store) SaveRun(ctx context.Context, cluster string, result *pipeline.Result) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	runID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, cluster, started, candidates, matched, resolved, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, cluster, time.Now().UTC().Format(time.RFC3339),
		len(result.Candidates), len(result.Matched),
		result.Summary.Resolved, result.Summary.Failed,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	starStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO stars (run_id, main_id, gaia_id, source_id, ra, dec, g_mag, parallax, variable_flag)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing star insert: %w", err)
	}
	defer starStmt.Close()

	for _, m := range result.Matched {
		_, err := starStmt.ExecContext(ctx,
			runID, m.MainID, m.GaiaID, m.SourceID,
			m.RA, m.Dec, m.GMag, m.Parallax, m.VariableFlag)
		if err != nil {
			return "", fmt.Errorf("inserting star %s: %w", m.GaiaID, err)
		}
	}

	prodStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO products (run_id, source_id, description, url, rows)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing product insert: %w", err)
	}
	defer prodStmt.Close()

	for i, oc := range result.Outcomes {
		if oc.Err != nil || i >= len(result.Matched) {
			continue
		}
		sourceID := result.Matched[i].SourceID
		for j, link := range oc.Result.Links {
			rows := 0
			if j < len(oc.Result.Tables) && oc.Result.Tables[j] != nil {
				rows = oc.Result.Tables[j].NumRows()
			}
			_, err := prodStmt.ExecContext(ctx,
				runID, sourceID, link.Description, link.AccessURL, rows)
			if err != nil {
				return "", fmt.Errorf("inserting product for %d: %w", sourceID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID         string
	Cluster    string
	Started    time.Time
	Candidates int
	Matched    int
	Resolved   int
	Failed     int
}

// ListRuns returns stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, cluster, started, candidates, matched, resolved, failed
		   FROM runs ORDER BY started DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var started string
		if err := rows.Scan(&r.ID, &r.Cluster, &started,
			&r.Candidates, &r.Matched, &r.Resolved, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Started, _ = time.Parse(time.RFC3339, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// StarRow is one matched record as stored.
type StarRow struct {
	MainID       string
	GaiaID       string
	SourceID     int64
	RA           float64
	Dec          float64
	GMag         float64
	Parallax     float64
	VariableFlag string
}

// ProductRow is one resolved ancillary product as stored.
type ProductRow struct {
	SourceID    int64
	Description string
	URL         string
	Rows        int
}

// RunDetail is a run with its stars and products.
type RunDetail struct {
	RunSummary
	Stars    []StarRow
	Products []ProductRow
}

// ShowRun loads one run by identifier, accepting an unambiguous prefix.
func (s *Store) ShowRun(ctx context.Context, id string) (*RunDetail, error) {
	var d RunDetail
	var started string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, cluster, started, candidates, matched, resolved, failed
		   FROM runs WHERE id = ? OR id LIKE ? || '%'`, id, id).
		Scan(&d.ID, &d.Cluster, &started,
			&d.Candidates, &d.Matched, &d.Resolved, &d.Failed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	d.Started, _ = time.Parse(time.RFC3339, started)

	stars, err := s.db.QueryContext(ctx,
		`SELECT main_id, gaia_id, source_id, ra, dec, g_mag, parallax, variable_flag
		   FROM stars WHERE run_id = ?`, d.ID)
	if err != nil {
		return nil, fmt.Errorf("querying stars: %w", err)
	}
	defer stars.Close()
	for stars.Next() {
		var st StarRow
		if err := stars.Scan(&st.MainID, &st.GaiaID, &st.SourceID,
			&st.RA, &st.Dec, &st.GMag, &st.Parallax, &st.VariableFlag); err != nil {
			return nil, fmt.Errorf("scanning star: %w", err)
		}
		d.Stars = append(d.Stars, st)
	}
	if err := stars.Err(); err != nil {
		return nil, err
	}

	products, err := s.db.QueryContext(ctx,
		`SELECT source_id, description, url, rows
		   FROM products WHERE run_id = ?`, d.ID)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer products.Close()
	for products.Next() {
		var p ProductRow
		if err := products.Scan(&p.SourceID, &p.Description, &p.URL, &p.Rows); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		d.Products = append(d.Products, p)
	}
	return &d, products.Err()
}
