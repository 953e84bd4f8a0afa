package record

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"terra-ca/internal/sims/terrain"
)

// RunStore keeps run registrations and per-step metric rows in SQLite, so a
// parameter sweep can be queried afterwards without parsing log files.
type RunStore struct {
	db *sql.DB
}

const runSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at  TEXT NOT NULL,
	seed        INTEGER NOT NULL,
	width       INTEGER NOT NULL,
	height      INTEGER NOT NULL,
	cell_size   REAL NOT NULL,
	wind_model  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS step_metrics (
	run_id       INTEGER NOT NULL REFERENCES runs(id),
	step         INTEGER NOT NULL,
	mean_height  REAL NOT NULL,
	rock_volume  REAL NOT NULL,
	sand_volume  REAL NOT NULL,
	humus_volume REAL NOT NULL,
	water_total  REAL NOT NULL,
	tree_cover   REAL NOT NULL,
	bush_cover   REAL NOT NULL,
	grass_cover  REAL NOT NULL,
	sand_lost    REAL NOT NULL,
	PRIMARY KEY (run_id, step)
);`

// OpenRunStore opens (creating if necessary) the database at path.
func OpenRunStore(path string) (*RunStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(runSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &RunStore{db: db}, nil
}

// BeginRun registers a new run and returns its id.
func (s *RunStore) BeginRun(cfg terrain.Config) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (started_at, seed, width, height, cell_size, wind_model)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		cfg.Seed, cfg.Width, cfg.Height, cfg.CellSize, string(cfg.WindModel),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordMetrics inserts one step's aggregates for the given run.
func (s *RunStore) RecordMetrics(runID int64, m terrain.Metrics) error {
	_, err := s.db.Exec(
		`INSERT INTO step_metrics
		 (run_id, step, mean_height, rock_volume, sand_volume, humus_volume,
		  water_total, tree_cover, bush_cover, grass_cover, sand_lost)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, m.Step, m.MeanHeight, m.RockVolume, m.SandVolume, m.HumusVolume,
		m.WaterTotal, m.TreeCover, m.BushCover, m.GrassCover, m.SandLost,
	)
	return err
}

// MetricsCount reports how many metric rows a run has recorded.
func (s *RunStore) MetricsCount(runID int64) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM step_metrics WHERE run_id = ?`, runID,
	).Scan(&n)
	return n, err
}

// Close releases the database handle.
func (s *RunStore) Close() error {
	return s.db.Close()
}
