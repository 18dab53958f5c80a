// Package storage keeps orbit runs on disk: one directory per run holding the
// sampled states as CSV, and a SQLite catalog of run metadata.
package storage

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/san-kum/spiralarms/internal/dynamo"
)

// ErrNotFound is returned for run ids missing from the catalog.
var ErrNotFound = errors.New("storage: run not found")

const (
	catalogFile = "catalog.db"
	statesFile  = "states.csv"
)

type Store struct {
	baseDir string
	db      *sqlx.DB
	logger  *slog.Logger
}

// Open creates baseDir if needed and opens its catalog.
func Open(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	dsn := "file:" + filepath.Join(baseDir, catalogFile) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	s := &Store{baseDir: baseDir, db: db, logger: slog.Default()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_unix INTEGER NOT NULL,
		integrator TEXT NOT NULL,
		dt REAL NOT NULL,
		duration REAL NOT NULL,
		orbits INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		drift REAL NOT NULL,
		metrics_json TEXT NOT NULL,
		config_yaml TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_unix);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RunInfo describes a run being saved.
type RunInfo struct {
	Name       string
	Integrator string
	Dt         float64
	Duration   float64
	// Config is stored as YAML alongside the run for reproduction.
	Config any
}

// Run is a catalog row.
type Run struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	CreatedUnix int64   `db:"created_unix"`
	Integrator  string  `db:"integrator"`
	Dt          float64 `db:"dt"`
	Duration    float64 `db:"duration"`
	Orbits      int     `db:"orbits"`
	Steps       int     `db:"steps"`
	Drift       float64 `db:"drift"`
	MetricsJSON string  `db:"metrics_json"`
	ConfigYAML  string  `db:"config_yaml"`
}

func (r *Run) Created() time.Time { return time.Unix(r.CreatedUnix, 0) }

// Metrics decodes the per-orbit metric maps.
func (r *Run) Metrics() ([]map[string]float64, error) {
	var m []map[string]float64
	if err := json.Unmarshal([]byte(r.MetricsJSON), &m); err != nil {
		return nil, fmt.Errorf("run %s metrics: %w", r.ID, err)
	}
	return m, nil
}

// Save writes the states of every orbit and catalogs the run.
func (s *Store) Save(info RunInfo, results []*dynamo.Result) (string, error) {
	id := uuid.NewString()
	runDir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeStates(filepath.Join(runDir, statesFile), results); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("write states: %w", err)
	}

	metrics := make([]map[string]float64, len(results))
	steps, drift := 0, 0.0
	for i, r := range results {
		metrics[i] = r.Metrics
		steps += r.StepsTaken
		drift = max(drift, r.Drift)
	}
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("encode metrics: %w", err)
	}
	configYAML := []byte{}
	if info.Config != nil {
		if configYAML, err = yaml.Marshal(info.Config); err != nil {
			os.RemoveAll(runDir)
			return "", fmt.Errorf("encode config: %w", err)
		}
	}

	run := Run{
		ID:          id,
		Name:        info.Name,
		CreatedUnix: time.Now().Unix(),
		Integrator:  info.Integrator,
		Dt:          info.Dt,
		Duration:    info.Duration,
		Orbits:      len(results),
		Steps:       steps,
		Drift:       drift,
		MetricsJSON: string(metricsJSON),
		ConfigYAML:  string(configYAML),
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExec(`INSERT INTO runs
		(id, name, created_unix, integrator, dt, duration, orbits, steps, drift, metrics_json, config_yaml)
		VALUES (:id, :name, :created_unix, :integrator, :dt, :duration, :orbits, :steps, :drift, :metrics_json, :config_yaml)`,
		&run); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("catalog run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}

	s.logger.Info("run saved", "id", id, "name", info.Name, "orbits", len(results), "steps", steps)
	return id, nil
}

// List returns all runs, newest first.
func (s *Store) List() ([]Run, error) {
	var runs []Run
	err := s.db.Select(&runs, "SELECT * FROM runs ORDER BY created_unix DESC, rowid DESC")
	if err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *Store) Load(id string) (*Run, error) {
	var run Run
	err := s.db.Get(&run, "SELECT * FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Delete removes a run from the catalog and disk.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return os.RemoveAll(filepath.Join(s.baseDir, id))
}

// Trajectory is one orbit read back from a run.
type Trajectory struct {
	Times  []float64
	States []dynamo.State
}

// LoadStates reads every orbit of a run, in the order they were saved.
func (s *Store) LoadStates(id string) ([]Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, statesFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readStates(file)
}

func writeStates(path string, results []*dynamo.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := []string{"orbit", "time"}
	if len(results) > 0 && len(results[0].States) > 0 {
		for i := range results[0].States[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for k, r := range results {
		orbit := strconv.Itoa(k)
		for i, state := range r.States {
			row := make([]string, 0, len(state)+2)
			row = append(row, orbit, strconv.FormatFloat(r.Times[i], 'g', -1, 64))
			for _, v := range state {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Close()
}

func readStates(r io.Reader) ([]Trajectory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var out []Trajectory
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: want orbit and time columns", line)
		}

		k, err := strconv.Atoi(record[0])
		if err != nil || k < 0 {
			return nil, fmt.Errorf("line %d: bad orbit index %q", line, record[0])
		}
		for len(out) <= k {
			out = append(out, Trajectory{})
		}

		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		state := make(dynamo.State, len(record)-2)
		for j, field := range record[2:] {
			if state[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}

		out[k].Times = append(out[k].Times, t)
		out[k].States = append(out[k].States, state)
	}
	return out, nil
}
