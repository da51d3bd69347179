package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/danielpatrickdp/risk-explorer/internal/stats"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                 TEXT PRIMARY KEY,
	created_at         TEXT NOT NULL,
	prompt_hash        TEXT NOT NULL,
	prompt_len         INTEGER NOT NULL,
	model_a            TEXT NOT NULL,
	model_b            TEXT NOT NULL,
	response_a         TEXT NOT NULL,
	response_b         TEXT NOT NULL,
	disagreement_score REAL NOT NULL,
	risk_json          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_prompt_hash ON runs(prompt_hash);

CREATE TABLE IF NOT EXISTS compare_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT,
	prompt_hash  TEXT,
	trigger_type TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	flags_json   TEXT,
	reason       TEXT,
	created_at   TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(id)
);
`

// #endregion schema

// TimeLayout is RFC 3339 with fixed-width nanoseconds so stored timestamps
// sort lexically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #region store-struct
// Store persists comparison runs in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region prompt-hash
// HashPrompt returns the hex SHA-256 digest and rune length of a prompt.
func HashPrompt(prompt string) (string, int) {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:]), utf8.RuneCountInString(prompt)
}

// #endregion prompt-hash

// #region insert-run
// InsertRun persists a run, assigning an ID and creation time when unset.
func (s *Store) InsertRun(run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, created_at, prompt_hash, prompt_len, model_a, model_b,
		                   response_a, response_b, disagreement_score, risk_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(TimeLayout), run.PromptHash, run.PromptLen,
		run.ModelA, run.ModelB, run.ResponseA, run.ResponseB,
		run.DisagreementScore, run.RiskJSON,
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// #endregion insert-run

// #region get-run
const runColumns = `id, created_at, prompt_hash, prompt_len, model_a, model_b,
	response_a, response_b, disagreement_score, risk_json`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var rec Run
	var createdStr string
	err := row.Scan(&rec.ID, &createdStr, &rec.PromptHash, &rec.PromptLen,
		&rec.ModelA, &rec.ModelB, &rec.ResponseA, &rec.ResponseB,
		&rec.DisagreementScore, &rec.RiskJSON)
	if err != nil {
		return Run{}, err
	}
	rec.CreatedAt, _ = time.Parse(TimeLayout, createdStr)
	return rec, nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (Run, error) {
	rec, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return rec, nil
}

// #endregion get-run

// #region list-runs
// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

// #endregion list-runs

// #region list-scores
// ListScores reads every run's score and payload in one statement, so the
// result is a consistent snapshot for aggregation.
func (s *Store) ListScores() ([]stats.Record, error) {
	rows, err := s.db.Query(`SELECT disagreement_score, risk_json FROM runs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var records []stats.Record
	for rows.Next() {
		var rec stats.Record
		if err := rows.Scan(&rec.DisagreementScore, &rec.FlagsPayload); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountRuns returns the number of stored runs.
func (s *Store) CountRuns() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// #endregion list-scores
