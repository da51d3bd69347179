package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// timeLayout matches the runs table so both sort the same way.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #region log-compare
// LogCompare writes an audit entry to the compare_log table.
func LogCompare(db *sql.DB, entry CompareEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO compare_log (run_id, prompt_hash, trigger_type, outcome, flags_json, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(entry.RunID),
		nullIfEmpty(entry.PromptHash),
		entry.TriggerType,
		string(entry.Outcome),
		nullIfEmpty(entry.FlagsJSON),
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("log compare: %w", err)
	}
	return nil
}

// #endregion log-compare

// #region outcome-counts
// CountOutcomes returns how many attempts ended in each outcome, ordered by
// outcome name.
func CountOutcomes(db *sql.DB) ([]OutcomeCount, error) {
	rows, err := db.Query(`SELECT outcome, COUNT(*) FROM compare_log GROUP BY outcome ORDER BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("count outcomes: %w", err)
	}
	defer rows.Close()

	var out []OutcomeCount
	for rows.Next() {
		var oc OutcomeCount
		if err := rows.Scan(&oc.Outcome, &oc.Count); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, oc)
	}
	return out, rows.Err()
}

// #endregion outcome-counts

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
