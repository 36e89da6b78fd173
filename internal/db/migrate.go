package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillWBSSequences(db); err != nil {
		return fmt.Errorf("backfilling wbs sequence high-water marks: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS proposals (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		contract_json TEXT NOT NULL DEFAULT '{}',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS roles (
		proposal_id TEXT NOT NULL REFERENCES proposals(id) ON DELETE CASCADE,
		id          TEXT NOT NULL,
		name        TEXT NOT NULL,
		category    TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		hourly_rate REAL NOT NULL DEFAULT 0 CHECK(hourly_rate >= 0),
		position    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		PRIMARY KEY (proposal_id, id)
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_roles_proposal_name ON roles(proposal_id, name)`,

	`CREATE TABLE IF NOT EXISTS requirements (
		proposal_id      TEXT NOT NULL REFERENCES proposals(id) ON DELETE CASCADE,
		id               TEXT NOT NULL,
		reference_number TEXT NOT NULL DEFAULT '',
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		type             TEXT NOT NULL DEFAULT 'shall'
		                 CHECK(type IN ('shall','should','may','will')),
		category         TEXT NOT NULL DEFAULT '',
		source           TEXT NOT NULL DEFAULT '',
		position         INTEGER NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL,
		PRIMARY KEY (proposal_id, id)
	)`,

	`CREATE TABLE IF NOT EXISTS wbs_elements (
		id                   TEXT PRIMARY KEY,
		proposal_id          TEXT NOT NULL REFERENCES proposals(id) ON DELETE CASCADE,
		wbs_number           TEXT NOT NULL,
		title                TEXT NOT NULL,
		sow_reference        TEXT NOT NULL DEFAULT '',
		why                  TEXT NOT NULL DEFAULT '',
		what                 TEXT NOT NULL DEFAULT '',
		not_included         TEXT NOT NULL DEFAULT '',
		estimate_method      TEXT NOT NULL DEFAULT 'engineering'
		                     CHECK(estimate_method IN ('engineering','analogous','parametric','level-of-effort','expert')),
		confidence           TEXT NOT NULL DEFAULT 'medium'
		                     CHECK(confidence IN ('high','medium','low')),
		total_hours          REAL NOT NULL DEFAULT 0 CHECK(total_hours >= 0),
		assumptions_json     TEXT NOT NULL DEFAULT '[]',
		labor_json           TEXT NOT NULL DEFAULT '[]',
		risks_json           TEXT NOT NULL DEFAULT '[]',
		dependencies_json    TEXT NOT NULL DEFAULT '[]',
		requirement_ids_json TEXT NOT NULL DEFAULT '[]',
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL,
		UNIQUE (proposal_id, wbs_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_wbs_elements_proposal ON wbs_elements(proposal_id)`,

	// Highest WBS number ever minted per proposal, so numbers freed by a
	// delete are never handed out again.
	`CREATE TABLE IF NOT EXISTS wbs_sequences (
		proposal_id TEXT PRIMARY KEY REFERENCES proposals(id) ON DELETE CASCADE,
		major       INTEGER NOT NULL CHECK(major >= 0),
		minor       INTEGER NOT NULL CHECK(minor >= 0)
	)`,
}

// migrateBackfillWBSSequences raises each proposal's high-water mark to the
// highest element number it holds. Marks never move down.
func migrateBackfillWBSSequences(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx, `SELECT proposal_id, wbs_number FROM wbs_elements`)
	if err != nil {
		return fmt.Errorf("listing wbs numbers: %w", err)
	}
	highest := map[string]domain.WBSNumber{}
	for rows.Next() {
		var pid, num string
		if err := rows.Scan(&pid, &num); err != nil {
			rows.Close()
			return fmt.Errorf("scanning wbs number: %w", err)
		}
		n, ok := domain.ParseWBSNumber(num)
		if !ok {
			continue
		}
		if cur, seen := highest[pid]; !seen || cur.Less(n) {
			highest[pid] = n
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for pid, n := range highest {
		if err := RaiseWBSHighWater(ctx, db, pid, n); err != nil {
			return err
		}
	}
	return nil
}

// RaiseWBSHighWater stores n as the proposal's high-water mark unless a
// higher mark is already recorded.
func RaiseWBSHighWater(ctx context.Context, tx DBTX, proposalID string, n domain.WBSNumber) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO wbs_sequences (proposal_id, major, minor) VALUES (?, ?, ?)
		ON CONFLICT(proposal_id) DO UPDATE SET
			major = CASE WHEN excluded.major > wbs_sequences.major
				OR (excluded.major = wbs_sequences.major AND excluded.minor > wbs_sequences.minor)
				THEN excluded.major ELSE wbs_sequences.major END,
			minor = CASE WHEN excluded.major > wbs_sequences.major
				OR (excluded.major = wbs_sequences.major AND excluded.minor > wbs_sequences.minor)
				THEN excluded.minor ELSE wbs_sequences.minor END`,
		proposalID, n.Major, n.Minor)
	if err != nil {
		return fmt.Errorf("raising wbs high-water mark for %s: %w", proposalID, err)
	}
	return nil
}
