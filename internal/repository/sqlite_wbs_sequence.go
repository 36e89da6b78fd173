package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CityFriends/truebid-calculator-sub000/internal/db"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
)

// SQLiteWBSSequenceRepo keeps the per-proposal WBS high-water mark in the
// wbs_sequences table.
type SQLiteWBSSequenceRepo struct {
	db db.DBTX
}

func NewSQLiteWBSSequenceRepo(conn db.DBTX) *SQLiteWBSSequenceRepo {
	return &SQLiteWBSSequenceRepo{db: conn}
}

// HighWater returns the highest number minted for the proposal. ok is false
// when nothing has been minted yet.
func (r *SQLiteWBSSequenceRepo) HighWater(ctx context.Context, proposalID string) (domain.WBSNumber, bool, error) {
	var n domain.WBSNumber
	err := r.db.QueryRowContext(ctx,
		`SELECT major, minor FROM wbs_sequences WHERE proposal_id = ?`, proposalID).Scan(&n.Major, &n.Minor)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.WBSNumber{}, false, nil
	}
	if err != nil {
		return domain.WBSNumber{}, false, fmt.Errorf("reading wbs high-water mark: %w", err)
	}
	return n, true, nil
}

// Raise records n unless a higher mark already exists. Safe to call with
// numbers below the current mark.
func (r *SQLiteWBSSequenceRepo) Raise(ctx context.Context, proposalID string, n domain.WBSNumber) error {
	return db.RaiseWBSHighWater(ctx, r.db, proposalID, n)
}
