package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/CityFriends/truebid-calculator-sub000/internal/db"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
)

type SQLiteRequirementRepo struct {
	db db.DBTX
}

func NewSQLiteRequirementRepo(conn db.DBTX) *SQLiteRequirementRepo {
	return &SQLiteRequirementRepo{db: conn}
}

const requirementColumns = `id, reference_number, title, description, type, category, source`

func (r *SQLiteRequirementRepo) Create(ctx context.Context, proposalID string, req *domain.Requirement) error {
	typ := req.Type
	if typ == "" {
		typ = domain.RequirementShall
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO requirements (proposal_id, `+requirementColumns+`, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM requirements WHERE proposal_id = ?), ?)`,
		proposalID, req.ID, req.ReferenceNumber, req.Title, req.Description, string(typ), req.Category, req.Source,
		proposalID, formatTime(time.Now()))
	if err != nil {
		return wrapWriteErr("inserting requirement", err)
	}
	return nil
}

func (r *SQLiteRequirementRepo) GetByID(ctx context.Context, proposalID, id string) (*domain.Requirement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+requirementColumns+` FROM requirements WHERE proposal_id = ? AND id = ?`, proposalID, id)
	req, err := scanRequirement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("requirement %s: %w", id, ErrNotFound)
	}
	return req, err
}

func (r *SQLiteRequirementRepo) ListByProposal(ctx context.Context, proposalID string) ([]domain.Requirement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+requirementColumns+` FROM requirements WHERE proposal_id = ? ORDER BY position, id`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("listing requirements: %w", err)
	}
	defer rows.Close()

	reqs := []domain.Requirement{}
	for rows.Next() {
		req, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating requirements: %w", err)
	}
	return reqs, nil
}

func (r *SQLiteRequirementRepo) Delete(ctx context.Context, proposalID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM requirements WHERE proposal_id = ? AND id = ?`, proposalID, id)
	if err != nil {
		return fmt.Errorf("deleting requirement: %w", err)
	}
	n, _ := res.RowsAffected()
	return rowsAffectedOrNotFound("requirement "+id, n)
}

func scanRequirement(s scanner) (*domain.Requirement, error) {
	var req domain.Requirement
	var typ string
	err := s.Scan(&req.ID, &req.ReferenceNumber, &req.Title, &req.Description, &typ, &req.Category, &req.Source)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning requirement: %w", err)
	}
	req.Type = domain.RequirementType(typ)
	return &req, nil
}
