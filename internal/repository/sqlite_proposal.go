package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CityFriends/truebid-calculator-sub000/internal/db"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
)

// SQLiteProposalRepo implements ProposalRepo using a SQLite database.
type SQLiteProposalRepo struct {
	db db.DBTX
}

func NewSQLiteProposalRepo(conn db.DBTX) *SQLiteProposalRepo {
	return &SQLiteProposalRepo{db: conn}
}

const proposalColumns = `id, name, contract_json, created_at, updated_at`

func (r *SQLiteProposalRepo) Create(ctx context.Context, p *domain.Proposal) error {
	contract, err := marshalJSON("contract", p.Contract)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO proposals (`+proposalColumns+`) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, contract, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return wrapWriteErr("inserting proposal", err)
	}
	return nil
}

func (r *SQLiteProposalRepo) GetByID(ctx context.Context, id string) (*domain.Proposal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+proposalColumns+` FROM proposals WHERE id = ?`, id)
	return scanProposal(row)
}

// GetByName matches case-insensitively and returns the oldest proposal when
// several share a name.
func (r *SQLiteProposalRepo) GetByName(ctx context.Context, name string) (*domain.Proposal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+proposalColumns+` FROM proposals WHERE name = ? COLLATE NOCASE ORDER BY created_at LIMIT 1`, name)
	return scanProposal(row)
}

func (r *SQLiteProposalRepo) List(ctx context.Context) ([]*domain.Proposal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+proposalColumns+` FROM proposals ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing proposals: %w", err)
	}
	defer rows.Close()

	var out []*domain.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating proposals: %w", err)
	}
	return out, nil
}

func (r *SQLiteProposalRepo) Update(ctx context.Context, p *domain.Proposal) error {
	contract, err := marshalJSON("contract", p.Contract)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE proposals SET name = ?, contract_json = ?, updated_at = ? WHERE id = ?`,
		p.Name, contract, formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return wrapWriteErr("updating proposal", err)
	}
	n, _ := res.RowsAffected()
	return rowsAffectedOrNotFound("proposal", n)
}

// Delete removes the proposal with its roster, requirements and estimate set.
func (r *SQLiteProposalRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM proposals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting proposal: %w", err)
	}
	n, _ := res.RowsAffected()
	return rowsAffectedOrNotFound("proposal", n)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProposal(s scanner) (*domain.Proposal, error) {
	var p domain.Proposal
	var contract, createdAt, updatedAt string
	if err := s.Scan(&p.ID, &p.Name, &contract, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("proposal: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning proposal: %w", err)
	}
	if err := unmarshalJSON("contract", contract, &p.Contract); err != nil {
		return nil, err
	}
	var err error
	if p.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
