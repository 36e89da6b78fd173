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

// SQLiteRoleRepo stores proposal rosters. Roles list in insertion order.
type SQLiteRoleRepo struct {
	db db.DBTX
}

func NewSQLiteRoleRepo(conn db.DBTX) *SQLiteRoleRepo {
	return &SQLiteRoleRepo{db: conn}
}

func (r *SQLiteRoleRepo) Create(ctx context.Context, proposalID string, role *domain.Role) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO roles (proposal_id, id, name, category, description, hourly_rate, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM roles WHERE proposal_id = ?), ?)`,
		proposalID, role.ID, role.Name, role.Category, role.Description, role.HourlyRate,
		proposalID, formatTime(time.Now()))
	if err != nil {
		return wrapWriteErr("inserting role", err)
	}
	return nil
}

func (r *SQLiteRoleRepo) GetByID(ctx context.Context, proposalID, id string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, category, description, hourly_rate FROM roles WHERE proposal_id = ? AND id = ?`,
		proposalID, id).Scan(&role.ID, &role.Name, &role.Category, &role.Description, &role.HourlyRate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("role %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning role: %w", err)
	}
	return &role, nil
}

func (r *SQLiteRoleRepo) ListByProposal(ctx context.Context, proposalID string) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, description, hourly_rate FROM roles
		WHERE proposal_id = ? ORDER BY position, id`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	defer rows.Close()

	roles := []domain.Role{}
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Category, &role.Description, &role.HourlyRate); err != nil {
			return nil, fmt.Errorf("scanning role row: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roles: %w", err)
	}
	return roles, nil
}

func (r *SQLiteRoleRepo) Update(ctx context.Context, proposalID string, role *domain.Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE roles SET name = ?, category = ?, description = ?, hourly_rate = ?
		WHERE proposal_id = ? AND id = ?`,
		role.Name, role.Category, role.Description, role.HourlyRate, proposalID, role.ID)
	if err != nil {
		return wrapWriteErr("updating role", err)
	}
	n, _ := res.RowsAffected()
	return rowsAffectedOrNotFound("role "+role.ID, n)
}

// Delete removes the role from the roster. Labor estimates that reference it
// are left in place.
func (r *SQLiteRoleRepo) Delete(ctx context.Context, proposalID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE proposal_id = ? AND id = ?`, proposalID, id)
	if err != nil {
		return fmt.Errorf("deleting role: %w", err)
	}
	n, _ := res.RowsAffected()
	return rowsAffectedOrNotFound("role "+id, n)
}
