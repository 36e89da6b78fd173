package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CityFriends/truebid-calculator-sub000/internal/db"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
)

// SQLiteWBSElementRepo stores estimate-set elements. Nested collections are
// kept as JSON columns since they are always read and written with their
// element.
type SQLiteWBSElementRepo struct {
	db db.DBTX
}

func NewSQLiteWBSElementRepo(conn db.DBTX) *SQLiteWBSElementRepo {
	return &SQLiteWBSElementRepo{db: conn}
}

const wbsElementColumns = `id, proposal_id, wbs_number, title, sow_reference, why, what, not_included,
	estimate_method, confidence, total_hours, assumptions_json, labor_json, risks_json,
	dependencies_json, requirement_ids_json, created_at, updated_at`

type encodedElement struct {
	assumptions, labor, risks, dependencies, requirementIDs string
}

// prepareElement fills defaults the schema requires and recomputes the
// derived total before a write.
func prepareElement(e *domain.WBSElement) (encodedElement, error) {
	if e.Confidence == "" {
		e.Confidence = domain.ConfidenceMedium
	}
	if e.EstimateMethod == "" {
		e.EstimateMethod = domain.MethodEngineering
	}
	e.RecalculateTotal()

	var enc encodedElement
	var err error
	if enc.assumptions, err = marshalJSON("assumptions", e.Assumptions); err != nil {
		return enc, err
	}
	if enc.labor, err = marshalJSON("labor estimates", e.LaborEstimates); err != nil {
		return enc, err
	}
	if enc.risks, err = marshalJSON("risks", e.Risks); err != nil {
		return enc, err
	}
	if enc.dependencies, err = marshalJSON("dependencies", e.Dependencies); err != nil {
		return enc, err
	}
	if enc.requirementIDs, err = marshalJSON("linked requirements", e.LinkedRequirementIDs); err != nil {
		return enc, err
	}
	return enc, nil
}

// Create inserts e. TotalHours is recomputed from the labor estimates first.
func (r *SQLiteWBSElementRepo) Create(ctx context.Context, e *domain.WBSElement) error {
	enc, err := prepareElement(e)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO wbs_elements (`+wbsElementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ProposalID, e.WBSNumber, e.Title, e.SOWReference, e.Why, e.What, e.NotIncluded,
		string(e.EstimateMethod), string(e.Confidence), e.TotalHours,
		enc.assumptions, enc.labor, enc.risks, enc.dependencies, enc.requirementIDs,
		formatTime(e.CreatedAt), formatTime(e.UpdatedAt))
	if err != nil {
		return wrapWriteErr("inserting wbs element "+e.WBSNumber, err)
	}
	return nil
}

func (r *SQLiteWBSElementRepo) GetByID(ctx context.Context, id string) (*domain.WBSElement, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+wbsElementColumns+` FROM wbs_elements WHERE id = ?`, id)
	return scanElementRow(row, id)
}

func (r *SQLiteWBSElementRepo) GetByNumber(ctx context.Context, proposalID, number string) (*domain.WBSElement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+wbsElementColumns+` FROM wbs_elements WHERE proposal_id = ? AND wbs_number = ?`, proposalID, number)
	return scanElementRow(row, number)
}

// ListByProposal returns the estimate set in creation order. Callers that
// need WBS order sort by parsed number.
func (r *SQLiteWBSElementRepo) ListByProposal(ctx context.Context, proposalID string) ([]domain.WBSElement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+wbsElementColumns+` FROM wbs_elements WHERE proposal_id = ? ORDER BY created_at, rowid`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("listing wbs elements: %w", err)
	}
	defer rows.Close()

	elements := []domain.WBSElement{}
	for rows.Next() {
		e, err := scanElement(rows)
		if err != nil {
			return nil, err
		}
		elements = append(elements, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wbs elements: %w", err)
	}
	return elements, nil
}

func (r *SQLiteWBSElementRepo) ListNumbers(ctx context.Context, proposalID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT wbs_number FROM wbs_elements WHERE proposal_id = ? ORDER BY created_at, rowid`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("listing wbs numbers: %w", err)
	}
	defer rows.Close()

	numbers := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning wbs number: %w", err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wbs numbers: %w", err)
	}
	return numbers, nil
}

// Update rewrites every column but id, proposal and created_at. TotalHours
// is recomputed first.
func (r *SQLiteWBSElementRepo) Update(ctx context.Context, e *domain.WBSElement) error {
	enc, err := prepareElement(e)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE wbs_elements SET wbs_number = ?, title = ?, sow_reference = ?, why = ?, what = ?,
			not_included = ?, estimate_method = ?, confidence = ?, total_hours = ?,
			assumptions_json = ?, labor_json = ?, risks_json = ?, dependencies_json = ?,
			requirement_ids_json = ?, updated_at = ?
		WHERE id = ?`,
		e.WBSNumber, e.Title, e.SOWReference, e.Why, e.What,
		e.NotIncluded, string(e.EstimateMethod), string(e.Confidence), e.TotalHours,
		enc.assumptions, enc.labor, enc.risks, enc.dependencies,
		enc.requirementIDs, formatTime(e.UpdatedAt),
		e.ID)
	if err != nil {
		return wrapWriteErr("updating wbs element "+e.WBSNumber, err)
	}
	n, _ := res.RowsAffected()
	return rowsAffectedOrNotFound("wbs element "+e.ID, n)
}

func (r *SQLiteWBSElementRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wbs_elements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting wbs element: %w", err)
	}
	n, _ := res.RowsAffected()
	return rowsAffectedOrNotFound("wbs element "+id, n)
}

func scanElementRow(row *sql.Row, key string) (*domain.WBSElement, error) {
	e, err := scanElement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("wbs element %s: %w", key, ErrNotFound)
	}
	return e, err
}

func scanElement(s scanner) (*domain.WBSElement, error) {
	var e domain.WBSElement
	var method, confidence, createdAt, updatedAt string
	var enc encodedElement
	err := s.Scan(
		&e.ID, &e.ProposalID, &e.WBSNumber, &e.Title, &e.SOWReference, &e.Why, &e.What, &e.NotIncluded,
		&method, &confidence, &e.TotalHours,
		&enc.assumptions, &enc.labor, &enc.risks, &enc.dependencies, &enc.requirementIDs,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning wbs element: %w", err)
	}
	e.EstimateMethod = domain.EstimateMethod(method)
	e.Confidence = domain.Confidence(confidence)

	e.Assumptions = []string{}
	e.LaborEstimates = []domain.LaborEstimate{}
	e.Risks = []domain.Risk{}
	e.Dependencies = []domain.Dependency{}
	e.LinkedRequirementIDs = []string{}
	for _, col := range []struct {
		name string
		raw  string
		dst  any
	}{
		{"assumptions", enc.assumptions, &e.Assumptions},
		{"labor estimates", enc.labor, &e.LaborEstimates},
		{"risks", enc.risks, &e.Risks},
		{"dependencies", enc.dependencies, &e.Dependencies},
		{"linked requirements", enc.requirementIDs, &e.LinkedRequirementIDs},
	} {
		if err := unmarshalJSON(col.name, col.raw, col.dst); err != nil {
			return nil, err
		}
	}

	if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
