package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/importer"
	"github.com/CityFriends/truebid-calculator-sub000/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImportJSON(t *testing.T, schema *importer.ImportSchema) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "request.json")
	data, err := json.MarshalIndent(schema, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func ptrFloat(f float64) *float64 { return &f }
func ptrInt(i int) *int           { return &i }

func newImportService(r testRepos, observers ...UseCaseObserver) ImportService {
	return NewImportService(NewProposalService(r.proposals), r.uow, observers...)
}

func TestImportFile_CreatesProposal(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	path := writeImportJSON(t, &importer.ImportSchema{
		Proposal: &importer.ProposalImport{Name: "Help Desk Recompete"},
		ContractContext: &importer.ContractImport{
			Title:               "Service Desk",
			Agency:              "GSA",
			ContractType:        "FFP",
			PeriodOfPerformance: &importer.PeriodImport{OptionYears: ptrInt(2)},
		},
		Roles: []importer.RoleImport{
			{ID: "r-pm", Name: "Project Manager", HourlyRate: ptrFloat(150)},
			{Name: "Help Desk Analyst", HourlyRate: ptrFloat(65)},
		},
		Requirements: []importer.RequirementImport{
			{ID: "req-1", ReferenceNumber: "C.3.1", Title: "Operate help desk", Type: "SHALL"},
			{ReferenceNumber: "C.3.2", Title: "Monthly report"},
		},
	})

	result, err := newImportService(r).ImportFile(ctx, path, "")
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, 2, result.RoleCount)
	assert.Equal(t, 2, result.RequirementCount)

	p, err := r.proposals.GetByID(ctx, result.Proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Help Desk Recompete", p.Name)
	assert.Equal(t, domain.ContractFFP, p.Contract.ContractType)
	assert.Equal(t, 2, p.Contract.DeclaredOptionYears())

	roles, err := r.roles.ListByProposal(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "r-pm", roles[0].ID)
	assert.NotEmpty(t, roles[1].ID)

	reqs, err := r.requirements.ListByProposal(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, domain.RequirementShall, reqs[0].Type)
	assert.Equal(t, domain.RequirementShall, reqs[1].Type)
}

func TestImportSchema_IntoExistingProposal(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	ctx := context.Background()

	result, err := newImportService(r).ImportSchema(ctx, &importer.ImportSchema{
		Requirements: []importer.RequirementImport{{Title: "Transition out", Type: "will"}},
	}, seed.proposal.Name)
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, seed.proposal.ID, result.Proposal.ID)

	reqs, err := r.requirements.ListByProposal(ctx, seed.proposal.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 3)
	assert.Equal(t, "Transition out", reqs[2].Title)
}

func TestImportSchema_ValidationErrorsAreCollected(t *testing.T) {
	r := setupRepos(t)

	_, err := newImportService(r).ImportSchema(context.Background(), &importer.ImportSchema{
		Proposal: &importer.ProposalImport{Name: "Bad"},
		Roles:    []importer.RoleImport{{Name: ""}},
		Requirements: []importer.RequirementImport{
			{Title: "A", Type: "must"},
		},
	}, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "import validation failed (2 errors)")
	assert.Contains(t, err.Error(), "availableRoles[0].name is required")
}

func TestImportSchema_RequiresTarget(t *testing.T) {
	r := setupRepos(t)

	_, err := newImportService(r).ImportSchema(context.Background(), &importer.ImportSchema{
		Requirements: []importer.RequirementImport{{Title: "A"}},
	}, "")

	assert.Error(t, err)
}

// TestImportSchema_RollsBackOnRoleConflict imports a role whose name is
// already on the roster; the requirements in the same file must not land.
func TestImportSchema_RollsBackOnRoleConflict(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	obs := &recordingObserver{}
	ctx := context.Background()

	_, err := newImportService(r, obs).ImportSchema(ctx, &importer.ImportSchema{
		Roles:        []importer.RoleImport{{Name: "Project Manager"}},
		Requirements: []importer.RequirementImport{{Title: "New work"}},
	}, seed.proposal.ID)
	assert.ErrorIs(t, err, repository.ErrConflict)

	reqs, err := r.requirements.ListByProposal(ctx, seed.proposal.ID)
	require.NoError(t, err)
	assert.Len(t, reqs, 2)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "import-requirements", obs.events[0].Name)
	assert.False(t, obs.events[0].Success)
}
