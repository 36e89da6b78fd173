package service

import (
	"context"
	"testing"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/repository"
	"github.com/CityFriends/truebid-calculator-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterService_AddAndRemove(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	svc := NewRosterService(r.roles)
	ctx := context.Background()

	analyst := &domain.Role{Name: " Help Desk Analyst ", HourlyRate: 65}
	require.NoError(t, svc.Add(ctx, seed.proposal.ID, analyst))
	assert.NotEmpty(t, analyst.ID)
	assert.Equal(t, "Help Desk Analyst", analyst.Name)

	assert.ErrorIs(t, svc.Add(ctx, seed.proposal.ID, &domain.Role{Name: "Project Manager"}), repository.ErrConflict)
	assert.Error(t, svc.Add(ctx, seed.proposal.ID, &domain.Role{Name: "Negative", HourlyRate: -1}))

	require.NoError(t, svc.Remove(ctx, seed.proposal.ID, "Project Manager"))
	require.NoError(t, svc.Remove(ctx, seed.proposal.ID, analyst.ID))
	assert.ErrorIs(t, svc.Remove(ctx, seed.proposal.ID, "Project Manager"), ErrUnknownRole)

	roles, err := svc.List(ctx, seed.proposal.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, seed.dev.ID, roles[0].ID)
}

func TestRosterService_RemoveKeepsLaborEstimates(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	ctx := context.Background()

	el := testutil.NewTestElement(seed.proposal.ID, "1.1", "Help Desk",
		testutil.WithLabor(*seed.dev, domain.PeriodHours{Base: 200}))
	require.NoError(t, r.elements.Create(ctx, el))

	require.NoError(t, NewRosterService(r.roles).Remove(ctx, seed.proposal.ID, seed.dev.ID))

	stored, err := r.elements.GetByNumber(ctx, seed.proposal.ID, "1.1")
	require.NoError(t, err)
	require.Len(t, stored.LaborEstimates, 1)
	assert.Equal(t, 200.0, stored.TotalHours)
}

func TestRequirementService_Add(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	svc := NewRequirementService(r.requirements)
	ctx := context.Background()

	req := &domain.Requirement{Title: "Provide surge support", Type: "MAY"}
	require.NoError(t, svc.Add(ctx, seed.proposal.ID, req))
	assert.Equal(t, domain.RequirementMay, req.Type)

	assert.Error(t, svc.Add(ctx, seed.proposal.ID, &domain.Requirement{Title: " "}))
	assert.Error(t, svc.Add(ctx, seed.proposal.ID, &domain.Requirement{Title: "X", Type: "must"}))

	defaulted := &domain.Requirement{Title: "Staff the desk"}
	require.NoError(t, svc.Add(ctx, seed.proposal.ID, defaulted))
	assert.Equal(t, domain.RequirementShall, defaulted.Type)

	require.NoError(t, svc.Remove(ctx, seed.proposal.ID, seed.should.ID))
	reqs, err := svc.List(ctx, seed.proposal.ID)
	require.NoError(t, err)
	assert.Len(t, reqs, 3)
}
