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

func newWBSService(r testRepos) WBSService {
	return NewWBSService(r.elements, r.roles, r.requirements, r.uow)
}

func TestWBSService_CreateAllocatesNextNumber(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	svc := newWBSService(r)
	ctx := context.Background()

	first := &domain.WBSElement{Title: "Transition In"}
	require.NoError(t, svc.Create(ctx, seed.proposal.ID, first))
	assert.Equal(t, "1.1", first.WBSNumber)
	assert.Equal(t, seed.proposal.ID, first.ProposalID)

	second := &domain.WBSElement{Title: "Help Desk Operations"}
	require.NoError(t, svc.Create(ctx, seed.proposal.ID, second))
	assert.Equal(t, "1.2", second.WBSNumber)

	high, ok, err := r.sequences.HighWater(ctx, seed.proposal.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.WBSNumber{Major: 1, Minor: 2}, high)
}

func TestWBSService_DeletedNumbersAreNotReused(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	svc := newWBSService(r)
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C"} {
		require.NoError(t, svc.Create(ctx, seed.proposal.ID, &domain.WBSElement{Title: title}))
	}
	require.NoError(t, svc.Delete(ctx, seed.proposal.ID, "1.3"))

	next := &domain.WBSElement{Title: "D"}
	require.NoError(t, svc.Create(ctx, seed.proposal.ID, next))
	assert.Equal(t, "1.4", next.WBSNumber)
}

func TestWBSService_ExplicitNumberCannotReuseDeleted(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	svc := newWBSService(r)
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C"} {
		require.NoError(t, svc.Create(ctx, seed.proposal.ID, &domain.WBSElement{Title: title}))
	}
	require.NoError(t, svc.Delete(ctx, seed.proposal.ID, "1.3"))

	reuse := &domain.WBSElement{Title: "Reuse", WBSNumber: "1.3"}
	assert.ErrorIs(t, svc.Create(ctx, seed.proposal.ID, reuse), ErrInvalidWBSNumber)

	_, err := svc.Get(ctx, seed.proposal.ID, "1.3")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	fresh := &domain.WBSElement{Title: "Fresh", WBSNumber: "1.4"}
	require.NoError(t, svc.Create(ctx, seed.proposal.ID, fresh))
	assert.Equal(t, "1.4", fresh.WBSNumber)
}

func TestWBSService_CreateWithExplicitNumber(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	svc := newWBSService(r)
	ctx := context.Background()

	el := &domain.WBSElement{Title: "Program Management", WBSNumber: "2.1"}
	require.NoError(t, svc.Create(ctx, seed.proposal.ID, el))

	dup := &domain.WBSElement{Title: "Duplicate", WBSNumber: "2.1"}
	assert.ErrorIs(t, svc.Create(ctx, seed.proposal.ID, dup), ErrInvalidWBSNumber)

	earlier := &domain.WBSElement{Title: "Earlier", WBSNumber: "1.5"}
	assert.ErrorIs(t, svc.Create(ctx, seed.proposal.ID, earlier), ErrInvalidWBSNumber)

	bad := &domain.WBSElement{Title: "Bad", WBSNumber: "2.x"}
	assert.ErrorIs(t, svc.Create(ctx, seed.proposal.ID, bad), ErrInvalidWBSNumber)

	next := &domain.WBSElement{Title: "After"}
	require.NoError(t, svc.Create(ctx, seed.proposal.ID, next))
	assert.Equal(t, "2.2", next.WBSNumber)
}

func TestWBSService_CreateRequiresTitle(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)

	err := newWBSService(r).Create(context.Background(), seed.proposal.ID, &domain.WBSElement{Title: "  "})

	assert.Error(t, err)
}

func TestWBSService_SetHoursResolvesRoleAndRecomputesTotal(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r, testutil.WithOptionYears(1))
	svc := newWBSService(r)
	ctx := context.Background()

	el := testutil.NewTestElement(seed.proposal.ID, "1.1", "Help Desk")
	require.NoError(t, r.elements.Create(ctx, el))

	_, err := svc.SetHours(ctx, seed.proposal.ID, "1.1", "Software Developer", domain.PeriodBase, 400)
	require.NoError(t, err)
	_, err = svc.SetHours(ctx, seed.proposal.ID, "1.1", seed.dev.ID, domain.PeriodOption1, 300)
	require.NoError(t, err)
	updated, err := svc.SetHours(ctx, seed.proposal.ID, "1.1", seed.pm.ID, domain.PeriodBase, -20)
	require.NoError(t, err)

	require.Len(t, updated.LaborEstimates, 2)
	assert.Equal(t, 400.0, updated.LaborEstimates[0].HoursByPeriod.Base)
	assert.Equal(t, 300.0, updated.LaborEstimates[0].HoursByPeriod.Option1)
	assert.Equal(t, 0.0, updated.LaborEstimates[1].HoursByPeriod.Base)
	assert.Equal(t, 700.0, updated.TotalHours)

	stored, err := svc.Get(ctx, seed.proposal.ID, "1.1")
	require.NoError(t, err)
	assert.Equal(t, 700.0, stored.TotalHours)
}

func TestWBSService_SetHoursRejectsUnknownRole(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	svc := newWBSService(r)
	ctx := context.Background()

	require.NoError(t, r.elements.Create(ctx, testutil.NewTestElement(seed.proposal.ID, "1.1", "Help Desk")))

	_, err := svc.SetHours(ctx, seed.proposal.ID, "1.1", "Software", domain.PeriodBase, 10)

	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestWBSService_RemoveLaborKeepsUnrosteredLinesAddressable(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	svc := newWBSService(r)
	ctx := context.Background()

	el := testutil.NewTestElement(seed.proposal.ID, "1.1", "Help Desk",
		testutil.WithLabor(*seed.pm, domain.PeriodHours{Base: 100}),
		testutil.WithLabor(*seed.dev, domain.PeriodHours{Base: 200}))
	require.NoError(t, r.elements.Create(ctx, el))
	require.NoError(t, r.roles.Delete(ctx, seed.proposal.ID, seed.dev.ID))

	updated, err := svc.RemoveLabor(ctx, seed.proposal.ID, "1.1", "Software Developer")
	require.NoError(t, err)
	require.Len(t, updated.LaborEstimates, 1)
	assert.Equal(t, 100.0, updated.TotalHours)

	_, err = svc.RemoveLabor(ctx, seed.proposal.ID, "1.1", "Software Developer")
	assert.Error(t, err)
}

func TestWBSService_AddRiskAndAssumption(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	svc := newWBSService(r)
	ctx := context.Background()

	require.NoError(t, r.elements.Create(ctx, testutil.NewTestElement(seed.proposal.ID, "1.1", "Help Desk")))

	_, err := svc.AddRisk(ctx, seed.proposal.ID, "1.1", domain.Risk{Description: "Ticket volume spikes", Impact: domain.RiskHigh})
	require.NoError(t, err)
	updated, err := svc.AddRisk(ctx, seed.proposal.ID, "1.1", domain.Risk{Description: "Staff turnover"})
	require.NoError(t, err)

	require.Len(t, updated.Risks, 2)
	assert.Equal(t, "risk-1", updated.Risks[0].ID)
	assert.Equal(t, domain.RiskMedium, updated.Risks[0].Likelihood)
	assert.Equal(t, domain.RiskHigh, updated.Risks[0].Impact)
	assert.Equal(t, "risk-2", updated.Risks[1].ID)

	_, err = svc.AddRisk(ctx, seed.proposal.ID, "1.1", domain.Risk{Description: "x", Likelihood: "extreme"})
	assert.Error(t, err)

	updated, err = svc.AddAssumption(ctx, seed.proposal.ID, "1.1", "Government furnishes the ticketing tool")
	require.NoError(t, err)
	assert.Equal(t, []string{"Government furnishes the ticketing tool"}, updated.Assumptions)
}

func TestWBSService_LinkRequirement(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	svc := newWBSService(r)
	ctx := context.Background()

	require.NoError(t, r.elements.Create(ctx, testutil.NewTestElement(seed.proposal.ID, "1.1", "Help Desk")))

	_, err := svc.LinkRequirement(ctx, seed.proposal.ID, "1.1", seed.shall.ID)
	require.NoError(t, err)
	updated, err := svc.LinkRequirement(ctx, seed.proposal.ID, "1.1", seed.shall.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{seed.shall.ID}, updated.LinkedRequirementIDs)

	_, err = svc.LinkRequirement(ctx, seed.proposal.ID, "1.1", "req-missing")
	assert.ErrorIs(t, err, ErrUnknownRequirement)
}

func TestWBSService_ListIsInNumberOrder(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	ctx := context.Background()

	for _, n := range []string{"1.10", "1.2", "2.1", "1.9"} {
		require.NoError(t, r.elements.Create(ctx, testutil.NewTestElement(seed.proposal.ID, n, "Element "+n)))
	}

	list, err := newWBSService(r).List(ctx, seed.proposal.ID)
	require.NoError(t, err)

	numbers := make([]string, len(list))
	for i, el := range list {
		numbers[i] = el.WBSNumber
	}
	assert.Equal(t, []string{"1.2", "1.9", "1.10", "2.1"}, numbers)
}

func TestWBSService_GetMissing(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)

	_, err := newWBSService(r).Get(context.Background(), seed.proposal.ID, "9.9")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}
