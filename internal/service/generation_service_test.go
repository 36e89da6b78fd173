package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/intelligence"
	"github.com/CityFriends/truebid-calculator-sub000/internal/llm"
	"github.com/CityFriends/truebid-calculator-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerationService(r testRepos, client llm.LLMClient, observers ...UseCaseObserver) GenerationService {
	estimator := intelligence.NewEstimateService(client)
	return NewGenerationService(r.proposals, r.roles, r.requirements, r.elements, r.sequences, estimator, r.uow, observers...)
}

func TestGenerate_OfflinePersistsBatch(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	svc := newGenerationService(r, nil)
	ctx := context.Background()

	result, err := svc.Generate(ctx, seed.proposal.ID, GenerateOptions{})
	require.NoError(t, err)
	assert.True(t, result.Mock)
	require.Len(t, result.Elements, 2)

	stored, err := r.elements.ListByProposal(ctx, seed.proposal.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "1.1", stored[0].WBSNumber)
	assert.Equal(t, []string{seed.shall.ID}, stored[0].LinkedRequirementIDs)
	require.Len(t, stored[0].LaborEstimates, 2)
	assert.Equal(t, seed.pm.ID, stored[0].LaborEstimates[0].RoleID)
	assert.Equal(t, 120.0, stored[0].LaborEstimates[0].HoursByPeriod.Base)
	assert.Equal(t, 60.0, stored[0].LaborEstimates[1].HoursByPeriod.Base)
	assert.Equal(t, "1.2", stored[1].WBSNumber)

	high, ok, err := r.sequences.HighWater(ctx, seed.proposal.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.WBSNumber{Major: 1, Minor: 2}, high)
}

func TestGenerate_NumbersFollowHighWaterMark(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	ctx := context.Background()

	require.NoError(t, r.elements.Create(ctx, testutil.NewTestElement(seed.proposal.ID, "1.1", "Existing")))
	require.NoError(t, r.sequences.Raise(ctx, seed.proposal.ID, domain.WBSNumber{Major: 1, Minor: 5}))

	result, err := newGenerationService(r, nil).Generate(ctx, seed.proposal.ID, GenerateOptions{})
	require.NoError(t, err)

	require.Len(t, result.Elements, 2)
	assert.Equal(t, "1.6", result.Elements[0].WBSNumber)
	assert.Equal(t, "1.7", result.Elements[1].WBSNumber)
}

func TestGenerate_ModelResponseIsNormalizedAndReconciled(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	ctx := context.Background()
	require.NoError(t, r.elements.Create(ctx, testutil.NewTestElement(seed.proposal.ID, "1.1", "Existing")))

	client := &stubLLMClient{response: fmt.Sprintf(`{"wbsElements":[{
		"wbsNumber": "1.1",
		"title": "Tier 1 Help Desk",
		"estimateMethod": "parametric",
		"confidence": "high",
		"linkedRequirementIds": [%q, "req-unknown"],
		"laborEstimates": [
			{"roleName": "Software Developer", "hoursByPeriod": {"base": 400}},
			{"roleName": "Astronaut", "hoursByPeriod": {"base": 9000}}
		]
	}]}`, seed.shall.ID)}

	result, err := newGenerationService(r, client).Generate(ctx, seed.proposal.ID, GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.False(t, result.Mock)
	require.NotNil(t, result.Usage)
	assert.Equal(t, 200, result.Usage.OutputTokens)

	require.Len(t, result.Elements, 1)
	el := result.Elements[0]
	assert.Equal(t, "1.2", el.WBSNumber)
	assert.Equal(t, domain.MethodParametric, el.EstimateMethod)
	assert.Equal(t, []string{seed.shall.ID}, el.LinkedRequirementIDs)
	require.Len(t, el.LaborEstimates, 1)
	assert.Equal(t, seed.dev.ID, el.LaborEstimates[0].RoleID)
	assert.Equal(t, 400.0, el.TotalHours)

	stored, err := r.elements.GetByNumber(ctx, seed.proposal.ID, "1.2")
	require.NoError(t, err)
	assert.Equal(t, "Tier 1 Help Desk", stored.Title)
}

func TestGenerate_DryRunStoresNothing(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	ctx := context.Background()

	result, err := newGenerationService(r, nil).Generate(ctx, seed.proposal.ID, GenerateOptions{DryRun: true})
	require.NoError(t, err)
	assert.Len(t, result.Elements, 2)

	stored, err := r.elements.ListByProposal(ctx, seed.proposal.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
	_, ok, err := r.sequences.HighWater(ctx, seed.proposal.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerate_RollsBackWholeBatch(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	ctx := context.Background()

	// ExecContext #1 and #2 insert the elements, #3 raises the high-water mark.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     r.db,
		FailOn: 2,
		Err:    errors.New("injected insert failure"),
	}
	svc := NewGenerationService(r.proposals, r.roles, r.requirements, r.elements, r.sequences,
		intelligence.NewEstimateService(nil), failUoW)

	_, err := svc.Generate(ctx, seed.proposal.ID, GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected insert failure")

	stored, err := r.elements.ListByProposal(ctx, seed.proposal.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
	_, ok, err := r.sequences.HighWater(ctx, seed.proposal.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerate_UpstreamFailureIsTypedAndObserved(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	obs := &recordingObserver{}
	client := &stubLLMClient{err: errors.New("connection reset by peer")}
	ctx := context.Background()

	_, err := newGenerationService(r, client, obs).Generate(ctx, seed.proposal.ID, GenerateOptions{})

	var genErr *intelligence.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, intelligence.ErrCodeUpstream, genErr.Code)

	stored, err := r.elements.ListByProposal(ctx, seed.proposal.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "generate-estimates", obs.events[0].Name)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, "UPSTREAM_ERROR", obs.events[0].Fields["error_code"])
}

func TestGenerate_UnavailableServiceFallsBackToOffline(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r)
	client := &stubLLMClient{err: fmt.Errorf("dial: %w", llm.ErrUnavailable)}

	result, err := newGenerationService(r, client).Generate(context.Background(), seed.proposal.ID, GenerateOptions{})

	require.NoError(t, err)
	assert.True(t, result.Mock)
	assert.Len(t, result.Elements, 2)
}

func TestGenerate_EmptyRequirementsIsBadInput(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := testutil.NewTestProposal("Empty")
	require.NoError(t, r.proposals.Create(ctx, p))

	_, err := newGenerationService(r, nil).Generate(ctx, p.ID, GenerateOptions{})

	assert.ErrorIs(t, err, intelligence.ErrEmptyInput)
}

func TestBuildRequest_SelectsRequirements(t *testing.T) {
	r := setupRepos(t)
	seed := seedProposal(t, r, testutil.WithOptionYears(2))
	svc := newGenerationService(r, nil)
	ctx := context.Background()

	linked := testutil.NewTestElement(seed.proposal.ID, "1.1", "Help Desk", testutil.WithLinkedRequirements(seed.shall.ID))
	require.NoError(t, r.elements.Create(ctx, linked))

	all, err := svc.BuildRequest(ctx, seed.proposal.ID, GenerateOptions{})
	require.NoError(t, err)
	assert.Len(t, all.Requirements, 2)
	assert.Len(t, all.Roles, 2)
	assert.Equal(t, []string{"1.1"}, all.ExistingWBSNumbers)
	assert.Equal(t, 2, all.Contract.PeriodOfPerformance.OptionYears)

	unlinked, err := svc.BuildRequest(ctx, seed.proposal.ID, GenerateOptions{Unlinked: true})
	require.NoError(t, err)
	require.Len(t, unlinked.Requirements, 1)
	assert.Equal(t, seed.should.ID, unlinked.Requirements[0].ID)

	picked, err := svc.BuildRequest(ctx, seed.proposal.ID, GenerateOptions{RequirementIDs: []string{seed.shall.ID}})
	require.NoError(t, err)
	require.Len(t, picked.Requirements, 1)
	assert.Equal(t, seed.shall.ID, picked.Requirements[0].ID)

	_, err = svc.BuildRequest(ctx, seed.proposal.ID, GenerateOptions{RequirementIDs: []string{"nope"}})
	assert.ErrorIs(t, err, ErrUnknownRequirement)
}
