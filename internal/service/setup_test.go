package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/CityFriends/truebid-calculator-sub000/internal/db"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/llm"
	"github.com/CityFriends/truebid-calculator-sub000/internal/repository"
	"github.com/CityFriends/truebid-calculator-sub000/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	db           *sql.DB
	proposals    repository.ProposalRepo
	roles        repository.RoleRepo
	requirements repository.RequirementRepo
	elements     repository.WBSElementRepo
	sequences    repository.WBSSequenceRepo
	uow          db.UnitOfWork
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return testRepos{
		db:           database,
		proposals:    repository.NewSQLiteProposalRepo(database),
		roles:        repository.NewSQLiteRoleRepo(database),
		requirements: repository.NewSQLiteRequirementRepo(database),
		elements:     repository.NewSQLiteWBSElementRepo(database),
		sequences:    repository.NewSQLiteWBSSequenceRepo(database),
		uow:          testutil.NewTestUoW(database),
	}
}

// seededProposal is a proposal with two roles and two requirements.
type seededProposal struct {
	proposal *domain.Proposal
	pm       *domain.Role
	dev      *domain.Role
	shall    *domain.Requirement
	should   *domain.Requirement
}

func seedProposal(t *testing.T, r testRepos, opts ...testutil.ProposalOption) seededProposal {
	t.Helper()
	ctx := context.Background()

	s := seededProposal{
		proposal: testutil.NewTestProposal("Help Desk Recompete", opts...),
		pm:       testutil.NewTestRole("Project Manager", 150),
		dev:      testutil.NewTestRole("Software Developer", 100),
		shall:    testutil.NewTestRequirement("operate the help desk", domain.RequirementShall),
		should:   testutil.NewTestRequirement("deliver monthly reports", domain.RequirementShould),
	}
	require.NoError(t, r.proposals.Create(ctx, s.proposal))
	require.NoError(t, r.roles.Create(ctx, s.proposal.ID, s.pm))
	require.NoError(t, r.roles.Create(ctx, s.proposal.ID, s.dev))
	require.NoError(t, r.requirements.Create(ctx, s.proposal.ID, s.shall))
	require.NoError(t, r.requirements.Create(ctx, s.proposal.ID, s.should))
	return s
}

type stubLLMClient struct {
	response string
	err      error
	calls    int
	lastReq  llm.GenerateRequest
}

func (m *stubLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{
		Text:  m.response,
		Model: "claude-test",
		Usage: llm.Usage{InputTokens: 500, OutputTokens: 200},
	}, nil
}

func (m *stubLLMClient) Available(_ context.Context) bool { return m.err == nil }

type recordingObserver struct {
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.events = append(o.events, event)
}
