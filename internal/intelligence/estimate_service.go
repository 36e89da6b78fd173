package intelligence

import (
	"context"
	"errors"
	"fmt"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/generation"
	"github.com/CityFriends/truebid-calculator-sub000/internal/llm"
	"github.com/google/uuid"
)

// EstimateService turns requirements and a roster into normalized WBS elements.
type EstimateService interface {
	// Generate runs one generation batch. Failures are *GenerationError values
	// and are never retried here.
	Generate(ctx context.Context, req EstimateRequest) (*EstimateResult, error)
}

type estimateService struct {
	client     llm.LLMClient
	normalizer *generation.Normalizer
	newID      func() string
}

// EstimateOption customizes an EstimateService.
type EstimateOption func(*estimateService)

// WithIDFunc replaces uuid-based element ids, mainly for tests.
func WithIDFunc(fn func() string) EstimateOption {
	return func(s *estimateService) {
		s.newID = fn
		s.normalizer.NewID = fn
	}
}

// NewEstimateService creates an EstimateService. A nil client means no
// generation credential is configured and every batch uses the offline
// generator.
func NewEstimateService(client llm.LLMClient, opts ...EstimateOption) EstimateService {
	s := &estimateService{
		client:     client,
		normalizer: generation.NewNormalizer(),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *estimateService) Generate(ctx context.Context, req EstimateRequest) (*EstimateResult, error) {
	if len(req.Requirements) == 0 {
		return nil, newGenerationError(ErrCodeEmptyInput, "", nil)
	}
	if s.client == nil {
		return s.mock(req), nil
	}

	prompt, err := buildEstimatePrompt(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskEstimate,
		SystemPrompt: estimateSystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			return s.mock(req), nil
		}
		return nil, newGenerationError(ErrCodeUpstream, boundedExcerpt(err.Error(), maxExcerptBytes), err)
	}

	classified := ClassifyResponse(resp)
	switch classified.Kind {
	case ResponseEmpty:
		return nil, newGenerationError(ErrCodeEmptyResponse, "", nil)
	case ResponseTruncated:
		return nil, newGenerationError(ErrCodeTruncated,
			fmt.Sprintf("stopped at the output limit after %d tokens for %d requirement(s)", resp.Usage.OutputTokens, len(req.Requirements)), nil)
	case ResponseMalformed:
		return nil, newGenerationError(ErrCodeMalformedJSON, classified.Excerpt, errors.New(classified.ParseError))
	case ResponseNoElements:
		return nil, newGenerationError(ErrCodeEmptyElementSet, "", nil)
	}

	fallbacks := generation.NextNumbers(req.ExistingWBSNumbers, len(classified.Candidates))
	elements := make([]domain.WBSElement, 0, len(classified.Candidates))
	for i, candidate := range classified.Candidates {
		elements = append(elements, s.normalizer.Normalize(candidate, generation.NormalizeContext{
			Roster:         req.Roles,
			FallbackNumber: fallbacks[i],
		}))
	}

	numbers := make([]string, len(elements))
	for i := range elements {
		numbers[i] = elements[i].WBSNumber
	}
	for i, n := range generation.ReconcileNumbers(numbers, req.ExistingWBSNumbers) {
		elements[i].WBSNumber = n
	}

	usage := resp.Usage
	return &EstimateResult{
		Elements: elements,
		Mock:     false,
		Usage:    &usage,
		Model:    resp.Model,
	}, nil
}

func (s *estimateService) mock(req EstimateRequest) *EstimateResult {
	return &EstimateResult{
		Elements: DeterministicEstimates(req, s.newID),
		Mock:     true,
	}
}
