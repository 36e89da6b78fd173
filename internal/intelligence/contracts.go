package intelligence

import (
	"errors"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/llm"
)

// EstimateRequest is everything one generation batch is built from.
type EstimateRequest struct {
	Requirements       []domain.Requirement
	Roles              []domain.Role
	ExistingWBSNumbers []string
	Contract           domain.ContractContext
}

// EstimateResult is a successful generation batch.
type EstimateResult struct {
	Elements []domain.WBSElement
	// Mock is set when the offline generator produced the elements.
	Mock  bool
	Usage *llm.Usage
	Model string
}

// GenerationErrorCode enumerates batch-level generation failures.
type GenerationErrorCode string

const (
	ErrCodeEmptyInput      GenerationErrorCode = "EMPTY_INPUT"
	ErrCodeEmptyResponse   GenerationErrorCode = "EMPTY_RESPONSE"
	ErrCodeTruncated       GenerationErrorCode = "TRUNCATED"
	ErrCodeMalformedJSON   GenerationErrorCode = "MALFORMED_JSON"
	ErrCodeEmptyElementSet GenerationErrorCode = "EMPTY_ELEMENT_SET"
	ErrCodeUpstream        GenerationErrorCode = "UPSTREAM_ERROR"
)

var (
	ErrEmptyInput      = errors.New("no requirements supplied")
	ErrEmptyResponse   = errors.New("generation service returned no content")
	ErrTruncated       = errors.New("generation response was truncated; reduce the number of requirements per batch")
	ErrMalformedJSON   = errors.New("generation response is not valid JSON")
	ErrEmptyElementSet = errors.New("generation response contained no WBS elements")
	ErrUpstream        = errors.New("generation service call failed")
)

var codeSentinels = map[GenerationErrorCode]error{
	ErrCodeEmptyInput:      ErrEmptyInput,
	ErrCodeEmptyResponse:   ErrEmptyResponse,
	ErrCodeTruncated:       ErrTruncated,
	ErrCodeMalformedJSON:   ErrMalformedJSON,
	ErrCodeEmptyElementSet: ErrEmptyElementSet,
	ErrCodeUpstream:        ErrUpstream,
}

// GenerationError is a typed, recoverable batch failure. Details is bounded
// in length and safe to show to a user.
type GenerationError struct {
	Code    GenerationErrorCode
	Message string
	Details string
	cause   error
}

func newGenerationError(code GenerationErrorCode, details string, cause error) *GenerationError {
	return &GenerationError{
		Code:    code,
		Message: codeSentinels[code].Error(),
		Details: details,
		cause:   cause,
	}
}

func (e *GenerationError) Error() string {
	if e.Details == "" {
		return string(e.Code) + ": " + e.Message
	}
	return string(e.Code) + ": " + e.Message + ": " + e.Details
}

// Unwrap exposes the code sentinel and the underlying cause to errors.Is.
func (e *GenerationError) Unwrap() []error {
	errs := []error{codeSentinels[e.Code]}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}
