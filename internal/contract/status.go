package contract

import (
	"errors"

	"github.com/CityFriends/truebid-calculator-sub000/internal/intelligence"
	"github.com/CityFriends/truebid-calculator-sub000/internal/repository"
	"github.com/CityFriends/truebid-calculator-sub000/internal/service"
)

// StatusClass groups generation failures by who has to act on them.
type StatusClass string

const (
	StatusBadInput        StatusClass = "bad-input"
	StatusUpstreamService StatusClass = "upstream-service-error"
	StatusParseError      StatusClass = "parse-error"
	StatusTruncated       StatusClass = "truncated"
)

// HTTPStatus is the status code a transport would answer a failure of this
// class with.
func (c StatusClass) HTTPStatus() int {
	switch c {
	case StatusBadInput:
		return 400
	case StatusTruncated:
		return 422
	case StatusParseError:
		return 502
	default:
		return 503
	}
}

// ClassifyFailure maps a generation error to its status class and wire
// document. Unknown requirements and missing records are caller input; any
// other error that is not *intelligence.GenerationError is an upstream failure.
func ClassifyFailure(err error) (StatusClass, GenerationFailure) {
	if errors.Is(err, service.ErrUnknownRequirement) || errors.Is(err, repository.ErrNotFound) {
		return StatusBadInput, GenerationFailure{Error: "invalid generation request", Details: err.Error()}
	}
	var genErr *intelligence.GenerationError
	if !errors.As(err, &genErr) {
		failure := GenerationFailure{Error: "generation failed"}
		if err != nil {
			failure.Details = err.Error()
		}
		return StatusUpstreamService, failure
	}

	failure := GenerationFailure{Error: genErr.Message, Details: genErr.Details}
	switch genErr.Code {
	case intelligence.ErrCodeEmptyInput:
		return StatusBadInput, failure
	case intelligence.ErrCodeTruncated:
		return StatusTruncated, failure
	case intelligence.ErrCodeMalformedJSON, intelligence.ErrCodeEmptyElementSet, intelligence.ErrCodeEmptyResponse:
		return StatusParseError, failure
	default:
		return StatusUpstreamService, failure
	}
}
