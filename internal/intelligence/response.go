package intelligence

import (
	"strings"
	"unicode/utf8"

	"github.com/CityFriends/truebid-calculator-sub000/internal/llm"
)

// ResponseKind tags a raw generation response before any field is read.
type ResponseKind string

const (
	ResponseSuccess    ResponseKind = "success"
	ResponseEmpty      ResponseKind = "empty"
	ResponseTruncated  ResponseKind = "truncated"
	ResponseMalformed  ResponseKind = "malformed"
	ResponseNoElements ResponseKind = "no_elements"
)

// maxExcerptBytes bounds the diagnostic text carried by a malformed response.
const maxExcerptBytes = 500

// ClassifiedResponse is the discriminated form of a raw response. Candidates
// is only populated for ResponseSuccess; Excerpt only for ResponseMalformed.
type ClassifiedResponse struct {
	Kind       ResponseKind
	Candidates []any
	Excerpt    string
	ParseError string
}

// ClassifyResponse inspects a raw response. Truncation is decided from the
// provider's stop signal alone, so a cut-off payload is never parsed even when
// its prefix happens to be valid JSON.
func ClassifyResponse(resp *llm.GenerateResponse) ClassifiedResponse {
	if resp == nil {
		return ClassifiedResponse{Kind: ResponseEmpty}
	}
	if resp.Truncated {
		return ClassifiedResponse{Kind: ResponseTruncated}
	}
	if strings.TrimSpace(resp.Text) == "" {
		return ClassifiedResponse{Kind: ResponseEmpty}
	}

	parsed, err := llm.ExtractJSONValue(resp.Text)
	if err != nil {
		return ClassifiedResponse{
			Kind:       ResponseMalformed,
			Excerpt:    boundedExcerpt(resp.Text, maxExcerptBytes),
			ParseError: err.Error(),
		}
	}

	candidates, ok := elementList(parsed)
	if !ok {
		return ClassifiedResponse{
			Kind:       ResponseMalformed,
			Excerpt:    boundedExcerpt(resp.Text, maxExcerptBytes),
			ParseError: "wbsElements is not a list",
		}
	}
	if len(candidates) == 0 {
		return ClassifiedResponse{Kind: ResponseNoElements}
	}
	return ClassifiedResponse{Kind: ResponseSuccess, Candidates: candidates}
}

// elementList accepts {"wbsElements": [...]}, {"elements": [...]} or a bare
// array. An object with neither key has no elements.
func elementList(parsed any) ([]any, bool) {
	switch v := parsed.(type) {
	case []any:
		return v, true
	case map[string]any:
		for _, key := range []string{"wbsElements", "elements"} {
			raw, present := v[key]
			if !present {
				continue
			}
			if raw == nil {
				return nil, true
			}
			list, ok := raw.([]any)
			return list, ok
		}
		return nil, true
	}
	return nil, false
}

// boundedExcerpt cuts s to at most limit bytes without splitting a rune.
func boundedExcerpt(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
