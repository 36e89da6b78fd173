package intelligence

import (
	"strings"
	"testing"

	"github.com/CityFriends/truebid-calculator-sub000/internal/llm"
	"github.com/stretchr/testify/assert"
)

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		name string
		resp *llm.GenerateResponse
		want ResponseKind
		n    int
	}{
		{"nil", nil, ResponseEmpty, 0},
		{"blank", &llm.GenerateResponse{Text: "\n  "}, ResponseEmpty, 0},
		{"truncated with no text", &llm.GenerateResponse{Truncated: true}, ResponseTruncated, 0},
		{"truncated wins over valid json", &llm.GenerateResponse{Text: `[{"title":"A"}]`, Truncated: true}, ResponseTruncated, 0},
		{"prose", &llm.GenerateResponse{Text: "no json here"}, ResponseMalformed, 0},
		{"null list", &llm.GenerateResponse{Text: `{"wbsElements": null}`}, ResponseNoElements, 0},
		{"elements key", &llm.GenerateResponse{Text: `{"elements": [{}, {}]}`}, ResponseSuccess, 2},
		{"scalar json", &llm.GenerateResponse{Text: `"just a string"`}, ResponseMalformed, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyResponse(tt.resp)
			assert.Equal(t, tt.want, got.Kind)
			assert.Len(t, got.Candidates, tt.n)
		})
	}
}

func TestBoundedExcerpt(t *testing.T) {
	assert.Equal(t, "short", boundedExcerpt("  short  ", 10))

	long := strings.Repeat("a", 20)
	assert.Equal(t, strings.Repeat("a", 10)+"…", boundedExcerpt(long, 10))

	// "ü" is two bytes; the cut backs off to the rune start.
	assert.Equal(t, "aü…", boundedExcerpt("aüüü", 4))
}
