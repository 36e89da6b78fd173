package formatter

import (
	"strings"
	"testing"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatHours(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{120, "120"},
		{12.5, "12.5"},
		{2.3, "2.3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatHours(tt.in))
	}
}

func TestPeriodLabel(t *testing.T) {
	labels := make([]string, 0, len(domain.AllPeriods))
	for _, p := range domain.AllPeriods {
		labels = append(labels, PeriodLabel(p))
	}
	assert.Equal(t, []string{"BASE", "OY1", "OY2", "OY3", "OY4"}, labels)
}

func TestTruncID(t *testing.T) {
	assert.Contains(t, TruncID("abcdef12-3456-7890"), "abcdef12")
	assert.NotContains(t, TruncID("abcdef12-3456-7890"), "3456")
	assert.Contains(t, TruncID("short"), "short")
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 element", Plural(1, "element", "elements"))
	assert.Equal(t, "0 elements", Plural(0, "element", "elements"))
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("Roster", "content")
	assert.Contains(t, out, "ROSTER")
	assert.Contains(t, out, "content")
}

func TestRenderNumericTable_RightAlignsNumbers(t *testing.T) {
	out := RenderNumericTable([]string{"ROLE", "HOURS"}, [][]string{{"PM", "5"}, {"Developer", "1200"}}, 1)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[2], "    5"))
	assert.True(t, strings.HasSuffix(lines[3], " 1200"))
}

func TestRenderShare_Clamps(t *testing.T) {
	assert.Contains(t, RenderShare(1.5, 10), "100%")
	assert.Contains(t, RenderShare(-1, 10), "0%")
}
