package formatter

import (
	"fmt"
	"strings"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatHours prints whole hours without a fraction and keeps one decimal
// otherwise.
func FormatHours(h float64) string {
	if h == float64(int64(h)) {
		return fmt.Sprintf("%d", int64(h))
	}
	return fmt.Sprintf("%.1f", h)
}

func FormatFTE(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// FormatAmount prints a cost with two decimals and no currency symbol.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// PeriodLabel is the short column heading for a contract period.
func PeriodLabel(p domain.Period) string {
	switch p {
	case domain.PeriodBase:
		return "BASE"
	case domain.PeriodOption1:
		return "OY1"
	case domain.PeriodOption2:
		return "OY2"
	case domain.PeriodOption3:
		return "OY3"
	case domain.PeriodOption4:
		return "OY4"
	default:
		return strings.ToUpper(string(p))
	}
}

// OrDash dims "--" in place of an empty value.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}

// Plural picks the singular or plural noun for n.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
