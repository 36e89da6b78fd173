package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderShare renders a bar like [████░░░░]  45% for share in 0..1.
func RenderShare(share float64, width int) string {
	if share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(share * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %3.0f%%", StyleBlue.Render(bar), share*100)
}

// RenderLoad renders a staffing level against the largest level in the
// series. Months at the peak are highlighted.
func RenderLoad(value, peak float64, width int) string {
	if width < 1 {
		width = 1
	}
	if peak <= 0 || value <= 0 {
		return Dim(strings.Repeat(emptyBlock, width))
	}
	filled := int(value / peak * float64(width))
	if filled > width {
		filled = width
	}
	style := StyleGreen
	if value >= peak {
		style = StyleYellow
	}
	return style.Render(strings.Repeat(filledBlock, filled)) + Dim(strings.Repeat(emptyBlock, width-filled))
}
