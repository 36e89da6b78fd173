package formatter

import (
	"fmt"
	"strings"

	"github.com/CityFriends/truebid-calculator-sub000/internal/aggregation"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
)

// FormatMatrix renders hours by element and by role, one column per period.
func FormatMatrix(view aggregation.MatrixView) string {
	headers := func(first string) []string {
		h := []string{first}
		for _, p := range view.Periods {
			h = append(h, PeriodLabel(p))
		}
		return append(h, "TOTAL")
	}
	rowsOf := func(src []aggregation.MatrixRow, label func(aggregation.MatrixRow) string) [][]string {
		rows := make([][]string, 0, len(src)+1)
		for _, r := range src {
			row := []string{label(r)}
			for _, h := range r.Hours {
				row = append(row, FormatHours(h))
			}
			rows = append(rows, append(row, Bold(FormatHours(r.Total))))
		}
		return rows
	}
	totals := []string{Bold("TOTAL")}
	for _, h := range view.PeriodTotals {
		totals = append(totals, Bold(FormatHours(h)))
	}
	totals = append(totals, Bold(FormatHours(view.GrandTotal)))

	byElement := append(rowsOf(view.Elements, func(r aggregation.MatrixRow) string {
		return StyleBlue.Render(r.Key) + " " + r.Label
	}), totals)
	byRole := append(rowsOf(view.Roles, func(r aggregation.MatrixRow) string { return r.Label }), totals)

	var b strings.Builder
	b.WriteString(Header("Hours by WBS element") + "\n")
	b.WriteString(RenderNumericTable(headers("ELEMENT"), byElement, 1) + "\n")
	b.WriteString(Header("Hours by role") + "\n")
	b.WriteString(RenderNumericTable(headers("ROLE"), byRole, 1))
	return RenderBox("Labor Matrix", b.String())
}

// FormatTimeline renders annual FTE per role and the monthly team load for
// each period.
func FormatTimeline(view aggregation.TimelineView) string {
	var b strings.Builder
	b.WriteString(Dim(fmt.Sprintf("%d months per period, %s billable hours per month",
		view.Params.MonthsInPeriod, FormatHours(view.Params.BillableHoursPerMonth))) + "\n\n")

	for i, tp := range view.Periods {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Header(fmt.Sprintf("%s  peak %s FTE", PeriodLabel(tp.Period), FormatFTE(tp.Peak))) + "\n")

		rows := make([][]string, 0, len(tp.Roles))
		for _, rs := range tp.Roles {
			rows = append(rows, []string{roleLabel(rs.Role), FormatFTE(rs.AnnualFTE)})
		}
		b.WriteString(RenderNumericTable([]string{"ROLE", "FTE"}, rows, 1))

		for m, v := range tp.System {
			b.WriteString(fmt.Sprintf("%s %s %s\n", Dim(fmt.Sprintf("M%02d", m+1)), RenderLoad(v, tp.Peak, 20), FormatFTE(v)))
		}
	}
	return RenderBox("Staffing Timeline", b.String())
}

// FormatSummary renders the headline totals.
func FormatSummary(view aggregation.SummaryView) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ELEMENTS   "), Bold(fmt.Sprintf("%d", view.ElementCount))))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("TOTAL HOURS"), Bold(FormatHours(view.TotalHours))))
	b.WriteString(fmt.Sprintf("%s  %s\n\n", StyleDim.Render("TOTAL COST "), Bold(FormatAmount(view.TotalCost))))

	periodRows := make([][]string, 0, len(view.Periods))
	for _, ps := range view.Periods {
		periodRows = append(periodRows, []string{
			PeriodLabel(ps.Period), FormatHours(ps.Hours), FormatAmount(ps.Cost), FormatFTE(ps.FTE), FormatFTE(ps.PeakFTE),
		})
	}
	b.WriteString(Header("By period") + "\n")
	b.WriteString(RenderNumericTable([]string{"PERIOD", "HOURS", "COST", "FTE", "PEAK"}, periodRows, 1) + "\n")

	if len(view.Roles) > 0 {
		roleRows := make([][]string, 0, len(view.Roles))
		for _, rs := range view.Roles {
			share := 0.0
			if view.TotalHours > 0 {
				share = rs.Hours / view.TotalHours
			}
			roleRows = append(roleRows, []string{
				roleLabel(rs.Role), FormatHours(rs.Hours), FormatAmount(rs.Cost), FormatFTE(rs.AverageFTE), RenderShare(share, 12),
			})
		}
		b.WriteString(Header("By role") + "\n")
		b.WriteString(RenderNumericTable([]string{"ROLE", "HOURS", "COST", "AVG FTE", "SHARE"}, roleRows, 1) + "\n")
	}

	b.WriteString(Header("Confidence") + "\n")
	for _, c := range []domain.Confidence{domain.ConfidenceHigh, domain.ConfidenceMedium, domain.ConfidenceLow} {
		b.WriteString(fmt.Sprintf("%-18s %d\n", ConfidencePill(c), view.Confidence[c]))
	}
	return RenderBox("Estimate Summary", strings.TrimRight(b.String(), "\n"))
}

func roleLabel(r aggregation.RoleRef) string {
	if r.Rostered {
		return r.Name
	}
	return r.Name + " " + Dim("(not on roster)")
}
