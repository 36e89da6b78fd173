package formatter

import (
	"fmt"
	"strings"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/intelligence"
)

// FormatElementList renders the estimate set as a table. Elements are
// expected in WBS number order.
func FormatElementList(elements []domain.WBSElement) string {
	if len(elements) == 0 {
		return Dim("No WBS elements. Run `truebid generate` or add one with `truebid wbs add`.") + "\n"
	}
	headers := []string{"WBS", "TITLE", "METHOD", "CONFIDENCE", "HOURS"}
	rows := make([][]string, 0, len(elements))
	total := 0.0
	for _, el := range elements {
		rows = append(rows, []string{
			StyleBlue.Render(el.WBSNumber),
			el.Title,
			Dim(string(el.EstimateMethod)),
			ConfidencePill(el.Confidence),
			FormatHours(el.TotalHours),
		})
		total += el.TotalHours
	}
	table := RenderNumericTable(headers, rows, 4)
	footer := fmt.Sprintf("%s  %s", Dim(Plural(len(elements), "element", "elements")), Bold(FormatHours(total)+" h"))
	return RenderBox("Work Breakdown", table+"\n"+footer)
}

// FormatElementTree groups elements under their major number.
func FormatElementTree(elements []domain.WBSElement) string {
	var items []TreeItem
	for i := 0; i < len(elements); {
		major := majorOf(elements[i].WBSNumber)
		j := i
		for j < len(elements) && majorOf(elements[j].WBSNumber) == major {
			j++
		}
		group := 0.0
		for _, el := range elements[i:j] {
			group += el.TotalHours
		}
		items = append(items, TreeItem{Title: major, Detail: FormatHours(group) + " h"})
		for k, el := range elements[i:j] {
			items = append(items, TreeItem{
				Title:  el.WBSNumber + "  " + el.Title,
				Level:  1,
				IsLast: i+k == j-1,
				Detail: FormatHours(el.TotalHours) + " h",
				Muted:  el.TotalHours == 0,
			})
		}
		i = j
	}
	return RenderTree(items)
}

func majorOf(number string) string {
	if n, ok := domain.ParseWBSNumber(number); ok {
		return fmt.Sprintf("%d", n.Major)
	}
	return "?"
}

// FormatElement renders one element's full basis of estimate. periods picks
// the labor columns.
func FormatElement(el domain.WBSElement, periods []domain.Period) string {
	var b strings.Builder
	b.WriteString(StyleBlue.Render(el.WBSNumber) + "  " + StyleBold.Render(el.Title) + "\n")
	b.WriteString(fmt.Sprintf("%s  %s  %s\n\n",
		ConfidencePill(el.Confidence), Dim(string(el.EstimateMethod)), Dim("SOW "+domain.CoalesceStr(el.SOWReference, "--"))))

	section := func(label, text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		b.WriteString(StyleHeader.Render(label) + "\n" + text + "\n\n")
	}
	section("WHY", el.Why)
	section("WHAT", el.What)
	section("NOT INCLUDED", el.NotIncluded)

	b.WriteString(StyleHeader.Render("LABOR") + "\n")
	if len(el.LaborEstimates) == 0 {
		b.WriteString(Dim("no labor estimated") + "\n\n")
	} else {
		headers := []string{"ROLE"}
		for _, p := range periods {
			headers = append(headers, PeriodLabel(p))
		}
		headers = append(headers, "TOTAL")
		rows := make([][]string, 0, len(el.LaborEstimates))
		for _, le := range el.LaborEstimates {
			row := []string{le.RoleName}
			sum := 0.0
			for _, p := range periods {
				h := le.HoursByPeriod.Get(p)
				sum += h
				row = append(row, FormatHours(h))
			}
			rows = append(rows, append(row, Bold(FormatHours(sum))))
		}
		b.WriteString(RenderNumericTable(headers, rows, 1) + "\n")
	}

	if len(el.Risks) > 0 {
		b.WriteString(StyleHeader.Render("RISKS") + "\n")
		for _, r := range el.Risks {
			b.WriteString(fmt.Sprintf("%s %s %s\n", Dim(r.ID),
				RiskLevelColor(r.Likelihood).Render("L:"+string(r.Likelihood)),
				RiskLevelColor(r.Impact).Render("I:"+string(r.Impact))))
			b.WriteString("  " + r.Description + "\n")
			if r.Mitigation != "" {
				b.WriteString("  " + Dim("mitigation: "+r.Mitigation) + "\n")
			}
		}
		b.WriteString("\n")
	}
	if len(el.Assumptions) > 0 {
		b.WriteString(StyleHeader.Render("ASSUMPTIONS") + "\n")
		for _, a := range el.Assumptions {
			b.WriteString("• " + a + "\n")
		}
		b.WriteString("\n")
	}
	if len(el.LinkedRequirementIDs) > 0 {
		b.WriteString(StyleHeader.Render("REQUIREMENTS") + "\n")
		for _, id := range el.LinkedRequirementIDs {
			b.WriteString(TruncID(id) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("%s %s", Dim("TOTAL"), Bold(FormatHours(el.TotalHours)+" h")))
	return RenderBox("", b.String())
}

// FormatGenerationResult summarizes a generated batch.
func FormatGenerationResult(res *intelligence.EstimateResult, stored bool) string {
	var b strings.Builder
	source := StyleGreen.Render("model")
	if res.Mock {
		source = StyleYellow.Render("offline estimator")
	}
	b.WriteString(fmt.Sprintf("%s from %s", Bold(Plural(len(res.Elements), "element", "elements")), source))
	if res.Model != "" {
		b.WriteString(Dim(" (" + res.Model + ")"))
	}
	b.WriteString("\n")
	if res.Usage != nil {
		b.WriteString(Dim(fmt.Sprintf("tokens: %d in / %d out", res.Usage.InputTokens, res.Usage.OutputTokens)) + "\n")
	}
	if !stored {
		b.WriteString(StyleYellow.Render("dry run: nothing was saved") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(FormatElementList(res.Elements))
	return b.String()
}
