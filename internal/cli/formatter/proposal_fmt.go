package formatter

import (
	"fmt"
	"strings"

	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
)

// ProposalCounts are the sizes shown on the proposal card.
type ProposalCounts struct {
	Roles        int
	Requirements int
	Elements     int
}

func FormatProposalList(proposals []*domain.Proposal) string {
	if len(proposals) == 0 {
		return Dim("No proposals yet. Create one with `truebid proposal add` or `truebid req import`.") + "\n"
	}
	headers := []string{"ID", "NAME", "AGENCY", "TYPE", "PERIODS"}
	rows := make([][]string, 0, len(proposals))
	for _, p := range proposals {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			OrDash(p.Contract.Agency),
			strings.ToUpper(string(p.Contract.ContractType)),
			periodSpan(p.Contract),
		})
	}
	return RenderBox("Proposals", RenderTable(headers, rows))
}

func FormatProposal(p *domain.Proposal, counts ProposalCounts) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Name) + "\n\n")
	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-12s", label)), value))
	}
	field("ID", Dim(p.ID))
	field("TITLE", OrDash(p.Contract.Title))
	field("AGENCY", OrDash(p.Contract.Agency))
	field("CONTRACT", strings.ToUpper(string(p.Contract.ContractType)))
	field("PERIODS", periodSpan(p.Contract))
	b.WriteString("\n")
	field("ROLES", fmt.Sprintf("%d", counts.Roles))
	field("REQUIREMENTS", fmt.Sprintf("%d", counts.Requirements))
	field("WBS", fmt.Sprintf("%d", counts.Elements))
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

func periodSpan(c domain.ContractContext) string {
	labels := make([]string, 0, 5)
	for _, p := range c.ActivePeriods() {
		labels = append(labels, PeriodLabel(p))
	}
	return strings.Join(labels, " ")
}

func FormatRoleList(roles []domain.Role) string {
	if len(roles) == 0 {
		return Dim("Roster is empty. Add roles with `truebid role add`.") + "\n"
	}
	headers := []string{"ID", "NAME", "CATEGORY", "RATE"}
	rows := make([][]string, 0, len(roles))
	for _, r := range roles {
		rows = append(rows, []string{
			TruncID(r.ID),
			Bold(r.Name),
			OrDash(r.Category),
			FormatAmount(r.HourlyRate),
		})
	}
	return RenderBox("Roster", RenderNumericTable(headers, rows, 3))
}

func FormatRequirementList(reqs []domain.Requirement) string {
	if len(reqs) == 0 {
		return Dim("No requirements. Add them with `truebid req add` or `truebid req import`.") + "\n"
	}
	headers := []string{"ID", "REF", "TYPE", "TITLE"}
	rows := make([][]string, 0, len(reqs))
	for _, r := range reqs {
		rows = append(rows, []string{
			TruncID(r.ID),
			OrDash(r.ReferenceNumber),
			requirementType(r.Type),
			r.Title,
		})
	}
	return RenderBox("Requirements", RenderTable(headers, rows))
}

func requirementType(t domain.RequirementType) string {
	if t == domain.RequirementShall {
		return StyleYellow.Render(string(t))
	}
	return StyleFg.Render(string(t))
}
