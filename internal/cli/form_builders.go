package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CityFriends/truebid-calculator-sub000/internal/cli/formatter"
	"github.com/CityFriends/truebid-calculator-sub000/internal/domain"
	"github.com/CityFriends/truebid-calculator-sub000/internal/generation"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// truebidHuhTheme returns a huh theme matching the formatter palette.
func truebidHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// elementDraft collects the string fields of a manually entered element.
type elementDraft struct {
	Number      string
	Title       string
	SOW         string
	Why         string
	What        string
	NotIncluded string
	Method      string
	Confidence  string

	// Hours is keyed by role id; values are base-year hours as typed.
	Hours map[string]*string
}

// toElement builds the element from the draft. Roles with blank or zero
// hours get no labor line.
func (d *elementDraft) toElement(roster []domain.Role) (*domain.WBSElement, error) {
	el := &domain.WBSElement{
		WBSNumber:            strings.TrimSpace(d.Number),
		Title:                d.Title,
		SOWReference:         d.SOW,
		Why:                  d.Why,
		What:                 d.What,
		NotIncluded:          d.NotIncluded,
		EstimateMethod:       domain.EstimateMethod(d.Method),
		Confidence:           domain.Confidence(d.Confidence),
		Assumptions:          []string{},
		LaborEstimates:       []domain.LaborEstimate{},
		Risks:                []domain.Risk{},
		Dependencies:         []domain.Dependency{},
		LinkedRequirementIDs: []string{},
	}
	for _, role := range roster {
		v, ok := d.Hours[role.ID]
		if !ok || strings.TrimSpace(*v) == "" {
			continue
		}
		hours, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
		if err != nil {
			return nil, fmt.Errorf("hours for %s: %w", role.Name, err)
		}
		if hours > 0 {
			el.SetLaborHours(role, domain.PeriodBase, hours)
		}
	}
	el.RecalculateTotal()
	return el, nil
}

// elementForm returns the manual-entry form: identity and basis of estimate,
// then base-year hours for each roster role.
func elementForm(d *elementDraft, roster []domain.Role) *huh.Form {
	methodOptions := []huh.Option[string]{
		huh.NewOption("Engineering (bottom-up)", string(domain.MethodEngineering)),
		huh.NewOption("Analogous", string(domain.MethodAnalogous)),
		huh.NewOption("Parametric", string(domain.MethodParametric)),
		huh.NewOption("Level of effort", string(domain.MethodLevelOfEffort)),
		huh.NewOption("Expert judgment", string(domain.MethodExpert)),
	}
	confidenceOptions := []huh.Option[string]{
		huh.NewOption("High", string(domain.ConfidenceHigh)),
		huh.NewOption("Medium", string(domain.ConfidenceMedium)),
		huh.NewOption("Low", string(domain.ConfidenceLow)),
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&d.Title).
				Validate(validateRequired("title")),
			huh.NewInput().
				Title("WBS Number (blank to allocate)").
				Placeholder("1.1").
				Value(&d.Number).
				Validate(validateOptionalWBSNumber),
			huh.NewInput().
				Title("SOW Reference").
				Value(&d.SOW),
			huh.NewSelect[string]().
				Title("Estimate Method").
				Options(methodOptions...).
				Value(&d.Method),
			huh.NewSelect[string]().
				Title("Confidence").
				Options(confidenceOptions...).
				Value(&d.Confidence),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Why (requirement driver)").
				Value(&d.Why),
			huh.NewText().
				Title("What (work performed)").
				Value(&d.What),
			huh.NewText().
				Title("Not Included").
				Value(&d.NotIncluded),
		),
	}

	if len(roster) > 0 {
		if d.Hours == nil {
			d.Hours = make(map[string]*string, len(roster))
		}
		fields := make([]huh.Field, 0, len(roster))
		for _, role := range roster {
			v := new(string)
			d.Hours[role.ID] = v
			fields = append(fields, hoursInput(role.Name, v))
		}
		groups = append(groups, huh.NewGroup(fields...).
			Title("Base-year hours").
			Description("Leave blank for roles not needed on this element."))
	}

	return huh.NewForm(groups...).WithTheme(truebidHuhTheme()).WithShowHelp(false)
}

// hoursInput returns a huh.Input for an optional non-negative hour count.
func hoursInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("0").
		Value(value).
		Validate(validateOptionalHours)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// validateOptionalHours accepts empty or a non-negative number.
func validateOptionalHours(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

func validateOptionalWBSNumber(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || generation.ValidNumber(s) {
		return nil
	}
	return fmt.Errorf("use major.minor, e.g. 2.3")
}
