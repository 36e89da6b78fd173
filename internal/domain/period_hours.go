package domain

// PeriodHours holds labor hours for each contract period.
type PeriodHours struct {
	Base    float64 `json:"base"`
	Option1 float64 `json:"option1"`
	Option2 float64 `json:"option2"`
	Option3 float64 `json:"option3"`
	Option4 float64 `json:"option4"`
}

// Get returns the hours for p. Unknown periods have zero hours.
func (h PeriodHours) Get(p Period) float64 {
	switch p {
	case PeriodBase:
		return h.Base
	case PeriodOption1:
		return h.Option1
	case PeriodOption2:
		return h.Option2
	case PeriodOption3:
		return h.Option3
	case PeriodOption4:
		return h.Option4
	}
	return 0
}

// Set stores hours for p, clamping negative values to zero. Unknown periods
// are ignored.
func (h *PeriodHours) Set(p Period, hours float64) {
	hours = NonNegative(hours)
	switch p {
	case PeriodBase:
		h.Base = hours
	case PeriodOption1:
		h.Option1 = hours
	case PeriodOption2:
		h.Option2 = hours
	case PeriodOption3:
		h.Option3 = hours
	case PeriodOption4:
		h.Option4 = hours
	}
}

// Total sums every period.
func (h PeriodHours) Total() float64 {
	return h.Base + h.Option1 + h.Option2 + h.Option3 + h.Option4
}
