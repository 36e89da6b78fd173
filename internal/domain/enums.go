package domain

type Period string

const (
	PeriodBase    Period = "base"
	PeriodOption1 Period = "option1"
	PeriodOption2 Period = "option2"
	PeriodOption3 Period = "option3"
	PeriodOption4 Period = "option4"
)

// AllPeriods is the canonical period order: the base year followed by up to
// four option years.
var AllPeriods = []Period{PeriodBase, PeriodOption1, PeriodOption2, PeriodOption3, PeriodOption4}

// MaxOptionYears is the number of option periods a contract may declare.
const MaxOptionYears = 4

// Index returns the position of p in AllPeriods, or -1 if p is unknown.
func (p Period) Index() int {
	for i, candidate := range AllPeriods {
		if candidate == p {
			return i
		}
	}
	return -1
}

// ParsePeriod accepts the canonical names plus the "optionN" shorthand "oN".
func ParsePeriod(s string) (Period, bool) {
	switch s {
	case "base", "b":
		return PeriodBase, true
	case "option1", "o1":
		return PeriodOption1, true
	case "option2", "o2":
		return PeriodOption2, true
	case "option3", "o3":
		return PeriodOption3, true
	case "option4", "o4":
		return PeriodOption4, true
	}
	return "", false
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ValidConfidences is the accepted set of confidence strings.
var ValidConfidences = map[Confidence]bool{
	ConfidenceHigh: true, ConfidenceMedium: true, ConfidenceLow: true,
}

type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

var ValidRiskLevels = map[RiskLevel]bool{
	RiskHigh: true, RiskMedium: true, RiskLow: true,
}

type EstimateMethod string

const (
	MethodEngineering   EstimateMethod = "engineering"
	MethodAnalogous     EstimateMethod = "analogous"
	MethodParametric    EstimateMethod = "parametric"
	MethodLevelOfEffort EstimateMethod = "level-of-effort"
	MethodExpert        EstimateMethod = "expert"
)

var ValidEstimateMethods = map[EstimateMethod]bool{
	MethodEngineering: true, MethodAnalogous: true, MethodParametric: true,
	MethodLevelOfEffort: true, MethodExpert: true,
}

type RequirementType string

const (
	RequirementShall  RequirementType = "shall"
	RequirementShould RequirementType = "should"
	RequirementMay    RequirementType = "may"
	RequirementWill   RequirementType = "will"
)

var ValidRequirementTypes = map[RequirementType]bool{
	RequirementShall: true, RequirementShould: true, RequirementMay: true, RequirementWill: true,
}

type ContractType string

const (
	ContractTM     ContractType = "tm"
	ContractFFP    ContractType = "ffp"
	ContractHybrid ContractType = "hybrid"
)

var ValidContractTypes = map[ContractType]bool{
	ContractTM: true, ContractFFP: true, ContractHybrid: true,
}

type DependencyType string

// DependencyFinishToStart is the only dependency type the estimator models.
const DependencyFinishToStart DependencyType = "finish-to-start"
