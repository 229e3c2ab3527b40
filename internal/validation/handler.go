// Package validation defines the rule contract and the error reporting sink.
//
// Every rule reports through an ErrorHandler. A report is one violation: the
// rule name, the learner it concerns, an optional aim sequence number and an
// ordered list of named parameters. Handlers never fail and never stop a rule.
package validation

// ErrorMessageParameter is one named value attached to a violation.
type ErrorMessageParameter struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ErrorHandler receives violations from rules.
//
// learnRefNumber is the entity key; "" means the violation has no learner.
// aimSequenceNumber is nil when the violation is not tied to one delivery.
// Implementations must be safe for concurrent use when rules run in parallel.
type ErrorHandler interface {
	Handle(ruleName, learnRefNumber string, aimSequenceNumber *int64, params []ErrorMessageParameter)
	BuildErrorMessageParameter(name string, value any) ErrorMessageParameter
}

// BuildErrorMessageParameter pairs a name with a value. It does no validation.
func BuildErrorMessageParameter(name string, value any) ErrorMessageParameter {
	return ErrorMessageParameter{Name: name, Value: value}
}

// Parameter names shared across rules.
const (
	ParamLearnRefNumber      = "LearnRefNumber"
	ParamULN                 = "ULN"
	ParamAimSeqNumber        = "AimSeqNumber"
	ParamAimType             = "AimType"
	ParamFundModel           = "FundModel"
	ParamProgType            = "ProgType"
	ParamFworkCode           = "FworkCode"
	ParamPwayCode            = "PwayCode"
	ParamLearnAimRef         = "LearnAimRef"
	ParamLearnStartDate      = "LearnStartDate"
	ParamLearnActEndDate     = "LearnActEndDate"
	ParamConRefNumber        = "ConRefNumber"
	ParamLearnDelFAMType     = "LearnDelFAMType"
	ParamLearnDelFAMCode     = "LearnDelFAMCode"
	ParamLearnDelFAMDateFrom = "LearnDelFAMDateFrom"
	ParamLearnDelFAMDateTo   = "LearnDelFAMDateTo"
	ParamAFinType            = "AFinType"
	ParamAFinCode            = "AFinCode"
	ParamAFinDate            = "AFinDate"
	ParamLearnFAMType        = "LearnFAMType"
	ParamPrimaryLLDD         = "PrimaryLLDD"
	ParamContPrefType        = "ContPrefType"
	ParamContPrefCode        = "ContPrefCode"
	ParamProvSpecLearnMonOcc = "ProvSpecLearnMonOccur"
	ParamWorkPlaceStartDate  = "WorkPlaceStartDate"
	ParamOutType             = "OutType"
	ParamOutCode             = "OutCode"
	ParamOutStartDate        = "OutStartDate"
)
