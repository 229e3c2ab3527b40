package rules

import (
	"github.com/solatis/ilrkeeper/internal/predicates"
	"github.com/solatis/ilrkeeper/internal/types"
	"github.com/solatis/ilrkeeper/internal/validation"
)

// R107 flags destination outcomes recorded twice within one destination and
// progression record. Outcomes match on OutType (case-insensitive), OutCode
// and OutStartDate; two absent start dates match. One violation per group.
type R107 struct {
	validation.RuleBase
}

// NewR107 creates the rule.
func NewR107(handler validation.ErrorHandler) (*R107, error) {
	base, err := validation.NewRuleBase(RuleR107, handler)
	if err != nil {
		return nil, err
	}
	return &R107{RuleBase: base}, nil
}

// ConditionMet reports whether outcomes contains a duplicate.
func (r *R107) ConditionMet(outcomes []*types.DPOutcome) bool {
	return predicates.HasDuplicates(outcomes, dpOutcomeKeyOf)
}

// Validate checks every destination and progression record in the message.
func (r *R107) Validate(message *types.Message) {
	if message == nil {
		return
	}
	for _, dp := range message.LearnerDestinationAndProgressions {
		if dp == nil {
			continue
		}
		for _, o := range predicates.DuplicateRepresentatives(dp.DPOutcomes, dpOutcomeKeyOf) {
			r.HandleValidationError(dp.LearnRefNumber, nil, []validation.ErrorMessageParameter{
				r.BuildErrorMessageParameter(validation.ParamOutType, o.OutType),
				r.BuildErrorMessageParameter(validation.ParamOutCode, o.OutCode),
				r.BuildErrorMessageParameter(validation.ParamOutStartDate, dateValue(o.OutStartDate)),
			})
		}
	}
}
