package rules

import (
	"github.com/solatis/ilrkeeper/internal/predicates"
	"github.com/solatis/ilrkeeper/internal/types"
	"github.com/solatis/ilrkeeper/internal/validation"
)

// R121 flags apprenticeship financial records entered twice on one
// delivery. Records match on AFinType (case-insensitive), AFinCode and
// AFinDate; absent types or dates match each other. Nil placeholders in the
// record list are ignored. One violation per duplicate group.
type R121 struct {
	validation.RuleBase
}

// NewR121 creates the rule.
func NewR121(handler validation.ErrorHandler) (*R121, error) {
	base, err := validation.NewRuleBase(RuleR121, handler)
	if err != nil {
		return nil, err
	}
	return &R121{RuleBase: base}, nil
}

// ConditionMet reports whether records holds a duplicate.
func (r *R121) ConditionMet(records []*types.AppFinRecord) bool {
	return predicates.HasDuplicates(predicates.NonNil(records), appFinKeyOf)
}

// Validate checks one learner.
func (r *R121) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, d := range learner.LearningDeliveries {
		if d == nil || len(d.AppFinRecords) == 0 {
			continue
		}
		for _, rec := range predicates.DuplicateRepresentatives(predicates.NonNil(d.AppFinRecords), appFinKeyOf) {
			r.HandleValidationError(learner.LearnRefNumber, d.AimSequenceNumber(), []validation.ErrorMessageParameter{
				r.BuildErrorMessageParameter(validation.ParamAFinType, stringValue(rec.AFinType)),
				r.BuildErrorMessageParameter(validation.ParamAFinCode, rec.AFinCode),
				r.BuildErrorMessageParameter(validation.ParamAFinDate, dateValue(rec.AFinDate)),
			})
		}
	}
}
