package rules

import (
	"fmt"

	"github.com/solatis/ilrkeeper/internal/predicates"
	"github.com/solatis/ilrkeeper/internal/refdata"
	"github.com/solatis/ilrkeeper/internal/types"
	"github.com/solatis/ilrkeeper/internal/validation"
)

/*
 * Learner identity rules.
 *
 * LearnRefNumber is the provider's key for a learner and compares
 * case-insensitively: "abc1", "AbC1" and "ABC1" are the same learner.
 * ULN is the national key; the temporary ULN is exempt from every check
 * that compares ULNs across learners or against the registry.
 */

// R06 flags learners sharing a LearnRefNumber. Every member of a duplicate
// group is reported, so three learners sharing a key yield three violations.
type R06 struct {
	validation.RuleBase
}

// NewR06 creates the rule.
func NewR06(handler validation.ErrorHandler) (*R06, error) {
	base, err := validation.NewRuleBase(RuleR06, handler)
	if err != nil {
		return nil, err
	}
	return &R06{RuleBase: base}, nil
}

// ConditionMet reports whether any LearnRefNumber occurs more than once.
func (r *R06) ConditionMet(learners []*types.Learner) bool {
	return predicates.HasDuplicates(learners, learnRefNumberKey)
}

// Validate reports each learner whose LearnRefNumber is duplicated.
func (r *R06) Validate(message *types.Message) {
	if message == nil {
		return
	}
	for _, learner := range predicates.DuplicateMembers(message.Learners, learnRefNumberKey) {
		r.HandleValidationError(learner.LearnRefNumber, nil, []validation.ErrorMessageParameter{
			r.BuildErrorMessageParameter(validation.ParamLearnRefNumber, learner.LearnRefNumber),
		})
	}
}

// R59 flags learners sharing a ULN. Absent and temporary ULNs are ignored.
type R59 struct {
	validation.RuleBase
}

// NewR59 creates the rule.
func NewR59(handler validation.ErrorHandler) (*R59, error) {
	base, err := validation.NewRuleBase(RuleR59, handler)
	if err != nil {
		return nil, err
	}
	return &R59{RuleBase: base}, nil
}

// ConditionMet reports whether any comparable ULN occurs more than once.
func (r *R59) ConditionMet(learners []*types.Learner) bool {
	return predicates.HasDuplicates(learners, ulnKey)
}

// Validate reports each learner whose ULN is duplicated.
func (r *R59) Validate(message *types.Message) {
	if message == nil {
		return
	}
	for _, learner := range predicates.DuplicateMembers(message.Learners, ulnKey) {
		r.HandleValidationError(learner.LearnRefNumber, nil, []validation.ErrorMessageParameter{
			r.BuildErrorMessageParameter(validation.ParamULN, *learner.ULN),
		})
	}
}

// R85 flags destination and progression records whose ULN differs from the
// learner with the same LearnRefNumber. Records with no matching learner, or
// with a ULN missing on either side, are not compared.
type R85 struct {
	validation.RuleBase
}

// NewR85 creates the rule.
func NewR85(handler validation.ErrorHandler) (*R85, error) {
	base, err := validation.NewRuleBase(RuleR85, handler)
	if err != nil {
		return nil, err
	}
	return &R85{RuleBase: base}, nil
}

// ConditionMet reports whether both ULNs are present and differ.
func (r *R85) ConditionMet(learnerULN, dpULN *int64) bool {
	return learnerULN != nil && dpULN != nil && *learnerULN != *dpULN
}

// Validate joins destination records to learners and reports mismatches.
func (r *R85) Validate(message *types.Message) {
	if message == nil || len(message.LearnerDestinationAndProgressions) == 0 {
		return
	}

	// First learner wins on a duplicated key; R06 reports the duplicate.
	learners := make(map[string]*types.Learner, len(message.Learners))
	for _, l := range message.Learners {
		key, ok := learnRefNumberKey(l)
		if !ok {
			continue
		}
		if _, seen := learners[key]; !seen {
			learners[key] = l
		}
	}

	for _, dp := range message.LearnerDestinationAndProgressions {
		if dp == nil {
			continue
		}
		learner, ok := learners[predicates.Fold(dp.LearnRefNumber)]
		if !ok || !r.ConditionMet(learner.ULN, dp.ULN) {
			continue
		}
		r.HandleValidationError(dp.LearnRefNumber, nil, []validation.ErrorMessageParameter{
			r.BuildErrorMessageParameter(validation.ParamLearnRefNumber, dp.LearnRefNumber),
			r.BuildErrorMessageParameter(validation.ParamULN, *dp.ULN),
		})
	}
}

// ULN03 flags learners whose ULN has not been issued.
type ULN03 struct {
	validation.RuleBase
	ulns refdata.ULNRegistry
}

// NewULN03 creates the rule. The registry is required.
func NewULN03(handler validation.ErrorHandler, ulns refdata.ULNRegistry) (*ULN03, error) {
	base, err := validation.NewRuleBase(RuleULN03, handler)
	if err != nil {
		return nil, err
	}
	if ulns == nil {
		return nil, fmt.Errorf("%s: %w", RuleULN03, refdata.ErrNilProvider)
	}
	return &ULN03{RuleBase: base, ulns: ulns}, nil
}

// ConditionMet reports whether uln is present, not temporary and unknown.
func (r *ULN03) ConditionMet(uln *int64) bool {
	return uln != nil && *uln != types.TemporaryULN && !r.ulns.ULNExists(*uln)
}

// Validate checks one learner.
func (r *ULN03) Validate(learner *types.Learner) {
	if learner == nil || !r.ConditionMet(learner.ULN) {
		return
	}
	r.HandleValidationError(learner.LearnRefNumber, nil, []validation.ErrorMessageParameter{
		r.BuildErrorMessageParameter(validation.ParamULN, *learner.ULN),
	})
}
