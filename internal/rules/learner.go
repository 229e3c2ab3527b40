package rules

import (
	"fmt"
	"time"

	"github.com/solatis/ilrkeeper/internal/predicates"
	"github.com/solatis/ilrkeeper/internal/types"
	"github.com/solatis/ilrkeeper/internal/validation"
)

/*
 * Learner-level collection rules.
 *
 * These constrain the learner's own collections (FAMs, employment history,
 * LLDD, contact preferences, provider monitoring). Violations are not tied
 * to a delivery unless the check is per delivery, as in EmpStat_01.
 */

var fundedModels = []int{
	types.FundModelAdultSkills,
	types.FundModelApprenticeships,
	types.FundModelESF,
	types.FundModelOtherAdult,
}

func empStatDate(s *types.LearnerEmploymentStatus) *time.Time { return s.DateEmpStatApp }

// EmpStat01 flags funded deliveries with no employment status applying on
// or before the learning start date.
type EmpStat01 struct {
	validation.RuleBase
}

// NewEmpStat01 creates the rule.
func NewEmpStat01(handler validation.ErrorHandler) (*EmpStat01, error) {
	base, err := validation.NewRuleBase(RuleEmpStat01, handler)
	if err != nil {
		return nil, err
	}
	return &EmpStat01{RuleBase: base}, nil
}

// StatusAt returns the employment status applying on d's start date: the
// latest status dated on or before it.
func (r *EmpStat01) StatusAt(d *types.LearningDelivery, statuses []*types.LearnerEmploymentStatus) *types.LearnerEmploymentStatus {
	return predicates.LatestOnOrBefore(statuses, d.LearnStartDate, empStatDate)
}

// ConditionMet reports whether d is funded and has no applicable status.
func (r *EmpStat01) ConditionMet(d *types.LearningDelivery, statuses []*types.LearnerEmploymentStatus) bool {
	if d == nil || d.LearnStartDate.IsZero() || !predicates.IntIn(&d.FundModel, fundedModels...) {
		return false
	}
	return r.StatusAt(d, statuses) == nil
}

// Validate checks one learner.
func (r *EmpStat01) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, d := range learner.LearningDeliveries {
		if !r.ConditionMet(d, learner.LearnerEmploymentStatuses) {
			continue
		}
		r.HandleValidationError(learner.LearnRefNumber, d.AimSequenceNumber(), []validation.ErrorMessageParameter{
			r.BuildErrorMessageParameter(validation.ParamLearnStartDate, d.LearnStartDate),
			r.BuildErrorMessageParameter(validation.ParamFundModel, d.FundModel),
		})
	}
}

// LearnFAMType16 flags LearnerFAM types recorded more often than allowed.
// Each offending type is reported once.
type LearnFAMType16 struct {
	validation.RuleBase
	limits map[string]int
}

// NewLearnFAMType16 creates the rule. A nil limits map uses
// DefaultLearnerFAMLimits; every limit must be at least 1.
func NewLearnFAMType16(handler validation.ErrorHandler, limits map[string]int) (*LearnFAMType16, error) {
	base, err := validation.NewRuleBase(RuleLearnFAMType16, handler)
	if err != nil {
		return nil, err
	}
	if limits == nil {
		limits = DefaultLearnerFAMLimits()
	}
	folded := make(map[string]int, len(limits))
	for famType, limit := range limits {
		if limit < 1 {
			return nil, fmt.Errorf("%s: %w: limit for %q must be at least 1", RuleLearnFAMType16, ErrInvalidConfig, famType)
		}
		folded[predicates.Fold(famType)] = limit
	}
	return &LearnFAMType16{RuleBase: base, limits: folded}, nil
}

// ConditionMet reports whether count exceeds the limit for famType.
func (r *LearnFAMType16) ConditionMet(famType string, count int) bool {
	limit, ok := r.limits[predicates.Fold(famType)]
	return ok && count > limit
}

// Validate checks one learner.
func (r *LearnFAMType16) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, group := range predicates.DuplicateGroups(learner.LearnerFAMs, learnerFAMTypeKey) {
		first := group[0]
		if !r.ConditionMet(first.LearnFAMType, len(group)) {
			continue
		}
		r.HandleValidationError(learner.LearnRefNumber, nil, []validation.ErrorMessageParameter{
			r.BuildErrorMessageParameter(validation.ParamLearnFAMType, first.LearnFAMType),
		})
	}
}

func isPrimaryLLDD(p *types.LLDDAndHealthProblem) bool {
	return p.PrimaryLLDD != nil && *p.PrimaryLLDD == 1
}

// PrimaryLLDD04 flags learners with more than one primary LLDD record.
type PrimaryLLDD04 struct {
	validation.RuleBase
}

// NewPrimaryLLDD04 creates the rule.
func NewPrimaryLLDD04(handler validation.ErrorHandler) (*PrimaryLLDD04, error) {
	base, err := validation.NewRuleBase(RulePrimaryLLDD04, handler)
	if err != nil {
		return nil, err
	}
	return &PrimaryLLDD04{RuleBase: base}, nil
}

// ConditionMet reports whether more than one record is marked primary.
func (r *PrimaryLLDD04) ConditionMet(problems []*types.LLDDAndHealthProblem) bool {
	return predicates.CountWhere(problems, isPrimaryLLDD) > 1
}

// Validate checks one learner.
func (r *PrimaryLLDD04) Validate(learner *types.Learner) {
	if learner == nil || !r.ConditionMet(learner.LLDDAndHealthProblems) {
		return
	}
	r.HandleValidationError(learner.LearnRefNumber, nil, []validation.ErrorMessageParameter{
		r.BuildErrorMessageParameter(validation.ParamPrimaryLLDD, 1),
	})
}

// ContPrefType07 flags contact preferences recorded twice with the same
// type and code. One violation per duplicate group.
type ContPrefType07 struct {
	validation.RuleBase
}

// NewContPrefType07 creates the rule.
func NewContPrefType07(handler validation.ErrorHandler) (*ContPrefType07, error) {
	base, err := validation.NewRuleBase(RuleContPrefType07, handler)
	if err != nil {
		return nil, err
	}
	return &ContPrefType07{RuleBase: base}, nil
}

// ConditionMet reports whether prefs holds a duplicate.
func (r *ContPrefType07) ConditionMet(prefs []*types.ContactPreference) bool {
	return predicates.HasDuplicates(prefs, contPrefKeyOf)
}

// Validate checks one learner.
func (r *ContPrefType07) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, p := range predicates.DuplicateRepresentatives(learner.ContactPreferences, contPrefKeyOf) {
		r.HandleValidationError(learner.LearnRefNumber, nil, []validation.ErrorMessageParameter{
			r.BuildErrorMessageParameter(validation.ParamContPrefType, p.ContPrefType),
			r.BuildErrorMessageParameter(validation.ParamContPrefCode, intValue(p.ContPrefCode)),
		})
	}
}

// ProvSpecLearnMonOccur01 flags provider monitoring occurrences used more
// than once. Each repeated occurrence is reported once.
type ProvSpecLearnMonOccur01 struct {
	validation.RuleBase
}

// NewProvSpecLearnMonOccur01 creates the rule.
func NewProvSpecLearnMonOccur01(handler validation.ErrorHandler) (*ProvSpecLearnMonOccur01, error) {
	base, err := validation.NewRuleBase(RuleProvSpecLearnMonOccur01, handler)
	if err != nil {
		return nil, err
	}
	return &ProvSpecLearnMonOccur01{RuleBase: base}, nil
}

// ConditionMet reports whether any occurrence repeats.
func (r *ProvSpecLearnMonOccur01) ConditionMet(monitorings []*types.ProviderSpecLearnerMonitoring) bool {
	return len(predicates.KeysCountExceeding(monitorings, 1, provSpecOccurKey)) > 0
}

// Validate checks one learner.
func (r *ProvSpecLearnMonOccur01) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, m := range predicates.DuplicateRepresentatives(learner.ProviderSpecLearnerMonitorings, provSpecOccurKey) {
		r.HandleValidationError(learner.LearnRefNumber, nil, []validation.ErrorMessageParameter{
			r.BuildErrorMessageParameter(validation.ParamProvSpecLearnMonOcc, m.ProvSpecLearnMonOccur),
		})
	}
}
