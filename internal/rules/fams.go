package rules

import (
	"github.com/solatis/ilrkeeper/internal/predicates"
	"github.com/solatis/ilrkeeper/internal/types"
	"github.com/solatis/ilrkeeper/internal/validation"
)

/*
 * Learning delivery FAM rules.
 *
 * Dated FAM types (ACT, LSF, ALB) may repeat with different periods; the
 * current record is the one with the latest DateFrom. Undated types are
 * single-valued per code.
 */

var datedFAMTypes = []string{
	types.LearnDelFAMTypeACT,
	types.LearnDelFAMTypeLSF,
	types.LearnDelFAMTypeALB,
}

func undatedFAMKey(f *types.LearningDeliveryFAM) (famKey, bool) {
	if f == nil || predicates.InFold(f.LearnDelFAMType, datedFAMTypes...) {
		return famKey{}, false
	}
	return famKey{
		famType: predicates.Fold(f.LearnDelFAMType),
		famCode: predicates.FoldString(f.LearnDelFAMCode),
	}, true
}

// R52 flags undated FAMs recorded twice with the same type and code on one
// delivery. One violation per duplicate group.
type R52 struct {
	validation.RuleBase
}

// NewR52 creates the rule.
func NewR52(handler validation.ErrorHandler) (*R52, error) {
	base, err := validation.NewRuleBase(RuleR52, handler)
	if err != nil {
		return nil, err
	}
	return &R52{RuleBase: base}, nil
}

// ConditionMet reports whether fams holds a duplicated undated FAM.
func (r *R52) ConditionMet(fams []*types.LearningDeliveryFAM) bool {
	return predicates.HasDuplicates(fams, undatedFAMKey)
}

// Validate checks one learner.
func (r *R52) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, d := range learner.LearningDeliveries {
		if d == nil {
			continue
		}
		for _, f := range predicates.DuplicateRepresentatives(d.LearningDeliveryFAMs, undatedFAMKey) {
			r.HandleValidationError(learner.LearnRefNumber, d.AimSequenceNumber(), []validation.ErrorMessageParameter{
				r.BuildErrorMessageParameter(validation.ParamLearnDelFAMType, f.LearnDelFAMType),
				r.BuildErrorMessageParameter(validation.ParamLearnDelFAMCode, stringValue(f.LearnDelFAMCode)),
			})
		}
	}
}

// R104 flags ACT records whose period overlaps the preceding ACT record.
type R104 struct {
	validation.RuleBase
}

// NewR104 creates the rule.
func NewR104(handler validation.ErrorHandler) (*R104, error) {
	base, err := validation.NewRuleBase(RuleR104, handler)
	if err != nil {
		return nil, err
	}
	return &R104{RuleBase: base}, nil
}

// ConditionMet reports whether any ACT periods overlap.
func (r *R104) ConditionMet(fams []*types.LearningDeliveryFAM) bool {
	return len(predicates.OverlappingFAMs(fams, types.LearnDelFAMTypeACT)) > 0
}

// Validate checks one learner; the later record of each overlap is reported.
func (r *R104) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, d := range learner.LearningDeliveries {
		if d == nil {
			continue
		}
		for _, f := range predicates.OverlappingFAMs(d.LearningDeliveryFAMs, types.LearnDelFAMTypeACT) {
			r.HandleValidationError(learner.LearnRefNumber, d.AimSequenceNumber(), []validation.ErrorMessageParameter{
				r.BuildErrorMessageParameter(validation.ParamLearnDelFAMType, f.LearnDelFAMType),
				r.BuildErrorMessageParameter(validation.ParamLearnDelFAMDateFrom, dateValue(f.LearnDelFAMDateFrom)),
				r.BuildErrorMessageParameter(validation.ParamLearnDelFAMDateTo, dateValue(f.LearnDelFAMDateTo)),
			})
		}
	}
}

// R112 flags finished deliveries whose latest ACT record does not end on
// the actual end date.
type R112 struct {
	validation.RuleBase
}

// NewR112 creates the rule.
func NewR112(handler validation.ErrorHandler) (*R112, error) {
	base, err := validation.NewRuleBase(RuleR112, handler)
	if err != nil {
		return nil, err
	}
	return &R112{RuleBase: base}, nil
}

// ConditionMet reports whether d has an actual end date and a latest ACT
// record ending on a different day (or not ending at all).
func (r *R112) ConditionMet(d *types.LearningDelivery) bool {
	if d == nil || d.LearnActEndDate == nil {
		return false
	}
	latest := predicates.LatestFAM(d.LearningDeliveryFAMs, types.LearnDelFAMTypeACT)
	return latest != nil && !predicates.SameDay(latest.LearnDelFAMDateTo, d.LearnActEndDate)
}

// Validate checks one learner.
func (r *R112) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, d := range learner.LearningDeliveries {
		if !r.ConditionMet(d) {
			continue
		}
		latest := predicates.LatestFAM(d.LearningDeliveryFAMs, types.LearnDelFAMTypeACT)
		r.HandleValidationError(learner.LearnRefNumber, d.AimSequenceNumber(), []validation.ErrorMessageParameter{
			r.BuildErrorMessageParameter(validation.ParamLearnActEndDate, *d.LearnActEndDate),
			r.BuildErrorMessageParameter(validation.ParamLearnDelFAMType, latest.LearnDelFAMType),
			r.BuildErrorMessageParameter(validation.ParamLearnDelFAMDateTo, dateValue(latest.LearnDelFAMDateTo)),
		})
	}
}

// LearnDelFAMType73 flags apprenticeship deliveries with ACT records where
// none covers the learning start date.
type LearnDelFAMType73 struct {
	validation.RuleBase
}

// NewLearnDelFAMType73 creates the rule.
func NewLearnDelFAMType73(handler validation.ErrorHandler) (*LearnDelFAMType73, error) {
	base, err := validation.NewRuleBase(RuleLearnDelFAMType73, handler)
	if err != nil {
		return nil, err
	}
	return &LearnDelFAMType73{RuleBase: base}, nil
}

// ConditionMet reports whether d is an apprenticeship with ACT records and
// no ACT period covering LearnStartDate.
func (r *LearnDelFAMType73) ConditionMet(d *types.LearningDelivery) bool {
	if d == nil || d.FundModel != types.FundModelApprenticeships || d.LearnStartDate.IsZero() {
		return false
	}
	if !predicates.HasFAMType(d.LearningDeliveryFAMs, types.LearnDelFAMTypeACT) {
		return false
	}
	return predicates.FAMCovering(d.LearningDeliveryFAMs, types.LearnDelFAMTypeACT, d.LearnStartDate) == nil
}

// Validate checks one learner.
func (r *LearnDelFAMType73) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, d := range learner.LearningDeliveries {
		if !r.ConditionMet(d) {
			continue
		}
		r.HandleValidationError(learner.LearnRefNumber, d.AimSequenceNumber(), []validation.ErrorMessageParameter{
			r.BuildErrorMessageParameter(validation.ParamLearnStartDate, d.LearnStartDate),
			r.BuildErrorMessageParameter(validation.ParamLearnDelFAMType, types.LearnDelFAMTypeACT),
		})
	}
}
