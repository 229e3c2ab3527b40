package rules

import (
	"fmt"
	"time"

	"github.com/solatis/ilrkeeper/internal/predicates"
	"github.com/solatis/ilrkeeper/internal/refdata"
	"github.com/solatis/ilrkeeper/internal/types"
	"github.com/solatis/ilrkeeper/internal/validation"
)

/*
 * Learning delivery rules.
 *
 * Violations carry the delivery's AimSeqNumber. Deliveries are visited in
 * input order; nil placeholders are skipped.
 */

// AimSeqNumber02 flags AimSeqNumbers used by more than one delivery of a
// learner. Each duplicated value is reported once, carrying that value as
// the aim sequence number.
type AimSeqNumber02 struct {
	validation.RuleBase
}

// NewAimSeqNumber02 creates the rule.
func NewAimSeqNumber02(handler validation.ErrorHandler) (*AimSeqNumber02, error) {
	base, err := validation.NewRuleBase(RuleAimSeqNumber02, handler)
	if err != nil {
		return nil, err
	}
	return &AimSeqNumber02{RuleBase: base}, nil
}

// ConditionMet reports whether any AimSeqNumber repeats.
func (r *AimSeqNumber02) ConditionMet(deliveries []*types.LearningDelivery) bool {
	return predicates.HasDuplicates(deliveries, aimSeqNumberKey)
}

// Validate checks one learner.
func (r *AimSeqNumber02) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, group := range predicates.DuplicateGroups(learner.LearningDeliveries, aimSeqNumberKey) {
		first := group[0]
		r.HandleValidationError(learner.LearnRefNumber, first.AimSequenceNumber(), []validation.ErrorMessageParameter{
			r.BuildErrorMessageParameter(validation.ParamAimSeqNumber, first.AimSeqNumber),
		})
	}
}

type programmeKey struct {
	progType  predicates.NullableInt
	fworkCode predicates.NullableInt
	pwayCode  predicates.NullableInt
	stdCode   predicates.NullableInt
}

func programmeKeyOf(d *types.LearningDelivery) programmeKey {
	return programmeKey{
		progType:  predicates.Int(d.ProgType),
		fworkCode: predicates.Int(d.FworkCode),
		pwayCode:  predicates.Int(d.PwayCode),
		stdCode:   predicates.Int(d.StdCode),
	}
}

// R30 flags programme component aims with no programme aim for the same
// ProgType, FworkCode, PwayCode and StdCode.
type R30 struct {
	validation.RuleBase
}

// NewR30 creates the rule.
func NewR30(handler validation.ErrorHandler) (*R30, error) {
	base, err := validation.NewRuleBase(RuleR30, handler)
	if err != nil {
		return nil, err
	}
	return &R30{RuleBase: base}, nil
}

// ConditionMet reports whether component is a component aim on a programme
// that has no programme aim among deliveries.
func (r *R30) ConditionMet(component *types.LearningDelivery, deliveries []*types.LearningDelivery) bool {
	if component == nil || component.AimType != types.AimTypeComponent || component.ProgType == nil {
		return false
	}
	key := programmeKeyOf(component)
	return !predicates.AnyWhere(deliveries, func(d *types.LearningDelivery) bool {
		return d.AimType == types.AimTypeProgramme && programmeKeyOf(d) == key
	})
}

// Validate checks one learner.
func (r *R30) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, d := range learner.LearningDeliveries {
		if !r.ConditionMet(d, learner.LearningDeliveries) {
			continue
		}
		r.HandleValidationError(learner.LearnRefNumber, d.AimSequenceNumber(), []validation.ErrorMessageParameter{
			r.BuildErrorMessageParameter(validation.ParamAimType, d.AimType),
			r.BuildErrorMessageParameter(validation.ParamProgType, intValue(d.ProgType)),
			r.BuildErrorMessageParameter(validation.ParamFworkCode, intValue(d.FworkCode)),
			r.BuildErrorMessageParameter(validation.ParamPwayCode, intValue(d.PwayCode)),
		})
	}
}

// LearnStartDate02 flags deliveries starting too long before the collection
// year. The cutoff is CollectionYearStart minus the configured look-back.
type LearnStartDate02 struct {
	validation.RuleBase
	cutoff time.Time
	op     predicates.DateOperator
}

// NewLearnStartDate02 creates the rule from cfg.
func NewLearnStartDate02(handler validation.ErrorHandler, cfg Config) (*LearnStartDate02, error) {
	base, err := validation.NewRuleBase(RuleLearnStartDate02, handler)
	if err != nil {
		return nil, err
	}
	if cfg.CollectionYearStart.IsZero() {
		return nil, fmt.Errorf("%s: %w: collection year start is required", RuleLearnStartDate02, ErrInvalidConfig)
	}
	if cfg.StartDateLookbackYears < 0 {
		return nil, fmt.Errorf("%s: %w: look-back years must be non-negative", RuleLearnStartDate02, ErrInvalidConfig)
	}
	op := cfg.StartDateOperator
	if op == predicates.OpUnspecified {
		op = predicates.OpBefore
	}
	return &LearnStartDate02{
		RuleBase: base,
		cutoff:   predicates.AddYears(cfg.CollectionYearStart, -cfg.StartDateLookbackYears),
		op:       op,
	}, nil
}

// Cutoff returns the earliest acceptable start date.
func (r *LearnStartDate02) Cutoff() time.Time {
	return r.cutoff
}

// ConditionMet reports whether learnStartDate falls outside the look-back.
func (r *LearnStartDate02) ConditionMet(learnStartDate time.Time) bool {
	if learnStartDate.IsZero() {
		return false
	}
	return predicates.CompareDate(r.op, learnStartDate, r.cutoff)
}

// Validate checks one learner.
func (r *LearnStartDate02) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, d := range learner.LearningDeliveries {
		if d == nil || !r.ConditionMet(d.LearnStartDate) {
			continue
		}
		r.HandleValidationError(learner.LearnRefNumber, d.AimSequenceNumber(), []validation.ErrorMessageParameter{
			r.BuildErrorMessageParameter(validation.ParamLearnStartDate, d.LearnStartDate),
		})
	}
}

// WorkPlaceStartDate01 flags work placements starting before their aim.
type WorkPlaceStartDate01 struct {
	validation.RuleBase
}

// NewWorkPlaceStartDate01 creates the rule.
func NewWorkPlaceStartDate01(handler validation.ErrorHandler) (*WorkPlaceStartDate01, error) {
	base, err := validation.NewRuleBase(RuleWorkPlaceStartDate01, handler)
	if err != nil {
		return nil, err
	}
	return &WorkPlaceStartDate01{RuleBase: base}, nil
}

// ConditionMet reports whether the placement starts before the aim.
func (r *WorkPlaceStartDate01) ConditionMet(workPlaceStartDate, learnStartDate time.Time) bool {
	if workPlaceStartDate.IsZero() || learnStartDate.IsZero() {
		return false
	}
	return predicates.CompareDate(predicates.OpBefore, workPlaceStartDate, learnStartDate)
}

// Validate checks one learner; one violation per offending placement.
func (r *WorkPlaceStartDate01) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, d := range learner.LearningDeliveries {
		if d == nil {
			continue
		}
		for _, wp := range d.LearningDeliveryWorkPlacements {
			if wp == nil || !r.ConditionMet(wp.WorkPlaceStartDate, d.LearnStartDate) {
				continue
			}
			r.HandleValidationError(learner.LearnRefNumber, d.AimSequenceNumber(), []validation.ErrorMessageParameter{
				r.BuildErrorMessageParameter(validation.ParamWorkPlaceStartDate, wp.WorkPlaceStartDate),
				r.BuildErrorMessageParameter(validation.ParamLearnStartDate, d.LearnStartDate),
			})
		}
	}
}

// LearnAimRef01 flags learning aim references missing from LARS.
type LearnAimRef01 struct {
	validation.RuleBase
	aims refdata.LearningAims
}

// NewLearnAimRef01 creates the rule. The LARS lookup is required.
func NewLearnAimRef01(handler validation.ErrorHandler, aims refdata.LearningAims) (*LearnAimRef01, error) {
	base, err := validation.NewRuleBase(RuleLearnAimRef01, handler)
	if err != nil {
		return nil, err
	}
	if aims == nil {
		return nil, fmt.Errorf("%s: %w", RuleLearnAimRef01, refdata.ErrNilProvider)
	}
	return &LearnAimRef01{RuleBase: base, aims: aims}, nil
}

// ConditionMet reports whether a non-empty reference is unknown.
func (r *LearnAimRef01) ConditionMet(learnAimRef string) bool {
	return learnAimRef != "" && !r.aims.LearnAimRefExists(learnAimRef)
}

// Validate checks one learner.
func (r *LearnAimRef01) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, d := range learner.LearningDeliveries {
		if d == nil || !r.ConditionMet(d.LearnAimRef) {
			continue
		}
		r.HandleValidationError(learner.LearnRefNumber, d.AimSequenceNumber(), []validation.ErrorMessageParameter{
			r.BuildErrorMessageParameter(validation.ParamLearnAimRef, d.LearnAimRef),
		})
	}
}

// ConRefNumber01 flags ESF deliveries whose contract reference does not
// match a contract allocation held by the provider. When an allocation has
// a start date, the delivery must also start within its period.
type ConRefNumber01 struct {
	validation.RuleBase
	contracts []refdata.ContractAllocation
}

// NewConRefNumber01 creates the rule. Contract allocations are read once.
func NewConRefNumber01(handler validation.ErrorHandler, source refdata.ContractSource) (*ConRefNumber01, error) {
	base, err := validation.NewRuleBase(RuleConRefNumber01, handler)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("%s: %w", RuleConRefNumber01, refdata.ErrNilProvider)
	}
	return &ConRefNumber01{RuleBase: base, contracts: source.ContractAllocations()}, nil
}

// ConditionMet reports whether d is an ESF delivery with an unmatched
// contract reference. An absent reference is not checked here.
func (r *ConRefNumber01) ConditionMet(d *types.LearningDelivery) bool {
	if d == nil || d.FundModel != types.FundModelESF || d.ConRefNumber == nil {
		return false
	}
	ref := predicates.Fold(*d.ConRefNumber)
	for _, c := range r.contracts {
		if predicates.Fold(c.ContractAllocationNumber) != ref {
			continue
		}
		if c.StartDate == nil || predicates.Covers(d.LearnStartDate, c.StartDate, c.EndDate) {
			return false
		}
	}
	return true
}

// Validate checks one learner.
func (r *ConRefNumber01) Validate(learner *types.Learner) {
	if learner == nil {
		return
	}
	for _, d := range learner.LearningDeliveries {
		if !r.ConditionMet(d) {
			continue
		}
		r.HandleValidationError(learner.LearnRefNumber, d.AimSequenceNumber(), []validation.ErrorMessageParameter{
			r.BuildErrorMessageParameter(validation.ParamConRefNumber, stringValue(d.ConRefNumber)),
			r.BuildErrorMessageParameter(validation.ParamFundModel, d.FundModel),
		})
	}
}
