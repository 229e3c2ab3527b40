package rules

import (
	"time"

	"github.com/solatis/ilrkeeper/internal/predicates"
	"github.com/solatis/ilrkeeper/internal/types"
)

// Key projections shared by the duplicate-detection rules. A projection
// returns ok=false for records that take no part in the comparison.

// learnRefNumberKey folds the learner key; an empty key is absent.
func learnRefNumberKey(l *types.Learner) (string, bool) {
	if l == nil || l.LearnRefNumber == "" {
		return "", false
	}
	return predicates.Fold(l.LearnRefNumber), true
}

// ulnKey excludes absent and temporary ULNs. A temporary ULN is shared by
// many learners and never counts as a duplicate.
func ulnKey(l *types.Learner) (int64, bool) {
	if l == nil || l.ULN == nil || *l.ULN == types.TemporaryULN {
		return 0, false
	}
	return *l.ULN, true
}

type dpOutcomeKey struct {
	outType   string
	outCode   int
	startDate predicates.NullableDate
}

func dpOutcomeKeyOf(o *types.DPOutcome) (dpOutcomeKey, bool) {
	if o == nil {
		return dpOutcomeKey{}, false
	}
	return dpOutcomeKey{
		outType:   predicates.Fold(o.OutType),
		outCode:   o.OutCode,
		startDate: predicates.Date(o.OutStartDate),
	}, true
}

func aimSeqNumberKey(d *types.LearningDelivery) (int, bool) {
	if d == nil {
		return 0, false
	}
	return d.AimSeqNumber, true
}

type famKey struct {
	famType string
	famCode predicates.NullableString
}

type appFinKey struct {
	finType predicates.NullableString
	finCode int
	finDate predicates.NullableDate
}

func appFinKeyOf(r *types.AppFinRecord) (appFinKey, bool) {
	if r == nil {
		return appFinKey{}, false
	}
	return appFinKey{
		finType: predicates.FoldString(r.AFinType),
		finCode: r.AFinCode,
		finDate: predicates.Date(r.AFinDate),
	}, true
}

type contPrefKey struct {
	prefType string
	prefCode predicates.NullableInt
}

func contPrefKeyOf(c *types.ContactPreference) (contPrefKey, bool) {
	if c == nil {
		return contPrefKey{}, false
	}
	return contPrefKey{
		prefType: predicates.Fold(c.ContPrefType),
		prefCode: predicates.Int(c.ContPrefCode),
	}, true
}

func learnerFAMTypeKey(f *types.LearnerFAM) (string, bool) {
	if f == nil {
		return "", false
	}
	return predicates.Fold(f.LearnFAMType), true
}

func provSpecOccurKey(m *types.ProviderSpecLearnerMonitoring) (string, bool) {
	if m == nil {
		return "", false
	}
	return predicates.Fold(m.ProvSpecLearnMonOccur), true
}

// dateValue unwraps an optional date for reporting; absent dates report nil.
func dateValue(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}

// intValue unwraps an optional int for reporting.
func intValue(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

// stringValue unwraps an optional string for reporting.
func stringValue(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// int64Value unwraps an optional int64 for reporting.
func int64Value(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
