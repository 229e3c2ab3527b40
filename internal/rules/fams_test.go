package rules

import (
	"testing"
	"time"

	"github.com/solatis/ilrkeeper/internal/types"
	"github.com/solatis/ilrkeeper/internal/validation"
)

func withFAMs(aimSeq, fundModel int, start time.Time, fams ...*types.LearningDeliveryFAM) *types.LearningDelivery {
	d := delivery(aimSeq, fundModel, start)
	d.LearningDeliveryFAMs = fams
	return d
}

func TestR52_UndatedFAMDuplicates(t *testing.T) {
	start := date(2024, time.September, 1)
	tests := []struct {
		name string
		fams []*types.LearningDeliveryFAM
		want int
	}{
		{
			name: "same type and code, case folded",
			fams: []*types.LearningDeliveryFAM{
				{LearnDelFAMType: "LDM", LearnDelFAMCode: strPtr("034")},
				{LearnDelFAMType: "ldm", LearnDelFAMCode: strPtr("034")},
				{LearnDelFAMType: "LDM", LearnDelFAMCode: strPtr("034")},
			},
			want: 1,
		},
		{
			name: "absent codes match",
			fams: []*types.LearningDeliveryFAM{
				{LearnDelFAMType: "SOF"},
				{LearnDelFAMType: "SOF"},
			},
			want: 1,
		},
		{
			name: "absent code differs from present",
			fams: []*types.LearningDeliveryFAM{
				{LearnDelFAMType: "SOF"},
				{LearnDelFAMType: "SOF", LearnDelFAMCode: strPtr("105")},
			},
		},
		{
			name: "dated types exempt",
			fams: []*types.LearningDeliveryFAM{
				act(datePtr(2024, time.January, 1), nil),
				act(datePtr(2024, time.January, 1), nil),
				{LearnDelFAMType: "lsf", LearnDelFAMCode: strPtr("1")},
				{LearnDelFAMType: "LSF", LearnDelFAMCode: strPtr("1")},
			},
		},
		{
			name: "two groups",
			fams: []*types.LearningDeliveryFAM{
				{LearnDelFAMType: "LDM", LearnDelFAMCode: strPtr("034")},
				{LearnDelFAMType: "HHS", LearnDelFAMCode: strPtr("1")},
				nil,
				{LearnDelFAMType: "HHS", LearnDelFAMCode: strPtr("1")},
				{LearnDelFAMType: "LDM", LearnDelFAMCode: strPtr("034")},
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recorder()
			rule, err := NewR52(rec)
			must(t, err)

			rule.Validate(learner("L1", withFAMs(7, types.FundModelAdultSkills, start, tt.fams...)))

			if rec.Count() != tt.want {
				t.Fatalf("got %d violations, want %d", rec.Count(), tt.want)
			}
			if rule.ConditionMet(tt.fams) != (tt.want > 0) {
				t.Errorf("ConditionMet() disagrees with Validate")
			}
		})
	}
}

func TestR104_OverlappingACT(t *testing.T) {
	start := date(2024, time.January, 1)
	tests := []struct {
		name string
		fams []*types.LearningDeliveryFAM
		want int
	}{
		{
			name: "share the boundary day",
			fams: []*types.LearningDeliveryFAM{
				act(datePtr(2024, time.January, 1), datePtr(2024, time.June, 30)),
				act(datePtr(2024, time.June, 30), nil),
			},
			want: 1,
		},
		{
			name: "consecutive",
			fams: []*types.LearningDeliveryFAM{
				act(datePtr(2024, time.July, 1), nil),
				act(datePtr(2024, time.January, 1), datePtr(2024, time.June, 30)),
			},
		},
		{
			name: "only the preceding record is compared",
			fams: []*types.LearningDeliveryFAM{
				act(datePtr(2024, time.January, 1), nil),
				act(datePtr(2024, time.March, 1), datePtr(2024, time.April, 1)),
				act(datePtr(2024, time.May, 1), nil),
			},
			want: 1,
		},
		{
			name: "undated records ignored",
			fams: []*types.LearningDeliveryFAM{
				act(nil, nil),
				act(datePtr(2024, time.January, 1), nil),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recorder()
			rule, err := NewR104(rec)
			must(t, err)

			rule.Validate(learner("L1", withFAMs(1, types.FundModelApprenticeships, start, tt.fams...)))

			if rec.Count() != tt.want {
				t.Fatalf("got %d violations, want %d", rec.Count(), tt.want)
			}
		})
	}
}

func TestR112_LatestACTEndsOnActualEnd(t *testing.T) {
	start := date(2024, time.January, 1)
	end := datePtr(2025, time.June, 30)
	tests := []struct {
		name   string
		actEnd *time.Time
		fams   []*types.LearningDeliveryFAM
		want   int
	}{
		{
			name:   "latest ends on actual end",
			actEnd: end,
			fams: []*types.LearningDeliveryFAM{
				act(datePtr(2024, time.January, 1), datePtr(2024, time.December, 31)),
				act(datePtr(2025, time.January, 1), datePtr(2025, time.June, 30)),
			},
		},
		{
			name:   "latest still open",
			actEnd: end,
			fams: []*types.LearningDeliveryFAM{
				act(datePtr(2024, time.January, 1), datePtr(2025, time.June, 30)),
				act(datePtr(2025, time.January, 1), nil),
			},
			want: 1,
		},
		{
			name:   "undated record is never latest",
			actEnd: end,
			fams: []*types.LearningDeliveryFAM{
				act(datePtr(2025, time.January, 1), datePtr(2025, time.June, 30)),
				act(nil, nil),
			},
		},
		{
			name:   "tie on DateFrom goes to first",
			actEnd: end,
			fams: []*types.LearningDeliveryFAM{
				act(datePtr(2025, time.January, 1), datePtr(2025, time.June, 30)),
				act(datePtr(2025, time.January, 1), datePtr(2025, time.March, 31)),
			},
		},
		{
			name: "no actual end date",
			fams: []*types.LearningDeliveryFAM{act(datePtr(2025, time.January, 1), nil)},
		},
		{
			name:   "no ACT records",
			actEnd: end,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := withFAMs(1, types.FundModelApprenticeships, start, tt.fams...)
			d.LearnActEndDate = tt.actEnd

			rec := recorder()
			rule, err := NewR112(rec)
			must(t, err)
			rule.Validate(learner("L1", d))

			if rec.Count() != tt.want {
				t.Fatalf("got %d violations, want %d", rec.Count(), tt.want)
			}
			if tt.want > 0 {
				if v, _ := rec.Calls()[0].Param(validation.ParamLearnDelFAMDateTo); v != nil {
					t.Errorf("LearnDelFAMDateTo param = %v, want nil", v)
				}
			}
		})
	}
}

func TestLearnDelFAMType73_StartCoveredByACT(t *testing.T) {
	start := date(2024, time.January, 15)
	tests := []struct {
		name string
		d    *types.LearningDelivery
		want int
	}{
		{
			name: "start before first ACT",
			d:    withFAMs(1, types.FundModelApprenticeships, start, act(datePtr(2024, time.February, 1), nil)),
			want: 1,
		},
		{
			name: "ACT from start day",
			d:    withFAMs(1, types.FundModelApprenticeships, start, act(datePtr(2024, time.January, 15), nil)),
		},
		{
			name: "second ACT covers",
			d: withFAMs(1, types.FundModelApprenticeships, start,
				act(datePtr(2024, time.March, 1), nil),
				act(datePtr(2023, time.December, 1), datePtr(2024, time.February, 28))),
		},
		{
			name: "no ACT records",
			d:    withFAMs(1, types.FundModelApprenticeships, start),
		},
		{
			name: "not an apprenticeship",
			d:    withFAMs(1, types.FundModelAdultSkills, start, act(datePtr(2024, time.February, 1), nil)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recorder()
			rule, err := NewLearnDelFAMType73(rec)
			must(t, err)
			rule.Validate(learner("L1", tt.d))

			if rec.Count() != tt.want {
				t.Fatalf("got %d violations, want %d", rec.Count(), tt.want)
			}
		})
	}
}
