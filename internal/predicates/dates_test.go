package predicates

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/solatis/ilrkeeper/internal/types"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func fam(famType string, from, to *time.Time) *types.LearningDeliveryFAM {
	return &types.LearningDeliveryFAM{LearnDelFAMType: famType, LearnDelFAMDateFrom: from, LearnDelFAMDateTo: to}
}

func TestLatestFAM(t *testing.T) {
	older := fam("ACT", day(2018, 8, 1), day(2018, 12, 31))
	newest := fam("act", day(2019, 1, 1), nil)
	undated := fam("ACT", nil, nil)
	otherType := fam("LSF", day(2020, 1, 1), nil)

	tests := []struct {
		name string
		fams []*types.LearningDeliveryFAM
		want *types.LearningDeliveryFAM
	}{
		{name: "max date from wins", fams: []*types.LearningDeliveryFAM{older, newest, undated}, want: newest},
		{name: "input order irrelevant", fams: []*types.LearningDeliveryFAM{newest, undated, older}, want: newest},
		{name: "other types ignored", fams: []*types.LearningDeliveryFAM{older, otherType}, want: older},
		{name: "null date never latest", fams: []*types.LearningDeliveryFAM{undated}, want: nil},
		{name: "nil entries skipped", fams: []*types.LearningDeliveryFAM{nil, older, nil}, want: older},
		{name: "empty", fams: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LatestFAM(tt.fams, "ACT"); got != tt.want {
				t.Errorf("LatestFAM() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLatest_TieFirstInOrderWins(t *testing.T) {
	first := fam("ACT", day(2019, 1, 1), nil)
	second := fam("ACT", day(2019, 1, 1), day(2019, 6, 1))

	if got := LatestFAM([]*types.LearningDeliveryFAM{first, second}, "ACT"); got != first {
		t.Errorf("LatestFAM() picked %+v, want first in order", got)
	}
	if got := LatestFAM([]*types.LearningDeliveryFAM{second, first}, "ACT"); got != second {
		t.Errorf("LatestFAM() picked %+v, want first in order", got)
	}
}

func TestLatestOnOrBefore(t *testing.T) {
	statuses := []*types.LearnerEmploymentStatus{
		{EmpStat: 10, DateEmpStatApp: day(2018, 1, 1)},
		{EmpStat: 11, DateEmpStatApp: day(2018, 8, 1)},
		{EmpStat: 12, DateEmpStatApp: day(2018, 9, 1)},
		{EmpStat: 98},
	}
	date := func(s *types.LearnerEmploymentStatus) *time.Time { return s.DateEmpStatApp }

	got := LatestOnOrBefore(statuses, *day(2018, 8, 1), date)
	if got == nil || got.EmpStat != 11 {
		t.Errorf("LatestOnOrBefore(2018-08-01) = %+v, want EmpStat 11", got)
	}
	if got := LatestOnOrBefore(statuses, *day(2017, 12, 31), date); got != nil {
		t.Errorf("LatestOnOrBefore(2017-12-31) = %+v, want nil", got)
	}
}

func TestCovers(t *testing.T) {
	tests := []struct {
		name string
		d    *time.Time
		from *time.Time
		to   *time.Time
		want bool
	}{
		{name: "inside", d: day(2019, 3, 1), from: day(2019, 1, 1), to: day(2019, 6, 1), want: true},
		{name: "on from", d: day(2019, 1, 1), from: day(2019, 1, 1), to: day(2019, 6, 1), want: true},
		{name: "on to inclusive", d: day(2019, 6, 1), from: day(2019, 1, 1), to: day(2019, 6, 1), want: true},
		{name: "after to", d: day(2019, 6, 2), from: day(2019, 1, 1), to: day(2019, 6, 1), want: false},
		{name: "before from", d: day(2018, 12, 31), from: day(2019, 1, 1), to: nil, want: false},
		{name: "open ended", d: day(2030, 1, 1), from: day(2019, 1, 1), to: nil, want: true},
		{name: "nil from covers nothing", d: day(2019, 1, 1), from: nil, to: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Covers(*tt.d, tt.from, tt.to); got != tt.want {
				t.Errorf("Covers() = %v, want %v", got, tt.want)
			}
		})
	}

	withTime := time.Date(2019, 6, 1, 23, 59, 0, 0, time.UTC)
	if !Covers(withTime, day(2019, 1, 1), day(2019, 6, 1)) {
		t.Errorf("Covers() compares time of day, want day granularity")
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                   string
		aFrom, aTo, bFrom, bTo *time.Time
		want                   bool
	}{
		{name: "disjoint", aFrom: day(2019, 1, 1), aTo: day(2019, 1, 31), bFrom: day(2019, 2, 1), bTo: nil, want: false},
		{name: "touching day", aFrom: day(2019, 1, 1), aTo: day(2019, 2, 1), bFrom: day(2019, 2, 1), bTo: nil, want: true},
		{name: "open ended first", aFrom: day(2019, 1, 1), aTo: nil, bFrom: day(2020, 1, 1), bTo: day(2020, 2, 1), want: true},
		{name: "contained", aFrom: day(2019, 1, 1), aTo: day(2019, 12, 31), bFrom: day(2019, 3, 1), bTo: day(2019, 4, 1), want: true},
		{name: "b before a", aFrom: day(2019, 5, 1), aTo: nil, bFrom: day(2019, 1, 1), bTo: day(2019, 4, 30), want: false},
		{name: "nil from", aFrom: nil, aTo: nil, bFrom: day(2019, 1, 1), bTo: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aFrom, tt.aTo, tt.bFrom, tt.bTo); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlappingFAMs(t *testing.T) {
	first := fam("ACT", day(2018, 8, 1), day(2018, 12, 31))
	second := fam("ACT", day(2019, 1, 1), day(2019, 3, 31))
	third := fam("ACT", day(2019, 3, 1), nil)

	got := OverlappingFAMs([]*types.LearningDeliveryFAM{third, first, second}, "ACT")
	if len(got) != 1 || got[0] != third {
		t.Errorf("OverlappingFAMs() = %v, want [third]", got)
	}
	if got := OverlappingFAMs([]*types.LearningDeliveryFAM{first, second}, "ACT"); len(got) != 0 {
		t.Errorf("OverlappingFAMs(contiguous) = %v, want none", got)
	}
	if got := FAMCovering([]*types.LearningDeliveryFAM{first, second}, "ACT", *day(2019, 2, 1)); got != second {
		t.Errorf("FAMCovering() = %v, want second", got)
	}
}

// Property-based test: latest is never earlier than any dated record
func TestLatest_PropertyMaximum(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	base := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

	properties.Property("latest date dominates all non-nil dates", prop.ForAll(
		func(offsets []int) bool {
			fams := make([]*types.LearningDeliveryFAM, len(offsets))
			for i, off := range offsets {
				if off < 0 {
					fams[i] = fam("ACT", nil, nil)
					continue
				}
				d := base.AddDate(0, 0, off)
				fams[i] = fam("ACT", &d, nil)
			}

			latest := LatestFAM(fams, "ACT")
			hasDated := false
			for _, f := range fams {
				if f.LearnDelFAMDateFrom == nil {
					continue
				}
				hasDated = true
				if latest == nil || f.LearnDelFAMDateFrom.After(*latest.LearnDelFAMDateFrom) {
					return false
				}
			}
			return hasDated == (latest != nil)
		},
		gen.SliceOf(gen.IntRange(-5, 1000)),
	))

	properties.TestingRun(t)
}
