package rules

import (
	"testing"
	"time"

	"github.com/solatis/ilrkeeper/internal/types"
	"github.com/solatis/ilrkeeper/internal/validation/validationtest"
)

// Codes the catalog never branches on.
const (
	aimTypeStandalone  = 4
	fundModelNonFunded = 99
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func intPtr(i int) *int       { return &i }
func int64Ptr(i int64) *int64 { return &i }
func strPtr(s string) *string { return &s }
func seq(n int64) *int64      { return &n }
func uln(n int64) *int64      { return &n }

func recorder() *validationtest.Recorder {
	return &validationtest.Recorder{}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("rule construction failed: %v", err)
	}
}

func learner(ref string, deliveries ...*types.LearningDelivery) *types.Learner {
	return &types.Learner{LearnRefNumber: ref, LearningDeliveries: deliveries}
}

func delivery(aimSeq int, fundModel int, start time.Time) *types.LearningDelivery {
	return &types.LearningDelivery{
		AimSeqNumber:   aimSeq,
		AimType:        aimTypeStandalone,
		LearnAimRef:    "ZPROG001",
		FundModel:      fundModel,
		LearnStartDate: start,
	}
}

func act(from, to *time.Time) *types.LearningDeliveryFAM {
	return &types.LearningDeliveryFAM{
		LearnDelFAMType:     types.LearnDelFAMTypeACT,
		LearnDelFAMCode:     strPtr("1"),
		LearnDelFAMDateFrom: from,
		LearnDelFAMDateTo:   to,
	}
}

// assertSeqs checks the aim sequence numbers reported, in order.
func assertSeqs(t *testing.T, rec *validationtest.Recorder, want ...int64) {
	t.Helper()
	calls := rec.Calls()
	if len(calls) != len(want) {
		t.Fatalf("got %d violations, want %d", len(calls), len(want))
	}
	for i, c := range calls {
		if c.AimSequenceNumber == nil {
			t.Fatalf("violation %d: aim sequence number is nil, want %d", i, want[i])
		}
		if *c.AimSequenceNumber != want[i] {
			t.Errorf("violation %d: aim sequence number = %d, want %d", i, *c.AimSequenceNumber, want[i])
		}
	}
}

// sampleMessage is a small submission that trips one violation in most rules.
func sampleMessage() *types.Message {
	apprenticeship := delivery(1, types.FundModelApprenticeships, date(2024, time.September, 1))
	apprenticeship.AimType = types.AimTypeProgramme
	apprenticeship.ProgType = intPtr(25)
	apprenticeship.StdCode = intPtr(100)
	apprenticeship.LearnActEndDate = datePtr(2025, time.June, 30)
	apprenticeship.LearningDeliveryFAMs = []*types.LearningDeliveryFAM{
		act(datePtr(2024, time.October, 1), datePtr(2025, time.March, 31)),
		act(datePtr(2025, time.March, 1), nil),
		{LearnDelFAMType: "LDM", LearnDelFAMCode: strPtr("034")},
		{LearnDelFAMType: "ldm", LearnDelFAMCode: strPtr("034")},
	}
	apprenticeship.AppFinRecords = []*types.AppFinRecord{
		nil,
		{AFinType: strPtr("TNP"), AFinCode: 1, AFinDate: datePtr(2024, time.September, 1), AFinAmount: 9000},
		{AFinType: strPtr("tnp"), AFinCode: 1, AFinDate: datePtr(2024, time.September, 1), AFinAmount: 9000},
	}

	component := delivery(1, types.FundModelApprenticeships, date(2024, time.September, 1))
	component.AimType = types.AimTypeComponent
	component.ProgType = intPtr(2)
	component.FworkCode = intPtr(420)
	component.PwayCode = intPtr(1)
	component.LearningDeliveryWorkPlacements = []*types.LearningDeliveryWorkPlacement{
		{WorkPlaceStartDate: date(2024, time.August, 1)},
	}

	old := delivery(3, types.FundModelAdultSkills, date(2010, time.January, 4))
	old.LearnAimRef = "UNKNOWN1"

	first := &types.Learner{
		LearnRefNumber:     "abc1",
		ULN:                uln(1000000001),
		LearningDeliveries: []*types.LearningDelivery{apprenticeship, component, old},
		LearnerEmploymentStatuses: []*types.LearnerEmploymentStatus{
			{EmpStat: 10, DateEmpStatApp: datePtr(2024, time.August, 1)},
		},
		LearnerFAMs: []*types.LearnerFAM{
			{LearnFAMType: "EHC", LearnFAMCode: intPtr(1)},
			{LearnFAMType: "ehc", LearnFAMCode: intPtr(1)},
		},
		LLDDAndHealthProblems: []*types.LLDDAndHealthProblem{
			{LLDDCat: 4, PrimaryLLDD: intPtr(1)},
			{LLDDCat: 5, PrimaryLLDD: intPtr(1)},
		},
		ContactPreferences: []*types.ContactPreference{
			{ContPrefType: "PMC", ContPrefCode: intPtr(1)},
			{ContPrefType: "PMC", ContPrefCode: intPtr(1)},
		},
		ProviderSpecLearnerMonitorings: []*types.ProviderSpecLearnerMonitoring{
			{ProvSpecLearnMonOccur: "A", ProvSpecLearnMon: "x"},
			{ProvSpecLearnMonOccur: "a", ProvSpecLearnMon: "y"},
		},
	}
	second := &types.Learner{LearnRefNumber: "AbC1", ULN: uln(1000000001)}
	third := &types.Learner{LearnRefNumber: "xyz9", ULN: uln(types.TemporaryULN)}

	return &types.Message{
		LearningProvider: types.LearningProvider{UKPRN: 10000001},
		Learners:         []*types.Learner{first, second, third},
		LearnerDestinationAndProgressions: []*types.LearnerDestinationAndProgression{
			{
				LearnRefNumber: "XYZ9",
				ULN:            uln(1000000002),
				DPOutcomes: []*types.DPOutcome{
					{OutType: "EMP", OutCode: 1},
					{OutType: "emp", OutCode: 1},
				},
			},
		},
	}
}
