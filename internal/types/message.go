// internal/types/message.go
package types

import "time"

/*
 * Record graph for one ILR submission.
 *
 * Message -> Learners -> LearningDeliveries -> {FAMs, AppFinRecords,
 * WorkPlacements}, plus learner-level collections and the message-level
 * destination and progression records.
 *
 * JSON tags follow the ILR element names so a submission exported as JSON
 * decodes without a mapping layer (see decode.go).
 *
 * Nullability: pointer fields are optional. Slices of pointers may contain
 * nil placeholders (AppFinRecords in particular); traversal skips them.
 */

// Message is the root of a submission.
type Message struct {
	Header                            Header                              `json:"Header"`
	LearningProvider                  LearningProvider                    `json:"LearningProvider"`
	Learners                          []*Learner                          `json:"Learner"`
	LearnerDestinationAndProgressions []*LearnerDestinationAndProgression `json:"LearnerDestinationandProgression"`
}

// Header carries submission metadata; rules do not inspect it.
type Header struct {
	CollectionDetails CollectionDetails `json:"CollectionDetails"`
	Source            Source            `json:"Source"`
}

// CollectionDetails identifies the collection and year of a submission.
type CollectionDetails struct {
	Collection          string     `json:"Collection"`
	Year                string     `json:"Year"`
	FilePreparationDate *time.Time `json:"FilePreparationDate,omitempty"`
}

// Source identifies the software that produced a submission.
type Source struct {
	ProtectiveMarking string     `json:"ProtectiveMarking"`
	UKPRN             int        `json:"UKPRN"`
	SoftwareSupplier  string     `json:"SoftwareSupplier,omitempty"`
	DateTime          *time.Time `json:"DateTime,omitempty"`
}

// LearningProvider identifies the provider the submission belongs to.
type LearningProvider struct {
	UKPRN int `json:"UKPRN"`
}

// Learner is a person's full record for one submission.
type Learner struct {
	LearnRefNumber                 string                           `json:"LearnRefNumber"` // case-insensitive identity
	PrevLearnRefNumber             *string                          `json:"PrevLearnRefNumber,omitempty"`
	ULN                            *int64                           `json:"ULN,omitempty"`
	FamilyName                     *string                          `json:"FamilyName,omitempty"`
	GivenNames                     *string                          `json:"GivenNames,omitempty"`
	DateOfBirth                    *time.Time                       `json:"DateOfBirth,omitempty"`
	PostcodePrior                  *string                          `json:"PostcodePrior,omitempty"`
	LearningDeliveries             []*LearningDelivery              `json:"LearningDelivery"`
	LearnerFAMs                    []*LearnerFAM                    `json:"LearnerFAM"`
	LearnerEmploymentStatuses      []*LearnerEmploymentStatus       `json:"LearnerEmploymentStatus"`
	ProviderSpecLearnerMonitorings []*ProviderSpecLearnerMonitoring `json:"ProviderSpecLearnerMonitoring"`
	ContactPreferences             []*ContactPreference             `json:"ContactPreference"`
	LLDDAndHealthProblems          []*LLDDAndHealthProblem          `json:"LLDDandHealthProblem"`
}

// LearningDelivery is one aim within a learner, keyed by AimSeqNumber.
type LearningDelivery struct {
	AimSeqNumber                   int                              `json:"AimSeqNumber"`
	AimType                        int                              `json:"AimType"`
	LearnAimRef                    string                           `json:"LearnAimRef"`
	FundModel                      int                              `json:"FundModel"`
	ProgType                       *int                             `json:"ProgType,omitempty"`
	FworkCode                      *int                             `json:"FworkCode,omitempty"`
	PwayCode                       *int                             `json:"PwayCode,omitempty"`
	StdCode                        *int                             `json:"StdCode,omitempty"`
	CompStatus                     *int                             `json:"CompStatus,omitempty"`
	ConRefNumber                   *string                          `json:"ConRefNumber,omitempty"`
	LearnStartDate                 time.Time                        `json:"LearnStartDate"`
	LearnPlanEndDate               *time.Time                       `json:"LearnPlanEndDate,omitempty"`
	LearnActEndDate                *time.Time                       `json:"LearnActEndDate,omitempty"`
	LearningDeliveryFAMs           []*LearningDeliveryFAM           `json:"LearningDeliveryFAM"`
	AppFinRecords                  []*AppFinRecord                  `json:"AppFinRecord"`
	LearningDeliveryWorkPlacements []*LearningDeliveryWorkPlacement `json:"LearningDeliveryWorkPlacement"`
}

// AimSequenceNumber returns AimSeqNumber widened for error reporting.
func (d *LearningDelivery) AimSequenceNumber() *int64 {
	n := int64(d.AimSeqNumber)
	return &n
}

// LearningDeliveryFAM is a typed, dated attribute of a delivery.
// Several records of one type may coexist; the latest has the greatest DateFrom.
type LearningDeliveryFAM struct {
	LearnDelFAMType     string     `json:"LearnDelFAMType"`
	LearnDelFAMCode     *string    `json:"LearnDelFAMCode,omitempty"`
	LearnDelFAMDateFrom *time.Time `json:"LearnDelFAMDateFrom,omitempty"`
	LearnDelFAMDateTo   *time.Time `json:"LearnDelFAMDateTo,omitempty"`
}

// AppFinRecord is an apprenticeship financial entry.
type AppFinRecord struct {
	AFinType   *string    `json:"AFinType,omitempty"`
	AFinCode   int        `json:"AFinCode"`
	AFinDate   *time.Time `json:"AFinDate,omitempty"`
	AFinAmount int        `json:"AFinAmount"`
}

// LearningDeliveryWorkPlacement is a work placement attached to a delivery.
type LearningDeliveryWorkPlacement struct {
	WorkPlaceStartDate time.Time  `json:"WorkPlaceStartDate"`
	WorkPlaceEndDate   *time.Time `json:"WorkPlaceEndDate,omitempty"`
	WorkPlaceHours     *int       `json:"WorkPlaceHours,omitempty"`
	WorkPlaceMode      int        `json:"WorkPlaceMode"`
	WorkPlaceEmpID     *int       `json:"WorkPlaceEmpId,omitempty"`
}

// LearnerFAM is a typed attribute of a learner.
type LearnerFAM struct {
	LearnFAMType string `json:"LearnFAMType"`
	LearnFAMCode *int   `json:"LearnFAMCode,omitempty"`
}

// LearnerEmploymentStatus records a learner's employment status from a date.
type LearnerEmploymentStatus struct {
	EmpStat        int        `json:"EmpStat"`
	DateEmpStatApp *time.Time `json:"DateEmpStatApp,omitempty"`
	EmpID          *int       `json:"EmpId,omitempty"`
}

// ProviderSpecLearnerMonitoring is free-form provider monitoring data.
type ProviderSpecLearnerMonitoring struct {
	ProvSpecLearnMonOccur string `json:"ProvSpecLearnMonOccur"`
	ProvSpecLearnMon      string `json:"ProvSpecLearnMon"`
}

// ContactPreference records how a learner may be contacted.
type ContactPreference struct {
	ContPrefType string `json:"ContPrefType"`
	ContPrefCode *int   `json:"ContPrefCode,omitempty"`
}

// LLDDAndHealthProblem records a learning difficulty or health problem category.
type LLDDAndHealthProblem struct {
	LLDDCat     int  `json:"LLDDCat"`
	PrimaryLLDD *int `json:"PrimaryLLDD,omitempty"`
}

// LearnerDestinationAndProgression records outcomes for a learner after learning.
type LearnerDestinationAndProgression struct {
	LearnRefNumber string       `json:"LearnRefNumber"`
	ULN            *int64       `json:"ULN,omitempty"`
	DPOutcomes     []*DPOutcome `json:"DPOutcome"`
}

// DPOutcome is a single destination or progression outcome.
type DPOutcome struct {
	OutType      string     `json:"OutType"`
	OutCode      int        `json:"OutCode"`
	OutStartDate *time.Time `json:"OutStartDate,omitempty"`
	OutEndDate   *time.Time `json:"OutEndDate,omitempty"`
	OutCollDate  *time.Time `json:"OutCollDate,omitempty"`
}
