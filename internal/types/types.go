// Package types provides the record graph shared across ilrkeeper components.
//
// The graph is a read-only, in-memory rendering of one ILR submission. It is
// built once per submission (see DecodeMessage), handed to the rule engine and
// discarded when every rule has run. Nothing in the engine mutates it.
//
// Optional fields are pointers: a nil pointer is an absent value and is never
// an error by itself. Nil slices are empty collections.
package types

// ULN values with special meaning.
const (
	// TemporaryULN is issued to learners whose unique learner number has not
	// been assigned yet. It is shared by many learners and is excluded from
	// every cross-learner uniqueness comparison.
	TemporaryULN int64 = 9999999999
)

// Resource limits enforced at the decoding boundary.
const (
	// MaxLearnersPerMessage bounds a single submission to keep one validation
	// pass within predictable memory.
	MaxLearnersPerMessage = 100000

	// MaxSubmissionSize limits the decoded payload to prevent OOM on the API.
	// 256MB covers the largest provider returns seen in a collection year.
	MaxSubmissionSize = 256 * 1024 * 1024
)

// Funding model codes referenced by the rule catalog.
const (
	FundModelAdultSkills     = 35
	FundModelApprenticeships = 36
	FundModelESF             = 70
	FundModelOtherAdult      = 81
	AimTypeProgramme         = 1
	AimTypeComponent         = 3
	LearnDelFAMTypeACT       = "ACT"
	LearnDelFAMTypeLSF       = "LSF"
	LearnDelFAMTypeALB       = "ALB"
)
