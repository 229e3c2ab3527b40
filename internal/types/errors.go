package types

import "errors"

// Sentinel errors for submission handling outside the rule engine.
// Rules never return errors; these belong to decoding and the API boundary.
var (
	// ErrEmptySubmission indicates a submission body with no content.
	ErrEmptySubmission = errors.New("submission is empty")

	// ErrSubmissionTooLarge indicates the body exceeds MaxSubmissionSize.
	ErrSubmissionTooLarge = errors.New("submission exceeds maximum size")

	// ErrTooManyLearners indicates a message exceeds MaxLearnersPerMessage.
	ErrTooManyLearners = errors.New("submission has too many learners")

	// ErrMalformedSubmission indicates the body could not be decoded.
	ErrMalformedSubmission = errors.New("submission is malformed")
)
