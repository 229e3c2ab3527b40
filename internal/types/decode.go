package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DecodeMessage reads the JSON rendering of a submission.
// Dates are RFC 3339 timestamps; element names follow the ILR schema.
// The body is bounded by MaxSubmissionSize and the learner count by
// MaxLearnersPerMessage. Unknown fields are ignored.
func DecodeMessage(r io.Reader) (*Message, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxSubmissionSize+1))
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}
	if len(body) > MaxSubmissionSize {
		return nil, ErrSubmissionTooLarge
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptySubmission
	}

	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSubmission, err)
	}
	if len(msg.Learners) > MaxLearnersPerMessage {
		return nil, ErrTooManyLearners
	}
	return &msg, nil
}

// UKPRN returns the provider number of the submission.
// LearningProvider wins over Header.Source when both are present.
func (m *Message) UKPRN() int {
	if m == nil {
		return 0
	}
	if m.LearningProvider.UKPRN != 0 {
		return m.LearningProvider.UKPRN
	}
	return m.Header.Source.UKPRN
}
