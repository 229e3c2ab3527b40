package api

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/solatis/ilrkeeper/internal/types"
)

// Decoding errors map to INVALID_ARGUMENT, reference data failures to
// UNAVAILABLE, deadlines to DEADLINE_EXCEEDED. Auth errors are mapped in the
// auth interceptor.

var (
	errMissingUKPRN  = errors.New("submission has no UKPRN")
	errUKPRNMismatch = errors.New("submission UKPRN does not match API key")
)

func decodeStatus(err error) error {
	switch {
	case errors.Is(err, types.ErrEmptySubmission),
		errors.Is(err, types.ErrMalformedSubmission),
		errors.Is(err, types.ErrTooManyLearners):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, types.ErrSubmissionTooLarge):
		return status.Error(codes.ResourceExhausted, err.Error())
	default:
		return status.Error(codes.InvalidArgument, err.Error())
	}
}

func runStatus(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
