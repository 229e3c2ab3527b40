package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/ilrkeeper/internal/core/auth"
	"github.com/solatis/ilrkeeper/internal/refdata"
	"github.com/solatis/ilrkeeper/internal/rules"
	"github.com/solatis/ilrkeeper/internal/types"
)

// reportResponse is the wire form of a rules.Report.
type reportResponse struct {
	*rules.Report
	ErrorCount   int `json:"errors"`
	WarningCount int `json:"warnings"`
}

// ValidateSubmission validates the submission carried in req. The request
// Struct is the JSON rendering of the message itself.
func (s *ValidationAPIService) ValidateSubmission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ukprn, ok := auth.UKPRNFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Internal, "missing ukprn in context")
	}

	body, err := protojson.Marshal(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("encode submission: %v", err))
	}
	msg, err := types.DecodeMessage(bytes.NewReader(body))
	if err != nil {
		return nil, decodeStatus(err)
	}

	switch msg.UKPRN() {
	case 0:
		return nil, status.Error(codes.InvalidArgument, errMissingUKPRN.Error())
	case ukprn:
	default:
		return nil, status.Error(codes.PermissionDenied, errUKPRNMismatch.Error())
	}

	if len(msg.Learners) > s.cfg.MaxLearners {
		return nil, status.Error(codes.InvalidArgument,
			fmt.Sprintf("submission has %d learners, maximum is %d", len(msg.Learners), s.cfg.MaxLearners))
	}

	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	var provider refdata.Provider
	if s.refdata != nil {
		snapshot, err := s.refdata.Load(ctx, ukprn)
		if err != nil {
			s.logger.Error("reference data unavailable", "ukprn", ukprn, "error", err)
			return nil, status.Error(codes.Unavailable, fmt.Sprintf("reference data unavailable: %v", err))
		}
		provider = snapshot
	}

	report, err := s.validator(provider).Validate(ctx, msg)
	if err != nil {
		return nil, runStatus(err)
	}

	return toStruct(reportResponse{
		Report:       report,
		ErrorCount:   report.Errors(),
		WarningCount: report.Warnings(),
	})
}

// toStruct converts any JSON-encodable value into a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}
