package api

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/ilrkeeper/internal/refdata"
	"github.com/solatis/ilrkeeper/internal/rules"
)

type ruleInfo struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
}

type listRulesResponse struct {
	Rules       []ruleInfo `json:"rules,omitempty"`
	ETag        string     `json:"etag"`
	NotModified bool       `json:"not_modified,omitempty"`
}

// ListRules returns the rules every submission is checked against.
// A request carrying if_none_match equal to the current ETag gets only the
// ETag back.
func (s *ValidationAPIService) ListRules(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	// Rule selection depends only on which reference data sources are wired.
	var provider refdata.Provider
	if s.refdata != nil {
		sources := refdata.AllSources
		if sourced, ok := s.refdata.(refdata.Sourced); ok {
			sources = sourced.Sources()
		}
		provider = refdata.EmptyOf(sources)
	}

	names, err := s.validator(provider).RuleNames()
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("build rule catalog: %v", err))
	}

	infos := make([]ruleInfo, len(names))
	for i, name := range names {
		infos[i] = ruleInfo{Name: name, Severity: string(rules.SeverityOf(name))}
	}
	etag := computeETag(infos)

	if req != nil {
		if v, ok := req.GetFields()["if_none_match"]; ok && v.GetStringValue() == etag {
			return toStruct(listRulesResponse{ETag: etag, NotModified: true})
		}
	}
	return toStruct(listRulesResponse{Rules: infos, ETag: etag})
}

// computeETag hashes the sorted rule set so the same catalog always yields
// the same tag regardless of construction order.
func computeETag(infos []ruleInfo) string {
	keys := make([]string, len(infos))
	for i, r := range infos {
		keys[i] = r.Name + ":" + r.Severity
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
