// Package refdata provides the read-only reference data some rules consult.
//
// Rules see only the small capability interfaces below. Data is loaded
// before a run (from SQL, Redis or fixtures) into an immutable Snapshot;
// nothing here is fetched lazily while rules execute.
package refdata

import (
	"errors"
	"time"

	"github.com/solatis/ilrkeeper/internal/predicates"
)

// ErrNilProvider indicates a rule needing reference data was built without it.
var ErrNilProvider = errors.New("reference data provider cannot be nil")

// ErrInvalidULN indicates a ULN entry in a reference source is not a number.
var ErrInvalidULN = errors.New("invalid ULN in reference data")

// LearningAims answers whether a learning aim reference is known (LARS).
type LearningAims interface {
	LearnAimRefExists(learnAimRef string) bool
}

// ULNRegistry answers whether a unique learner number has been issued.
type ULNRegistry interface {
	ULNExists(uln int64) bool
}

// ContractSource returns the provider's contract allocations.
type ContractSource interface {
	ContractAllocations() []ContractAllocation
}

// Provider bundles every capability the rule catalog consumes.
type Provider interface {
	LearningAims
	ULNRegistry
	ContractSource
}

// Source is a set of reference data kinds a provider actually holds.
type Source uint8

const (
	SourceLearningAims Source = 1 << iota
	SourceULNs
	SourceContracts

	AllSources = SourceLearningAims | SourceULNs | SourceContracts
)

// Has reports whether every kind in other is present in s.
func (s Source) Has(other Source) bool {
	return s&other == other
}

// Sourced is implemented by providers that know which kinds they were loaded
// from. A lookup against a kind that was never loaded always misses, so the
// catalog skips rules backed by it. Providers that do not implement Sourced
// are treated as holding AllSources.
type Sourced interface {
	Sources() Source
}

// SourcesOf returns the kinds p holds.
func SourcesOf(p Provider) Source {
	if s, ok := p.(Sourced); ok {
		return s.Sources()
	}
	return AllSources
}

// ContractAllocation is one funding contract held by a provider.
type ContractAllocation struct {
	ContractAllocationNumber string     `db:"contract_allocation_number" json:"contract_allocation_number"`
	UKPRN                    int        `db:"ukprn" json:"ukprn"`
	FundingStreamPeriodCode  string     `db:"funding_stream_period_code" json:"funding_stream_period_code"`
	StartDate                *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate                  *time.Time `db:"end_date" json:"end_date,omitempty"`
}

// Snapshot is an immutable in-memory Provider.
type Snapshot struct {
	sources      Source
	learningAims map[string]struct{}
	ulns         map[int64]struct{}
	contracts    []ContractAllocation
}

// NewSnapshot builds a Snapshot holding every kind of reference data.
// Learning aim references fold case.
func NewSnapshot(learnAimRefs []string, ulns []int64, contracts []ContractAllocation) *Snapshot {
	s := &Snapshot{
		sources:      AllSources,
		learningAims: make(map[string]struct{}, len(learnAimRefs)),
		ulns:         make(map[int64]struct{}, len(ulns)),
		contracts:    append([]ContractAllocation(nil), contracts...),
	}
	for _, ref := range learnAimRefs {
		s.learningAims[predicates.Fold(ref)] = struct{}{}
	}
	for _, uln := range ulns {
		s.ulns[uln] = struct{}{}
	}
	return s
}

// WithULNs returns a copy of s with extra ULNs added. The copy holds
// SourceULNs.
func (s *Snapshot) WithULNs(ulns []int64) *Snapshot {
	merged := &Snapshot{
		sources:      s.sources | SourceULNs,
		learningAims: s.learningAims,
		ulns:         make(map[int64]struct{}, len(s.ulns)+len(ulns)),
		contracts:    s.contracts,
	}
	for uln := range s.ulns {
		merged.ulns[uln] = struct{}{}
	}
	for _, uln := range ulns {
		merged.ulns[uln] = struct{}{}
	}
	return merged
}

// Sources implements Sourced.
func (s *Snapshot) Sources() Source {
	return s.sources
}

// LearnAimRefExists implements LearningAims.
func (s *Snapshot) LearnAimRefExists(learnAimRef string) bool {
	_, ok := s.learningAims[predicates.Fold(learnAimRef)]
	return ok
}

// ULNExists implements ULNRegistry.
func (s *Snapshot) ULNExists(uln int64) bool {
	_, ok := s.ulns[uln]
	return ok
}

// ContractAllocations implements ContractSource. The slice is a copy.
func (s *Snapshot) ContractAllocations() []ContractAllocation {
	return append([]ContractAllocation(nil), s.contracts...)
}

// Stats reports snapshot sizes for logging.
func (s *Snapshot) Stats() (learningAims, ulns, contracts int) {
	return len(s.learningAims), len(s.ulns), len(s.contracts)
}

// EmptyOf is a Provider with no data that claims the given sources. Every
// lookup misses.
func EmptyOf(sources Source) *Snapshot {
	s := NewSnapshot(nil, nil, nil)
	s.sources = sources
	return s
}

// Empty is EmptyOf(AllSources): every reference data rule runs and every
// lookup misses.
func Empty() *Snapshot {
	return EmptyOf(AllSources)
}

// None is a Provider loaded from no source. The catalog registers no
// reference data rule for it.
func None() *Snapshot {
	return EmptyOf(0)
}
