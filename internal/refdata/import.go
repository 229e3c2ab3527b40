package refdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
)

// Named statements used by Import (see internal/core/db/queries/reference.sql).
const (
	QueryInsertLearningAim        = "insert-learning-aim"
	QueryInsertULN                = "insert-uln"
	QueryInsertContractAllocation = "insert-contract-allocation"
)

// Execer runs named statements. Implemented by *db.Queries.
type Execer interface {
	ExecContext(ctx context.Context, name string, args ...interface{}) (sql.Result, error)
}

// LearningAim is one LARS entry.
type LearningAim struct {
	LearnAimRef string `json:"learn_aim_ref"`
	Title       string `json:"title"`
}

// Bundle is the JSON import format for reference data.
type Bundle struct {
	LearningAims        []LearningAim        `json:"learning_aims"`
	ULNs                []int64              `json:"ulns"`
	ContractAllocations []ContractAllocation `json:"contract_allocations"`
}

// DecodeBundle reads a Bundle from r.
func DecodeBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode reference data bundle: %w", err)
	}
	return &b, nil
}

// Import inserts every entry of b. It stops at the first failure and
// reports how far it got; entries already inserted stay.
func Import(ctx context.Context, e Execer, b *Bundle) error {
	for i, aim := range b.LearningAims {
		if aim.LearnAimRef == "" {
			return fmt.Errorf("learning aim %d: empty learn_aim_ref", i)
		}
		if _, err := e.ExecContext(ctx, QueryInsertLearningAim, aim.LearnAimRef, aim.Title); err != nil {
			return fmt.Errorf("insert learning aim %s: %w", aim.LearnAimRef, err)
		}
	}
	for _, uln := range b.ULNs {
		if _, err := e.ExecContext(ctx, QueryInsertULN, uln); err != nil {
			return fmt.Errorf("insert ULN %d: %w", uln, err)
		}
	}
	for _, c := range b.ContractAllocations {
		if _, err := e.ExecContext(ctx, QueryInsertContractAllocation,
			c.ContractAllocationNumber, c.UKPRN, c.FundingStreamPeriodCode, c.StartDate, c.EndDate); err != nil {
			return fmt.Errorf("insert contract allocation %s: %w", c.ContractAllocationNumber, err)
		}
	}
	return nil
}
