package refdata

import (
	"context"
	"fmt"
)

// Querier runs named queries. Implemented by *db.Queries.
type Querier interface {
	SelectContext(ctx context.Context, name string, dest interface{}, args ...interface{}) error
}

// Named queries read by LoadSQL (see internal/core/db/queries/reference.sql).
const (
	QueryListLearningAims        = "list-learning-aims"
	QueryListULNs                = "list-ulns"
	QueryListContractAllocations = "list-contract-allocations"
)

// LoadSQL reads all reference data for ukprn into a Snapshot.
func LoadSQL(ctx context.Context, q Querier, ukprn int) (*Snapshot, error) {
	var aims []string
	if err := q.SelectContext(ctx, QueryListLearningAims, &aims); err != nil {
		return nil, fmt.Errorf("load learning aims: %w", err)
	}

	var ulns []int64
	if err := q.SelectContext(ctx, QueryListULNs, &ulns); err != nil {
		return nil, fmt.Errorf("load ULNs: %w", err)
	}

	var contracts []ContractAllocation
	if err := q.SelectContext(ctx, QueryListContractAllocations, &contracts, ukprn); err != nil {
		return nil, fmt.Errorf("load contract allocations: %w", err)
	}

	return NewSnapshot(aims, ulns, contracts), nil
}
