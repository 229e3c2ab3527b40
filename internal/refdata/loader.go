package refdata

import (
	"context"
	"fmt"
)

// Loader assembles a Snapshot for one provider from the configured sources.
// Each snapshot reports through Sources which kinds were loaded; with no
// sources it holds none.
type Loader struct {
	queries   Querier
	ulnSet    SetReader
	ulnSetKey string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithQueries reads learning aims, ULNs and contracts from SQL.
func WithQueries(q Querier) LoaderOption {
	return func(l *Loader) { l.queries = q }
}

// WithRedisULNs adds the members of a Redis ULN set to every snapshot.
func WithRedisULNs(client SetReader, key string) LoaderOption {
	return func(l *Loader) {
		l.ulnSet = client
		l.ulnSetKey = key
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Sources reports the kinds of reference data every loaded snapshot holds.
func (l *Loader) Sources() Source {
	var s Source
	if l.queries != nil {
		s |= AllSources
	}
	if l.ulnSet != nil {
		s |= SourceULNs
	}
	return s
}

// Load returns the reference data visible to ukprn.
func (l *Loader) Load(ctx context.Context, ukprn int) (*Snapshot, error) {
	snapshot := None()
	if l.queries != nil {
		s, err := LoadSQL(ctx, l.queries, ukprn)
		if err != nil {
			return nil, err
		}
		snapshot = s
	}

	if l.ulnSet != nil {
		ulns, err := LoadULNsFromRedis(ctx, l.ulnSet, l.ulnSetKey)
		if err != nil {
			return nil, fmt.Errorf("load ULNs from redis: %w", err)
		}
		snapshot = snapshot.WithULNs(ulns)
	}
	return snapshot, nil
}
