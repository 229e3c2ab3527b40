package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/solatis/ilrkeeper/internal/core/config"
	"github.com/solatis/ilrkeeper/internal/core/db"
	"github.com/solatis/ilrkeeper/internal/refdata"
)

const referenceDataMigration = "001_reference_data.sql"

// referenceData holds the open reference data sources for one command.
type referenceData struct {
	database *sqlx.DB
	queries  *db.Queries
	loader   *refdata.Loader
	closers  []func() error
}

func (r *referenceData) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	return errors.Join(errs...)
}

// openDatabase opens and checks the reference database.
func openDatabase(ctx context.Context, url string) (*sqlx.DB, *db.Queries, error) {
	if url == "" {
		return nil, nil, errors.New("--db-url required (or reference_data.db_url / ILR_REFERENCE_DATA_DB_URL)")
	}
	database, err := db.Open(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	queries, err := db.LoadQueries(database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to load queries: %w", err)
	}
	return database, queries, nil
}

// openReferenceData wires the configured SQL and Redis sources into a
// loader. It returns nil when neither is configured, which disables the
// reference data rules.
func openReferenceData(ctx context.Context, cfg config.ReferenceDataConfig) (*referenceData, error) {
	if cfg.DatabaseURL == "" && cfg.RedisAddr == "" {
		return nil, nil
	}

	r := &referenceData{}
	var opts []refdata.LoaderOption

	if cfg.DatabaseURL != "" {
		database, queries, err := openDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		r.database, r.queries = database, queries
		r.closers = append(r.closers, database.Close)

		if err := db.RequireMigration(ctx, database, referenceDataMigration); err != nil {
			r.Close()
			return nil, err
		}
		opts = append(opts, refdata.WithQueries(queries))
	}

	if cfg.RedisAddr != "" {
		client, err := refdata.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.closers = append(r.closers, client.Close)
		opts = append(opts, refdata.WithRedisULNs(client, cfg.ULNSetKey))
	}

	r.loader = refdata.NewLoader(opts...)
	return r, nil
}
