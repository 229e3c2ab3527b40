package db

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/ilrkeeper/internal/refdata"
)

func openMigrated(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	database, err := Open(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = MigrateUp(ctx, database)
	require.NoError(t, err)
	return database
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		url        string
		driver     string
		dataSource string
	}{
		{"sqlite://ref.db", DriverSQLite, "ref.db"},
		{"sqlite://data/ref.db", DriverSQLite, "data/ref.db"},
		{"sqlite:///var/lib/ilr/ref.db", DriverSQLite, "/var/lib/ilr/ref.db"},
		{"sqlite://:memory:", DriverSQLite, ":memory:"},
		{"postgres://ilr:pw@localhost:5432/ilr?sslmode=disable", DriverPostgres, "postgres://ilr:pw@localhost:5432/ilr?sslmode=disable"},
	}
	for _, tt := range tests {
		driver, ds, err := ParseURL(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.driver, driver, tt.url)
		assert.Equal(t, tt.dataSource, ds, tt.url)
	}

	_, _, err := ParseURL("mysql://localhost/ilr")
	assert.Error(t, err)
}

func TestMigrateUp_Idempotent(t *testing.T) {
	ctx := context.Background()
	database, err := Open(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	defer database.Close()

	ran, err := MigrateUp(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_reference_data.sql", "002_api_keys.sql"}, ran)

	ran, err = MigrateUp(ctx, database)
	require.NoError(t, err)
	assert.Empty(t, ran)

	statuses, err := MigrateStatus(ctx, database)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	for _, s := range statuses {
		assert.True(t, s.Applied, s.ID)
		assert.NotNil(t, s.AppliedAt, s.ID)
	}

	assert.NoError(t, RequireMigration(ctx, database, "002_api_keys.sql"))
	assert.ErrorIs(t, RequireMigration(ctx, database, "999_missing.sql"), ErrMigrationMissing)
}

func TestMigrateUp_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	database := openMigrated(t)

	_, err := database.ExecContext(ctx, "UPDATE migrations SET checksum = 'tampered' WHERE migration_id = '001_reference_data.sql'")
	require.NoError(t, err)

	_, err = MigrateUp(ctx, database)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestMigrateStatus_Pending(t *testing.T) {
	ctx := context.Background()
	database, err := Open(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	defer database.Close()

	statuses, err := MigrateStatus(ctx, database)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	for _, s := range statuses {
		assert.False(t, s.Applied, s.ID)
		assert.NotEmpty(t, s.Checksum, s.ID)
	}

	assert.ErrorIs(t, RequireMigration(ctx, database, "002_api_keys.sql"), ErrMigrationMissing)
}

func TestSplitStatements(t *testing.T) {
	script := `-- header comment
CREATE TABLE a (id INTEGER);

-- second
CREATE TABLE b (id INTEGER);
`
	stmts := splitStatements(script)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (id INTEGER)", stmts[0])
	assert.Equal(t, "CREATE TABLE b (id INTEGER)", stmts[1])
}

func TestQueries_ReferenceDataRoundTrip(t *testing.T) {
	ctx := context.Background()
	database := openMigrated(t)

	q, err := LoadQueries(database)
	require.NoError(t, err)

	_, err = q.ExecContext(ctx, "insert-learning-aim", "ZPROG001", "Programme aim")
	require.NoError(t, err)
	_, err = q.ExecContext(ctx, "insert-learning-aim", "60005105", "Diploma")
	require.NoError(t, err)
	_, err = q.ExecContext(ctx, "insert-uln", int64(1000000001))
	require.NoError(t, err)

	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	_, err = q.ExecContext(ctx, "insert-contract-allocation", "ESF-0001", 10000001, "ESF1420", start, end)
	require.NoError(t, err)
	_, err = q.ExecContext(ctx, "insert-contract-allocation", "ESF-0002", 10000002, "ESF1420", nil, nil)
	require.NoError(t, err)

	snap, err := refdata.LoadSQL(ctx, q, 10000001)
	require.NoError(t, err)

	assert.True(t, snap.LearnAimRefExists("zprog001"))
	assert.True(t, snap.LearnAimRefExists("60005105"))
	assert.False(t, snap.LearnAimRefExists("ZPROG002"))
	assert.True(t, snap.ULNExists(1000000001))
	assert.False(t, snap.ULNExists(1000000002))

	contracts := snap.ContractAllocations()
	require.Len(t, contracts, 1)
	assert.Equal(t, "ESF-0001", contracts[0].ContractAllocationNumber)
	require.NotNil(t, contracts[0].StartDate)
	assert.True(t, contracts[0].StartDate.Equal(start))
	require.NotNil(t, contracts[0].EndDate)
	assert.True(t, contracts[0].EndDate.Equal(end))
}

func TestQueries_UnknownName(t *testing.T) {
	q, err := LoadQueries(openMigrated(t))
	require.NoError(t, err)

	var out []string
	err = q.SelectContext(context.Background(), "no-such-query", &out)
	assert.EqualError(t, err, "query not found: no-such-query")
}
