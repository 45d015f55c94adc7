package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_Paired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file in migrations: %s", name)
		}
	}
	assert.Equal(t, ups, downs)
}

func TestMigrationFiles_SettlementGuard(t *testing.T) {
	data, err := fs.ReadFile(migrationFiles, "migrations/000001_init.up.sql")
	require.NoError(t, err)
	schema := string(data)

	assert.Contains(t, schema, "rental_id       INTEGER PRIMARY KEY")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS ledger_transactions")
	assert.NotContains(t, schema, "balance_cents", "balance must be derived from the ledger")
}
