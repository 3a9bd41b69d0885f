package report

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settld-dev/settld/internal/model"
)

func TestWriteSnapshot_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.db")
	accounts := []*model.Account{
		{Client: 1, Available: dec("1.5"), Held: dec("0")},
		{Client: 2, Available: dec("0"), Held: dec("0"), Locked: true},
	}

	require.NoError(t, WriteSnapshot(path, accounts))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT client, available, held, total, locked FROM accounts ORDER BY client`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		client    int
		available string
		held      string
		total     string
		locked    int
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.client, &r.available, &r.held, &r.total, &r.locked))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []row{
		{1, "1.5000", "0.0000", "1.5000", 0},
		{2, "0.0000", "0.0000", "0.0000", 1},
	}, got)
}

func TestWriteSnapshot_ReplacesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.db")

	require.NoError(t, WriteSnapshot(path, []*model.Account{
		{Client: 1, Available: dec("9"), Held: dec("0")},
	}))
	require.NoError(t, WriteSnapshot(path, []*model.Account{
		{Client: 2, Available: dec("3"), Held: dec("0")},
	}))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&count))
	assert.Equal(t, 1, count)

	var client int
	require.NoError(t, db.QueryRow(`SELECT client FROM accounts`).Scan(&client))
	assert.Equal(t, 2, client)
}
