package report

import (
	"database/sql"
	"fmt"

	// sqlite driver for the snapshot file.
	_ "github.com/mattn/go-sqlite3"

	"github.com/settld-dev/settld/internal/model"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	client    INTEGER PRIMARY KEY,
	available TEXT    NOT NULL,
	held      TEXT    NOT NULL,
	total     TEXT    NOT NULL,
	locked    INTEGER NOT NULL
)`

// WriteSnapshot writes the account summary into a sqlite database file.
// Balances are stored as four-decimal strings so nothing is lost to float
// conversion. Any rows from a previous snapshot are replaced.
func WriteSnapshot(path string, accounts []*model.Account) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening snapshot %s: %w", path, err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(snapshotSchema); err != nil {
		return fmt.Errorf("creating accounts table: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clearing previous snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO accounts (client, available, held, total, locked) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, acct := range accounts {
		locked := 0
		if acct.Locked {
			locked = 1
		}
		_, err := stmt.Exec(
			uint64(acct.Client),
			acct.Available.StringFixed(scale),
			acct.Held.StringFixed(scale),
			acct.Total().StringFixed(scale),
			locked,
		)
		if err != nil {
			return fmt.Errorf("inserting client %d: %w", acct.Client, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}
