package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/settld-dev/settld/internal/model"
)

// Header is the CSV header for the account summary.
const Header = "client,available,held,total,locked"

const (
	numFields    = 5
	colClient    = 0
	colAvailable = 1
	colHeld      = 2
	colTotal     = 3
	colLocked    = 4

	scale = 4
)

// WriteAccounts renders the final account snapshot as CSV, sorted by client
// id, with all balances fixed to four decimal places.
func WriteAccounts(w io.Writer, accounts []*model.Account) error {
	sorted := make([]*model.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Client < sorted[j].Client
	})

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, acct := range sorted {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing client %d: %w", acct.Client, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a summary CSV row.
func MarshalAccount(acct *model.Account) []string {
	row := make([]string, numFields)
	row[colClient] = strconv.FormatUint(uint64(acct.Client), 10)
	row[colAvailable] = acct.Available.StringFixed(scale)
	row[colHeld] = acct.Held.StringFixed(scale)
	row[colTotal] = acct.Total().StringFixed(scale)
	row[colLocked] = strconv.FormatBool(acct.Locked)
	return row
}
