package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settld-dev/settld/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWriteAccounts_SortedFixedDecimals(t *testing.T) {
	accounts := []*model.Account{
		{Client: 2, Available: dec("0"), Held: dec("5"), Locked: false},
		{Client: 1, Available: dec("1.5"), Held: dec("0"), Locked: false},
		{Client: 3, Available: dec("0"), Held: dec("0"), Locked: true},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, accounts))

	want := `client,available,held,total,locked
1,1.5000,0.0000,1.5000,false
2,0.0000,5.0000,5.0000,false
3,0.0000,0.0000,0.0000,true
`
	assert.Equal(t, want, buf.String())
}

func TestWriteAccounts_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, nil))
	assert.Equal(t, Header+"\n", buf.String())
}

func TestMarshalAccount(t *testing.T) {
	acct := &model.Account{Client: 7, Available: dec("1.23456"), Held: dec("2")}
	// StringFixed rounds to four places.
	assert.Equal(t, []string{"7", "1.2346", "2.0000", "3.2346", "false"}, MarshalAccount(acct))
}
