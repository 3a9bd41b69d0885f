package txcsv

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settld-dev/settld/internal/model"
)

func readAll(t *testing.T, input string) ([]model.Transaction, []*RowError) {
	t.Helper()
	r := NewReader(strings.NewReader(input))

	var txs []model.Transaction
	var rowErrs []*RowError
	for {
		tx, err := r.Next()
		if errors.Is(err, io.EOF) {
			return txs, rowErrs
		}
		var re *RowError
		if errors.As(err, &re) {
			rowErrs = append(rowErrs, re)
			continue
		}
		require.NoError(t, err)
		txs = append(txs, tx)
	}
}

func TestNext_AllKinds(t *testing.T) {
	input := `type,client,tx,amount
deposit,1,1,5.0
withdrawal,1,2,3.0
dispute,1,1,
resolve,1,1,
chargeback,1,1,
`
	txs, rowErrs := readAll(t, input)
	require.Empty(t, rowErrs)
	require.Len(t, txs, 5)

	d, ok := txs[0].(model.Deposit)
	require.True(t, ok)
	assert.Equal(t, 1, int(d.Client))
	assert.Equal(t, 1, int(d.Tx))
	assert.Equal(t, "5", d.Amount.String())

	w, ok := txs[1].(model.Withdrawal)
	require.True(t, ok)
	assert.Equal(t, "3", w.Amount.String())

	_, ok = txs[2].(model.Dispute)
	assert.True(t, ok)
	_, ok = txs[3].(model.Resolve)
	assert.True(t, ok)
	_, ok = txs[4].(model.Chargeback)
	assert.True(t, ok)
}

func TestNext_TrimsWhitespace(t *testing.T) {
	input := "type, client, tx, amount\ndeposit, 1, 1, 5.0\n"
	txs, rowErrs := readAll(t, input)
	require.Empty(t, rowErrs)
	require.Len(t, txs, 1)

	d := txs[0].(model.Deposit)
	assert.Equal(t, "5", d.Amount.String())
}

func TestNext_ThreeFieldDisputeRow(t *testing.T) {
	// dispute rows may omit the amount column entirely
	input := "type,client,tx,amount\ndeposit,1,1,5.0\ndispute,1,1\n"
	txs, rowErrs := readAll(t, input)
	require.Empty(t, rowErrs)
	require.Len(t, txs, 2)

	_, ok := txs[1].(model.Dispute)
	assert.True(t, ok)
}

func TestNext_NoHeader(t *testing.T) {
	txs, rowErrs := readAll(t, "deposit,1,1,5.0\n")
	require.Empty(t, rowErrs)
	require.Len(t, txs, 1)
}

func TestNext_UppercaseType(t *testing.T) {
	txs, rowErrs := readAll(t, "Deposit,1,1,5.0\n")
	require.Empty(t, rowErrs)
	require.Len(t, txs, 1)
}

func TestNext_MalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"missing amount on deposit", "deposit,1,1,"},
		{"missing amount on withdrawal", "withdrawal,1,1"},
		{"amount on dispute", "dispute,1,1,5.0"},
		{"amount on resolve", "resolve,1,1,5.0"},
		{"amount on chargeback", "chargeback,1,1,5.0"},
		{"negative amount", "deposit,1,1,-5.0"},
		{"too many decimal places", "deposit,1,1,5.00001"},
		{"unknown type", "transfer,1,1,5.0"},
		{"bad client", "deposit,x,1,5.0"},
		{"client out of range", "deposit,70000,1,5.0"},
		{"bad tx", "deposit,1,x,5.0"},
		{"bad amount", "deposit,1,1,abc"},
		{"too few fields", "deposit,1"},
		{"too many fields", "deposit,1,1,5.0,extra"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, rowErrs := readAll(t, "type,client,tx,amount\n"+tt.row+"\n")
			assert.Empty(t, txs)
			require.Len(t, rowErrs, 1)
			assert.Equal(t, 2, rowErrs[0].Line)
		})
	}
}

func TestNext_ContinuesPastMalformedRow(t *testing.T) {
	input := `type,client,tx,amount
deposit,1,1,5.0
deposit,1,2,oops
deposit,1,3,2.0
`
	txs, rowErrs := readAll(t, input)
	assert.Len(t, txs, 2)
	require.Len(t, rowErrs, 1)
	assert.Contains(t, rowErrs[0].Error(), "oops")
}

func TestNext_FourDecimalPlacesAccepted(t *testing.T) {
	txs, rowErrs := readAll(t, "deposit,1,1,0.0001\n")
	require.Empty(t, rowErrs)
	require.Len(t, txs, 1)

	d := txs[0].(model.Deposit)
	assert.Equal(t, "0.0001", d.Amount.String())
}

func TestNext_EmptyInput(t *testing.T) {
	txs, rowErrs := readAll(t, "")
	assert.Empty(t, txs)
	assert.Empty(t, rowErrs)

	txs, rowErrs = readAll(t, "type,client,tx,amount\n")
	assert.Empty(t, txs)
	assert.Empty(t, rowErrs)
}
