package txcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/settld-dev/settld/internal/model"
)

// Header is the expected CSV header for a transaction file.
const Header = "type,client,tx,amount"

const (
	colType   = 0
	colClient = 1
	colTx     = 2
	colAmount = 3

	minFields = 3 // dispute rows may omit the amount column entirely
	maxFields = 4

	// balances are fixed-point with four fractional digits
	maxScale = 4
)

// RowError describes a row that could not be converted into a transaction.
// Callers treat it as a malformed record and continue with the next row.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Reader streams transaction records from a CSV input, one row at a time.
type Reader struct {
	cr      *csv.Reader
	line    int
	started bool
}

// NewReader creates a Reader. Field counts vary by row and surrounding
// whitespace is ignored, matching what real exports look like.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Reader{cr: cr}
}

// Next returns the next transaction in the stream. A row that cannot become
// a transaction returns a *RowError; io.EOF signals a clean end of input.
func (r *Reader) Next() (model.Transaction, error) {
	for {
		rec, err := r.cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				r.line = pe.Line
				return nil, &RowError{Line: pe.Line, Err: err}
			}
			return nil, fmt.Errorf("reading transaction CSV: %w", err)
		}
		r.line++

		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}

		// Skip the header row wherever it leads the file.
		if !r.started {
			r.started = true
			if strings.EqualFold(rec[colType], "type") {
				continue
			}
		}

		tx, err := parseRow(rec)
		if err != nil {
			return nil, &RowError{Line: r.line, Err: err}
		}
		return tx, nil
	}
}

func parseRow(rec []string) (model.Transaction, error) {
	if len(rec) < minFields || len(rec) > maxFields {
		return nil, fmt.Errorf("expected %d to %d fields, got %d", minFields, maxFields, len(rec))
	}

	client, err := strconv.ParseUint(rec[colClient], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("parsing client %q: %w", rec[colClient], err)
	}

	tx, err := strconv.ParseUint(rec[colTx], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("parsing tx %q: %w", rec[colTx], err)
	}

	ref := model.Ref{Client: model.ClientID(client), Tx: model.TxID(tx)}

	rawAmount := ""
	if len(rec) > colAmount {
		rawAmount = rec[colAmount]
	}

	kind := strings.ToLower(rec[colType])
	switch kind {
	case "deposit", "withdrawal":
		amount, err := parseAmount(rawAmount)
		if err != nil {
			return nil, err
		}
		if kind == "deposit" {
			return model.Deposit{Ref: ref, Amount: amount}, nil
		}
		return model.Withdrawal{Ref: ref, Amount: amount}, nil
	case "dispute", "resolve", "chargeback":
		if rawAmount != "" {
			return nil, fmt.Errorf("%s must not carry an amount, got %q", kind, rawAmount)
		}
		switch kind {
		case "dispute":
			return model.Dispute{Ref: ref}, nil
		case "resolve":
			return model.Resolve{Ref: ref}, nil
		default:
			return model.Chargeback{Ref: ref}, nil
		}
	default:
		return nil, fmt.Errorf("unknown transaction type %q", rec[colType])
	}
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Decimal{}, errors.New("missing amount")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative amount %s", amount)
	}
	scaled := amount.Mul(decimal.New(1, maxScale))
	if !scaled.Equal(scaled.Floor()) {
		return decimal.Decimal{}, fmt.Errorf("amount %s has more than %d decimal places", amount, maxScale)
	}
	return amount, nil
}
