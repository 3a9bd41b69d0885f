package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ClientID identifies a client account. The input domain caps it at 16 bits.
type ClientID uint16

// TxID identifies a deposit or withdrawal. Dispute, resolve and chargeback
// records carry no id of their own; they reference a prior deposit's TxID.
type TxID uint32

// Ref ties a transaction to its client and referenced tx id.
type Ref struct {
	Client ClientID
	Tx     TxID
}

// TxRef returns the transaction's reference. It makes any struct embedding
// Ref a Transaction.
func (r Ref) TxRef() Ref { return r }

// Transaction is one record in the input stream. Exactly five concrete
// variants exist: Deposit, Withdrawal, Dispute, Resolve and Chargeback.
// The flat external shape (a kind column plus an optional amount column) is
// resolved into a variant once, at the parsing boundary, so the engine only
// ever sees a type switch over proper payloads.
type Transaction interface {
	TxRef() Ref
	fmt.Stringer
}

// Deposit credits funds to a client's account, creating it if needed.
type Deposit struct {
	Ref
	Amount decimal.Decimal
}

func (d Deposit) String() string {
	return fmt.Sprintf("deposit client=%d tx=%d amount=%s", d.Client, d.Tx, d.Amount)
}

// Withdrawal debits available funds from an existing account.
type Withdrawal struct {
	Ref
	Amount decimal.Decimal
}

func (w Withdrawal) String() string {
	return fmt.Sprintf("withdrawal client=%d tx=%d amount=%s", w.Client, w.Tx, w.Amount)
}

// Dispute freezes a prior deposit's funds pending resolution.
type Dispute struct {
	Ref
}

func (d Dispute) String() string {
	return fmt.Sprintf("dispute client=%d tx=%d", d.Client, d.Tx)
}

// Resolve releases a disputed deposit's funds back to available.
type Resolve struct {
	Ref
}

func (r Resolve) String() string {
	return fmt.Sprintf("resolve client=%d tx=%d", r.Client, r.Tx)
}

// Chargeback permanently withdraws a disputed deposit's funds and locks the
// account.
type Chargeback struct {
	Ref
}

func (c Chargeback) String() string {
	return fmt.Sprintf("chargeback client=%d tx=%d", c.Client, c.Tx)
}
