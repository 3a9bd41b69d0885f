package engine

import (
	"github.com/shopspring/decimal"

	"github.com/settld-dev/settld/internal/model"
)

// DisputeState is where a deposit sits in the dispute lifecycle.
type DisputeState int

const (
	// DisputeNone is an applied deposit that has never been disputed.
	DisputeNone DisputeState = iota
	// Disputed funds are held pending resolve or chargeback.
	Disputed
	// Resolved funds were released back to available. A resolved deposit may
	// be disputed again.
	Resolved
	// ChargedBack is terminal; the deposit's funds were permanently removed.
	ChargedBack
)

func (s DisputeState) String() string {
	switch s {
	case DisputeNone:
		return "none"
	case Disputed:
		return "disputed"
	case Resolved:
		return "resolved"
	case ChargedBack:
		return "charged back"
	default:
		return "unknown"
	}
}

// DepositRecord retains what the dispute lifecycle needs to know about an
// applied deposit.
type DepositRecord struct {
	Client model.ClientID
	Amount decimal.Decimal
	State  DisputeState
}

// Tracker indexes every applied deposit by tx id. Records are retained for
// the process lifetime: disputes may arrive arbitrarily late in the stream,
// so unbounded growth is the accepted trade-off for a finite batch input.
type Tracker struct {
	deposits map[model.TxID]*DepositRecord
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{deposits: make(map[model.TxID]*DepositRecord)}
}

// Record registers an applied deposit for later dispute reference.
func (t *Tracker) Record(tx model.TxID, client model.ClientID, amount decimal.Decimal) {
	t.deposits[tx] = &DepositRecord{Client: client, Amount: amount, State: DisputeNone}
}

// Lookup returns the deposit record for a tx id.
func (t *Tracker) Lookup(tx model.TxID) (*DepositRecord, bool) {
	rec, ok := t.deposits[tx]
	return rec, ok
}

// SetState moves a tracked deposit to a new dispute state. Setting state on
// an untracked tx id is an engine bug.
func (t *Tracker) SetState(tx model.TxID, state DisputeState) {
	rec, ok := t.deposits[tx]
	if !ok {
		panic(&Defect{msg: "set dispute state on untracked deposit"})
	}
	rec.State = state
}
