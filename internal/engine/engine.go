package engine

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/settld-dev/settld/internal/model"
)

// MaxBalance is the largest representable balance: the range of an int64
// fixed-point value with four fractional digits.
var MaxBalance = decimal.New(math.MaxInt64, -4)

// Defect reports an internal consistency violation. It signals a bug in the
// engine itself rather than bad input, so it is raised as a panic instead of
// an Outcome.
type Defect struct {
	msg string
}

func (d *Defect) Error() string {
	return "ledger defect: " + d.msg
}

// Engine folds an ordered transaction stream into per-client account state.
// It applies records strictly one at a time; a rejected record leaves all
// state untouched. The zero value is not usable; call New.
type Engine struct {
	accounts *Registry
	deposits *Tracker

	// tx ids consumed by applied deposits and withdrawals. Dispute lifecycle
	// records reference ids rather than spending them.
	txSeen map[model.TxID]struct{}
}

// New creates an Engine with empty state.
func New() *Engine {
	return &Engine{
		accounts: NewRegistry(),
		deposits: NewTracker(),
		txSeen:   make(map[model.TxID]struct{}),
	}
}

// Process applies one transaction and reports the outcome. It never returns
// an error: every input-driven failure is an Outcome, and internal
// consistency violations panic with a *Defect.
func (e *Engine) Process(tx model.Transaction) Outcome {
	switch tx := tx.(type) {
	case model.Deposit:
		return e.deposit(tx)
	case model.Withdrawal:
		return e.withdraw(tx)
	case model.Dispute:
		return e.dispute(tx)
	case model.Resolve:
		return e.resolve(tx)
	case model.Chargeback:
		return e.chargeback(tx)
	default:
		panic(&Defect{msg: fmt.Sprintf("unhandled transaction variant %T", tx)})
	}
}

// Account returns a client's account, if one exists.
func (e *Engine) Account(client model.ClientID) (*model.Account, bool) {
	return e.accounts.Get(client)
}

// Accounts returns the final snapshot for the summary exporter, in
// unspecified order.
func (e *Engine) Accounts() []*model.Account {
	return e.accounts.All()
}

func (e *Engine) deposit(tx model.Deposit) Outcome {
	if _, dup := e.txSeen[tx.Tx]; dup {
		return DuplicateTransaction
	}

	// The account is only created once the deposit is known to apply, so a
	// rejected first deposit leaves no empty account behind.
	available, held := decimal.Zero, decimal.Zero
	if acct, ok := e.accounts.Get(tx.Client); ok {
		if acct.Locked {
			return AccountLocked
		}
		available, held = acct.Available, acct.Held
	}

	if available.Add(tx.Amount).GreaterThan(MaxBalance) {
		return Overflow
	}
	if available.Add(held).Add(tx.Amount).GreaterThan(MaxBalance) {
		return Overflow
	}

	acct := e.accounts.GetOrCreate(tx.Client)
	acct.Available = acct.Available.Add(tx.Amount)
	e.deposits.Record(tx.Tx, tx.Client, tx.Amount)
	e.txSeen[tx.Tx] = struct{}{}
	e.mustConsistent(acct)
	return Applied
}

func (e *Engine) withdraw(tx model.Withdrawal) Outcome {
	if _, dup := e.txSeen[tx.Tx]; dup {
		return DuplicateTransaction
	}

	acct, ok := e.accounts.Get(tx.Client)
	if !ok {
		return UnknownAccount
	}
	if acct.Locked {
		return AccountLocked
	}
	if acct.Available.LessThan(tx.Amount) {
		return InsufficientFunds
	}

	acct.Available = acct.Available.Sub(tx.Amount)
	e.txSeen[tx.Tx] = struct{}{}
	e.mustConsistent(acct)
	return Applied
}

func (e *Engine) dispute(tx model.Dispute) Outcome {
	rec, ok := e.deposits.Lookup(tx.Tx)
	if !ok || rec.Client != tx.Client {
		return UnknownTransaction
	}
	// Only a deposit with no open dispute may enter Disputed. Resolved
	// deposits may be disputed again; ChargedBack is terminal.
	if rec.State == Disputed || rec.State == ChargedBack {
		return InvalidState
	}

	acct := e.mustAccount(tx.Client)
	if acct.Locked {
		return AccountLocked
	}
	// The deposit's funds were already withdrawn. Holding them would push
	// available negative, so the dispute is refused instead.
	if acct.Available.LessThan(rec.Amount) {
		return InvalidState
	}

	acct.Available = acct.Available.Sub(rec.Amount)
	acct.Held = acct.Held.Add(rec.Amount)
	e.deposits.SetState(tx.Tx, Disputed)
	e.mustConsistent(acct)
	return Applied
}

func (e *Engine) resolve(tx model.Resolve) Outcome {
	rec, ok := e.deposits.Lookup(tx.Tx)
	if !ok || rec.Client != tx.Client {
		return UnknownTransaction
	}
	if rec.State != Disputed {
		return InvalidState
	}

	acct := e.mustAccount(tx.Client)
	if acct.Locked {
		return AccountLocked
	}

	acct.Held = acct.Held.Sub(rec.Amount)
	acct.Available = acct.Available.Add(rec.Amount)
	e.deposits.SetState(tx.Tx, Resolved)
	e.mustConsistent(acct)
	return Applied
}

func (e *Engine) chargeback(tx model.Chargeback) Outcome {
	rec, ok := e.deposits.Lookup(tx.Tx)
	if !ok || rec.Client != tx.Client {
		return UnknownTransaction
	}
	if rec.State != Disputed {
		return InvalidState
	}

	acct := e.mustAccount(tx.Client)
	if acct.Locked {
		return AccountLocked
	}

	// The held funds leave the account for good; total decreases and the
	// account is frozen against all further mutation.
	acct.Held = acct.Held.Sub(rec.Amount)
	acct.Locked = true
	e.deposits.SetState(tx.Tx, ChargedBack)
	e.mustConsistent(acct)
	return Applied
}

// mustAccount returns the account a tracked deposit belongs to. A tracked
// deposit without an account means the engine corrupted its own state.
func (e *Engine) mustAccount(client model.ClientID) *model.Account {
	acct, ok := e.accounts.Get(client)
	if !ok {
		panic(&Defect{msg: fmt.Sprintf("tracked deposit for client %d has no account", client)})
	}
	return acct
}

// mustConsistent halts on state no sequence of accepted records can reach.
func (e *Engine) mustConsistent(acct *model.Account) {
	if acct.Held.IsNegative() {
		panic(&Defect{msg: fmt.Sprintf("client %d held funds went negative: %s", acct.Client, acct.Held)})
	}
	if acct.Available.IsNegative() {
		panic(&Defect{msg: fmt.Sprintf("client %d available funds went negative: %s", acct.Client, acct.Available)})
	}
}
