package engine

// Outcome classifies the result of applying one input record. Every rejection
// is recoverable at the record level; processing always continues with the
// next record.
type Outcome int

const (
	// Applied means the record changed account state.
	Applied Outcome = iota
	// Malformed is a structurally invalid record, discarded before it
	// reaches the processor.
	Malformed
	// UnknownAccount is a withdrawal referencing a client with no prior
	// deposit.
	UnknownAccount
	// UnknownTransaction is a dispute lifecycle record referencing a tx id
	// that was never deposited, or that belongs to a different client.
	UnknownTransaction
	// InvalidState is a dispute lifecycle record whose target deposit is not
	// in a state that permits it.
	InvalidState
	// InsufficientFunds is a withdrawal exceeding available funds.
	InsufficientFunds
	// AccountLocked is any mutating record against a locked account.
	AccountLocked
	// Overflow is a deposit that would exceed the representable balance
	// range.
	Overflow
	// DuplicateTransaction is a deposit or withdrawal reusing a tx id.
	DuplicateTransaction
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Malformed:
		return "malformed"
	case UnknownAccount:
		return "unknown account"
	case UnknownTransaction:
		return "unknown transaction"
	case InvalidState:
		return "invalid dispute state"
	case InsufficientFunds:
		return "insufficient funds"
	case AccountLocked:
		return "account locked"
	case Overflow:
		return "overflow"
	case DuplicateTransaction:
		return "duplicate transaction id"
	default:
		return "unknown outcome"
	}
}

// Accepted reports whether the record was applied.
func (o Outcome) Accepted() bool {
	return o == Applied
}
