package model

import "github.com/shopspring/decimal"

// Account is one client's balance state. It is created zeroed on the first
// deposit referencing the client, never deleted, and once Locked is set no
// field changes again.
type Account struct {
	Client    ClientID
	Available decimal.Decimal // funds usable for withdrawal
	Held      decimal.Decimal // funds frozen pending dispute resolution
	Locked    bool
}

// Total returns the account's overall balance, always available + held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}
