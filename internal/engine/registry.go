package engine

import "github.com/settld-dev/settld/internal/model"

// Registry owns the mapping from client id to account state. Accounts are
// created lazily and never deleted.
type Registry struct {
	accounts map[model.ClientID]*model.Account
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{accounts: make(map[model.ClientID]*model.Account)}
}

// GetOrCreate returns the client's account, creating a zeroed one if absent.
// Only deposit handling may call this; every other record kind must not
// create accounts.
func (r *Registry) GetOrCreate(client model.ClientID) *model.Account {
	if acct, ok := r.accounts[client]; ok {
		return acct
	}
	acct := &model.Account{Client: client}
	r.accounts[client] = acct
	return acct
}

// Get returns the client's account without creating one.
func (r *Registry) Get(client model.ClientID) (*model.Account, bool) {
	acct, ok := r.accounts[client]
	return acct, ok
}

// All returns every account in unspecified order. Callers that need a stable
// order sort the result themselves.
func (r *Registry) All() []*model.Account {
	accounts := make([]*model.Account, 0, len(r.accounts))
	for _, acct := range r.accounts {
		accounts = append(accounts, acct)
	}
	return accounts
}

// Len returns the number of known accounts.
func (r *Registry) Len() int {
	return len(r.accounts)
}
