package models

// DefaultCredits is the starting balance a record is created with.
const DefaultCredits int64 = 3

// Record is one user's credits balance, keyed by the externally supplied
// id (a Discord user id in practice). LastTransaction is Unix seconds and
// advances on creation and on every successful adjustment, including a
// zero-delta one.
type Record struct {
	ID              string `json:"id"`
	Credits         int64  `json:"credits"`
	LastTransaction int64  `json:"last_transaction"`
}
