package twfolio

import "errors"

var (
	// ErrMalformed reports a transaction rejected at the ledger boundary.
	ErrMalformed = errors.New("malformed transaction")
	// ErrIndexOutOfRange reports a delete of a position that is not in the ledger.
	ErrIndexOutOfRange = errors.New("transaction index out of range")
	// ErrUnknownSecurity reports a security missing from the directory.
	ErrUnknownSecurity = errors.New("unknown security")
)
