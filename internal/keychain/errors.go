package keychain

import (
	"errors"
	"fmt"
)

// Error wraps keychain failures with context
type Error struct {
	Op      string // Operation: "get", "describe", "set", "delete"
	Service string
	Account string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("keychain %s error for %s/%s: %v", e.Op, e.Service, e.Account, e.Err)
	}
	return fmt.Sprintf("keychain %s error for %s/%s", e.Op, e.Service, e.Account)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Keychain sentinel errors
var (
	ErrItemNotFound     = errors.New("keychain item not found")
	ErrDuplicateItem    = errors.New("keychain item already exists")
	ErrAccessDenied     = errors.New("keychain access denied")
	ErrUnavailable      = errors.New("keychain not available on this platform")
	ErrHeadless         = errors.New("keychain requires GUI environment for authentication")
	ErrInvalidReference = errors.New("invalid keychain reference")
)
