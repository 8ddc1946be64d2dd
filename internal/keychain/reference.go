package keychain

import (
	"fmt"
	"strings"
)

// Reference represents a parsed keychain secret reference
type Reference struct {
	Service string
	Account string
}

// ParseReference parses a keychain reference string
// Format: service/account
func ParseReference(key string) (Reference, error) {
	parts := strings.SplitN(key, "/", 2)
	if len(parts) != 2 {
		return Reference{}, fmt.Errorf("%w: must be service/account format, got: %s", ErrInvalidReference, key)
	}

	service := strings.TrimSpace(parts[0])
	account := strings.TrimSpace(parts[1])

	if service == "" {
		return Reference{}, fmt.Errorf("%w: service cannot be empty", ErrInvalidReference)
	}
	if account == "" {
		return Reference{}, fmt.Errorf("%w: account cannot be empty", ErrInvalidReference)
	}

	return Reference{Service: service, Account: account}, nil
}

func (r Reference) String() string {
	return r.Service + "/" + r.Account
}
