// Package fakes provides test doubles for keychainquery store interfaces.
//
// Fakes are manually implemented (not generated) to provide precise control
// over test behavior.
//
// Usage:
//
//	fake := fakes.NewFakeStore()
//	fake.SetSecret(kq.GenericPassword, "myapp", "api-key", []byte("secret123"))
//	client := keychain.New("keychain", fake)
//	// Test client methods...
package fakes
