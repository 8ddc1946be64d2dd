// Package secure keeps retrieved keychain payloads out of ordinary heap
// memory.
//
// A Payload wraps a memguard enclave: the bytes are encrypted at rest in
// memory (XSalsa20Poly1305) and only decrypted into an mlocked buffer while
// a caller reads them.
//
//	p := secure.NewPayload(match.Item.Data)
//	defer p.Destroy()
//
//	err := p.With(func(b []byte) error {
//	    _, err := os.Stdout.Write(b)
//	    return err
//	})
//
// NewPayload wipes the slice it is given. Call memguard.Purge (or
// secure.Purge) before exiting to wipe every remaining enclave key.
package secure
