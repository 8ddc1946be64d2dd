package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrDestroyed is returned when a destroyed payload is opened.
var ErrDestroyed = errors.New("secure: payload destroyed")

// Payload is a retrieved secret sealed in a memguard enclave.
type Payload struct {
	mu      sync.RWMutex
	enclave *memguard.Enclave
	size    int
}

// NewPayload seals data and wipes the caller's slice.
func NewPayload(data []byte) *Payload {
	p := &Payload{size: len(data)}
	// memguard refuses to create an enclave from zero bytes
	if len(data) > 0 {
		p.enclave = memguard.NewEnclave(data)
	}
	return p
}

// Len returns the payload size in bytes.
func (p *Payload) Len() int {
	return p.size
}

// With decrypts the payload into a locked buffer, calls fn with its bytes
// and wipes the buffer afterwards. fn must not retain the slice.
func (p *Payload) With(fn func([]byte) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.size < 0 {
		return ErrDestroyed
	}
	if p.enclave == nil {
		return fn([]byte{})
	}

	buf, err := p.enclave.Open()
	if err != nil {
		return err
	}
	defer buf.Destroy()
	return fn(buf.Bytes())
}

// Bytes returns a plaintext copy. Prefer With, which does not leave a copy
// in ordinary memory.
func (p *Payload) Bytes() ([]byte, error) {
	var out []byte
	err := p.With(func(b []byte) error {
		out = append([]byte{}, b...)
		return nil
	})
	return out, err
}

// Destroy drops the enclave. It is idempotent.
func (p *Payload) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.enclave = nil
	p.size = -1
}

// String never reveals the payload.
func (p *Payload) String() string {
	return "[REDACTED]"
}

// Purge wipes all memguard state; call it on process exit.
func Purge() {
	memguard.Purge()
}
