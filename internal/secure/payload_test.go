package secure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "text", data: []byte("my-secret-password")},
		{name: "binary", data: []byte{0x00, 0xFF, 0x10, 0x20}},
		{name: "empty", data: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// memguard wipes the source slice, keep a copy for comparison
			want := append([]byte{}, tt.data...)
			p := NewPayload(tt.data)
			defer p.Destroy()

			assert.Equal(t, len(want), p.Len())
			got, err := p.Bytes()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestPayloadWipesSource(t *testing.T) {
	t.Parallel()

	src := []byte("wipe-me")
	p := NewPayload(src)
	defer p.Destroy()

	assert.Equal(t, make([]byte, len(src)), src)
}

func TestPayloadWithPropagatesError(t *testing.T) {
	t.Parallel()

	p := NewPayload([]byte("abc"))
	defer p.Destroy()

	boom := errors.New("boom")
	err := p.With(func(b []byte) error {
		assert.Equal(t, []byte("abc"), b)
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestPayloadDestroy(t *testing.T) {
	t.Parallel()

	p := NewPayload([]byte("abc"))
	p.Destroy()
	p.Destroy()

	_, err := p.Bytes()
	assert.ErrorIs(t, err, ErrDestroyed)
}

func TestPayloadStringIsRedacted(t *testing.T) {
	t.Parallel()

	p := NewPayload([]byte("hunter2"))
	defer p.Destroy()

	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", p))
	assert.Equal(t, "[REDACTED]", p.String())
}
