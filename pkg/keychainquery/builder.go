package keychainquery

import (
	"bytes"
	"errors"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned by WithDataStringStrict for text that is not
// valid UTF-8.
var ErrInvalidUTF8 = errors.New("keychainquery: data string is not valid UTF-8")

// QueryBuilder accumulates request criteria. All methods have value
// receivers and return a new builder; the receiver is never modified, so a
// builder can be used as a common prefix for several requests.
//
// The zero QueryBuilder is an empty builder.
type QueryBuilder struct {
	req Request
}

// New returns a builder seeded with the class criterion for t.
func New(t DataType) QueryBuilder {
	return QueryBuilder{req: Request{class: &t}}
}

// Empty returns a builder without criteria, for requests whose class is
// implied or irrelevant.
func Empty() QueryBuilder {
	return QueryBuilder{}
}

// WithAccount sets the account criterion, replacing any previous value.
func (b QueryBuilder) WithAccount(name string) QueryBuilder {
	b.req.account = &name
	return b
}

// WithService sets the service criterion, replacing any previous value.
func (b QueryBuilder) WithService(name string) QueryBuilder {
	b.req.service = &name
	return b
}

// WithData sets the payload criterion to a copy of data.
func (b QueryBuilder) WithData(data []byte) QueryBuilder {
	b.req.data = bytes.Clone(data)
	if b.req.data == nil {
		b.req.data = []byte{}
	}
	b.req.hasData = true
	return b
}

// WithDataString sets the payload criterion to the UTF-8 encoding of s.
// When s is not valid UTF-8 the builder is returned unchanged and no error
// is reported; use WithDataStringStrict to detect that case.
func (b QueryBuilder) WithDataString(s string) QueryBuilder {
	if !utf8.ValidString(s) {
		return b
	}
	return b.WithData([]byte(s))
}

// WithDataStringStrict is WithDataString that reports ErrInvalidUTF8
// instead of silently ignoring text it cannot encode. On error the
// returned builder equals b.
func (b QueryBuilder) WithDataStringStrict(s string) (QueryBuilder, error) {
	if !utf8.ValidString(s) {
		return b, ErrInvalidUTF8
	}
	return b.WithData([]byte(s)), nil
}

// WithMatchLimit sets the match-limit criterion.
func (b QueryBuilder) WithMatchLimit(limit MatchLimit) QueryBuilder {
	b.req.matchLimit = &limit
	return b
}

// WithReturnAttributes sets the return-attributes flag.
func (b QueryBuilder) WithReturnAttributes(flag bool) QueryBuilder {
	b.req.returnAttributes = &flag
	return b
}

// ReturningAttributes is WithReturnAttributes(true).
func (b QueryBuilder) ReturningAttributes() QueryBuilder {
	return b.WithReturnAttributes(true)
}

// WithReturnData sets the return-data flag.
func (b QueryBuilder) WithReturnData(flag bool) QueryBuilder {
	b.req.returnData = &flag
	return b
}

// ReturningData is WithReturnData(true).
func (b QueryBuilder) ReturningData() QueryBuilder {
	return b.WithReturnData(true)
}

// Build returns the accumulated criteria as a Request. It may be called
// any number of times.
func (b QueryBuilder) Build() Request {
	return b.req
}
