package keychainquery

import (
	"bytes"
	"fmt"
	"strings"
)

// Request is a frozen snapshot of search or insert criteria produced by
// QueryBuilder.Build. Each criterion is optional; accessors report whether
// it was set. The zero Request carries no criteria.
//
// A Request is immutable: the values it holds are never modified after
// Build, and Data returns a copy of the payload.
type Request struct {
	class            *DataType
	account          *string
	service          *string
	data             []byte
	hasData          bool
	matchLimit       *MatchLimit
	returnAttributes *bool
	returnData       *bool
}

// Class returns the targeted data type.
func (r Request) Class() (DataType, bool) {
	if r.class == nil {
		return 0, false
	}
	return *r.class, true
}

// Account returns the account criterion.
func (r Request) Account() (string, bool) {
	if r.account == nil {
		return "", false
	}
	return *r.account, true
}

// Service returns the service criterion.
func (r Request) Service() (string, bool) {
	if r.service == nil {
		return "", false
	}
	return *r.service, true
}

// Data returns a copy of the payload criterion.
func (r Request) Data() ([]byte, bool) {
	if !r.hasData {
		return nil, false
	}
	return bytes.Clone(r.data), true
}

// MatchLimit returns the match-limit criterion.
func (r Request) MatchLimit() (MatchLimit, bool) {
	if r.matchLimit == nil {
		return 0, false
	}
	return *r.matchLimit, true
}

// ReturnAttributes returns the return-attributes flag.
func (r Request) ReturnAttributes() (bool, bool) {
	if r.returnAttributes == nil {
		return false, false
	}
	return *r.returnAttributes, true
}

// ReturnData returns the return-data flag.
func (r Request) ReturnData() (bool, bool) {
	if r.returnData == nil {
		return false, false
	}
	return *r.returnData, true
}

// Has reports whether the criterion k is set.
func (r Request) Has(k Key) bool {
	switch k {
	case KeyClass:
		return r.class != nil
	case KeyAccount:
		return r.account != nil
	case KeyService:
		return r.service != nil
	case KeyValueData:
		return r.hasData
	case KeyMatchLimit:
		return r.matchLimit != nil
	case KeyReturnAttributes:
		return r.returnAttributes != nil
	case KeyReturnData:
		return r.returnData != nil
	}
	return false
}

// Len returns the number of criteria set.
func (r Request) Len() int {
	n := 0
	for _, k := range Keys() {
		if r.Has(k) {
			n++
		}
	}
	return n
}

// Equal reports whether r and o carry the same criteria.
func (r Request) Equal(o Request) bool {
	return equalPtr(r.class, o.class) &&
		equalPtr(r.account, o.account) &&
		equalPtr(r.service, o.service) &&
		r.hasData == o.hasData && bytes.Equal(r.data, o.data) &&
		equalPtr(r.matchLimit, o.matchLimit) &&
		equalPtr(r.returnAttributes, o.returnAttributes) &&
		equalPtr(r.returnData, o.returnData)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Attributes serializes the request into the store's dynamic format: a
// mapping from platform attribute names to values. Class and match limit
// are translated to the platform's tags; a value missing from the table
// falls back to its String form. The payload is copied.
func (r Request) Attributes(p Platform) Attributes {
	out := make(Attributes, r.Len())
	if t, ok := r.Class(); ok {
		tag, found := p.ClassTag(t)
		if !found {
			tag = t.String()
		}
		out[p.AttributeName(KeyClass)] = tag
	}
	if v, ok := r.Account(); ok {
		out[p.AttributeName(KeyAccount)] = v
	}
	if v, ok := r.Service(); ok {
		out[p.AttributeName(KeyService)] = v
	}
	if v, ok := r.Data(); ok {
		out[p.AttributeName(KeyValueData)] = v
	}
	if l, ok := r.MatchLimit(); ok {
		tag, found := p.MatchLimitTag(l)
		if !found {
			tag = l.String()
		}
		out[p.AttributeName(KeyMatchLimit)] = tag
	}
	if v, ok := r.ReturnAttributes(); ok {
		out[p.AttributeName(KeyReturnAttributes)] = v
	}
	if v, ok := r.ReturnData(); ok {
		out[p.AttributeName(KeyReturnData)] = v
	}
	return out
}

// String describes the criteria set on r. The payload is never printed,
// only its length.
func (r Request) String() string {
	var parts []string
	if t, ok := r.Class(); ok {
		parts = append(parts, "class="+t.String())
	}
	if v, ok := r.Service(); ok {
		parts = append(parts, "service="+v)
	}
	if v, ok := r.Account(); ok {
		parts = append(parts, "account="+v)
	}
	if r.hasData {
		parts = append(parts, fmt.Sprintf("data=<%d bytes>", len(r.data)))
	}
	if l, ok := r.MatchLimit(); ok {
		parts = append(parts, "match-limit="+l.String())
	}
	if v, ok := r.ReturnAttributes(); ok {
		parts = append(parts, fmt.Sprintf("return-attributes=%t", v))
	}
	if v, ok := r.ReturnData(); ok {
		parts = append(parts, fmt.Sprintf("return-data=%t", v))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Attributes is an attribute/value mapping in a store's dynamic format. It
// is both what Request.Attributes produces and the shape the Interpreter
// expects a single returned item to have.
type Attributes map[string]any
