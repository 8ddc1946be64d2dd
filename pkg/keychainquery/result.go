package keychainquery

import (
	"errors"
	"fmt"
)

// Classification errors carried by Failure.
var (
	// ErrUnhandledStatus matches every *UnhandledError via errors.Is.
	ErrUnhandledStatus = errors.New("keychainquery: unhandled store status")
	// ErrUnexpectedFormat means the returned item was not an attribute mapping.
	ErrUnexpectedFormat = errors.New("keychainquery: unexpected item format")
	// ErrUnexpectedlyNoData means the item carried no binary payload.
	ErrUnexpectedlyNoData = errors.New("keychainquery: item unexpectedly has no data")
	// ErrMultipleResultsNotSupported is reported for MatchAll requests.
	ErrMultipleResultsNotSupported = errors.New("keychainquery: multiple results not supported")
)

// UnhandledError is a store status other than success or item-not-found.
type UnhandledError struct {
	Status Status
}

func (e *UnhandledError) Error() string {
	return fmt.Sprintf("keychainquery: unhandled store status: %s", e.Status)
}

func (e *UnhandledError) Unwrap() error {
	return ErrUnhandledStatus
}

// StatusOf returns the store status carried by err, if any.
func StatusOf(err error) (Status, bool) {
	var ue *UnhandledError
	if errors.As(err, &ue) {
		return ue.Status, true
	}
	return 0, false
}

// Item is one retrieved record.
type Item struct {
	Data []byte
	// Class, Account and Service are filled when the store returned them as
	// attributes. Class is the zero DataType for an unknown class tag.
	Class   DataType
	Account string
	Service string
}

// Kind discriminates Result variants.
type Kind int

const (
	KindNoMatch Kind = iota + 1
	KindSingleMatch
	KindMultipleMatch
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindNoMatch:
		return "no-match"
	case KindSingleMatch:
		return "single-match"
	case KindMultipleMatch:
		return "multiple-match"
	case KindFailure:
		return "failure"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Result is the outcome of one store invocation. It is one of NoMatch,
// SingleMatch, MultipleMatch or Failure; the set is closed.
type Result interface {
	Kind() Kind
	isResult()
}

// NoMatch reports that the store found nothing.
type NoMatch struct{}

// SingleMatch holds the one retrieved item.
type SingleMatch struct {
	Item Item
}

// MultipleMatch holds several retrieved items. Reserved: no code path in
// this version produces it.
type MultipleMatch struct {
	Items []Item
}

// Failure holds the classification error. Err is one of the package's
// sentinel errors or an *UnhandledError.
type Failure struct {
	Err error
}

func (NoMatch) Kind() Kind       { return KindNoMatch }
func (SingleMatch) Kind() Kind   { return KindSingleMatch }
func (MultipleMatch) Kind() Kind { return KindMultipleMatch }
func (Failure) Kind() Kind       { return KindFailure }

func (NoMatch) isResult()       {}
func (SingleMatch) isResult()   {}
func (MultipleMatch) isResult() {}
func (Failure) isResult()       {}

func (f Failure) Error() string {
	if f.Err == nil {
		return "keychainquery: failure"
	}
	return f.Err.Error()
}

func (f Failure) Unwrap() error {
	return f.Err
}
