// Package store defines the boundary to the platform secure-credential
// store and ships adapters for it.
//
// A Store executes a keychainquery.Request and answers with a raw status
// code and, for searches, an opaque item. Interpreting that answer is the
// job of keychainquery.Interpreter; stores never classify.
package store

import (
	"context"

	kq "github.com/systmms/keychainquery/pkg/keychainquery"
)

// Store executes requests against a secure-credential store.
//
// Implementations report failures through the returned status using the
// keychainquery.Status codes, never through Go errors, so that every
// outcome flows through the interpreter.
type Store interface {
	// Search looks up items matching req. On success item is a
	// keychainquery.Attributes for single-item requests or a []any of them
	// for MatchAll requests, shaped by the request's return flags.
	Search(ctx context.Context, req kq.Request) (kq.Status, any)

	// Add inserts a new item described by req.
	Add(ctx context.Context, req kq.Request) kq.Status

	// Delete removes the items matching req.
	Delete(ctx context.Context, req kq.Request) kq.Status
}

// Availability is implemented by stores that can tell whether they are
// usable in the current environment.
type Availability interface {
	IsAvailable() bool
	IsHeadless() bool
}

// ContextStatus maps a done context to a store status. It returns
// StatusSuccess while ctx is live.
func ContextStatus(ctx context.Context) kq.Status {
	if ctx.Err() != nil {
		return kq.StatusUserCanceled
	}
	return kq.StatusSuccess
}
