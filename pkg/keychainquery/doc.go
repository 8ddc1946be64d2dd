// Package keychainquery builds requests for a platform secure-credential
// store and classifies the store's responses.
//
// The package does not talk to any store itself. A caller assembles a
// Request with the immutable QueryBuilder, hands it to a store (see
// internal/store for the OS keyring adapter), and passes the returned
// status and item to an Interpreter:
//
//	req := keychainquery.New(keychainquery.GenericPassword).
//	    WithService("com.example.app").
//	    WithAccount("api-token").
//	    WithMatchLimit(keychainquery.MatchOne).
//	    ReturningData().
//	    Build()
//
//	status, item := st.Search(ctx, req)
//	switch r := keychainquery.NewInterpreter(req).Result(item, status).(type) {
//	case keychainquery.SingleMatch:
//	    use(r.Item.Data)
//	case keychainquery.NoMatch:
//	    // not stored yet
//	case keychainquery.Failure:
//	    return r.Err
//	}
//
// # Immutability
//
// Every QueryBuilder method has a value receiver and returns a new builder.
// Intermediate builders can be shared, branched and reused freely. A built
// Request is never modified after Build: value data is copied when it is set
// and again whenever it is read back, including through Attributes.
//
// # Platform constants
//
// Class identifiers, attribute names, match-limit tags and the success and
// not-found status codes live in a Platform table. DefaultPlatform returns
// the Apple Security framework values; a different table can be supplied to
// Request.Attributes and to the Interpreter.
//
// # Multiple results
//
// Only single-item responses are classified. A request built with MatchAll
// is accepted by the builder but its successful responses are reported as
// ErrMultipleResultsNotSupported. The MultipleMatch variant exists for a
// later version and is never produced.
package keychainquery
