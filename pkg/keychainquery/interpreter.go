package keychainquery

import "bytes"

// Interpreter classifies a store's raw response to one Request. It keeps
// no state between calls and is safe for concurrent use.
type Interpreter struct {
	req      Request
	platform Platform
}

// InterpreterOption configures an Interpreter.
type InterpreterOption func(*Interpreter)

// WithPlatform sets the table used for status codes and attribute names.
// The default is DefaultPlatform.
func WithPlatform(p Platform) InterpreterOption {
	return func(in *Interpreter) {
		in.platform = p
	}
}

// NewInterpreter returns an interpreter for responses to req.
func NewInterpreter(req Request, opts ...InterpreterOption) Interpreter {
	in := Interpreter{req: req, platform: DefaultPlatform()}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// Request returns the request the interpreter was created for.
func (in Interpreter) Request() Request {
	return in.req
}

// Result classifies (item, status). Not-found takes precedence over every
// other check, then any non-success status, then the match-limit mode, then
// the shape of item.
func (in Interpreter) Result(item any, status Status) Result {
	if status == in.platform.ItemNotFound {
		return NoMatch{}
	}
	if status != in.platform.Success {
		return Failure{Err: &UnhandledError{Status: status}}
	}
	if limit, ok := in.req.MatchLimit(); ok && limit == MatchAll {
		return Failure{Err: ErrMultipleResultsNotSupported}
	}
	return in.extractOne(item)
}

func (in Interpreter) extractOne(item any) Result {
	var attrs Attributes
	switch v := item.(type) {
	case Attributes:
		attrs = v
	case map[string]any:
		attrs = v
	default:
		return Failure{Err: ErrUnexpectedFormat}
	}
	if attrs == nil {
		return Failure{Err: ErrUnexpectedFormat}
	}

	data, ok := attrs[in.platform.AttributeName(KeyValueData)].([]byte)
	if !ok {
		return Failure{Err: ErrUnexpectedlyNoData}
	}

	out := Item{Data: bytes.Clone(data)}
	if out.Data == nil {
		out.Data = []byte{}
	}
	if tag, ok := attrs[in.platform.AttributeName(KeyClass)].(string); ok {
		if class, ok := in.platform.DataTypeForTag(tag); ok {
			out.Class = class
		}
	}
	if account, ok := attrs[in.platform.AttributeName(KeyAccount)].(string); ok {
		out.Account = account
	}
	if service, ok := attrs[in.platform.AttributeName(KeyService)].(string); ok {
		out.Service = service
	}
	return SingleMatch{Item: out}
}
