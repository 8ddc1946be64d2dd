// Package keychain runs keychainquery requests against a store and turns
// the classified results into values and errors.
package keychain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/systmms/keychainquery/internal/logging"
	"github.com/systmms/keychainquery/internal/metrics"
	"github.com/systmms/keychainquery/internal/secure"
	"github.com/systmms/keychainquery/internal/store"
	kq "github.com/systmms/keychainquery/pkg/keychainquery"
)

// Client is safe for concurrent use.
type Client struct {
	name          string
	servicePrefix string
	dataType      kq.DataType
	platform      kq.Platform
	store         store.Store
	logger        *logging.Logger
	recorder      *metrics.Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithServicePrefix prepends prefix + "." to every service name that does
// not already carry it.
func WithServicePrefix(prefix string) Option {
	return func(c *Client) { c.servicePrefix = prefix }
}

// WithDataType sets the item class used by Get, Describe, Set and Delete.
// The default is generic password.
func WithDataType(t kq.DataType) Option {
	return func(c *Client) { c.dataType = t }
}

// WithPlatform sets the constant table handed to the interpreter.
func WithPlatform(p kq.Platform) Option {
	return func(c *Client) { c.platform = p }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRecorder sets the metrics recorder. The default records nothing.
func WithRecorder(r *metrics.Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// New creates a client named name over st.
func New(name string, st store.Store, opts ...Option) *Client {
	c := &Client{
		name:     name,
		dataType: kq.GenericPassword,
		platform: kq.DefaultPlatform(),
		store:    st,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the client name
func (c *Client) Name() string {
	return c.name
}

// Search executes req and classifies the response.
func (c *Client) Search(ctx context.Context, req kq.Request) kq.Result {
	status, item := c.store.Search(ctx, req)
	c.recorder.ObserveStatus("search", status)

	res := kq.NewInterpreter(req, kq.WithPlatform(c.platform)).Result(item, status)
	c.recorder.ObserveResult("search", res)
	c.logger.Debug("search %s: status=%s result=%s", req, status, res.Kind())
	return res
}

// Get retrieves the payload stored under ref.
func (c *Client) Get(ctx context.Context, ref Reference) ([]byte, error) {
	item, err := c.fetch(ctx, "get", ref, false)
	if err != nil {
		return nil, err
	}
	return item.Data, nil
}

// GetSecure is Get with the payload sealed in memory. The caller must
// Destroy the returned payload.
func (c *Client) GetSecure(ctx context.Context, ref Reference) (*secure.Payload, error) {
	data, err := c.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	return secure.NewPayload(data), nil
}

// Metadata describes a stored item without its payload.
type Metadata struct {
	Exists  bool
	Service string
	Account string
	Type    string
	Size    int
}

// Describe reports whether ref exists. A missing item is not an error.
func (c *Client) Describe(ctx context.Context, ref Reference) (Metadata, error) {
	item, err := c.fetch(ctx, "describe", ref, true)
	if errors.Is(err, ErrItemNotFound) {
		return Metadata{Exists: false}, nil
	}
	if err != nil {
		return Metadata{}, err
	}

	md := Metadata{
		Exists:  true,
		Service: item.Service,
		Account: item.Account,
		Type:    c.dataType.String(),
		Size:    len(item.Data),
	}
	if item.Class.Valid() {
		md.Type = item.Class.String()
	}
	if md.Service == "" {
		md.Service = c.applyServicePrefix(ref.Service)
	}
	if md.Account == "" {
		md.Account = ref.Account
	}
	return md, nil
}

// Set stores data under ref. With replace an existing item is deleted
// first; without it an existing item yields ErrDuplicateItem.
func (c *Client) Set(ctx context.Context, ref Reference, data []byte, replace bool) error {
	base := c.base(ref)
	req := base.WithData(data).Build()

	status := c.store.Add(ctx, req)
	c.recorder.ObserveStatus("add", status)
	if status == kq.StatusDuplicateItem && replace {
		c.logger.Debug("replacing existing item %s", ref)
		st := c.store.Delete(ctx, base.Build())
		c.recorder.ObserveStatus("delete", st)
		if st != c.platform.Success {
			return c.statusError("set", ref, st)
		}
		status = c.store.Add(ctx, req)
		c.recorder.ObserveStatus("add", status)
	}
	if status != c.platform.Success {
		return c.statusError("set", ref, status)
	}

	c.logger.Debug("stored %s (%d bytes)", ref, len(data))
	return nil
}

// Delete removes the item stored under ref.
func (c *Client) Delete(ctx context.Context, ref Reference) error {
	status := c.store.Delete(ctx, c.base(ref).Build())
	c.recorder.ObserveStatus("delete", status)
	if status != c.platform.Success {
		return c.statusError("delete", ref, status)
	}
	return nil
}

// Validate checks if the store is usable
func (c *Client) Validate(ctx context.Context) error {
	av, ok := c.store.(store.Availability)
	if !ok {
		return nil
	}
	if !av.IsAvailable() {
		return ErrUnavailable
	}
	if av.IsHeadless() {
		return fmt.Errorf("%w (headless environment detected). Consider using a different secret store for CI/CD environments", ErrHeadless)
	}
	return nil
}

// Request returns the search request Get would execute for ref.
func (c *Client) Request(ref Reference) kq.Request {
	return c.base(ref).WithMatchLimit(kq.MatchOne).ReturningData().Build()
}

func (c *Client) base(ref Reference) kq.QueryBuilder {
	return kq.New(c.dataType).
		WithService(c.applyServicePrefix(ref.Service)).
		WithAccount(ref.Account)
}

func (c *Client) fetch(ctx context.Context, op string, ref Reference, attributes bool) (kq.Item, error) {
	q := c.base(ref).WithMatchLimit(kq.MatchOne).ReturningData()
	if attributes {
		q = q.ReturningAttributes()
	}
	req := q.Build()

	status, raw := c.store.Search(ctx, req)
	c.recorder.ObserveStatus(op, status)
	res := kq.NewInterpreter(req, kq.WithPlatform(c.platform)).Result(raw, status)
	c.recorder.ObserveResult(op, res)

	switch r := res.(type) {
	case kq.SingleMatch:
		c.logger.Debug("%s %s: found %d bytes", op, ref, len(r.Item.Data))
		return r.Item, nil
	case kq.NoMatch:
		c.logger.Debug("%s %s: not found", op, ref)
		return kq.Item{}, c.wrap(op, ref, ErrItemNotFound)
	case kq.Failure:
		c.logger.Debug("%s %s: %v", op, ref, r.Err)
		return kq.Item{}, c.wrap(op, ref, classify(r.Err))
	default:
		// MultipleMatch is never produced for MatchOne requests.
		return kq.Item{}, c.wrap(op, ref, fmt.Errorf("unexpected result %s", res.Kind()))
	}
}

func (c *Client) statusError(op string, ref Reference, status kq.Status) error {
	switch status {
	case c.platform.ItemNotFound:
		return c.wrap(op, ref, ErrItemNotFound)
	case kq.StatusDuplicateItem:
		return c.wrap(op, ref, ErrDuplicateItem)
	}
	return c.wrap(op, ref, classify(&kq.UnhandledError{Status: status}))
}

func (c *Client) wrap(op string, ref Reference, err error) error {
	return &Error{
		Op:      op,
		Service: c.applyServicePrefix(ref.Service),
		Account: ref.Account,
		Err:     err,
	}
}

// classify marks statuses that mean the user or OS refused access.
func classify(err error) error {
	status, ok := kq.StatusOf(err)
	if !ok {
		return err
	}
	switch status {
	case kq.StatusAuthFailed, kq.StatusUserCanceled, kq.StatusInteractionNotAllowed:
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	}
	return err
}

// applyServicePrefix combines the configured prefix with the service name
func (c *Client) applyServicePrefix(service string) string {
	if c.servicePrefix == "" {
		return service
	}
	qualified := c.servicePrefix + "."
	if strings.HasPrefix(service, qualified) {
		return service
	}
	return qualified + service
}
