package fakes

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/systmms/keychainquery/internal/store"
	kq "github.com/systmms/keychainquery/pkg/keychainquery"
)

// FakeStore is an in-memory store.Store supporting every item class and
// MatchAll searches.
type FakeStore struct {
	mu    sync.Mutex
	items map[itemKey][]byte

	// Platform names the attributes of returned items and supplies the
	// success and item-not-found codes.
	Platform kq.Platform

	// Available controls whether the store reports as available
	Available bool

	// Headless controls whether the environment is reported as headless
	Headless bool

	// SearchStatus, AddStatus and DeleteStatus, when non-zero, are returned
	// instead of executing the request.
	SearchStatus kq.Status
	AddStatus    kq.Status
	DeleteStatus kq.Status

	// SearchItem, when non-nil, is returned by Search instead of the stored
	// item, to simulate malformed store responses.
	SearchItem any

	// Requests records every request received, in order.
	Requests []kq.Request
}

type itemKey struct {
	class   kq.DataType
	service string
	account string
}

// NewFakeStore creates a new fake store with defaults
func NewFakeStore() *FakeStore {
	return &FakeStore{
		items:     make(map[itemKey][]byte),
		Platform:  kq.DefaultPlatform(),
		Available: true,
	}
}

// SetSecret adds an item to the fake store
func (f *FakeStore) SetSecret(class kq.DataType, service, account string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items == nil {
		f.items = make(map[itemKey][]byte)
	}
	f.items[itemKey{class: class, service: service, account: account}] = bytes.Clone(value)
}

// Secret returns a stored value
func (f *FakeStore) Secret(class kq.DataType, service, account string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[itemKey{class: class, service: service, account: account}]
	return bytes.Clone(v), ok
}

// Len returns the number of stored items
func (f *FakeStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Search matches stored items against every criterion set on req.
func (f *FakeStore) Search(ctx context.Context, req kq.Request) (kq.Status, any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, req)

	if st := store.ContextStatus(ctx); st != kq.StatusSuccess {
		return st, nil
	}
	if f.SearchStatus != 0 {
		return f.SearchStatus, f.SearchItem
	}

	keys := f.matching(req)
	if len(keys) == 0 {
		return f.Platform.ItemNotFound, nil
	}
	if f.SearchItem != nil {
		return f.Platform.Success, f.SearchItem
	}

	if limit, ok := req.MatchLimit(); ok && limit == kq.MatchAll {
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			if item := f.item(req, k); item != nil {
				out = append(out, item)
			}
		}
		return f.Platform.Success, out
	}
	if item := f.item(req, keys[0]); item != nil {
		return f.Platform.Success, item
	}
	return f.Platform.Success, nil
}

// Add inserts req's payload. The class defaults to generic password.
func (f *FakeStore) Add(ctx context.Context, req kq.Request) kq.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, req)

	if st := store.ContextStatus(ctx); st != kq.StatusSuccess {
		return st
	}
	if f.AddStatus != 0 {
		return f.AddStatus
	}

	data, ok := req.Data()
	if !ok {
		return kq.StatusParam
	}
	key := keyFor(req)
	if _, exists := f.items[key]; exists {
		return kq.StatusDuplicateItem
	}
	if f.items == nil {
		f.items = make(map[itemKey][]byte)
	}
	f.items[key] = data
	return f.Platform.Success
}

// Delete removes every item matching req.
func (f *FakeStore) Delete(ctx context.Context, req kq.Request) kq.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, req)

	if st := store.ContextStatus(ctx); st != kq.StatusSuccess {
		return st
	}
	if f.DeleteStatus != 0 {
		return f.DeleteStatus
	}

	keys := f.matching(req)
	if len(keys) == 0 {
		return f.Platform.ItemNotFound
	}
	for _, k := range keys {
		delete(f.items, k)
	}
	return f.Platform.Success
}

// IsAvailable returns whether the store is available
func (f *FakeStore) IsAvailable() bool {
	return f.Available
}

// IsHeadless returns whether running in headless environment
func (f *FakeStore) IsHeadless() bool {
	return f.Headless
}

// matching returns stored keys satisfying req, sorted for determinism.
func (f *FakeStore) matching(req kq.Request) []itemKey {
	var out []itemKey
	for k := range f.items {
		if class, ok := req.Class(); ok && class != k.class {
			continue
		}
		if service, ok := req.Service(); ok && service != k.service {
			continue
		}
		if account, ok := req.Account(); ok && account != k.account {
			continue
		}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].service != out[j].service {
			return out[i].service < out[j].service
		}
		if out[i].account != out[j].account {
			return out[i].account < out[j].account
		}
		return out[i].class < out[j].class
	})
	return out
}

func (f *FakeStore) item(req kq.Request, k itemKey) kq.Attributes {
	wantData, _ := req.ReturnData()
	wantAttrs, _ := req.ReturnAttributes()
	if !wantData && !wantAttrs {
		return nil
	}
	item := kq.Attributes{}
	if wantData {
		item[f.Platform.AttributeName(kq.KeyValueData)] = bytes.Clone(f.items[k])
	}
	if wantAttrs {
		tag, _ := f.Platform.ClassTag(k.class)
		item[f.Platform.AttributeName(kq.KeyClass)] = tag
		item[f.Platform.AttributeName(kq.KeyService)] = k.service
		item[f.Platform.AttributeName(kq.KeyAccount)] = k.account
	}
	return item
}

func keyFor(req kq.Request) itemKey {
	class, ok := req.Class()
	if !ok {
		class = kq.GenericPassword
	}
	service, _ := req.Service()
	account, _ := req.Account()
	return itemKey{class: class, service: service, account: account}
}

var (
	_ store.Store        = (*FakeStore)(nil)
	_ store.Availability = (*FakeStore)(nil)
)
