package keychain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/keychainquery/internal/keychain"
	"github.com/systmms/keychainquery/internal/metrics"
	kq "github.com/systmms/keychainquery/pkg/keychainquery"
	"github.com/systmms/keychainquery/tests/fakes"
)

// TestClientName validates client name consistency
func TestClientName(t *testing.T) {
	t.Parallel()

	c := keychain.New("my-keychain", fakes.NewFakeStore())
	assert.Equal(t, "my-keychain", c.Name())
}

// TestClientGet tests secret resolution
func TestClientGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setupFake func(*fakes.FakeStore)
		opts      []keychain.Option
		ref       keychain.Reference
		want      []byte
		wantErr   error
	}{
		{
			name: "success_simple_key",
			setupFake: func(f *fakes.FakeStore) {
				f.SetSecret(kq.GenericPassword, "myapp", "api-key", []byte("secret123"))
			},
			ref:  keychain.Reference{Service: "myapp", Account: "api-key"},
			want: []byte("secret123"),
		},
		{
			name: "success_with_service_prefix",
			setupFake: func(f *fakes.FakeStore) {
				f.SetSecret(kq.GenericPassword, "com.company.myapp", "password", []byte("secretpass"))
			},
			opts: []keychain.Option{keychain.WithServicePrefix("com.company")},
			ref:  keychain.Reference{Service: "myapp", Account: "password"},
			want: []byte("secretpass"),
		},
		{
			name: "service_sharing_prefix_text",
			setupFake: func(f *fakes.FakeStore) {
				f.SetSecret(kq.GenericPassword, "application", "password", []byte("wrong"))
				f.SetSecret(kq.GenericPassword, "app.application", "password", []byte("right"))
			},
			opts: []keychain.Option{keychain.WithServicePrefix("app")},
			ref:  keychain.Reference{Service: "application", Account: "password"},
			want: []byte("right"),
		},
		{
			name: "prefix_not_applied_twice",
			setupFake: func(f *fakes.FakeStore) {
				f.SetSecret(kq.GenericPassword, "com.company.myapp", "password", []byte("secretpass"))
			},
			opts: []keychain.Option{keychain.WithServicePrefix("com.company")},
			ref:  keychain.Reference{Service: "com.company.myapp", Account: "password"},
			want: []byte("secretpass"),
		},
		{
			name: "other_data_type",
			setupFake: func(f *fakes.FakeStore) {
				f.SetSecret(kq.InternetPassword, "example.com", "alice", []byte("pw"))
				f.SetSecret(kq.GenericPassword, "example.com", "alice", []byte("wrong"))
			},
			opts: []keychain.Option{keychain.WithDataType(kq.InternetPassword)},
			ref:  keychain.Reference{Service: "example.com", Account: "alice"},
			want: []byte("pw"),
		},
		{
			name:    "not_found",
			ref:     keychain.Reference{Service: "nonexistent", Account: "secret"},
			wantErr: keychain.ErrItemNotFound,
		},
		{
			name: "access_denied",
			setupFake: func(f *fakes.FakeStore) {
				f.SearchStatus = kq.StatusUserCanceled
			},
			ref:     keychain.Reference{Service: "myapp", Account: "secret"},
			wantErr: keychain.ErrAccessDenied,
		},
		{
			name: "unhandled_status",
			setupFake: func(f *fakes.FakeStore) {
				f.SearchStatus = kq.StatusParam
			},
			ref:     keychain.Reference{Service: "myapp", Account: "secret"},
			wantErr: kq.ErrUnhandledStatus,
		},
		{
			name: "malformed_item",
			setupFake: func(f *fakes.FakeStore) {
				f.SetSecret(kq.GenericPassword, "myapp", "secret", []byte("x"))
				f.SearchItem = "not a mapping"
			},
			ref:     keychain.Reference{Service: "myapp", Account: "secret"},
			wantErr: kq.ErrUnexpectedFormat,
		},
		{
			name: "item_without_data",
			setupFake: func(f *fakes.FakeStore) {
				f.SetSecret(kq.GenericPassword, "myapp", "secret", []byte("x"))
				f.SearchItem = kq.Attributes{"acct": "secret"}
			},
			ref:     keychain.Reference{Service: "myapp", Account: "secret"},
			wantErr: kq.ErrUnexpectedlyNoData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := fakes.NewFakeStore()
			if tt.setupFake != nil {
				tt.setupFake(fake)
			}
			c := keychain.New("keychain", fake, tt.opts...)

			got, err := c.Get(context.Background(), tt.ref)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				var kerr *keychain.Error
				require.True(t, errors.As(err, &kerr))
				assert.Equal(t, "get", kerr.Op)
				assert.Equal(t, tt.ref.Account, kerr.Account)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientGetBuildsSingleDataRequest(t *testing.T) {
	t.Parallel()

	fake := fakes.NewFakeStore()
	fake.SetSecret(kq.GenericPassword, "svc", "acct", []byte("v"))
	c := keychain.New("keychain", fake)
	ref := keychain.Reference{Service: "svc", Account: "acct"}

	_, err := c.Get(context.Background(), ref)
	require.NoError(t, err)

	require.Len(t, fake.Requests, 1)
	assert.True(t, fake.Requests[0].Equal(c.Request(ref)))
	limit, _ := fake.Requests[0].MatchLimit()
	assert.Equal(t, kq.MatchOne, limit)
	returnData, _ := fake.Requests[0].ReturnData()
	assert.True(t, returnData)
}

func TestClientGetSecure(t *testing.T) {
	t.Parallel()

	fake := fakes.NewFakeStore()
	fake.SetSecret(kq.GenericPassword, "svc", "acct", []byte("sealed"))
	c := keychain.New("keychain", fake)

	p, err := c.GetSecure(context.Background(), keychain.Reference{Service: "svc", Account: "acct"})
	require.NoError(t, err)
	defer p.Destroy()

	got, err := p.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("sealed"), got)

	_, err = c.GetSecure(context.Background(), keychain.Reference{Service: "svc", Account: "other"})
	assert.ErrorIs(t, err, keychain.ErrItemNotFound)
}

// TestClientDescribe tests metadata retrieval
func TestClientDescribe(t *testing.T) {
	t.Parallel()

	fake := fakes.NewFakeStore()
	fake.SetSecret(kq.GenericPassword, "myapp", "api-key", []byte("secret123"))
	c := keychain.New("keychain", fake)

	md, err := c.Describe(context.Background(), keychain.Reference{Service: "myapp", Account: "api-key"})
	require.NoError(t, err)
	assert.Equal(t, keychain.Metadata{
		Exists:  true,
		Service: "myapp",
		Account: "api-key",
		Type:    "generic-password",
		Size:    9,
	}, md)

	md, err = c.Describe(context.Background(), keychain.Reference{Service: "myapp", Account: "missing"})
	require.NoError(t, err)
	assert.False(t, md.Exists)

	fake.SearchStatus = kq.StatusAuthFailed
	_, err = c.Describe(context.Background(), keychain.Reference{Service: "myapp", Account: "api-key"})
	assert.ErrorIs(t, err, keychain.ErrAccessDenied)
}

func TestClientSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ref := keychain.Reference{Service: "svc", Account: "acct"}

	t.Run("new_item", func(t *testing.T) {
		t.Parallel()

		fake := fakes.NewFakeStore()
		c := keychain.New("keychain", fake)
		require.NoError(t, c.Set(ctx, ref, []byte("one"), false))

		got, ok := fake.Secret(kq.GenericPassword, "svc", "acct")
		require.True(t, ok)
		assert.Equal(t, []byte("one"), got)
	})

	t.Run("duplicate_without_replace", func(t *testing.T) {
		t.Parallel()

		fake := fakes.NewFakeStore()
		fake.SetSecret(kq.GenericPassword, "svc", "acct", []byte("old"))
		c := keychain.New("keychain", fake)

		err := c.Set(ctx, ref, []byte("new"), false)
		assert.ErrorIs(t, err, keychain.ErrDuplicateItem)
		got, _ := fake.Secret(kq.GenericPassword, "svc", "acct")
		assert.Equal(t, []byte("old"), got)
	})

	t.Run("duplicate_with_replace", func(t *testing.T) {
		t.Parallel()

		fake := fakes.NewFakeStore()
		fake.SetSecret(kq.GenericPassword, "svc", "acct", []byte("old"))
		c := keychain.New("keychain", fake)

		require.NoError(t, c.Set(ctx, ref, []byte("new"), true))
		got, _ := fake.Secret(kq.GenericPassword, "svc", "acct")
		assert.Equal(t, []byte("new"), got)
	})

	t.Run("store_failure", func(t *testing.T) {
		t.Parallel()

		fake := fakes.NewFakeStore()
		fake.AddStatus = kq.StatusInteractionNotAllowed
		c := keychain.New("keychain", fake)

		err := c.Set(ctx, ref, []byte("v"), false)
		assert.ErrorIs(t, err, keychain.ErrAccessDenied)
		status, ok := kq.StatusOf(err)
		require.True(t, ok)
		assert.Equal(t, kq.StatusInteractionNotAllowed, status)
	})
}

func TestClientDelete(t *testing.T) {
	t.Parallel()

	fake := fakes.NewFakeStore()
	fake.SetSecret(kq.GenericPassword, "svc", "acct", []byte("v"))
	c := keychain.New("keychain", fake)
	ref := keychain.Reference{Service: "svc", Account: "acct"}

	require.NoError(t, c.Delete(context.Background(), ref))
	assert.Equal(t, 0, fake.Len())
	assert.ErrorIs(t, c.Delete(context.Background(), ref), keychain.ErrItemNotFound)
}

func TestClientSearchRaw(t *testing.T) {
	t.Parallel()

	fake := fakes.NewFakeStore()
	fake.SetSecret(kq.Certificate, "svc", "a", []byte("1"))
	fake.SetSecret(kq.Certificate, "svc", "b", []byte("2"))
	c := keychain.New("keychain", fake)

	res := c.Search(context.Background(), kq.New(kq.Certificate).WithMatchLimit(kq.MatchAll).ReturningData().Build())
	f, ok := res.(kq.Failure)
	require.True(t, ok)
	assert.ErrorIs(t, f.Err, kq.ErrMultipleResultsNotSupported)

	res = c.Search(context.Background(), kq.New(kq.Certificate).WithAccount("b").ReturningData().Build())
	require.IsType(t, kq.SingleMatch{}, res)
	assert.Equal(t, []byte("2"), res.(kq.SingleMatch).Item.Data)
}

func TestClientRecordsMetrics(t *testing.T) {
	t.Parallel()

	rec, err := metrics.NewRecorder(nil)
	require.NoError(t, err)

	fake := fakes.NewFakeStore()
	fake.SetSecret(kq.GenericPassword, "svc", "acct", []byte("v"))
	c := keychain.New("keychain", fake, keychain.WithRecorder(rec))

	_, _ = c.Get(context.Background(), keychain.Reference{Service: "svc", Account: "acct"})
	_, _ = c.Get(context.Background(), keychain.Reference{Service: "svc", Account: "nope"})

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.ResultCounter("get", kq.KindSingleMatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.ResultCounter("get", kq.KindNoMatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.StatusCounter("get", kq.StatusItemNotFound)))
}

// TestClientValidate tests store availability checks
func TestClientValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		available bool
		headless  bool
		wantErr   error
	}{
		{name: "available", available: true},
		{name: "unavailable", available: false, wantErr: keychain.ErrUnavailable},
		{name: "headless", available: true, headless: true, wantErr: keychain.ErrHeadless},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := fakes.NewFakeStore()
			fake.Available = tt.available
			fake.Headless = tt.headless

			err := keychain.New("keychain", fake).Validate(context.Background())
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClientCanceledContext(t *testing.T) {
	t.Parallel()

	fake := fakes.NewFakeStore()
	fake.SetSecret(kq.GenericPassword, "svc", "acct", []byte("v"))
	c := keychain.New("keychain", fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx, keychain.Reference{Service: "svc", Account: "acct"})
	assert.ErrorIs(t, err, keychain.ErrAccessDenied)
}

func TestClientRequestServicePrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix  string
		service string
		want    string
	}{
		{prefix: "", service: "myapp", want: "myapp"},
		{prefix: "app", service: "myapp", want: "app.myapp"},
		{prefix: "app", service: "application", want: "app.application"},
		{prefix: "app", service: "app.db", want: "app.db"},
		{prefix: "app", service: "app", want: "app.app"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix+"/"+tt.service, func(t *testing.T) {
			t.Parallel()

			c := keychain.New("keychain", fakes.NewFakeStore(), keychain.WithServicePrefix(tt.prefix))
			service, ok := c.Request(keychain.Reference{Service: tt.service, Account: "a"}).Service()
			require.True(t, ok)
			assert.Equal(t, tt.want, service)
		})
	}
}
