package keychainquery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kq "github.com/systmms/keychainquery/pkg/keychainquery"
)

func TestParseDataType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    kq.DataType
		wantErr bool
	}{
		{in: "generic-password", want: kq.GenericPassword},
		{in: "Internet_Password", want: kq.InternetPassword},
		{in: " certificate ", want: kq.Certificate},
		{in: "key", want: kq.CryptoKey},
		{in: "identity", want: kq.Identity},
		{in: "password", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := kq.ParseDataType(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, dt := range kq.DataTypes() {
		got, err := kq.ParseDataType(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt, got)
		assert.True(t, dt.Valid())
	}
	assert.False(t, kq.DataType(99).Valid())
	assert.Equal(t, "DataType(99)", kq.DataType(99).String())
}

func TestParseMatchLimit(t *testing.T) {
	t.Parallel()

	l, err := kq.ParseMatchLimit("ONE")
	require.NoError(t, err)
	assert.Equal(t, kq.MatchOne, l)

	l, err = kq.ParseMatchLimit("all")
	require.NoError(t, err)
	assert.Equal(t, kq.MatchAll, l)

	_, err = kq.ParseMatchLimit("some")
	assert.Error(t, err)
}

func TestStatusNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "item-not-found", kq.StatusItemNotFound.Name())
	assert.Equal(t, "-1", kq.Status(-1).Name())
	assert.Equal(t, "status 7", kq.Status(7).String())
	assert.Equal(t, "success (0)", kq.StatusSuccess.String())
}

func TestPlatformValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, kq.DefaultPlatform().Validate())

	p := kq.DefaultPlatform().Clone()
	delete(p.Classes, kq.Identity)
	p.Attributes[kq.KeyService] = ""
	p.ItemNotFound = p.Success

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "class identity")
	assert.Contains(t, err.Error(), "attribute service")
	assert.Contains(t, err.Error(), "must be distinct")
}

func TestPlatformValidateRejectsSharedNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*kq.Platform)
		want   string
	}{
		{
			name:   "attribute_name",
			mutate: func(p *kq.Platform) { p.Attributes[kq.KeyAccount] = "v_Data" },
			want:   `attribute name "v_Data" used by account and value-data`,
		},
		{
			name:   "class_tag",
			mutate: func(p *kq.Platform) { p.Classes[kq.Identity] = "cert" },
			want:   `class tag "cert" used by certificate and identity`,
		},
		{
			name:   "match_limit_tag",
			mutate: func(p *kq.Platform) { p.MatchLimits[kq.MatchAll] = "m_LimitOne" },
			want:   `match limit tag "m_LimitOne" used by one and all`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := kq.DefaultPlatform().Clone()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPlatformInverseLookups(t *testing.T) {
	t.Parallel()

	p := kq.DefaultPlatform()
	for _, dt := range kq.DataTypes() {
		tag, ok := p.ClassTag(dt)
		require.True(t, ok)
		back, ok := p.DataTypeForTag(tag)
		require.True(t, ok)
		assert.Equal(t, dt, back)
	}

	_, ok := p.DataTypeForTag("nope")
	assert.False(t, ok)
	assert.Equal(t, "value-data", kq.Platform{}.AttributeName(kq.KeyValueData))
}
