// Package testutil provides test utilities and helpers for kcquery tests.
//
// This package contains shared test infrastructure including configuration
// builders and logger helpers.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/systmms/keychainquery/internal/config"
	"github.com/systmms/keychainquery/internal/logging"
	"github.com/systmms/keychainquery/internal/store"
)

// TestConfigBuilder provides a fluent API for building test configurations.
//
// Example usage:
//
//	cfg := NewTestConfig(t).
//	    WithServicePrefix("acme").
//	    WithAttribute("service", "kSecAttrService").
//	    Config(fakes.NewFakeStore())
type TestConfigBuilder struct {
	config  *config.Definition
	tempDir string
	t       *testing.T
}

// NewTestConfig creates a new TestConfigBuilder starting from an empty
// version 0 configuration.
func NewTestConfig(t *testing.T) *TestConfigBuilder {
	t.Helper()

	return &TestConfigBuilder{
		config:  &config.Definition{},
		tempDir: t.TempDir(),
		t:       t,
	}
}

// WithServicePrefix sets the prefix prepended to every service name.
func (b *TestConfigBuilder) WithServicePrefix(prefix string) *TestConfigBuilder {
	b.config.ServicePrefix = prefix
	return b
}

// WithDefaultType sets the item class used when --type is not given.
func (b *TestConfigBuilder) WithDefaultType(name string) *TestConfigBuilder {
	b.config.DefaultType = name
	return b
}

// WithClass overrides the class tag of a data type.
func (b *TestConfigBuilder) WithClass(dataType, tag string) *TestConfigBuilder {
	p := b.platform()
	if p.Classes == nil {
		p.Classes = make(map[string]string)
	}
	p.Classes[dataType] = tag
	return b
}

// WithAttribute overrides the attribute name of a criterion key.
func (b *TestConfigBuilder) WithAttribute(key, name string) *TestConfigBuilder {
	p := b.platform()
	if p.Attributes == nil {
		p.Attributes = make(map[string]string)
	}
	p.Attributes[key] = name
	return b
}

// WithStatuses overrides the success and item-not-found status codes.
func (b *TestConfigBuilder) WithStatuses(success, itemNotFound int32) *TestConfigBuilder {
	b.platform().Statuses = &config.StatusOverrides{
		Success:      &success,
		ItemNotFound: &itemNotFound,
	}
	return b
}

func (b *TestConfigBuilder) platform() *config.PlatformOverrides {
	if b.config.Platform == nil {
		b.config.Platform = &config.PlatformOverrides{}
	}
	return b.config.Platform
}

// Write writes the configuration to a temporary file and returns the path.
func (b *TestConfigBuilder) Write() string {
	b.t.Helper()

	data, err := yaml.Marshal(b.config)
	if err != nil {
		b.t.Fatalf("Failed to marshal test config: %v", err)
	}

	path := filepath.Join(b.tempDir, config.DefaultPath)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		b.t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

// Config writes the configuration and returns a runtime Config pointing at
// it, using st instead of the system keychain and a silent logger.
func (b *TestConfigBuilder) Config(st store.Store) *config.Config {
	b.t.Helper()

	return &config.Config{
		Path:     b.Write(),
		Explicit: true,
		Logger:   logging.Nop(),
		Store:    st,
	}
}
