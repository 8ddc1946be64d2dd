package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	kqerrors "github.com/systmms/keychainquery/internal/errors"
	"github.com/systmms/keychainquery/internal/keychain"
	"github.com/systmms/keychainquery/internal/logging"
	"github.com/systmms/keychainquery/internal/metrics"
	"github.com/systmms/keychainquery/internal/store"
	kq "github.com/systmms/keychainquery/pkg/keychainquery"
)

// DefaultPath is the configuration file used when --config is not given.
const DefaultPath = "kcquery.yaml"

//go:embed schema.json
var schema string

// Config holds the runtime configuration
type Config struct {
	Path string
	// Explicit is set when the path was chosen by the user; a missing
	// explicit file is an error, a missing default file is not.
	Explicit   bool
	Logger     *logging.Logger
	Definition *Definition

	// Store, when set, is used instead of the store named in the
	// definition.
	Store store.Store
}

// Definition represents the kcquery.yaml structure
type Definition struct {
	Version       int                `yaml:"version"`
	Store         string             `yaml:"store,omitempty"`
	ServicePrefix string             `yaml:"service_prefix,omitempty"`
	DefaultType   string             `yaml:"default_type,omitempty"`
	Platform      *PlatformOverrides `yaml:"platform,omitempty"`
}

// PlatformOverrides replaces entries of the default platform table. Map
// keys are data type, criterion key and match limit names.
type PlatformOverrides struct {
	Classes     map[string]string `yaml:"classes,omitempty"`
	Attributes  map[string]string `yaml:"attributes,omitempty"`
	MatchLimits map[string]string `yaml:"match_limits,omitempty"`
	Statuses    *StatusOverrides  `yaml:"statuses,omitempty"`
}

// StatusOverrides replaces the success and item-not-found status codes.
type StatusOverrides struct {
	Success      *int32 `yaml:"success,omitempty"`
	ItemNotFound *int32 `yaml:"item_not_found,omitempty"`
}

// Load reads, validates and parses the configuration file
func (c *Config) Load() error {
	if c.Path == "" {
		c.Path = DefaultPath
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			if !c.Explicit {
				c.debug("no configuration at %s, using defaults", c.Path)
				c.Definition = &Definition{}
				return nil
			}
			return kqerrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Check the --config path or omit it to use defaults",
			}
		}
		return kqerrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	def, err := Parse(data)
	if err != nil {
		return err
	}
	c.Definition = def
	c.debug("loaded configuration from %s", c.Path)
	return nil
}

// Parse validates raw YAML against the configuration schema and decodes it
func Parse(data []byte) (*Definition, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, kqerrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}
	if raw == nil {
		return &Definition{}, nil
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, kqerrors.ConfigError{
			Message:    "configuration does not match the expected structure",
			Suggestion: err.Error(),
		}
	}
	if _, err := def.Platform.Apply(kq.DefaultPlatform()); err != nil {
		return nil, err
	}
	if _, err := def.DataType(); err != nil {
		return nil, err
	}
	return &def, nil
}

func validateSchema(raw interface{}) error {
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errorMessages []string
	for _, desc := range result.Errors() {
		errorMessages = append(errorMessages, desc.String())
	}
	sort.Strings(errorMessages)
	return kqerrors.ConfigError{
		Message:    "schema validation failed:\n  - " + strings.Join(errorMessages, "\n  - "),
		Suggestion: "Supported keys are version, store, service_prefix, default_type and platform",
	}
}

// DataType returns the configured default item class
func (d *Definition) DataType() (kq.DataType, error) {
	if d == nil || d.DefaultType == "" {
		return kq.GenericPassword, nil
	}
	t, err := kq.ParseDataType(d.DefaultType)
	if err != nil {
		return 0, kqerrors.ConfigError{
			Field:      "default_type",
			Value:      d.DefaultType,
			Message:    err.Error(),
			Suggestion: "Use one of: " + dataTypeNames(),
		}
	}
	return t, nil
}

// Apply overlays the overrides on base and validates the result. A nil
// receiver returns base unchanged.
func (o *PlatformOverrides) Apply(base kq.Platform) (kq.Platform, error) {
	if o == nil {
		return base, nil
	}
	p := base.Clone()

	for name, tag := range o.Classes {
		t, err := kq.ParseDataType(name)
		if err != nil {
			return kq.Platform{}, kqerrors.ConfigError{
				Field:      "platform.classes",
				Value:      name,
				Message:    err.Error(),
				Suggestion: "Use one of: " + dataTypeNames(),
			}
		}
		p.Classes[t] = tag
	}
	for name, attr := range o.Attributes {
		k, err := kq.ParseKey(name)
		if err != nil {
			return kq.Platform{}, kqerrors.ConfigError{
				Field:      "platform.attributes",
				Value:      name,
				Message:    err.Error(),
				Suggestion: "Use one of: class, account, service, value-data, match-limit, return-attributes, return-data",
			}
		}
		p.Attributes[k] = attr
	}
	for name, tag := range o.MatchLimits {
		l, err := kq.ParseMatchLimit(name)
		if err != nil {
			return kq.Platform{}, kqerrors.ConfigError{
				Field:   "platform.match_limits",
				Value:   name,
				Message: err.Error(),
			}
		}
		p.MatchLimits[l] = tag
	}
	if o.Statuses != nil {
		if o.Statuses.Success != nil {
			p.Success = kq.Status(*o.Statuses.Success)
		}
		if o.Statuses.ItemNotFound != nil {
			p.ItemNotFound = kq.Status(*o.Statuses.ItemNotFound)
		}
	}

	if err := p.Validate(); err != nil {
		return kq.Platform{}, kqerrors.ConfigError{
			Field:   "platform",
			Message: err.Error(),
		}
	}
	return p, nil
}

// Platform returns the effective platform table
func (c *Config) Platform() (kq.Platform, error) {
	if c.Definition == nil {
		return kq.DefaultPlatform(), nil
	}
	return c.Definition.Platform.Apply(kq.DefaultPlatform())
}

// NewClient builds the keychain client described by the configuration.
// extra options are applied last and override the configured values.
func (c *Config) NewClient(extra ...keychain.Option) (*keychain.Client, error) {
	if c.Definition == nil {
		return nil, kqerrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is an internal error. Please report it",
		}
	}

	platform, err := c.Platform()
	if err != nil {
		return nil, err
	}
	dataType, err := c.Definition.DataType()
	if err != nil {
		return nil, err
	}

	storeName := c.Definition.Store
	if storeName == "" {
		storeName = "keyring"
	}

	st := c.Store
	if st == nil {
		switch storeName {
		case "keyring":
			st = store.NewKeyring(platform)
		default:
			return nil, kqerrors.ConfigError{
				Field:      "store",
				Value:      c.Definition.Store,
				Message:    "unknown store",
				Suggestion: "Set 'store: keyring' or remove the field",
			}
		}
	}

	opts := []keychain.Option{
		keychain.WithPlatform(platform),
		keychain.WithDataType(dataType),
		keychain.WithServicePrefix(c.Definition.ServicePrefix),
		keychain.WithRecorder(metrics.Default()),
	}
	if c.Logger != nil {
		opts = append(opts, keychain.WithLogger(c.Logger.With("store", storeName)))
	}
	opts = append(opts, extra...)
	return keychain.New("keychain", st, opts...), nil
}

func (c *Config) debug(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Debug(format, args...)
	}
}

func dataTypeNames() string {
	names := make([]string, 0, len(kq.DataTypes()))
	for _, t := range kq.DataTypes() {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}
