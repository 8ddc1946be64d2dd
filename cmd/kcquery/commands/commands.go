package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/keychainquery/internal/config"
	kqerrors "github.com/systmms/keychainquery/internal/errors"
	"github.com/systmms/keychainquery/internal/keychain"
	kq "github.com/systmms/keychainquery/pkg/keychainquery"
)

// AddCommands registers every kcquery subcommand on root
func AddCommands(root *cobra.Command, cfg *config.Config) {
	root.AddCommand(
		NewGetCommand(cfg),
		NewDescribeCommand(cfg),
		NewSetCommand(cfg),
		NewDeleteCommand(cfg),
		NewQueryCommand(cfg),
		NewPlatformCommand(cfg),
		NewDoctorCommand(cfg),
	)
}

// loadClient loads the configuration and builds a client, overriding the
// configured item class when typeName is set
func loadClient(cfg *config.Config, typeName string) (*keychain.Client, error) {
	if err := cfg.Load(); err != nil {
		return nil, err
	}

	var opts []keychain.Option
	if typeName != "" {
		t, err := parseDataType(typeName)
		if err != nil {
			return nil, err
		}
		opts = append(opts, keychain.WithDataType(t))
	}
	return cfg.NewClient(opts...)
}

func parseDataType(name string) (kq.DataType, error) {
	t, err := kq.ParseDataType(name)
	if err != nil {
		return 0, kqerrors.UserError{
			Message:    fmt.Sprintf("Unknown item type '%s'", name),
			Suggestion: "Use one of: internet-password, generic-password, certificate, key, identity",
			Err:        err,
		}
	}
	return t, nil
}

func parseRef(arg string) (keychain.Reference, error) {
	ref, err := keychain.ParseReference(arg)
	if err != nil {
		return keychain.Reference{}, kqerrors.UserError{
			Message:    "Invalid keychain reference",
			Details:    err.Error(),
			Suggestion: "Use service/account, for example: kcquery get myapp/api-key",
			Err:        err,
		}
	}
	return ref, nil
}

// userError turns client errors into errors with suggestions for the user
func userError(op string, ref keychain.Reference, err error) error {
	switch {
	case errors.Is(err, keychain.ErrItemNotFound):
		return kqerrors.UserError{
			Message:    fmt.Sprintf("No keychain item for %s", ref),
			Suggestion: kqerrors.StatusSuggestion(kq.StatusItemNotFound),
			Err:        err,
		}
	case errors.Is(err, keychain.ErrDuplicateItem):
		return kqerrors.UserError{
			Message:    fmt.Sprintf("Keychain item %s already exists", ref),
			Suggestion: kqerrors.StatusSuggestion(kq.StatusDuplicateItem),
			Err:        err,
		}
	}
	return kqerrors.StoreError(op, err)
}
