package commands

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/systmms/keychainquery/internal/config"
	kqerrors "github.com/systmms/keychainquery/internal/errors"
)

func NewSetCommand(cfg *config.Config) *cobra.Command {
	var (
		typeName  string
		value     string
		fromStdin bool
		replace   bool
	)

	cmd := &cobra.Command{
		Use:   "set <service/account>",
		Short: "Store a secret value",
		Long: `Store a keychain item.

The value is taken from --value or, with --stdin, from standard input.
An existing item is only overwritten with --replace.

Examples:
  kcquery set myapp/api-key --value s3cr3t
  printf '%s' "$TOKEN" | kcquery set myapp/token --stdin --replace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}

			var data []byte
			switch {
			case fromStdin && cmd.Flags().Changed("value"):
				return kqerrors.UserError{
					Message:    "--value and --stdin are mutually exclusive",
					Suggestion: "Pass the secret one way only",
				}
			case fromStdin:
				data, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
			case cmd.Flags().Changed("value"):
				if !utf8.ValidString(value) {
					return kqerrors.UserError{
						Message:    "--value is not valid UTF-8",
						Suggestion: "Pass binary values with --stdin",
					}
				}
				data = []byte(value)
				cfg.Logger.Warn("--value may be kept in shell history; prefer --stdin")
			default:
				return kqerrors.UserError{
					Message:    "No value given",
					Suggestion: "Use --value <secret> or --stdin",
				}
			}

			client, err := loadClient(cfg, typeName)
			if err != nil {
				return err
			}

			if err := client.Set(cmd.Context(), ref, data, replace); err != nil {
				return userError("set", ref, err)
			}
			cfg.Logger.Info("Stored %s", ref)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "", "Item type (default from config, generic-password)")
	cmd.Flags().StringVar(&value, "value", "", "Secret value")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the secret value from standard input")
	cmd.Flags().BoolVar(&replace, "replace", false, "Overwrite an existing item")

	return cmd
}
