package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/keychainquery/internal/config"
	kqerrors "github.com/systmms/keychainquery/internal/errors"
	"github.com/systmms/keychainquery/internal/keychain"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the configuration and keychain availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			client, err := loadClient(cfg, "")
			if err != nil {
				_, _ = fmt.Fprintf(out, "✗ configuration: %v\n", err)
				return err
			}
			_, _ = fmt.Fprintf(out, "✓ configuration: %s\n", describePath(cfg))

			if err := client.Validate(cmd.Context()); err != nil {
				_, _ = fmt.Fprintf(out, "✗ %s: %v\n", client.Name(), err)
				suggestion := "Unlock the keychain or start a secret service"
				if errors.Is(err, keychain.ErrHeadless) {
					suggestion = "Run kcquery from a desktop session"
				}
				return kqerrors.UserError{
					Message:    "Keychain is not usable",
					Suggestion: suggestion,
					Err:        err,
				}
			}
			_, _ = fmt.Fprintf(out, "✓ %s: available\n", client.Name())
			return nil
		},
	}
}

func describePath(cfg *config.Config) string {
	return fmt.Sprintf("%s (version %d)", cfg.Path, cfg.Definition.Version)
}
