package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/systmms/keychainquery/internal/config"
	"github.com/systmms/keychainquery/internal/keychain"
)

func NewDeleteCommand(cfg *config.Config) *cobra.Command {
	var (
		typeName      string
		ignoreMissing bool
	)

	cmd := &cobra.Command{
		Use:   "delete <service/account>",
		Short: "Delete a keychain item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}

			client, err := loadClient(cfg, typeName)
			if err != nil {
				return err
			}

			err = client.Delete(cmd.Context(), ref)
			if ignoreMissing && errors.Is(err, keychain.ErrItemNotFound) {
				cfg.Logger.Debug("%s already absent", ref)
				return nil
			}
			if err != nil {
				return userError("delete", ref, err)
			}
			cfg.Logger.Info("Deleted %s", ref)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "", "Item type (default from config, generic-password)")
	cmd.Flags().BoolVar(&ignoreMissing, "ignore-missing", false, "Succeed when the item does not exist")

	return cmd
}
