package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/keychainquery/internal/config"
)

func NewDescribeCommand(cfg *config.Config) *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "describe <service/account>",
		Short: "Show whether an item exists without printing its value",
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

			md, err := client.Describe(cmd.Context(), ref)
			if err != nil {
				return userError("describe", ref, err)
			}

			output := map[string]interface{}{"exists": md.Exists}
			if md.Exists {
				output["service"] = md.Service
				output["account"] = md.Account
				output["type"] = md.Type
				output["size"] = md.Size
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(output); err != nil {
				return fmt.Errorf("failed to encode JSON: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "", "Item type (default from config, generic-password)")

	return cmd
}
