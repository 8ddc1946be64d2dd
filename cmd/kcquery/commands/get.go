package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/keychainquery/internal/config"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var (
		typeName   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "get <service/account>",
		Short: "Get a single secret value",
		Long: `Retrieve and display a single keychain item.

By default only the raw value is printed, making it suitable for scripting.

Examples:
  # Get a single value
  kcquery get myapp/api-key

  # Get value with metadata in JSON format
  kcquery get myapp/api-key --json

  # Use in scripts
  export API_KEY=$(kcquery get myapp/api-key)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}

			client, err := loadClient(cfg, typeName)
			if err != nil {
				return err
			}

			payload, err := client.GetSecure(cmd.Context(), ref)
			if err != nil {
				return userError("get", ref, err)
			}
			defer payload.Destroy()

			out := cmd.OutOrStdout()
			return payload.With(func(value []byte) error {
				if !jsonOutput {
					_, err := out.Write(value)
					return err
				}

				output := map[string]interface{}{
					"service": ref.Service,
					"account": ref.Account,
					"value":   string(value),
				}
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(output); err != nil {
					return fmt.Errorf("failed to encode JSON: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "", "Item type (default from config, generic-password)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format with metadata")

	return cmd
}
