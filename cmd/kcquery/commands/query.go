package commands

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/systmms/keychainquery/internal/config"
	kqerrors "github.com/systmms/keychainquery/internal/errors"
	"github.com/systmms/keychainquery/internal/logging"
	kq "github.com/systmms/keychainquery/pkg/keychainquery"
)

type queryOptions struct {
	typeName         string
	service          string
	account          string
	data             string
	limit            string
	returnAttributes bool
	returnData       bool
	format           string
	showData         bool
	execute          bool
}

func NewQueryCommand(cfg *config.Config) *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Build a keychain query and print its attributes",
		Long: `Build a keychain query from flags and print the attribute map it
serializes to. Only the flags given are present in the query.

With --execute the query is run against the configured store and the
interpreted result is printed instead.

Examples:
  # Show the attributes of a lookup
  kcquery query --type generic-password --service myapp --account api-key --limit one --return-data

  # Run it
  kcquery query --service myapp --account api-key --limit one --return-data --execute --show-data`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "json" && opts.format != "yaml" {
				return kqerrors.UserError{
					Message:    fmt.Sprintf("Unknown output format '%s'", opts.format),
					Suggestion: "Use --format json or --format yaml",
				}
			}

			req, err := buildQuery(cmd, opts)
			if err != nil {
				return err
			}

			if err := cfg.Load(); err != nil {
				return err
			}

			if !opts.execute {
				platform, err := cfg.Platform()
				if err != nil {
					return err
				}
				attrs := req.Attributes(platform)
				if cfg.Logger.IsDebug() {
					cfg.Logger.Debug("query %s: %v", req, displayAttributes(attrs, platform, false))
				}
				return render(cmd.OutOrStdout(), opts.format, displayAttributes(attrs, platform, opts.showData))
			}

			client, err := cfg.NewClient()
			if err != nil {
				return err
			}
			res := client.Search(cmd.Context(), req)

			output := map[string]interface{}{"kind": res.Kind().String()}
			switch r := res.(type) {
			case kq.SingleMatch:
				if r.Item.Class.Valid() {
					output["type"] = r.Item.Class.String()
				}
				if r.Item.Service != "" {
					output["service"] = r.Item.Service
				}
				if r.Item.Account != "" {
					output["account"] = r.Item.Account
				}
				output["size"] = len(r.Item.Data)
				output["data"] = displayData(r.Item.Data, opts.showData)
			case kq.Failure:
				return kqerrors.StoreError("query", r.Err)
			}
			return render(cmd.OutOrStdout(), opts.format, output)
		},
	}

	cmd.Flags().StringVar(&opts.typeName, "type", "", "Item type criterion")
	cmd.Flags().StringVar(&opts.service, "service", "", "Service criterion")
	cmd.Flags().StringVar(&opts.account, "account", "", "Account criterion")
	cmd.Flags().StringVar(&opts.data, "data", "", "Data criterion, as UTF-8 text")
	cmd.Flags().StringVar(&opts.limit, "limit", "", "Match limit (one or all)")
	cmd.Flags().BoolVar(&opts.returnAttributes, "return-attributes", false, "Request item attributes")
	cmd.Flags().BoolVar(&opts.returnData, "return-data", false, "Request item data")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Output format (json or yaml)")
	cmd.Flags().BoolVar(&opts.showData, "show-data", false, "Print value data instead of redacting it")
	cmd.Flags().BoolVar(&opts.execute, "execute", false, "Run the query against the configured store")

	return cmd
}

// buildQuery sets a criterion for every flag given on the command line
func buildQuery(cmd *cobra.Command, opts queryOptions) (kq.Request, error) {
	flags := cmd.Flags()

	q := kq.Empty()
	if flags.Changed("type") {
		t, err := parseDataType(opts.typeName)
		if err != nil {
			return kq.Request{}, err
		}
		q = kq.New(t)
	}
	if flags.Changed("service") {
		q = q.WithService(opts.service)
	}
	if flags.Changed("account") {
		q = q.WithAccount(opts.account)
	}
	if flags.Changed("data") {
		var err error
		q, err = q.WithDataStringStrict(opts.data)
		if err != nil {
			return kq.Request{}, kqerrors.UserError{
				Message: "--data is not valid UTF-8",
				Err:     err,
			}
		}
	}
	if flags.Changed("limit") {
		l, err := kq.ParseMatchLimit(opts.limit)
		if err != nil {
			return kq.Request{}, kqerrors.UserError{
				Message:    err.Error(),
				Suggestion: "Use --limit one or --limit all",
				Err:        err,
			}
		}
		q = q.WithMatchLimit(l)
	}
	if flags.Changed("return-attributes") {
		q = q.WithReturnAttributes(opts.returnAttributes)
	}
	if flags.Changed("return-data") {
		q = q.WithReturnData(opts.returnData)
	}
	return q.Build(), nil
}

// displayAttributes replaces the binary value data with printable text
func displayAttributes(attrs kq.Attributes, p kq.Platform, show bool) map[string]interface{} {
	dataKey := p.AttributeName(kq.KeyValueData)
	out := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		if b, ok := v.([]byte); ok && k == dataKey {
			out[k] = displayData(b, show)
			continue
		}
		out[k] = v
	}
	return out
}

func displayData(data []byte, show bool) interface{} {
	switch {
	case !show:
		return logging.Secret(data)
	case utf8.Valid(data):
		return string(data)
	default:
		return "base64:" + base64.StdEncoding.EncodeToString(data)
	}
}

func render(w io.Writer, format string, v interface{}) error {
	if format == "yaml" {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return encoder.Close()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
