package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/keychainquery/internal/config"
	kq "github.com/systmms/keychainquery/pkg/keychainquery"
)

type platformView struct {
	Classes     map[string]string `json:"classes" yaml:"classes"`
	Attributes  map[string]string `json:"attributes" yaml:"attributes"`
	MatchLimits map[string]string `json:"match_limits" yaml:"match_limits"`
	Statuses    map[string]int32  `json:"statuses" yaml:"statuses"`
}

func NewPlatformCommand(cfg *config.Config) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Print the effective platform constant table",
		Long: `Print the platform constants queries are serialized with: item class
tags, attribute names, match limit tags and the success and item-not-found
status codes. Overrides from the configuration file are applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			p, err := cfg.Platform()
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), format, newPlatformView(p))
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format (json or yaml)")

	return cmd
}

func newPlatformView(p kq.Platform) platformView {
	v := platformView{
		Classes:     make(map[string]string, len(p.Classes)),
		Attributes:  make(map[string]string, len(p.Attributes)),
		MatchLimits: make(map[string]string, len(p.MatchLimits)),
		Statuses: map[string]int32{
			"success":        int32(p.Success),
			"item_not_found": int32(p.ItemNotFound),
		},
	}
	for t, tag := range p.Classes {
		v.Classes[t.String()] = tag
	}
	for k, name := range p.Attributes {
		v.Attributes[k.String()] = name
	}
	for l, tag := range p.MatchLimits {
		v.MatchLimits[l.String()] = tag
	}
	return v
}
