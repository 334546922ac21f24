package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/watercolor/display"
	"github.com/teranos/watercolor/registry"
	"github.com/teranos/watercolor/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show watercolor version information",
		Long:  `Display version, build time, commit hash, registry data version and platform information.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get().WithRegistry(registry.Default().Version())
			if display.ShouldOutputJSON(cmd) {
				return display.WriteJSON(cmd.OutOrStdout(), info)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, info.String())
			fmt.Fprintf(out, "Platform: %s\n", info.Platform)
			fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
			return nil
		},
	}
}
