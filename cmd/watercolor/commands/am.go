package commands

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/watercolor/am"
	"github.com/teranos/watercolor/display"
	"github.com/teranos/watercolor/errors"
)

func newAmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "am",
		Short: "Manage watercolor configuration",
		Long: `am: manage watercolor configuration ("I am")

Configuration sources (in order of precedence):
1. Environment variables (WATERCOLOR_* prefix)
2. Project config (./am.toml, searched up directories)
3. User config (~/.watercolor/am.toml)
4. System config (/etc/watercolor/am.toml)
5. Default values

Examples:
  watercolor am show                       # Show current configuration
  watercolor am show --format json         # Show configuration in JSON format
  watercolor am get vocabulary.top_n       # Get specific config value
  watercolor am set attractor.keyframes 6  # Write to ~/.watercolor/am.toml
  watercolor am validate                   # Validate current configuration`,
	}
	cmd.AddCommand(newAmShowCmd(), newAmGetCmd(), newAmSetCmd(), newAmValidateCmd(), newAmWhereCmd())
	return cmd
}

func newAmShowCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current watercolor configuration merged from all sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := am.GetViper().AllSettings()
			out := cmd.OutOrStdout()

			switch format {
			case "json":
				return display.WriteJSON(out, settings)

			case "yaml":
				data, err := yaml.Marshal(settings)
				if err != nil {
					return errors.Wrap(err, "failed to marshal config to YAML")
				}
				fmt.Fprintf(out, "# watercolor configuration\n%s", data)

			case "toml":
				data, err := toml.Marshal(settings)
				if err != nil {
					return errors.Wrap(err, "failed to marshal config to TOML")
				}
				fmt.Fprintf(out, "# watercolor configuration\n%s", data)

			default:
				return errors.NewInvalidArgument("unsupported format: %s (supported: toml, json, yaml)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")
	return cmd
}

func newAmGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific configuration value",
		Long:  "Get a specific configuration value using dot notation (e.g., vocabulary.top_n, registry.path)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !am.IsSet(key) {
				return errors.NewUnknownIdentifier("config key", key, am.KnownKeys())
			}
			fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
			return nil
		},
	}
}

func newAmSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write a configuration value to the user config",
		Long: `Write a value to ~/.watercolor/am.toml. The previous file is kept as
.back1 (up to three backups). Numbers and booleans are stored typed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := am.Set(args[0], parseValue(args[1])); err != nil {
				return err
			}
			cfg, err := am.Load()
			if err != nil {
				return errors.Wrap(err, "failed to reload config")
			}
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: configuration is now invalid: %v\n", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v (%s)\n", args[0], am.Get(args[0]), am.UserConfigPath())
			return nil
		},
	}
}

// parseValue types a command-line value: int, then float, then bool, else string
func parseValue(raw string) interface{} {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func newAmValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := am.Load()
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
			return nil
		},
	}
}

func newAmWhereCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Show where configuration is loaded from",
		Long: `Show the configuration cascade and which files were checked.

Lists all configuration files in order of precedence, showing
which exist, then every setting grouped by the source it came from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			intro, err := am.GetConfigIntrospection()
			if err != nil {
				return errors.Wrap(err, "failed to get config introspection")
			}
			if display.ShouldOutputJSON(cmd) {
				return display.WriteJSON(cmd.OutOrStdout(), intro)
			}
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
			fmt.Fprintln(out, "  [DEFAULT]  Built-in defaults")
			for _, cp := range am.ConfigPaths() {
				mark := "missing"
				if cp.Exists {
					mark = "found"
				}
				fmt.Fprintf(out, "  [%s]  %s (%s)\n", cp.Source, cp.Path, mark)
			}
			fmt.Fprintln(out, "  [ENVIRONMENT]  WATERCOLOR_* environment variables")
			fmt.Fprintln(out)

			bySource := make(map[am.ConfigSource][]am.SettingInfo)
			for _, s := range intro.Settings {
				bySource[s.Source] = append(bySource[s.Source], s)
			}
			fmt.Fprintln(out, "Active configuration:")
			for _, source := range []am.ConfigSource{am.SourceDefault, am.SourceSystem, am.SourceUser, am.SourceProject, am.SourceEnvironment} {
				settings := bySource[source]
				if len(settings) == 0 {
					continue
				}
				sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
				fmt.Fprintf(out, "\n%s: %d settings\n", source, len(settings))
				for _, s := range settings {
					valueStr := fmt.Sprintf("%v", s.Value)
					if len(valueStr) > 50 {
						valueStr = valueStr[:47] + "..."
					}
					if s.SourcePath != "" {
						fmt.Fprintf(out, "  %s = %s  (%s)\n", s.Key, valueStr, s.SourcePath)
					} else {
						fmt.Fprintf(out, "  %s = %s\n", s.Key, valueStr)
					}
				}
			}
			return nil
		},
	}
}
