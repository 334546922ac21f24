// Package commands implements the watercolor CLI.
package commands

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/watercolor/am"
	"github.com/teranos/watercolor/dissolution"
	"github.com/teranos/watercolor/display"
	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/logger"
	"github.com/teranos/watercolor/space"
)

// NewRootCmd builds the watercolor command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "watercolor",
		Short: "Watercolor dissolution parameter space",
		Long: `watercolor maps aesthetic descriptions onto a 5D space describing how a
photographic image dissolves into watercolor abstraction.

Axes: dissolution_rate, edge_coherence, substrate_visibility,
pigment_hydrology, anchor_density (each in [0, 1]).

Examples:
  watercolor classify "loose painterly watercolor with blooming wet effects"
  watercolor distance editorial_wash full_dissolution
  watercolor trajectory editorial_wash chromatic_flood --steps 5
  watercolor preset fidelity_breathing
  watercolor validate
  watercolor serve                # MCP over stdio`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// am show prints the raw config and must not depend on it parsing
			if cmd.Name() == "show" {
				return nil
			}
			return initLogger(cmd)
		},
	}

	root.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	root.PersistentFlags().Bool("json", false, "Output results as JSON")

	root.AddCommand(
		newClassifyCmd(),
		newDecomposeCmd(),
		newEnhanceCmd(),
		newMapCmd(),
		newVocabCmd(),
		newDistanceCmd(),
		newTrajectoryCmd(),
		newAttractorCmd(),
		newRhythmCmd(),
		newOscillateCmd(),
		newPresetCmd(),
		newKeyframesCmd(),
		newValidateCmd(),
		newServeCmd(),
		newAmCmd(),
		newVersionCmd(),
	)
	return root
}

func initLogger(cmd *cobra.Command) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	jsonLogs := false
	if cfg, err := am.Load(); err == nil {
		jsonLogs = cfg.Log.JSON
		if verbosity == 0 {
			verbosity = cfg.Log.Verbosity
		}
	}
	if err := logger.Initialize(jsonLogs, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	return nil
}

// loadEngine builds an engine from the loaded configuration
func loadEngine(cmd *cobra.Command) (*dissolution.Engine, *am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load config")
	}
	e, err := dissolution.FromConfig(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return e, cfg, nil
}

// emit writes v as JSON when requested, otherwise renders it with table
func emit(cmd *cobra.Command, v interface{}, table func(io.Writer) error) error {
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), v)
	}
	return table(cmd.OutOrStdout())
}

// parseState accepts a JSON axis object, a JSON array or comma-separated values
func parseState(raw string) (space.State, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") {
		var s space.State
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return space.State{}, err
		}
		return s, nil
	}
	parts := strings.Split(raw, ",")
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return space.State{}, errors.NewInvalidState("value %d %q is not a number", i+1, p)
		}
		values[i] = v
	}
	return space.New(values...)
}

// stateFromArgs resolves --state when given, otherwise the single id argument
func stateFromArgs(e *dissolution.Engine, stateFlag string, args []string) (space.State, error) {
	if stateFlag != "" {
		return parseState(stateFlag)
	}
	if len(args) != 1 {
		return space.State{}, errors.NewInvalidArgument("provide a state id or --state")
	}
	return e.Resolve(args[0])
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
