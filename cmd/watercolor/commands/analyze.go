package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/watercolor/display"
	"github.com/teranos/watercolor/dissolution"
	"github.com/teranos/watercolor/mapper"
)

func newClassifyCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "classify <text...>",
		Short: "Classify an aesthetic intent into style, hydrology and substrate",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			res, err := e.Classify(joinArgs(args), category)
			if err != nil {
				return err
			}
			return emit(cmd, res, func(w io.Writer) error { return display.Classification(w, res) })
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Restrict to style, hydrology or substrate")
	return cmd
}

func newEnhanceCmd() *cobra.Command {
	var opts dissolution.EnhanceOptions
	cmd := &cobra.Command{
		Use:   "enhance <text...>",
		Short: "Bundle classification, parameters, prompt and vocabulary for an intent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			en, err := e.Enhance(joinArgs(args), opts)
			if err != nil {
				return err
			}
			return emit(cmd, en, func(w io.Writer) error { return display.Enhancement(w, en) })
		},
	}
	cmd.Flags().StringVar(&opts.Style, "style", "", "Visual type to use instead of the detected style")
	cmd.Flags().StringVar(&opts.Substrate, "substrate", "", "hot_press, cold_press, rough, yupo or masa")
	cmd.Flags().StringVar(&opts.Intensity, "intensity", "", "subtle, moderate or dramatic")
	cmd.Flags().StringVar(&opts.Modifier, "modifier", "", "Free text appended to the prompt")
	return cmd
}

func newDecomposeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decompose <text...>",
		Short: "Recover 5D coordinates from a description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			res := e.Decompose(joinArgs(args))
			return emit(cmd, res, func(w io.Writer) error { return display.Decomposition(w, res) })
		},
	}
}

func newMapCmd() *cobra.Command {
	var opts mapper.Options
	cmd := &cobra.Command{
		Use:   "map <style>",
		Short: "Expand a visual type into its full parameter bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			p, err := e.MapParameters(args[0], opts)
			if err != nil {
				return err
			}
			return emit(cmd, p, func(w io.Writer) error { return display.Parameters(w, p) })
		},
	}
	cmd.Flags().StringVar(&opts.Intensity, "intensity", "", "subtle, moderate or dramatic")
	cmd.Flags().StringVar(&opts.Emphasis, "emphasis", "", "dissolution, edge, substrate, hydrology or balanced")
	cmd.Flags().StringVar(&opts.Hydrology, "hydrology", "", "Override the hydrology state")
	cmd.Flags().StringVar(&opts.Substrate, "substrate", "", "Override the substrate")
	return cmd
}

func newVocabCmd() *cobra.Command {
	var (
		state string
		topN  int
	)
	cmd := &cobra.Command{
		Use:   "vocab [state-id]",
		Short: "Blend descriptive vocabulary for a state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			s, err := stateFromArgs(e, state, args)
			if err != nil {
				return err
			}
			v, err := e.ExtractVocabulary(s, topN)
			if err != nil {
				return err
			}
			return emit(cmd, v, func(w io.Writer) error { return display.Vocabulary(w, v) })
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "Coordinates: JSON object, JSON array or comma-separated values")
	cmd.Flags().IntVar(&topN, "top-n", 0, "Keywords per category (default: vocabulary.top_n)")
	return cmd
}

func newDistanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distance <from> <to>",
		Short: "Distance and per-axis difference between two named states",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			rep, err := e.DistanceByID(args[0], args[1])
			if err != nil {
				return err
			}
			return emit(cmd, rep, func(w io.Writer) error { return display.Distance(w, rep) })
		},
	}
}
