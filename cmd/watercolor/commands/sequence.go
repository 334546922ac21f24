package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/watercolor/display"
	"github.com/teranos/watercolor/trajectory"
)

func newTrajectoryCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "trajectory <from> <to>",
		Short: "Interpolate between two named states",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cfg, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("steps") {
				steps = cfg.Trajectory.DefaultSteps
			}
			p, err := e.TrajectoryByID(args[0], args[1], steps)
			if err != nil {
				return err
			}
			return emit(cmd, p, func(w io.Writer) error { return display.Steps(w, p.Steps) })
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "States including both endpoints (default: trajectory.default_steps)")
	return cmd
}

func newAttractorCmd() *cobra.Command {
	var state, mode, modifier string
	cmd := &cobra.Command{
		Use:   "attractor [state-id]",
		Short: "Assemble a prompt basis from the attractor presets around a state",
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
			res, err := e.AttractorPrompt(s, mode, modifier)
			if err != nil {
				return err
			}
			return emit(cmd, res, func(w io.Writer) error { return display.Attractor(w, res) })
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "Coordinates: JSON object, JSON array or comma-separated values")
	cmd.Flags().StringVar(&mode, "mode", "auto", "auto, composite, split or sequence")
	cmd.Flags().StringVar(&modifier, "modifier", "", "Style modifier appended to the prompt")
	return cmd
}

func newRhythmCmd() *cobra.Command {
	var (
		period int
		phase  float64
	)
	cmd := &cobra.Command{
		Use:   "rhythm <a> <b>",
		Short: "One sinusoidal cycle between two named states",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			p, err := e.RhythmicByID(args[0], args[1], period, phase)
			if err != nil {
				return err
			}
			return emit(cmd, p, func(w io.Writer) error { return display.Steps(w, p.Steps) })
		},
	}
	cmd.Flags().IntVar(&period, "period", 20, "States per cycle")
	cmd.Flags().Float64Var(&phase, "phase", 0, "Phase as a fraction of one cycle")
	return cmd
}

func newOscillateCmd() *cobra.Command {
	var (
		o       trajectory.Oscillation
		pattern string
	)
	cmd := &cobra.Command{
		Use:   "oscillate <a> <b>",
		Short: "Repeated sweeps between two named states",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			o.Pattern = trajectory.Pattern(pattern)
			p, err := e.Oscillate(args[0], args[1], o)
			if err != nil {
				return err
			}
			return emit(cmd, p, func(w io.Writer) error { return display.Steps(w, p.Steps) })
		},
	}
	cmd.Flags().IntVar(&o.Period, "period", 20, "Steps per cycle")
	cmd.Flags().IntVar(&o.Cycles, "cycles", 3, "Number of cycles")
	cmd.Flags().StringVar(&pattern, "pattern", string(trajectory.Sinusoidal), "sinusoidal, triangle or sawtooth")
	cmd.Flags().Float64Var(&o.Phase, "phase", 0, "Phase as a fraction of one cycle")
	return cmd
}

func newPresetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preset <name>",
		Short: "Run a named rhythmic preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			seq, err := e.ApplyPreset(args[0])
			if err != nil {
				return err
			}
			return emit(cmd, seq, func(w io.Writer) error {
				fmt.Fprintf(w, "%s: %s ↔ %s\n", seq.Preset.Name, seq.Preset.A, seq.Preset.B)
				return display.States(w, seq.States)
			})
		},
	}
}

func newKeyframesCmd() *cobra.Command {
	var (
		count    int
		modifier string
	)
	cmd := &cobra.Command{
		Use:   "keyframes <preset>",
		Short: "Keyframe prompts sampled from a rhythmic preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			pk, err := e.PresetKeyframes(args[0], count, modifier)
			if err != nil {
				return err
			}
			return emit(cmd, pk, func(w io.Writer) error { return display.Keyframes(w, pk.Keyframes) })
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "Number of keyframes (default: attractor.keyframes)")
	cmd.Flags().StringVar(&modifier, "modifier", "", "Style modifier appended to every prompt")
	return cmd
}
