package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/watercolor/display"
	"github.com/teranos/watercolor/errors"
)

// ErrRoundTripFailed is returned when the round trip misses its targets
var ErrRoundTripFailed = errors.New("round-trip validation failed")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Round-trip every visual type through its own vocabulary",
		Long: `Decode each visual type's vocabulary back into coordinates and compare
with its centroid. Fails unless all types are recovered with mean error
below 0.01 and every per-type error below 0.02.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			rep := e.ValidateRoundTrip()
			if err := emit(cmd, rep, func(w io.Writer) error { return display.RoundTrip(w, rep) }); err != nil {
				return err
			}
			if !rep.Passed() {
				return ErrRoundTripFailed
			}
			return nil
		},
	}
}
