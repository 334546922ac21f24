package display

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/watercolor/errors"
)

// MarshalJSON marshals JSON with compact formatting for agent callers,
// pretty formatting for human-readable output
func MarshalJSON(v interface{}) ([]byte, error) {
	// Tests always get pretty output
	if flag.Lookup("test.v") != nil {
		return json.MarshalIndent(v, "", "  ")
	}

	if IsAgentCaller() {
		return json.Marshal(v)
	}

	return json.MarshalIndent(v, "", "  ")
}

// ShouldOutputJSON determines if a command should output JSON based on flags and caller detection
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return IsAgentCaller()
	}

	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
		return true
	}

	return IsAgentCaller()
}

// WriteJSON marshals v with MarshalJSON and writes it to w
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// OutputJSON writes v to stdout
func OutputJSON(v interface{}) error {
	return WriteJSON(os.Stdout, v)
}
