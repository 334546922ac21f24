package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/watercolor/attractor"
	"github.com/teranos/watercolor/classify"
	"github.com/teranos/watercolor/decompose"
	"github.com/teranos/watercolor/dissolution"
	"github.com/teranos/watercolor/mapper"
	"github.com/teranos/watercolor/roundtrip"
	"github.com/teranos/watercolor/space"
	"github.com/teranos/watercolor/trajectory"
)

func num(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

func stateCells(s space.State) []string {
	out := make([]string, space.Dims)
	for i, v := range s {
		out[i] = num(v)
	}
	return out
}

func stateHeader(prefix ...string) []string {
	return append(prefix, space.AxisNames()...)
}

func render(w io.Writer, data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// Classification renders one row per classified category
func Classification(w io.Writer, res classify.Result) error {
	data := pterm.TableData{{"category", "id", "confidence", "matched"}}
	add := func(name string, m *classify.Match) {
		if m != nil {
			data = append(data, []string{name, m.ID, num(m.Confidence), strings.Join(m.Matched, ", ")})
		}
	}
	add("style", res.Style)
	add("hydrology", res.Hydrology)
	add("substrate", res.Substrate)
	return render(w, data)
}

// Decomposition renders the recovered coordinates and each contributing state
func Decomposition(w io.Writer, res decompose.Result) error {
	fmt.Fprintf(w, "nearest %s (distance %s, confidence %s)\n", res.NearestType, num(res.Distance), num(res.Confidence))
	if err := States(w, []space.State{res.Coordinates}); err != nil {
		return err
	}
	if len(res.Components) == 0 {
		return nil
	}
	data := pterm.TableData{{"state", "score", "weight", "matched"}}
	for _, c := range res.Components {
		data = append(data, []string{c.ID, num(c.Score), num(c.Weight), strings.Join(c.Matched, ", ")})
	}
	return render(w, data)
}

// States renders one row per state
func States(w io.Writer, states []space.State) error {
	data := pterm.TableData{stateHeader("#")}
	for i, s := range states {
		data = append(data, append([]string{fmt.Sprint(i)}, stateCells(s)...))
	}
	return render(w, data)
}

// Steps renders an annotated sequence
func Steps(w io.Writer, steps []trajectory.Step) error {
	data := pterm.TableData{stateHeader("step", "t", "nearest")}
	for _, st := range steps {
		row := []string{fmt.Sprint(st.Index), num(st.T), st.NearestType}
		data = append(data, append(row, stateCells(st.State)...))
	}
	return render(w, data)
}

// Distance renders a per-axis comparison, largest change first
func Distance(w io.Writer, rep dissolution.DistanceReport) error {
	fmt.Fprintf(w, "%s → %s: %s (%s of max), dominant %s\n",
		rep.From, rep.To, num(rep.Distance), num(rep.Normalized), rep.Dominant)
	data := pterm.TableData{{"axis", "delta"}}
	for _, d := range rep.Deltas {
		data = append(data, []string{d.Axis, num(d.Delta)})
	}
	return render(w, data)
}

// Vocabulary renders the ranked keywords of every category
func Vocabulary(w io.Writer, v mapper.Vocabulary) error {
	data := pterm.TableData{{"category", "keywords"}}
	for _, cv := range v.Categories {
		data = append(data, []string{string(cv.Category), strings.Join(cv.Terms(), ", ")})
	}
	return render(w, data)
}

// Parameters renders a mapped style
func Parameters(w io.Writer, p mapper.Parameters) error {
	data := pterm.TableData{
		{"field", "value"},
		{"style", p.Style},
		{"intensity", p.Intensity},
		{"emphasis", p.Emphasis},
		{"nearest", fmt.Sprintf("%s (%s)", p.NearestType, num(p.NearestDistance))},
		{"hydrology", p.Hydrology},
		{"substrate", p.Substrate},
		{"contrast", p.ContrastCurve},
	}
	for i, a := range space.AxisNames() {
		data = append(data, []string{a, num(p.State[i])})
	}
	for _, ew := range p.EdgeDistribution {
		data = append(data, []string{"edge " + ew.ID, num(ew.Weight)})
	}
	data = append(data, []string{"characteristics", strings.Join(p.Characteristics, "; ")})
	return render(w, data)
}

// Attractor renders an assembled prompt basis
func Attractor(w io.Writer, res attractor.Result) error {
	fmt.Fprintf(w, "mode %s, nearest %s\n%s\n", res.Mode, res.NearestType, res.Prompt)
	data := pterm.TableData{{"preset", "distance", "basin", "weight"}}
	for _, a := range res.Active {
		name := a.ID
		if a.Forced {
			name += " (forced)"
		}
		data = append(data, []string{name, num(a.Distance), num(a.BasinRadius), num(a.Weight)})
	}
	if err := render(w, data); err != nil {
		return err
	}
	if res.Basis != nil {
		return Vocabulary(w, *res.Basis)
	}
	return Keyframes(w, res.Keyframes)
}

// Enhancement renders an enhancement bundle: the style decision and prompt,
// then the parameters and vocabulary tables.
func Enhancement(w io.Writer, en dissolution.Enhancement) error {
	fmt.Fprintf(w, "detected %s (%s), applied %s", en.DetectedStyle, num(en.Confidence), en.AppliedStyle)
	if en.OverrideIgnored {
		fmt.Fprint(w, ", override ignored")
	}
	fmt.Fprintf(w, "\n%s\n", en.Prompt)
	if err := Parameters(w, en.Parameters); err != nil {
		return err
	}
	return Vocabulary(w, en.Vocabulary)
}

// Keyframes renders keyframe prompts
func Keyframes(w io.Writer, frames []attractor.Keyframe) error {
	data := pterm.TableData{{"keyframe", "t", "nearest", "prompt"}}
	for _, k := range frames {
		data = append(data, []string{fmt.Sprint(k.Index), num(k.T), k.NearestType, k.Prompt})
	}
	return render(w, data)
}

// RoundTrip renders the per-type results and a pass/fail summary
func RoundTrip(w io.Writer, rep roundtrip.Report) error {
	data := pterm.TableData{{"type", "recovered", "error", "confidence"}}
	for _, tr := range rep.Types {
		data = append(data, []string{tr.ID, tr.NearestType, num(tr.Error), num(tr.Confidence)})
	}
	if err := render(w, data); err != nil {
		return err
	}
	status := "PASS"
	if !rep.Passed() {
		status = "FAIL"
	}
	_, err := fmt.Fprintf(w, "%s accuracy %s, mean error %s, max error %s\n",
		status, num(rep.Accuracy), num(rep.MeanError), num(rep.MaxError))
	return err
}
