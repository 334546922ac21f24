package registry

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/teranos/watercolor/errors"
)

// Keyword is one weighted vocabulary term.
type Keyword struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Vocabulary is an ordered keyword list. Order is the registry's order and
// breaks ties wherever keywords are ranked.
type Vocabulary []Keyword

// UnmarshalYAML decodes a YAML mapping of term: weight, keeping key order.
func (v *Vocabulary) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.NewInvalidArgument("line %d: vocabulary must be a mapping of term to weight", node.Line)
	}
	out := make(Vocabulary, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var w float64
		if err := val.Decode(&w); err != nil {
			return errors.NewInvalidArgument("line %d: weight for %q is not a number", val.Line, key.Value)
		}
		if w < 0 {
			return errors.NewInvalidArgument("line %d: weight for %q is negative (%v)", val.Line, key.Value, w)
		}
		if seen[key.Value] {
			return errors.NewInvalidArgument("line %d: duplicate vocabulary term %q", key.Line, key.Value)
		}
		seen[key.Value] = true
		out = append(out, Keyword{Term: key.Value, Weight: w})
	}
	*v = out
	return nil
}

// MarshalJSON encodes the vocabulary as an ordered list of {term, weight}.
func (v Vocabulary) MarshalJSON() ([]byte, error) {
	return json.Marshal([]Keyword(v))
}

// Terms returns the keyword terms in order.
func (v Vocabulary) Terms() []string {
	out := make([]string, len(v))
	for i, k := range v {
		out[i] = k.Term
	}
	return out
}

// Weight returns the weight of term, if present.
func (v Vocabulary) Weight(term string) (float64, bool) {
	for _, k := range v {
		if k.Term == term {
			return k.Weight, true
		}
	}
	return 0, false
}

// Leading returns up to n terms in order.
func (v Vocabulary) Leading(n int) []string {
	if n > len(v) {
		n = len(v)
	}
	return v[:n].Terms()
}
