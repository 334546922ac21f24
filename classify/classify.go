// Package classify picks the best-matching style, hydrology and substrate
// for free text. Each category is classified independently; text that
// matches nothing yields the registry default at zero confidence.
package classify

import (
	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/registry"
)

// Candidate is one scored taxonomy member.
type Candidate struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Match is the classification of one category.
type Match struct {
	ID         string      `json:"id"`
	Confidence float64     `json:"confidence"`
	Score      float64     `json:"score"`
	Matched    []string    `json:"matched,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// Result holds one Match per classified category. Categories excluded by a
// filter are nil.
type Result struct {
	Style     *Match `json:"style,omitempty"`
	Hydrology *Match `json:"hydrology,omitempty"`
	Substrate *Match `json:"substrate,omitempty"`
}

// Classifier classifies text against a registry.
type Classifier struct {
	reg *registry.Registry
}

// New returns a classifier over reg.
func New(reg *registry.Registry) *Classifier {
	return &Classifier{reg: reg}
}

// Classify scores text for every category, or only for category when it
// is non-empty. Accepted filters are style, hydrology and substrate.
func (c *Classifier) Classify(text string, category registry.Category) (Result, error) {
	var res Result
	switch category {
	case "":
		res.Style = c.Style(text)
		res.Hydrology = c.entry(text, registry.CategoryHydrology)
		res.Substrate = c.entry(text, registry.CategorySubstrate)
	case registry.CategoryStyle:
		res.Style = c.Style(text)
	case registry.CategoryHydrology, registry.CategorySubstrate:
		m := c.entry(text, category)
		if category == registry.CategoryHydrology {
			res.Hydrology = m
		} else {
			res.Substrate = m
		}
	default:
		return Result{}, errors.NewInvalidArgument("category filter %q: want style, hydrology or substrate", category)
	}
	return res, nil
}

// Style classifies text against the visual types.
func (c *Classifier) Style(text string) *Match {
	return best(c.reg.VisualMatcher().Score(text), c.reg.VisualTypeIDs(), c.reg.DefaultStyle())
}

func (c *Classifier) entry(text string, category registry.Category) *Match {
	t := c.reg.MustTaxonomy(category)
	return best(t.Matcher().Score(text), t.IDs(), t.Default)
}

// best picks the top candidate. Confidence is best/(best+second); ties
// keep registry order.
func best(scores registry.Scores, ids []string, def string) *Match {
	ranked := scores.Ranked()
	top := ranked[0]
	if scores.Values[top] == 0 {
		return &Match{ID: def}
	}

	var second float64
	if len(ranked) > 1 {
		second = scores.Values[ranked[1]]
	}

	m := &Match{
		ID:         ids[top],
		Score:      scores.Values[top],
		Confidence: scores.Values[top] / (scores.Values[top] + second),
		Matched:    scores.Matched[top],
	}
	for _, i := range ranked {
		if scores.Values[i] == 0 {
			break
		}
		m.Candidates = append(m.Candidates, Candidate{ID: ids[i], Score: scores.Values[i]})
	}
	return m
}
