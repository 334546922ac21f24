package registry

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, turns every non-alphanumeric rune into a
// separator and returns the resulting tokens.
func Normalize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

type posting struct {
	candidate int
	keyword   int // global keyword index, for once-only counting
	weight    float64
	term      string
	rest      []string // trailing tokens of a phrase; nil for single words
}

// Matcher scores text against the vocabularies of an ordered candidate list.
// Single-word keywords match whole tokens; phrases match whole-token runs.
// Each keyword counts at most once per text. Lookups are hashmap hits on the
// text's tokens, so scoring is linear in the token count.
type Matcher struct {
	candidates int
	keywords   int
	index      map[string][]posting
}

// NewMatcher indexes vocabs; vocabs[i] belongs to candidate i.
func NewMatcher(vocabs []Vocabulary) *Matcher {
	m := &Matcher{
		candidates: len(vocabs),
		index:      make(map[string][]posting),
	}
	for ci, vocab := range vocabs {
		for _, kw := range vocab {
			toks := Normalize(kw.Term)
			if len(toks) == 0 {
				continue
			}
			p := posting{
				candidate: ci,
				keyword:   m.keywords,
				weight:    kw.Weight,
				term:      strings.Join(toks, " "),
			}
			if len(toks) > 1 {
				p.rest = toks[1:]
			}
			m.index[toks[0]] = append(m.index[toks[0]], p)
			m.keywords++
		}
	}
	return m
}

// Scores holds per-candidate match results, indexed like the matcher's
// candidates.
type Scores struct {
	Values  []float64
	Matched [][]string
}

// Total is the sum of all candidate scores.
func (s Scores) Total() float64 {
	var t float64
	for _, v := range s.Values {
		t += v
	}
	return t
}

// Ranked returns candidate indexes by descending score. Ties keep
// candidate order.
func (s Scores) Ranked() []int {
	idx := make([]int, len(s.Values))
	for i := range idx {
		idx[i] = i
	}
	// insertion sort: stable and the candidate lists are small
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && s.Values[idx[j]] > s.Values[idx[j-1]]; j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
	return idx
}

// Score matches text against every candidate's vocabulary.
func (m *Matcher) Score(text string) Scores {
	out := Scores{
		Values:  make([]float64, m.candidates),
		Matched: make([][]string, m.candidates),
	}
	toks := Normalize(text)
	if len(toks) == 0 {
		return out
	}
	seen := make([]bool, m.keywords)
	for i, tok := range toks {
		for _, p := range m.index[tok] {
			if seen[p.keyword] || !hasRun(toks[i+1:], p.rest) {
				continue
			}
			seen[p.keyword] = true
			out.Values[p.candidate] += p.weight
			out.Matched[p.candidate] = append(out.Matched[p.candidate], p.term)
		}
	}
	return out
}

func hasRun(toks, want []string) bool {
	if len(want) > len(toks) {
		return false
	}
	for i, w := range want {
		if toks[i] != w {
			return false
		}
	}
	return true
}
