package dissolution

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/watercolor/mapper"
	"github.com/teranos/watercolor/registry"
)

// Every operation runs against the shared engine from many goroutines and
// must agree with a sequential run.
func TestConcurrentOperations(t *testing.T) {
	e := New(registry.Default(), Options{})
	want := e.ValidateRoundTrip()
	wantVocab, err := e.ExtractVocabulary(want.Types[0].Centroid, 0)
	require.NoError(t, err)

	var g errgroup.Group
	g.SetLimit(8)
	for i := 0; i < 64; i++ {
		g.Go(func() error {
			if _, err := e.Classify("ghost flood on cold press", ""); err != nil {
				return err
			}
			e.Decompose("editorial tension mural")
			if _, err := e.MapParameters("chromatic_flood", mapper.Options{Intensity: "dramatic"}); err != nil {
				return err
			}
			vocab, err := e.ExtractVocabulary(want.Types[0].Centroid, 0)
			if err != nil {
				return err
			}
			if !assert.ObjectsAreEqual(wantVocab, vocab) {
				return fmt.Errorf("vocabulary differs in goroutine %d", i)
			}
			if _, err := e.ApplyPreset("hydrology_pulse"); err != nil {
				return err
			}
			s, err := e.Resolve("creative_tension")
			if err != nil {
				return err
			}
			if _, err := e.AttractorPrompt(s, "sequence", ""); err != nil {
				return err
			}
			if got := e.ValidateRoundTrip(); !assert.ObjectsAreEqual(want, got) {
				return fmt.Errorf("round trip differs in goroutine %d", i)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
