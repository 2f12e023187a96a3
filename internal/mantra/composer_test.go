package mantra

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceRand returns the queued values in order, then zeros.
type sequenceRand struct {
	values []int
	calls  []int
}

func (s *sequenceRand) IntN(n int) int {
	s.calls = append(s.calls, n)
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v
}

func TestHighlight(t *testing.T) {
	assert.Equal(t, `<span class="highlight">moments of self-doubt</span>`, Highlight("moments of self-doubt"))
}

func TestProTipSelection(t *testing.T) {
	rng := &sequenceRand{values: []int{2, 4}}
	tip := NewComposer(rng).ProTip("continuous learning and adaptation")

	assert.Equal(t,
		`Through every challenge, you discovered <span class="highlight">continuous learning and adaptation</span> is the key to thriving in your tech career.`,
		tip)
	assert.Equal(t, []int{4, 5}, rng.calls)
}

func TestMantraSelection(t *testing.T) {
	rng := &sequenceRand{values: []int{5}}
	mantra := NewComposer(rng).Mantra("the spiders", "patience")

	assert.Equal(t,
		`My response to <span class="highlight">the spiders</span> is grounded in <span class="highlight">patience</span>`,
		mantra)
	assert.Equal(t, []int{6}, rng.calls)
}

func TestComposerAlwaysEmbedsPhrases(t *testing.T) {
	composer := NewComposer(rand.New(rand.NewPCG(1, 2)))
	lesson := "attention to detail and thorough validation"
	fear := "the possibility of failure"

	for i := 0; i < 200; i++ {
		tip := composer.ProTip(lesson)
		require.Contains(t, tip, Highlight(lesson))

		mantra := composer.Mantra(fear, lesson)
		require.Contains(t, mantra, Highlight(fear))
		require.Contains(t, mantra, Highlight(lesson))
		require.Less(t, strings.Index(mantra, Highlight(fear)), strings.Index(mantra, Highlight(lesson)))
	}
}

func TestComposerCoversEveryTemplate(t *testing.T) {
	composer := NewComposer(rand.New(rand.NewPCG(7, 11)))
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		seen[composer.Mantra("x", "y")] = true
	}
	assert.Len(t, seen, len(mantraTemplates))
}

func TestNewComposerDefaultsToGlobalSource(t *testing.T) {
	tip := NewComposer(nil).ProTip("grit")
	assert.Contains(t, tip, Highlight("grit"))
}
