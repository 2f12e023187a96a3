package mantra

import (
	"fmt"
	"math/rand/v2"
)

// Rand is the randomness the composer draws template choices from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

var proTipContexts = []string{
	"Your journey revealed that %s",
	"The most valuable lesson you learned: %s",
	"Through every challenge, you discovered %s",
	"Your key insight was that %s",
}

var proTipApplications = []string{
	"will be your foundation in the professional world.",
	"is your secret weapon for career success.",
	"will guide you through any challenge ahead.",
	"separates exceptional professionals from average ones.",
	"is the key to thriving in your tech career.",
}

// Each template takes the fear phrase first, then the lesson phrase.
var mantraTemplates = []string{
	"When facing %s, I'll draw strength from %s",
	"Though %s may challenge me, I trust in %s",
	"I transform %s into growth through %s",
	"Each encounter with %s strengthens my belief in %s",
	"I embrace %s as an opportunity to apply %s",
	"My response to %s is grounded in %s",
}

type Composer struct {
	rng Rand
}

// NewComposer uses the process-wide generator when rng is nil.
func NewComposer(rng Rand) *Composer {
	if rng == nil {
		rng = globalRand{}
	}
	return &Composer{rng: rng}
}

// Highlight wraps phrase in the highlight marker, byte for byte.
func Highlight(phrase string) string {
	return `<span class="highlight">` + phrase + `</span>`
}

func (c *Composer) ProTip(lesson string) string {
	context := fmt.Sprintf(c.pick(proTipContexts), Highlight(lesson))
	application := c.pick(proTipApplications)
	return context + " " + application
}

func (c *Composer) Mantra(fear, lesson string) string {
	return fmt.Sprintf(c.pick(mantraTemplates), Highlight(fear), Highlight(lesson))
}

func (c *Composer) pick(options []string) string {
	return options[c.rng.IntN(len(options))]
}
