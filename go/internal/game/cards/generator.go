package cards

import (
	"fmt"
	"math/rand/v2"
)

// Generator produces rule-valid bingo cards. The zero value uses the shared
// math/rand source, which is safe for concurrent joins.
type Generator struct {
	// intN returns a uniform value in [0, n). Overridable for deterministic
	// tests; nil means rand.IntN.
	intN func(n int) int
}

// NewGenerator returns a Generator backed by the default random source.
func NewGenerator() *Generator {
	return &Generator{}
}

// NewGeneratorWithIntN returns a Generator drawing values from intN.
func NewGeneratorWithIntN(intN func(n int) int) *Generator {
	return &Generator{intN: intN}
}

// Generate builds a card: five distinct numbers per column sampled from that
// column's 15-value range, center cell forced to the free marker. Rejection
// sampling terminates because each range holds 15 candidates for 5 slots.
func (g *Generator) Generate() Card {
	intN := g.intN
	if intN == nil {
		intN = rand.IntN
	}

	var card Card
	for col := 0; col < 5; col++ {
		low, _ := ColumnRange(col)
		seen := make(map[int]bool, 5)
		row := 0
		for row < 5 {
			n := low + intN(15)
			if seen[n] {
				continue
			}
			seen[n] = true
			card[col][row] = fmt.Sprintf("%s%d", Letters[col], n)
			row++
		}
	}
	card[2][2] = FreeMarker
	return card
}
