package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateColumnsStayInRange(t *testing.T) {
	g := NewGenerator()

	for i := 0; i < 100; i++ {
		card := g.Generate()
		for col := 0; col < 5; col++ {
			low, high := ColumnRange(col)
			seen := make(map[int]bool)
			for row := 0; row < 5; row++ {
				cell := card[col][row]
				if col == 2 && row == 2 {
					assert.Equal(t, FreeMarker, cell)
					continue
				}
				require.NotEqual(t, FreeMarker, cell, "free marker outside center at col %d row %d", col, row)
				n, ok := Number(cell)
				require.True(t, ok, "cell %q has no number", cell)
				assert.GreaterOrEqual(t, n, low)
				assert.LessOrEqual(t, n, high)
				assert.False(t, seen[n], "duplicate %d in column %d", n, col)
				seen[n] = true
				assert.Equal(t, Letters[col], cell[:1])
			}
		}
	}
}

func TestGenerateCenterIsFree(t *testing.T) {
	card := NewGenerator().Generate()
	assert.Equal(t, FreeMarker, card[2][2])
}

func TestGenerateSurvivesCollisions(t *testing.T) {
	// A generator that repeats every value once before moving on still has
	// to terminate with five distinct numbers per column.
	calls := 0
	g := NewGeneratorWithIntN(func(n int) int {
		v := (calls / 2) % n
		calls++
		return v
	})
	card := g.Generate()

	for col := 0; col < 5; col++ {
		seen := make(map[string]bool)
		for row := 0; row < 5; row++ {
			cell := card[col][row]
			require.False(t, seen[cell], "duplicate cell %q", cell)
			seen[cell] = true
		}
	}
}

func TestNumber(t *testing.T) {
	n, ok := Number("B7")
	require.True(t, ok)
	assert.Equal(t, 7, n)

	n, ok = Number("O75")
	require.True(t, ok)
	assert.Equal(t, 75, n)

	_, ok = Number(FreeMarker)
	assert.False(t, ok)

	_, ok = Number("")
	assert.False(t, ok)

	_, ok = Number("Bx")
	assert.False(t, ok)
}
