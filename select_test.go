package facecrop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelect(t *testing.T) {
	candidates := []Rect{
		{X: 0, Y: 0, Width: 10, Height: 10},
		{X: 5, Y: 5, Width: 30, Height: 30},
		{X: 50, Y: 50, Width: 30, Height: 30},
	}

	r, ok := FirstCandidate(candidates)
	assert.True(t, ok)
	assert.Equal(t, candidates[0], r)

	r, ok = LargestCandidate(candidates)
	assert.True(t, ok)
	assert.Equal(t, candidates[1], r)

	for _, sel := range []Selector{FirstCandidate, LargestCandidate} {
		_, ok = sel(nil)
		assert.False(t, ok)
	}
}
