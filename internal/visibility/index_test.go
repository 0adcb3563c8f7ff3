package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pathfinder/internal/geometry"
)

func TestIndexSkipsDegenerateAndDuplicates(t *testing.T) {
	idx := NewIndex([]geometry.Segment{
		seg(0, 0, 10, 0),
		seg(10, 0, 0, 0),
		seg(0, 0, 10, 0),
		seg(3, 3, 3, 3),
		seg(0, 5, 10, 5),
	})

	assert.Equal(t, 2, idx.Len())
}

func TestIndexCandidates(t *testing.T) {
	idx := NewIndex([]geometry.Segment{
		seg(0, 0, 0, 10),    // vertical, zero width box
		seg(20, 20, 30, 20), // far away
	})

	assert.Equal(t, []geometry.Segment{seg(0, 0, 0, 10)}, idx.Candidates(pos(-5, 5), pos(5, 5)))
	assert.Empty(t, idx.Candidates(pos(2, 0), pos(5, 10)))
	assert.Empty(t, NewIndex(nil).Candidates(pos(0, 0), pos(1, 1)))
}

func TestIndexLineOfSight(t *testing.T) {
	obstacles := []geometry.Segment{
		seg(0, 0, 0, 10),
		seg(20, 20, 30, 20),
		seg(5, 5, 5, 5),
	}
	idx := NewIndex(obstacles)

	queries := [][2]geometry.Position{
		{pos(-5, 5), pos(5, 5)},
		{pos(-5, 5), pos(0, 5)},
		{pos(-5, -5), pos(5, -5)},
		{pos(25, 0), pos(25, 40)},
		{pos(0, 10), pos(0, 20)},
		{pos(0, 4), pos(0, 4)},
		{pos(1, 4), pos(1, 4)},
		{pos(-1, -1), pos(1, 1)},
	}
	for _, q := range queries {
		assert.Equal(t, geometry.HasLineOfSight(q[0], q[1], obstacles), idx.HasLineOfSight(q[0], q[1]), "%v -> %v", q[0], q[1])
		// The candidate set alone decides sight.
		assert.Equal(t, geometry.HasLineOfSight(q[0], q[1], idx.Candidates(q[0], q[1])), idx.HasLineOfSight(q[0], q[1]), "%v -> %v", q[0], q[1])
	}

	assert.False(t, idx.HasLineOfSight(pos(-5, 5), pos(5, 5)))
	assert.False(t, idx.HasLineOfSight(pos(25, 0), pos(25, 40)))
	assert.True(t, NewIndex(nil).HasLineOfSight(pos(-5, 5), pos(5, 5)))
}
