package hexmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceToSelf(t *testing.T) {
	c := Coord{3, 4}
	assert.Equal(t, 0, Distance(c, c))
}

func TestDistanceToNeighbor(t *testing.T) {
	c := Coord{3, 4}
	for d := Direction(0); d < 6; d++ {
		n := c.Neighbor(d)
		assert.Equal(t, 1, Distance(c, n), "direction %d should be distance 1", d)
	}
}

func TestRegionContainsCenterAndIsDeterministic(t *testing.T) {
	bounds := BoxBounds{Width: 20, Height: 20}
	center := Coord{10, 10}
	r1 := Region(center, 3, bounds)
	r2 := Region(center, 3, bounds)
	assert.Equal(t, r1, r2, "region iteration order must be stable given identical inputs")
	assert.Contains(t, r1, center)
	for _, c := range r1 {
		assert.LessOrEqual(t, Distance(center, c), 3)
	}
}

func TestBuildCapThresholds(t *testing.T) {
	assert.True(t, CapBig.IsBuildable())
	assert.True(t, CapMine.IsMineable())
	assert.False(t, CapNone.IsBuildable())
	assert.False(t, CapFlag.IsBuildable())
}

func TestToroidalNormalize(t *testing.T) {
	b := ToroidalBounds{Width: 10, Height: 10}
	assert.Equal(t, Coord{0, 0}, b.Normalize(Coord{10, 10}))
	assert.Equal(t, Coord{9, 9}, b.Normalize(Coord{-1, -1}))
}
