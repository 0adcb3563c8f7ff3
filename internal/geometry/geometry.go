package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// MaxCoordinate bounds the absolute value of any accepted coordinate so that
// every cross product below fits in an int64.
const MaxCoordinate = 1<<30 - 1

// Position is an integer point on the plane
type Position struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// InRange reports whether both coordinates are within MaxCoordinate
func (p Position) InRange() bool {
	return abs64(int64(p.X)) <= MaxCoordinate && abs64(int64(p.Y)) <= MaxCoordinate
}

// Point converts p to an orb point
func (p Position) Point() orb.Point {
	return orb.Point{float64(p.X), float64(p.Y)}
}

// Segment represents one impassable obstacle edge
type Segment struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Degenerate reports whether the segment has zero length
func (s Segment) Degenerate() bool {
	return s.Start == s.End
}

// Reversed returns the same segment walked from End to Start
func (s Segment) Reversed() Segment {
	return Segment{Start: s.End, End: s.Start}
}

// Bound returns the axis-aligned bounding box of the segment
func (s Segment) Bound() orb.Bound {
	return orb.Bound{Min: s.Start.Point(), Max: s.Start.Point()}.Extend(s.End.Point())
}

// Path is an ordered sequence of waypoints, start first
type Path []Position

// LineString converts the path to an orb line string
func (p Path) LineString() orb.LineString {
	ls := make(orb.LineString, len(p))
	for i, pos := range p {
		ls[i] = pos.Point()
	}
	return ls
}

// Length returns the total Euclidean length of the path
func (p Path) Length() float64 {
	if len(p) < 2 {
		return 0
	}
	return planar.Length(p.LineString())
}

// Distance2 calculates the squared Euclidean distance between two positions
func Distance2(p, q Position) int64 {
	dx := int64(p.X) - int64(q.X)
	dy := int64(p.Y) - int64(q.Y)
	return dx*dx + dy*dy
}

// Distance calculates Euclidean distance between two positions
func Distance(p, q Position) float64 {
	dx := float64(p.X) - float64(q.X)
	dy := float64(p.Y) - float64(q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
