package visibility

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"pathfinder/internal/geometry"
)

// boundPadding widens every box so axis-aligned segments get a non-zero extent.
// Coordinates are integers, so half a unit never merges distinct geometry.
const boundPadding = 0.5

// segmentEntry wraps an obstacle segment for R-tree storage
type segmentEntry struct {
	Segment geometry.Segment
	BBox    rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *segmentEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// Index answers line-of-sight queries against a fixed obstacle set
type Index struct {
	tree *rtreego.Rtree
	size int
}

// NewIndex creates a spatial index over the blocking obstacles. Degenerate
// segments are skipped and duplicated edges are stored once.
func NewIndex(obstacles []geometry.Segment) *Index {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	size := 0
	for _, segment := range uniqueSegments(obstacles) {
		bbox, err := rectFromBound(segment.Bound())
		if err != nil {
			continue
		}
		tree.Insert(&segmentEntry{Segment: segment, BBox: bbox})
		size++
	}

	return &Index{tree: tree, size: size}
}

// Len returns the number of indexed blocking segments
func (idx *Index) Len() int {
	return idx.size
}

// Candidates returns the segments whose bounding box overlaps the box spanned by p and q
func (idx *Index) Candidates(p, q geometry.Position) []geometry.Segment {
	if idx.size == 0 {
		return nil
	}

	query := geometry.Segment{Start: p, End: q}
	bbox, err := rectFromBound(query.Bound())
	if err != nil {
		return nil
	}

	results := idx.tree.SearchIntersect(bbox)
	segments := make([]geometry.Segment, 0, len(results))
	for _, item := range results {
		segments = append(segments, item.(*segmentEntry).Segment)
	}
	return segments
}

// HasLineOfSight checks if the straight line between p and q is clear of every indexed obstacle
func (idx *Index) HasLineOfSight(p, q geometry.Position) bool {
	for _, segment := range idx.Candidates(p, q) {
		if geometry.Blocks(segment, p, q) {
			return false
		}
	}
	return true
}

// rectFromBound converts a padded orb bound into an R-tree rectangle
func rectFromBound(bound orb.Bound) (rtreego.Rect, error) {
	bound = bound.Pad(boundPadding)
	return rtreego.NewRect(
		rtreego.Point{bound.Min[0], bound.Min[1]},
		[]float64{bound.Max[0] - bound.Min[0], bound.Max[1] - bound.Min[1]},
	)
}

// uniqueSegments drops degenerate segments and segments sharing both
// endpoints with an earlier one, in either direction.
func uniqueSegments(obstacles []geometry.Segment) []geometry.Segment {
	seen := make(map[geometry.Segment]bool, len(obstacles))
	result := make([]geometry.Segment, 0, len(obstacles))

	for _, segment := range obstacles {
		if segment.Degenerate() {
			continue
		}
		if seen[segment] || seen[segment.Reversed()] {
			continue
		}
		seen[segment] = true
		result = append(result, segment)
	}

	return result
}
