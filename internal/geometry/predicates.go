package geometry

// Orientation returns the sign of the cross product (b-a) x (c-a):
// 1 when c is left of ab, -1 when right, 0 when collinear.
func Orientation(a, b, c Position) int {
	abx := int64(b.X) - int64(a.X)
	aby := int64(b.Y) - int64(a.Y)
	acx := int64(c.X) - int64(a.X)
	acy := int64(c.Y) - int64(a.Y)

	cross := abx*acy - aby*acx
	switch {
	case cross > 0:
		return 1
	case cross < 0:
		return -1
	}
	return 0
}

// inBox checks if q lies within the bounding box of pr
func inBox(p, r, q Position) bool {
	return q.X <= max(p.X, r.X) && q.X >= min(p.X, r.X) &&
		q.Y <= max(p.Y, r.Y) && q.Y >= min(p.Y, r.Y)
}

// OnSegment checks if p lies on the closed segment s
func OnSegment(s Segment, p Position) bool {
	return Orientation(s.Start, s.End, p) == 0 && inBox(s.Start, s.End, p)
}

// Intersects reports whether two closed segments share at least one point,
// including shared endpoints and collinear overlap.
func Intersects(a, b Segment) bool {
	p1, p2 := a.Start, a.End
	p3, p4 := b.Start, b.End

	d1 := Orientation(p3, p4, p1)
	d2 := Orientation(p3, p4, p2)
	d3 := Orientation(p1, p2, p3)
	d4 := Orientation(p1, p2, p4)

	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}

	// Touching and collinear cases
	if d1 == 0 && inBox(p3, p4, p1) {
		return true
	}
	if d2 == 0 && inBox(p3, p4, p2) {
		return true
	}
	if d3 == 0 && inBox(p1, p2, p3) {
		return true
	}
	if d4 == 0 && inBox(p1, p2, p4) {
		return true
	}

	return false
}

// Blocks reports whether obstacle prevents line of sight between p and q.
//
// The obstacle blocks when p and q lie strictly on opposite sides of its
// supporting line and the crossing point is on the closed obstacle. Contact at
// p or q, collinear overlap and degenerate obstacles never block. A sight line
// passing exactly through an obstacle endpoint is blocked; the vertex is a
// graph node, so routing through it costs nothing extra.
func Blocks(obstacle Segment, p, q Position) bool {
	if p == q {
		return !obstacle.Degenerate() && OnSegment(obstacle, p)
	}
	if obstacle.Degenerate() {
		return false
	}

	d1 := Orientation(obstacle.Start, obstacle.End, p)
	d2 := Orientation(obstacle.Start, obstacle.End, q)
	if d1*d2 >= 0 {
		return false
	}

	d3 := Orientation(p, q, obstacle.Start)
	d4 := Orientation(p, q, obstacle.End)
	return d3*d4 <= 0
}

// HasLineOfSight checks if the straight line between p and q is clear of every obstacle
func HasLineOfSight(p, q Position, obstacles []Segment) bool {
	for _, obstacle := range obstacles {
		if Blocks(obstacle, p, q) {
			return false
		}
	}
	return true
}
