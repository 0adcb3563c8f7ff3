// Package planner computes collision-free routes between two points among
// line-segment obstacles. Every call builds its own visibility graph and
// discards it on return; a Planner only carries configuration and may be used
// from several goroutines at once.
package planner

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"pathfinder/internal/geometry"
	"pathfinder/internal/search"
	"pathfinder/internal/visibility"
)

var (
	// ErrNoPath is returned when the end cannot be reached from the start
	ErrNoPath = errors.New("no path found")
	// ErrInvalidInput is returned for inputs the engine refuses to plan over
	ErrInvalidInput = errors.New("invalid input")
)

// Algorithm selects the shortest-path search
type Algorithm int

const (
	AlgorithmAStar Algorithm = iota
	AlgorithmDijkstra
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmAStar:
		return "astar"
	case AlgorithmDijkstra:
		return "dijkstra"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm converts a name such as "astar" or "dijkstra" to an Algorithm
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "astar", "a*":
		return AlgorithmAStar, nil
	case "dijkstra":
		return AlgorithmDijkstra, nil
	}
	return 0, fmt.Errorf("unknown algorithm %q", name)
}

// Options configures a Planner
type Options struct {
	Algorithm Algorithm
	Logger    *log.Logger
}

// Planner finds shortest obstacle-free paths
type Planner struct {
	search func(*visibility.Graph) (geometry.Path, bool)
	opts   Options
	logger *log.Logger
}

// New creates a planner; a nil logger discards output
func New(opts Options) *Planner {
	p := &Planner{opts: opts, logger: opts.Logger}
	if p.logger == nil {
		p.logger = log.New(io.Discard, "", 0)
	}

	switch opts.Algorithm {
	case AlgorithmDijkstra:
		p.search = search.Dijkstra
	default:
		p.opts.Algorithm = AlgorithmAStar
		p.search = search.AStar
	}
	return p
}

// Algorithm returns the search the planner runs
func (p *Planner) Algorithm() Algorithm {
	return p.opts.Algorithm
}

// FindPath returns the shortest path from start to end, both included.
// It fails with ErrInvalidInput when a coordinate is out of range and with
// ErrNoPath when end is unreachable.
func (p *Planner) FindPath(obstacles []geometry.Segment, start, end geometry.Position) (geometry.Path, error) {
	if err := Validate(obstacles, start, end); err != nil {
		return nil, err
	}

	if start == end {
		return geometry.Path{start}, nil
	}

	startTime := time.Now()
	graph := visibility.Builder{Logger: p.logger}.Build(obstacles, start, end)
	path, ok := p.search(graph)
	elapsed := time.Since(startTime)

	if !ok {
		p.logger.Printf("planner: no path from %v to %v (%s, %s)", start, end, p.opts.Algorithm, elapsed)
		return nil, ErrNoPath
	}

	p.logger.Printf("planner: path with %d waypoints, length %.3f (%s, %s)", len(path), path.Length(), p.opts.Algorithm, elapsed)
	return path, nil
}

// Graph builds the visibility graph FindPath would search
func (p *Planner) Graph(obstacles []geometry.Segment, start, end geometry.Position) (*visibility.Graph, error) {
	if err := Validate(obstacles, start, end); err != nil {
		return nil, err
	}
	return visibility.Builder{Logger: p.logger}.Build(obstacles, start, end), nil
}

// Validate checks every coordinate is within geometry.MaxCoordinate
func Validate(obstacles []geometry.Segment, start, end geometry.Position) error {
	if !start.InRange() {
		return fmt.Errorf("%w: start %v out of range", ErrInvalidInput, start)
	}
	if !end.InRange() {
		return fmt.Errorf("%w: end %v out of range", ErrInvalidInput, end)
	}
	for i, segment := range obstacles {
		if !segment.Start.InRange() || !segment.End.InRange() {
			return fmt.Errorf("%w: obstacle %d %v out of range", ErrInvalidInput, i, segment)
		}
	}
	return nil
}

// FindPath plans with the default options
func FindPath(obstacles []geometry.Segment, start, end geometry.Position) (geometry.Path, error) {
	return New(Options{}).FindPath(obstacles, start, end)
}
