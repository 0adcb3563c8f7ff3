// Package boundary translates between the fixed-layout structures that cross
// the C call boundary and the planner. It is the only place that knows about
// the caller's output buffer: the whole path is computed first and copied only
// if it fits, so a failed call never writes to the buffer.
package boundary

import (
	"errors"
	"fmt"
	"io"
	"log"
	"unsafe"

	"pathfinder/internal/geometry"
	"pathfinder/internal/planner"
)

// Position mirrors `struct Position { int32_t x; int32_t y; }`
type Position struct {
	X int32
	Y int32
}

// Segment mirrors `struct Segment { Position start; Position end; }`
type Segment struct {
	Start Position
	End   Position
}

// Return codes. Non-negative values are waypoint counts.
const (
	CodeNoPath           int32 = -1
	CodeCapacityExceeded int32 = -2
	CodeInvalidInput     int32 = -3
	CodeInternal         int32 = -4
)

// ErrCapacityExceeded reports a path longer than the caller's buffer
var ErrCapacityExceeded = errors.New("capacity exceeded")

// CodeText describes a return code
func CodeText(code int32) string {
	switch {
	case code >= 0:
		return "ok"
	case code == CodeNoPath:
		return "no path found"
	case code == CodeCapacityExceeded:
		return "capacity exceeded"
	case code == CodeInvalidInput:
		return "invalid input"
	case code == CodeInternal:
		return "internal error"
	}
	return fmt.Sprintf("unknown code %d", code)
}

// Code maps a planning error to its return code
func Code(err error) int32 {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, planner.ErrNoPath):
		return CodeNoPath
	case errors.Is(err, ErrCapacityExceeded):
		return CodeCapacityExceeded
	case errors.Is(err, planner.ErrInvalidInput):
		return CodeInvalidInput
	}
	return CodeInternal
}

// Adapter runs planner requests on behalf of a foreign caller
type Adapter struct {
	planner *planner.Planner
	logger  *log.Logger
}

// NewAdapter creates an adapter; nil arguments select defaults
func NewAdapter(p *planner.Planner, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if p == nil {
		p = planner.New(planner.Options{Logger: logger})
	}
	return &Adapter{planner: p, logger: logger}
}

// Planner returns the planner the adapter delegates to
func (a *Adapter) Planner() *planner.Planner {
	return a.planner
}

// FindPath writes the path from start to end into out and returns the number
// of waypoints written, or a negative code. len(out) is the capacity.
func (a *Adapter) FindPath(out []Position, obstacles []Segment, start, end *Position) (code int32) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Printf("boundary: recovered from panic: %v", r)
			code = CodeInternal
		}
	}()

	if start == nil || end == nil {
		a.logger.Printf("boundary: nil start or end")
		return CodeInvalidInput
	}

	path, err := a.planner.FindPath(toSegments(obstacles), toPosition(*start), toPosition(*end))
	if err != nil {
		a.logger.Printf("boundary: %v", err)
		return Code(err)
	}

	if len(path) > len(out) {
		a.logger.Printf("boundary: %v: path has %d waypoints, buffer holds %d", ErrCapacityExceeded, len(path), len(out))
		return CodeCapacityExceeded
	}

	for i, p := range path {
		out[i] = Position{X: p.X, Y: p.Y}
	}
	return int32(len(path))
}

// FindPathRaw is FindPath over caller-owned memory. out must hold capacity
// Positions and obstacles count Segments; nothing is retained after return.
func (a *Adapter) FindPathRaw(out unsafe.Pointer, capacity int32, obstacles unsafe.Pointer, count int32, start, end unsafe.Pointer) int32 {
	switch {
	case capacity < 0:
		a.logger.Printf("boundary: negative capacity %d", capacity)
		return CodeInvalidInput
	case count < 0:
		a.logger.Printf("boundary: negative obstacle count %d", count)
		return CodeInvalidInput
	case out == nil && capacity > 0:
		a.logger.Printf("boundary: nil output buffer with capacity %d", capacity)
		return CodeInvalidInput
	case obstacles == nil && count > 0:
		a.logger.Printf("boundary: nil obstacles with count %d", count)
		return CodeInvalidInput
	}

	var outSlice []Position
	if capacity > 0 {
		outSlice = unsafe.Slice((*Position)(out), capacity)
	}
	var obstacleSlice []Segment
	if count > 0 {
		obstacleSlice = unsafe.Slice((*Segment)(obstacles), count)
	}

	return a.FindPath(outSlice, obstacleSlice, (*Position)(start), (*Position)(end))
}

func toPosition(p Position) geometry.Position {
	return geometry.Position{X: p.X, Y: p.Y}
}

// toSegments copies the caller's obstacles so the planner never aliases foreign memory
func toSegments(obstacles []Segment) []geometry.Segment {
	segments := make([]geometry.Segment, len(obstacles))
	for i, s := range obstacles {
		segments[i] = geometry.Segment{Start: toPosition(s.Start), End: toPosition(s.End)}
	}
	return segments
}
