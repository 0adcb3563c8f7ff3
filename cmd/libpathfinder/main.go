// Command libpathfinder is built as a C shared library:
//
//	go build -buildmode=c-shared -o libpathfinder.so ./cmd/libpathfinder
//
// It exports
//
//	int32_t find_path(Position *out, int32_t capacity, Segment *obstacles,
//	                  int32_t count, Position *start, Position *end);
//
// and find_path_ffi with the same signature. A non-negative result is the
// number of waypoints written to out; -1 means no path, -2 capacity exceeded,
// -3 invalid input and -4 an internal error.
package main

/*
#include <stdint.h>

typedef struct Position {
    int32_t x;
    int32_t y;
} Position;

typedef struct Segment {
    Position start;
    Position end;
} Segment;
*/
import "C"

import (
	"io"
	"log"
	"os"
	"unsafe"

	"pathfinder/internal/boundary"
)

// The Go mirrors must match the C layout exactly.
var (
	_ [unsafe.Sizeof(C.Position{}) - unsafe.Sizeof(boundary.Position{})]struct{}
	_ [unsafe.Sizeof(boundary.Position{}) - unsafe.Sizeof(C.Position{})]struct{}
	_ [unsafe.Sizeof(C.Segment{}) - unsafe.Sizeof(boundary.Segment{})]struct{}
	_ [unsafe.Sizeof(boundary.Segment{}) - unsafe.Sizeof(C.Segment{})]struct{}
)

var adapter = boundary.NewAdapter(nil, nil)

// logFile stays open for the lifetime of the host process.
var logFile io.Closer

func init() {
	cfg, err := boundary.ConfigFromEnv(os.Getenv)
	if err != nil {
		log.Printf("pathfinder: %v; using defaults", err)
		return
	}

	a, closer, err := cfg.Open()
	if err != nil {
		log.Printf("pathfinder: %v; using defaults", err)
		return
	}
	adapter, logFile = a, closer
}

//export find_path
func find_path(out *C.Position, capacity C.int32_t, obstacles *C.Segment, count C.int32_t, start *C.Position, end *C.Position) C.int32_t {
	return C.int32_t(adapter.FindPathRaw(
		unsafe.Pointer(out), int32(capacity),
		unsafe.Pointer(obstacles), int32(count),
		unsafe.Pointer(start), unsafe.Pointer(end),
	))
}

//export find_path_ffi
func find_path_ffi(out *C.Position, capacity C.int32_t, obstacles *C.Segment, count C.int32_t, start *C.Position, end *C.Position) C.int32_t {
	return find_path(out, capacity, obstacles, count, start, end)
}

func main() {}
