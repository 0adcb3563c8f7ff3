package boundary

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathfinder/internal/planner"
)

func pos(x, y int32) Position {
	return Position{X: x, Y: y}
}

func seg(x1, y1, x2, y2 int32) Segment {
	return Segment{Start: pos(x1, y1), End: pos(x2, y2)}
}

func maze() []Segment {
	return []Segment{
		seg(-100, -1, 100, -1),
		seg(11, 100, 11, -100),
		seg(100, 11, -100, 11),
		seg(-1, 100, -1, -100),
		seg(1, 9, 1, -100),
		seg(3, 9, 3, -100),
		seg(5, 9, 5, -100),
		seg(7, 9, 7, -100),
		seg(9, 9, 9, -100),
		seg(2, 100, 2, 1),
		seg(4, 100, 4, 1),
		seg(6, 100, 6, 1),
		seg(8, 100, 8, 1),
	}
}

func box() []Segment {
	return []Segment{
		seg(-1, 0, 11, 0),
		seg(10, 11, 10, -1),
		seg(11, 10, -1, 10),
		seg(0, 11, 0, -1),
	}
}

var poison = Position{X: -7777, Y: 7777}

func poisoned(n int) []Position {
	buf := make([]Position, n)
	for i := range buf {
		buf[i] = poison
	}
	return buf
}

const mazeWaypoints = 11

func TestLayout(t *testing.T) {
	assert.Equal(t, uintptr(8), unsafe.Sizeof(Position{}))
	assert.Equal(t, uintptr(4), unsafe.Offsetof(Position{}.Y))
	assert.Equal(t, uintptr(16), unsafe.Sizeof(Segment{}))
	assert.Equal(t, uintptr(8), unsafe.Offsetof(Segment{}.End))
}

func TestFindPathNoObstacles(t *testing.T) {
	a := NewAdapter(nil, nil)
	buf := poisoned(4)
	start, end := pos(0, 0), pos(10, 10)

	n := a.FindPath(buf, nil, &start, &end)
	require.Equal(t, int32(2), n)
	assert.Equal(t, []Position{start, end, poison, poison}, buf)
}

func TestFindPathStartEqualsEnd(t *testing.T) {
	a := NewAdapter(nil, nil)
	buf := poisoned(2)
	p := pos(5, 5)

	n := a.FindPath(buf, maze(), &p, &p)
	require.Equal(t, int32(1), n)
	assert.Equal(t, []Position{p, poison}, buf)
}

func TestFindPathMaze(t *testing.T) {
	a := NewAdapter(nil, nil)
	buf := poisoned(256)
	start, end := pos(0, 0), pos(10, 10)

	n := a.FindPath(buf, maze(), &start, &end)
	require.Equal(t, int32(mazeWaypoints), n)
	assert.Equal(t, start, buf[0])
	assert.Equal(t, end, buf[n-1])
	for _, p := range buf[n:] {
		assert.Equal(t, poison, p)
	}
}

func TestCapacityBoundary(t *testing.T) {
	a := NewAdapter(nil, nil)
	start, end := pos(0, 0), pos(10, 10)
	obstacles := maze()

	// The slot past the capacity is a guard that must stay untouched.
	fits := poisoned(mazeWaypoints + 1)
	n := a.FindPath(fits[:mazeWaypoints], obstacles, &start, &end)
	assert.Equal(t, int32(mazeWaypoints), n)
	assert.Equal(t, poison, fits[mazeWaypoints])

	short := poisoned(mazeWaypoints)
	n = a.FindPath(short[:mazeWaypoints-1], obstacles, &start, &end)
	assert.Equal(t, CodeCapacityExceeded, n)
	assert.Equal(t, poisoned(mazeWaypoints), short, "nothing written on failure")

	n = a.FindPath(nil, obstacles, &start, &end)
	assert.Equal(t, CodeCapacityExceeded, n)
}

func TestNoPathIsDistinctFromCapacity(t *testing.T) {
	a := NewAdapter(nil, nil)
	start, end := pos(5, 5), pos(100, 100)

	buf := poisoned(8)
	assert.Equal(t, CodeNoPath, a.FindPath(buf, box(), &start, &end))
	assert.Equal(t, poisoned(8), buf)

	assert.Equal(t, CodeNoPath, a.FindPath(nil, box(), &start, &end))
	assert.NotEqual(t, CodeNoPath, CodeCapacityExceeded)
}

func TestFindPathInvalid(t *testing.T) {
	a := NewAdapter(nil, nil)
	buf := poisoned(4)
	p := pos(0, 0)
	far := pos(1<<30, 0)

	assert.Equal(t, CodeInvalidInput, a.FindPath(buf, nil, nil, &p))
	assert.Equal(t, CodeInvalidInput, a.FindPath(buf, nil, &p, nil))
	assert.Equal(t, CodeInvalidInput, a.FindPath(buf, nil, &p, &far))
	assert.Equal(t, CodeInvalidInput, a.FindPath(buf, []Segment{seg(0, 0, -1<<31, 0)}, &p, &far))
	assert.Equal(t, poisoned(4), buf)
}

func TestFindPathRaw(t *testing.T) {
	a := NewAdapter(nil, nil)
	obstacles := maze()
	start, end := pos(0, 0), pos(10, 10)

	var buf [mazeWaypoints + 1]Position
	for i := range buf {
		buf[i] = poison
	}

	n := a.FindPathRaw(unsafe.Pointer(&buf[0]), mazeWaypoints, unsafe.Pointer(&obstacles[0]), int32(len(obstacles)),
		unsafe.Pointer(&start), unsafe.Pointer(&end))
	require.Equal(t, int32(mazeWaypoints), n)
	assert.Equal(t, start, buf[0])
	assert.Equal(t, end, buf[mazeWaypoints-1])
	assert.Equal(t, poison, buf[mazeWaypoints])

	for i := range buf {
		buf[i] = poison
	}
	n = a.FindPathRaw(unsafe.Pointer(&buf[0]), mazeWaypoints-1, unsafe.Pointer(&obstacles[0]), int32(len(obstacles)),
		unsafe.Pointer(&start), unsafe.Pointer(&end))
	assert.Equal(t, CodeCapacityExceeded, n)
	for _, p := range buf {
		assert.Equal(t, poison, p)
	}
}

func TestFindPathRawInvalid(t *testing.T) {
	a := NewAdapter(nil, nil)
	obstacles := maze()
	start, end := pos(0, 0), pos(10, 10)
	var buf [4]Position

	out := unsafe.Pointer(&buf[0])
	obs := unsafe.Pointer(&obstacles[0])
	s, e := unsafe.Pointer(&start), unsafe.Pointer(&end)

	cases := []struct {
		name      string
		out       unsafe.Pointer
		capacity  int32
		obstacles unsafe.Pointer
		count     int32
		start     unsafe.Pointer
		end       unsafe.Pointer
	}{
		{"negative capacity", out, -1, obs, 1, s, e},
		{"negative count", out, 4, obs, -1, s, e},
		{"nil buffer", nil, 4, obs, 1, s, e},
		{"nil obstacles", out, 4, nil, 1, s, e},
		{"nil start", out, 4, obs, 1, nil, e},
		{"nil end", out, 4, obs, 1, s, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, CodeInvalidInput, a.FindPathRaw(tc.out, tc.capacity, tc.obstacles, tc.count, tc.start, tc.end))
		})
	}
}

func TestFindPathRawEmpty(t *testing.T) {
	a := NewAdapter(nil, nil)
	start, end := pos(1, 2), pos(3, 4)
	var buf [2]Position

	n := a.FindPathRaw(unsafe.Pointer(&buf[0]), 2, nil, 0, unsafe.Pointer(&start), unsafe.Pointer(&end))
	require.Equal(t, int32(2), n)
	assert.Equal(t, [2]Position{start, end}, buf)

	assert.Equal(t, CodeCapacityExceeded, a.FindPathRaw(nil, 0, nil, 0, unsafe.Pointer(&start), unsafe.Pointer(&end)))
}

func TestIdempotent(t *testing.T) {
	a := NewAdapter(nil, nil)
	start, end := pos(0, 0), pos(10, 10)

	first := poisoned(32)
	second := poisoned(32)
	assert.Equal(t, a.FindPath(first, maze(), &start, &end), a.FindPath(second, maze(), &start, &end))
	assert.Equal(t, first, second)
}

func TestCode(t *testing.T) {
	assert.Equal(t, int32(0), Code(nil))
	assert.Equal(t, CodeNoPath, Code(planner.ErrNoPath))
	assert.Equal(t, CodeInvalidInput, Code(fmt.Errorf("%w: detail", planner.ErrInvalidInput)))
	assert.Equal(t, CodeCapacityExceeded, Code(ErrCapacityExceeded))
	assert.Equal(t, CodeInternal, Code(errors.New("boom")))

	assert.Equal(t, "ok", CodeText(3))
	assert.Equal(t, "capacity exceeded", CodeText(CodeCapacityExceeded))
	assert.Equal(t, "unknown code -9", CodeText(-9))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	a := NewAdapter(nil, log.New(&buf, "", 0))
	start, end := pos(0, 0), pos(10, 10)

	a.FindPath(make([]Position, 3), maze(), &start, &end)
	assert.Contains(t, buf.String(), "capacity exceeded")
}

func TestConfigFromEnv(t *testing.T) {
	env := map[string]string{
		EnvAlgorithm: "dijkstra",
		EnvLog:       " stderr ",
	}
	cfg, err := ConfigFromEnv(func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, Config{Log: "stderr", Algorithm: planner.AlgorithmDijkstra}, cfg)

	env[EnvAlgorithm] = "bogus"
	_, err = ConfigFromEnv(func(k string) string { return env[k] })
	assert.ErrorContains(t, err, EnvAlgorithm)
}

func TestConfigOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathfinder.log")
	a, closer, err := Config{Log: path}.Open()
	require.NoError(t, err)

	start, end := pos(5, 5), pos(100, 100)
	a.FindPath(nil, box(), &start, &end)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "no path found")
	assert.Equal(t, planner.AlgorithmAStar, a.Planner().Algorithm())
}

func TestConfigOpenBadPath(t *testing.T) {
	_, _, err := Config{Log: filepath.Join(t.TempDir(), "missing", "x.log")}.Open()
	assert.Error(t, err)
}
