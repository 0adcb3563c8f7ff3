package boundary

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"pathfinder/internal/planner"
)

// Environment variables read by the shared library at load time
const (
	EnvLog       = "PATHFINDER_LOG"       // "", "stderr" or a file path
	EnvAlgorithm = "PATHFINDER_ALGORITHM" // "astar" (default) or "dijkstra"
)

// Config holds the ambient settings of a library instance
type Config struct {
	Log       string
	Algorithm planner.Algorithm
}

// ConfigFromEnv reads Config through getenv
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	algorithm, err := planner.ParseAlgorithm(getenv(EnvAlgorithm))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvAlgorithm, err)
	}
	return Config{
		Log:       strings.TrimSpace(getenv(EnvLog)),
		Algorithm: algorithm,
	}, nil
}

// Open builds an adapter from the config. The returned closer releases the
// log file, if any.
func (c Config) Open() (*Adapter, io.Closer, error) {
	var (
		w      io.Writer = io.Discard
		closer io.Closer = nopCloser{}
	)

	switch strings.ToLower(c.Log) {
	case "", "off", "none":
	case "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		f, err := os.OpenFile(c.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	}

	logger := log.New(w, "pathfinder: ", log.LstdFlags|log.Lmicroseconds)
	p := planner.New(planner.Options{Algorithm: c.Algorithm, Logger: logger})
	return NewAdapter(p, logger), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
