// Package server exposes the planner over HTTP for diagnostics: it returns
// the same return codes as the shared library together with the path, its
// length and, on request, GeoJSON renderings of the route and visibility graph.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http"

	"pathfinder/internal/boundary"
	"pathfinder/internal/geometry"
	"pathfinder/internal/obstacles"
	"pathfinder/internal/planner"
)

// DefaultCapacity is the buffer size used when a request names none
const DefaultCapacity = 256

type RouteRequest struct {
	Start     geometry.Position  `json:"start"`
	End       geometry.Position  `json:"end"`
	Obstacles []geometry.Segment `json:"obstacles,omitempty"` // Optional: defaults to the preloaded layout
	Capacity  *int32             `json:"capacity,omitempty"`
}

type RouteResponse struct {
	Path    []geometry.Position `json:"path"`
	Success bool                `json:"success"`
	Code    int32               `json:"code"`
	Message string              `json:"message,omitempty"`
	Length  float64             `json:"length,omitempty"`
}

// Server serves route requests against an optional preloaded obstacle layout
type Server struct {
	adapter   *boundary.Adapter
	obstacles []geometry.Segment
	logger    *log.Logger
}

// New creates a server; obstacles are used when a request carries none
func New(adapter *boundary.Adapter, obstacles []geometry.Segment, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if adapter == nil {
		adapter = boundary.NewAdapter(nil, logger)
	}
	return &Server{adapter: adapter, obstacles: obstacles, logger: logger}
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/route", corsMiddleware(s.routeHandler))
	mux.HandleFunc("/route.geojson", corsMiddleware(s.routeGeoJSONHandler))
	mux.HandleFunc("/visibility", corsMiddleware(s.visibilityHandler))
	mux.HandleFunc("/health", corsMiddleware(s.healthHandler))
	return mux
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (RouteRequest, bool) {
	var req RouteRequest

	if r.Method != http.MethodPost {
		s.logger.Printf("❌ Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return req, false
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Printf("❌ Invalid request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return req, false
	}

	if req.Obstacles == nil {
		req.Obstacles = s.obstacles
	}
	return req, true
}

// POST /route - Compute a route through the boundary adapter
func (s *Server) routeHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	capacity := int32(DefaultCapacity)
	if req.Capacity != nil {
		capacity = *req.Capacity
	}

	s.logger.Printf("📍 Route %v -> %v, %d obstacles, capacity %d", req.Start, req.End, len(req.Obstacles), capacity)

	segments := make([]boundary.Segment, len(req.Obstacles))
	for i, o := range req.Obstacles {
		segments[i] = boundary.Segment{
			Start: boundary.Position{X: o.Start.X, Y: o.Start.Y},
			End:   boundary.Position{X: o.End.X, Y: o.End.Y},
		}
	}
	start := boundary.Position{X: req.Start.X, Y: req.Start.Y}
	end := boundary.Position{X: req.End.X, Y: req.End.Y}

	var code int32
	var buffer []boundary.Position
	if capacity < 0 {
		code = boundary.CodeInvalidInput
	} else {
		// A path never has more waypoints than the graph has nodes.
		buffer = make([]boundary.Position, min(capacity, maxWaypoints(len(segments))))
		code = s.adapter.FindPath(buffer, segments, &start, &end)
	}

	response := RouteResponse{
		Path:    []geometry.Position{},
		Success: code >= 0,
		Code:    code,
	}
	if code >= 0 {
		for _, p := range buffer[:code] {
			response.Path = append(response.Path, geometry.Position{X: p.X, Y: p.Y})
		}
		response.Length = geometry.Path(response.Path).Length()
		s.logger.Printf("✅ Path found with %d waypoints, length %.3f", code, response.Length)
	} else {
		response.Message = boundary.CodeText(code)
		s.logger.Printf("❌ %s", response.Message)
	}

	status := http.StatusOK
	if code == boundary.CodeInvalidInput {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, response)
}

// POST /route.geojson - Compute a route and render it with the obstacles
func (s *Server) routeGeoJSONHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	path, err := s.adapter.Planner().FindPath(req.Obstacles, req.Start, req.End)
	switch {
	case errors.Is(err, planner.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil && !errors.Is(err, planner.ErrNoPath):
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, obstacles.FeatureCollection(req.Obstacles, path, nil))
}

// POST /visibility - Get visibility graph edges as GeoJSON lines, plus the
// positions in sight of the start
func (s *Server) visibilityHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	graph, err := s.adapter.Planner().Graph(req.Obstacles, req.Start, req.End)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Printf("📊 Visibility graph: %d nodes, %d edges", len(graph.Nodes), graph.EdgeCount())

	fc := obstacles.FeatureCollection(req.Obstacles, nil, graph.Lines())
	fc.Append(obstacles.Reachable(req.Start, graph.Visible(graph.Start)))
	writeJSON(w, http.StatusOK, fc)
}

// GET /health - Health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ready",
		"algorithm":    s.adapter.Planner().Algorithm().String(),
		"numObstacles": len(s.obstacles),
	})
}

// maxWaypoints bounds the path length for n obstacles: both endpoints of
// every obstacle plus start and end.
func maxWaypoints(n int) int32 {
	if n >= (math.MaxInt32-2)/2 {
		return math.MaxInt32
	}
	return int32(2*n + 2)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
