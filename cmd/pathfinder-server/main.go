// Command pathfinder-server serves the planner over HTTP for inspecting
// routes and visibility graphs.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"pathfinder/internal/boundary"
	"pathfinder/internal/geometry"
	"pathfinder/internal/obstacles"
	"pathfinder/internal/planner"
	"pathfinder/internal/server"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	layout := flag.String("obstacles", "", "GeoJSON file or directory of *.geojson files used when a request has no obstacles")
	algorithm := flag.String("algorithm", "astar", "search algorithm: astar or dijkstra")
	verbose := flag.Bool("v", false, "log planner progress")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	algo, err := planner.ParseAlgorithm(*algorithm)
	if err != nil {
		logger.Fatal(err)
	}

	plannerLogger := log.New(os.Stderr, "", log.LstdFlags)
	if !*verbose {
		plannerLogger = nil
	}
	adapter := boundary.NewAdapter(planner.New(planner.Options{Algorithm: algo, Logger: plannerLogger}), plannerLogger)

	var segments []geometry.Segment
	if *layout != "" {
		segments, err = loadLayout(*layout, logger)
		if err != nil {
			logger.Fatalf("❌ Failed to load obstacles: %v", err)
		}
	}

	logger.Println("========================================")
	logger.Println("🚀 Path Planner Server")
	logger.Println("========================================")
	logger.Printf("Algorithm: %s", algo)
	logger.Printf("Preloaded obstacles: %d segments", len(segments))
	logger.Println("Endpoints:")
	logger.Println("  POST /route              - Compute route, same codes as the shared library")
	logger.Println("  POST /route.geojson      - Route and obstacles as GeoJSON")
	logger.Println("  POST /visibility         - Visibility graph edges as GeoJSON")
	logger.Println("  GET  /health             - Check server status")
	logger.Printf("Server starting on %s", *addr)

	srv := server.New(adapter, segments, logger)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		logger.Fatal(err)
	}
}

func loadLayout(path string, logger *log.Logger) ([]geometry.Segment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return obstacles.LoadDir(path, logger)
	}
	return obstacles.LoadFile(path)
}
