// Package obstacles reads obstacle layouts from GeoJSON and writes planned
// paths back as GeoJSON for inspection.
package obstacles

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"pathfinder/internal/geometry"
)

// Feature kinds set in the "kind" property of written features
const (
	KindObstacle   = "obstacle"
	KindPath       = "path"
	KindVisibility = "visibility"
	KindReachable  = "reachable"
)

// LoadDir loads all GeoJSON files from dir, in file-name order
func LoadDir(dir string, logger *log.Logger) ([]geometry.Segment, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	logger.Printf("obstacles: loading %d GeoJSON files from %s", len(files), dir)

	var all []geometry.Segment
	for _, file := range files {
		segments, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		logger.Printf("obstacles: %d segments from %s", len(segments), filepath.Base(file))
		all = append(all, segments...)
	}

	logger.Printf("obstacles: %d segments loaded", len(all))
	return all, nil
}

// LoadFile loads the obstacle segments of one GeoJSON file
func LoadFile(path string) ([]geometry.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	segments, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return segments, nil
}

// Parse converts a GeoJSON FeatureCollection or Feature to obstacle segments
func Parse(data []byte) ([]geometry.Segment, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		var segments []geometry.Segment
		for i, feature := range fc.Features {
			s, err := FromGeometry(feature.Geometry)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			segments = append(segments, s...)
		}
		return segments, nil

	case "Feature":
		feature, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		return FromGeometry(feature.Geometry)
	}

	return nil, fmt.Errorf("unsupported GeoJSON type %q", probe.Type)
}

// FromGeometry converts line and polygon geometries to segments. Polygon rings
// are closed if needed; points are ignored.
func FromGeometry(g orb.Geometry) ([]geometry.Segment, error) {
	var segments []geometry.Segment

	switch g := g.(type) {
	case nil, orb.Point, orb.MultiPoint:
		return nil, nil

	case orb.LineString:
		return lineSegments(g, false)

	case orb.MultiLineString:
		for _, ls := range g {
			s, err := lineSegments(ls, false)
			if err != nil {
				return nil, err
			}
			segments = append(segments, s...)
		}

	case orb.Ring:
		return lineSegments(orb.LineString(g), true)

	case orb.Polygon:
		for _, ring := range g {
			s, err := lineSegments(orb.LineString(ring), true)
			if err != nil {
				return nil, err
			}
			segments = append(segments, s...)
		}

	case orb.MultiPolygon:
		for _, polygon := range g {
			s, err := FromGeometry(polygon)
			if err != nil {
				return nil, err
			}
			segments = append(segments, s...)
		}

	case orb.Collection:
		for _, child := range g {
			s, err := FromGeometry(child)
			if err != nil {
				return nil, err
			}
			segments = append(segments, s...)
		}

	default:
		return nil, fmt.Errorf("unsupported geometry %s", g.GeoJSONType())
	}

	return segments, nil
}

func lineSegments(ls orb.LineString, closed bool) ([]geometry.Segment, error) {
	positions := make([]geometry.Position, len(ls))
	for i, point := range ls {
		p, err := toPosition(point)
		if err != nil {
			return nil, err
		}
		positions[i] = p
	}

	if closed && len(positions) > 1 && positions[0] != positions[len(positions)-1] {
		positions = append(positions, positions[0])
	}

	segments := make([]geometry.Segment, 0, len(positions))
	for i := 1; i < len(positions); i++ {
		segments = append(segments, geometry.Segment{Start: positions[i-1], End: positions[i]})
	}
	return segments, nil
}

func toPosition(point orb.Point) (geometry.Position, error) {
	x, y := point.X(), point.Y()
	if x != math.Trunc(x) || y != math.Trunc(y) {
		return geometry.Position{}, fmt.Errorf("coordinate %v is not integral", point)
	}
	if math.Abs(x) > geometry.MaxCoordinate || math.Abs(y) > geometry.MaxCoordinate {
		return geometry.Position{}, fmt.Errorf("coordinate %v out of range", point)
	}
	return geometry.Position{X: int32(x), Y: int32(y)}, nil
}

// FeatureCollection renders obstacles, an optional path and optional
// visibility edges as one collection, each feature tagged with its kind.
func FeatureCollection(obstacles []geometry.Segment, path geometry.Path, visibility []geometry.Segment) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i, segment := range obstacles {
		f := geojson.NewFeature(orb.LineString{segment.Start.Point(), segment.End.Point()})
		f.Properties["kind"] = KindObstacle
		f.Properties["index"] = i
		fc.Append(f)
	}

	for _, line := range visibility {
		f := geojson.NewFeature(orb.LineString{line.Start.Point(), line.End.Point()})
		f.Properties["kind"] = KindVisibility
		fc.Append(f)
	}

	if len(path) > 0 {
		var g orb.Geometry = path.LineString()
		if len(path) == 1 {
			g = path[0].Point()
		}
		f := geojson.NewFeature(g)
		f.Properties["kind"] = KindPath
		f.Properties["waypoints"] = len(path)
		f.Properties["length"] = path.Length()
		fc.Append(f)
	}

	return fc
}

// Reachable renders the positions in direct sight of from as a MultiPoint
func Reachable(from geometry.Position, positions []geometry.Position) *geojson.Feature {
	points := make(orb.MultiPoint, 0, len(positions))
	for _, p := range positions {
		points = append(points, p.Point())
	}

	f := geojson.NewFeature(points)
	f.Properties["kind"] = KindReachable
	f.Properties["from"] = []int32{from.X, from.Y}
	f.Properties["count"] = len(positions)
	return f
}
