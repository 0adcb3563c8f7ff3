// Package visibility builds the visibility graph the planner searches: one
// node per distinct obstacle endpoint plus start and end, and an edge between
// every pair of nodes that can see each other.
//
// Node indices are assigned in first-seen order: the start then end of each
// obstacle segment in input order, then the start position, then the end
// position. Equal positions share the first index they were given. Adjacency
// lists are sorted by neighbour index, so searches that scan them in order are
// deterministic for a given input.
//
// Building is O(N²·M) in the worst case for N nodes and M obstacles; the R-tree
// in Index only prunes M per query.
package visibility

import (
	"io"
	"log"

	"pathfinder/internal/geometry"
)

// Edge represents a connection between two nodes with a cost
type Edge struct {
	To   int     // Index of the destination node
	Cost float64 // Euclidean distance
}

// Graph is a visibility graph in arena form: nodes are addressed by index
type Graph struct {
	Nodes []geometry.Position
	Edges [][]Edge
	Start int
	End   int

	lookup map[geometry.Position]int
}

// Builder constructs visibility graphs
type Builder struct {
	Logger *log.Logger
}

var discard = log.New(io.Discard, "", 0)

// Build constructs a visibility graph without logging
func Build(obstacles []geometry.Segment, start, end geometry.Position) *Graph {
	return Builder{}.Build(obstacles, start, end)
}

// Build constructs a visibility graph from the obstacles, start and end
func (b Builder) Build(obstacles []geometry.Segment, start, end geometry.Position) *Graph {
	logger := b.Logger
	if logger == nil {
		logger = discard
	}

	graph := &Graph{
		Nodes:  make([]geometry.Position, 0, 2*len(obstacles)+2),
		lookup: make(map[geometry.Position]int, 2*len(obstacles)+2),
	}

	for _, segment := range obstacles {
		graph.addNode(segment.Start)
		graph.addNode(segment.End)
	}
	graph.Start = graph.addNode(start)
	graph.End = graph.addNode(end)

	totalNodes := len(graph.Nodes)
	totalPossibleEdges := (totalNodes * (totalNodes - 1)) / 2
	logger.Printf("visibility: %d obstacles, %d unique nodes, up to %d edges", len(obstacles), totalNodes, totalPossibleEdges)

	index := NewIndex(obstacles)
	graph.Edges = make([][]Edge, totalNodes)

	edgesChecked := 0
	edgesAdded := 0
	for i := 0; i < totalNodes; i++ {
		for j := i + 1; j < totalNodes; j++ {
			edgesChecked++
			if edgesChecked%100000 == 0 {
				logger.Printf("visibility: %d/%d edges checked", edgesChecked, totalPossibleEdges)
			}

			nodeI, nodeJ := graph.Nodes[i], graph.Nodes[j]
			if !index.HasLineOfSight(nodeI, nodeJ) {
				continue
			}

			distance := geometry.Distance(nodeI, nodeJ)
			graph.Edges[i] = append(graph.Edges[i], Edge{To: j, Cost: distance})
			graph.Edges[j] = append(graph.Edges[j], Edge{To: i, Cost: distance})
			edgesAdded++
		}
	}

	logger.Printf("visibility: %d blocking segments indexed, %d edges added", index.Len(), edgesAdded)

	return graph
}

func (g *Graph) addNode(p geometry.Position) int {
	if idx, ok := g.lookup[p]; ok {
		return idx
	}
	idx := len(g.Nodes)
	g.Nodes = append(g.Nodes, p)
	g.lookup[p] = idx
	return idx
}

// NodeIndex returns the index of the node at p
func (g *Graph) NodeIndex(p geometry.Position) (int, bool) {
	idx, ok := g.lookup[p]
	return idx, ok
}

// Neighbors returns the edges leaving node i in ascending neighbour order
func (g *Graph) Neighbors(i int) []Edge {
	if i < 0 || i >= len(g.Edges) {
		return nil
	}
	return g.Edges[i]
}

// Visible returns the positions that have line of sight to node i
func (g *Graph) Visible(i int) []geometry.Position {
	edges := g.Neighbors(i)
	positions := make([]geometry.Position, 0, len(edges))
	for _, edge := range edges {
		positions = append(positions, g.Nodes[edge.To])
	}
	return positions
}

// EdgeCount returns the number of undirected edges
func (g *Graph) EdgeCount() int {
	count := 0
	for _, edges := range g.Edges {
		count += len(edges)
	}
	return count / 2
}

// Lines returns every undirected edge once, lower node index first
func (g *Graph) Lines() []geometry.Segment {
	lines := make([]geometry.Segment, 0, g.EdgeCount())
	for i, edges := range g.Edges {
		for _, edge := range edges {
			if edge.To > i {
				lines = append(lines, geometry.Segment{Start: g.Nodes[i], End: g.Nodes[edge.To]})
			}
		}
	}
	return lines
}
