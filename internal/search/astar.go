// Package search finds shortest paths over a visibility graph.
package search

import (
	"container/heap"
	"math"

	"pathfinder/internal/geometry"
	"pathfinder/internal/visibility"
)

// searchState is the A* bookkeeping for one graph node
type searchState struct {
	g, f   float64 // cost from start, and g plus the heuristic
	parent int
	slot   int // position in the open queue, -1 when not queued
	closed bool
}

// openQueue holds node ids ordered by f, then node id. The states slice is
// shared with the search so priorities can be lowered in place.
type openQueue struct {
	ids    []int
	states []searchState
}

func (q *openQueue) Len() int { return len(q.ids) }

func (q *openQueue) Less(i, j int) bool {
	a, b := q.ids[i], q.ids[j]
	if q.states[a].f != q.states[b].f {
		return q.states[a].f < q.states[b].f
	}
	return a < b
}

func (q *openQueue) Swap(i, j int) {
	q.ids[i], q.ids[j] = q.ids[j], q.ids[i]
	q.states[q.ids[i]].slot = i
	q.states[q.ids[j]].slot = j
}

func (q *openQueue) Push(x interface{}) {
	id := x.(int)
	q.states[id].slot = len(q.ids)
	q.ids = append(q.ids, id)
}

func (q *openQueue) Pop() interface{} {
	n := len(q.ids)
	id := q.ids[n-1]
	q.ids = q.ids[:n-1]
	q.states[id].slot = -1
	return id
}

// AStar computes the shortest path from graph.Start to graph.End using the
// Euclidean distance to the end as heuristic.
func AStar(graph *visibility.Graph) (geometry.Path, bool) {
	if graph == nil || len(graph.Nodes) == 0 {
		return nil, false
	}

	endPoint := graph.Nodes[graph.End]
	heuristic := func(id int) float64 {
		return geometry.Distance(graph.Nodes[id], endPoint)
	}

	states := make([]searchState, len(graph.Nodes))
	for i := range states {
		states[i] = searchState{g: math.Inf(1), parent: -1, slot: -1}
	}

	open := &openQueue{states: states}
	states[graph.Start].g = 0
	states[graph.Start].f = heuristic(graph.Start)
	heap.Push(open, graph.Start)

	for open.Len() > 0 {
		current := heap.Pop(open).(int)
		if current == graph.End {
			return reconstruct(graph, states, current), true
		}
		states[current].closed = true

		for _, edge := range graph.Neighbors(current) {
			next := &states[edge.To]
			if next.closed {
				continue
			}

			g := states[current].g + edge.Cost
			if g >= next.g {
				continue
			}
			next.g = g
			next.f = g + heuristic(edge.To)
			next.parent = current

			if next.slot < 0 {
				heap.Push(open, edge.To)
			} else {
				heap.Fix(open, next.slot)
			}
		}
	}

	return nil, false
}

// reconstruct walks parent links back from last to the start
func reconstruct(graph *visibility.Graph, states []searchState, last int) geometry.Path {
	length := 0
	for id := last; id >= 0; id = states[id].parent {
		length++
	}

	path := make(geometry.Path, length)
	for id := last; id >= 0; id = states[id].parent {
		length--
		path[length] = graph.Nodes[id]
	}
	return path
}
