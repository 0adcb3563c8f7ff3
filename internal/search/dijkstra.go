package search

import (
	"container/heap"
	"math"

	"pathfinder/internal/geometry"
	"pathfinder/internal/visibility"
)

type queueItem struct {
	id   int
	dist float64
}

// distQueue is a lazy-deletion min-heap ordered by distance then node id
type distQueue []queueItem

func (q distQueue) Len() int { return len(q) }

func (q distQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].id < q[j].id
}

func (q distQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *distQueue) Push(x interface{}) { *q = append(*q, x.(queueItem)) }

func (q *distQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// shortestTree runs Dijkstra from node from. It returns the distance to every
// node (+Inf when unreachable) and the predecessor of every node (-1 for from
// and unreachable nodes).
func shortestTree(graph *visibility.Graph, from int) ([]float64, []int) {
	dist := make([]float64, len(graph.Nodes))
	prev := make([]int, len(graph.Nodes))
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	if from < 0 || from >= len(graph.Nodes) {
		return dist, prev
	}

	dist[from] = 0
	q := &distQueue{{id: from}}
	for q.Len() > 0 {
		item := heap.Pop(q).(queueItem)
		if item.dist > dist[item.id] {
			continue // stale entry
		}

		for _, edge := range graph.Neighbors(item.id) {
			alt := item.dist + edge.Cost
			if alt < dist[edge.To] {
				dist[edge.To] = alt
				prev[edge.To] = item.id
				heap.Push(q, queueItem{id: edge.To, dist: alt})
			}
		}
	}

	return dist, prev
}

// Distances returns the shortest distance from node from to every node of the graph
func Distances(graph *visibility.Graph, from int) []float64 {
	dist, _ := shortestTree(graph, from)
	return dist
}

// Dijkstra computes the shortest path from graph.Start to graph.End
func Dijkstra(graph *visibility.Graph) (geometry.Path, bool) {
	if graph == nil || len(graph.Nodes) == 0 {
		return nil, false
	}

	dist, prev := shortestTree(graph, graph.Start)
	if math.IsInf(dist[graph.End], 1) {
		return nil, false
	}

	length := 1
	for id := graph.End; id != graph.Start; id = prev[id] {
		length++
	}

	path := make(geometry.Path, length)
	for id := graph.End; ; id = prev[id] {
		length--
		path[length] = graph.Nodes[id]
		if id == graph.Start {
			break
		}
	}
	return path, true
}
