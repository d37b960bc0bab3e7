package optimizer

import (
	"math"
	"sort"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
)

// fillCost returns the cheapest total price that seats need[s] players in
// every slot s from pool, and false when no complete fill exists.
//
// Only the k cheapest players of each position can matter, where k is the
// number of open seats accepting that position, so the network stays small.
func fillCost(pool []model.Player, slots []model.RosterSlot, need []int) (float64, bool) {
	total := 0
	for _, n := range need {
		total += n
	}
	if total == 0 {
		return 0, true
	}
	cand := cheapestPerPosition(pool, slots, need)
	if len(cand) < total {
		return 0, false
	}

	n, m := len(cand), len(slots)
	src, sink := 0, n+m+1
	g := newFlowGraph(n + m + 2)
	for i, p := range cand {
		g.addEdge(src, 1+i, 1, p.Price)
		for s, slot := range slots {
			if need[s] > 0 && slot.Accepts(p.Position) {
				g.addEdge(1+i, 1+n+s, 1, 0)
			}
		}
	}
	for s := range slots {
		if need[s] > 0 {
			g.addEdge(1+n+s, sink, need[s], 0)
		}
	}
	flow, cost := g.minCostFlow(src, sink, total)
	return cost, flow == total
}

func cheapestPerPosition(pool []model.Player, slots []model.RosterSlot, need []int) []model.Player {
	byPos := map[model.Position][]model.Player{}
	for _, p := range pool {
		byPos[p.Position] = append(byPos[p.Position], p)
	}
	var out []model.Player
	for _, pos := range model.AllPositions {
		k := 0
		for s, slot := range slots {
			if slot.Accepts(pos) {
				k += need[s]
			}
		}
		group := byPos[pos]
		if k == 0 || len(group) == 0 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			if group[i].Price != group[j].Price {
				return group[i].Price < group[j].Price
			}
			return group[i].ID < group[j].ID
		})
		if len(group) > k {
			group = group[:k]
		}
		out = append(out, group...)
	}
	return out
}

type flowEdge struct {
	to, rev, cap int
	cost         float64
}

type flowGraph struct {
	adj [][]flowEdge
}

func newFlowGraph(n int) *flowGraph {
	return &flowGraph{adj: make([][]flowEdge, n)}
}

func (g *flowGraph) addEdge(u, v, capacity int, cost float64) {
	g.adj[u] = append(g.adj[u], flowEdge{to: v, rev: len(g.adj[v]), cap: capacity, cost: cost})
	g.adj[v] = append(g.adj[v], flowEdge{to: u, rev: len(g.adj[u]) - 1, cap: 0, cost: -cost})
}

// minCostFlow pushes up to want units along successive shortest paths.
// Residual edges carry negative costs, so paths come from Bellman-Ford
// (queue-based).
func (g *flowGraph) minCostFlow(s, t, want int) (int, float64) {
	n := len(g.adj)
	dist := make([]float64, n)
	prevNode := make([]int, n)
	prevEdge := make([]int, n)
	inQueue := make([]bool, n)

	flow, cost := 0, 0.0
	for flow < want {
		for i := range dist {
			dist[i] = math.Inf(1)
			prevNode[i] = -1
		}
		dist[s] = 0
		queue := []int{s}
		inQueue[s] = true
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			inQueue[u] = false
			for i, e := range g.adj[u] {
				if e.cap > 0 && dist[u]+e.cost < dist[e.to]-1e-12 {
					dist[e.to] = dist[u] + e.cost
					prevNode[e.to] = u
					prevEdge[e.to] = i
					if !inQueue[e.to] {
						inQueue[e.to] = true
						queue = append(queue, e.to)
					}
				}
			}
		}
		if math.IsInf(dist[t], 1) {
			break
		}

		f := want - flow
		for v := t; v != s; v = prevNode[v] {
			if c := g.adj[prevNode[v]][prevEdge[v]].cap; c < f {
				f = c
			}
		}
		for v := t; v != s; v = prevNode[v] {
			e := &g.adj[prevNode[v]][prevEdge[v]]
			e.cap -= f
			g.adj[v][e.rev].cap += f
		}
		flow += f
		cost += float64(f) * dist[t]
	}
	return flow, cost
}
