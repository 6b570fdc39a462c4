// Package pathing finds shortest walkable routes on the 4-connected grid.
// A tile is walkable iff it is neither blocked nor lasered.
package pathing

import (
	"container/heap"

	"svw.info/griphus/internal/domain"
)

// Grid is the hazard view the planner needs.
type Grid interface {
	Width() int
	Height() int
	IsBlocked(x, y int) bool
	IsLasered(x, y int) bool
}

// Planner keeps scratch buffers sized to one grid; it is not safe for
// concurrent use.
type Planner struct {
	grid     Grid
	width    int
	gScore   []int
	cameFrom []int
	closed   []bool
	open     openSet
}

func New(g Grid) *Planner {
	n := g.Width() * g.Height()
	return &Planner{
		grid:     g,
		width:    g.Width(),
		gScore:   make([]int, n),
		cameFrom: make([]int, n),
		closed:   make([]bool, n),
	}
}

func (p *Planner) walkable(x, y int) bool {
	return !p.grid.IsBlocked(x, y) && !p.grid.IsLasered(x, y)
}

func (p *Planner) inBounds(pos domain.Position) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < p.width && pos.Y < p.grid.Height()
}

// TryGoTo returns the directions of a shortest route from -> to. It returns
// an empty route when from == to and false when to is unwalkable or
// unreachable. Ties between equal routes are broken by fixed rules, so the
// result depends on the map state only.
func (p *Planner) TryGoTo(from, to domain.Position) ([]domain.Cardinal, bool) {
	if from == to {
		return []domain.Cardinal{}, true
	}
	if !p.inBounds(from) || !p.inBounds(to) || !p.walkable(to.X, to.Y) {
		return nil, false
	}
	if !p.search(from, to) {
		return nil, false
	}
	start, goal := p.index(from), p.index(to)
	var rev []domain.Cardinal
	for cur := goal; cur != start; cur = p.cameFrom[cur] {
		prev := p.cameFrom[cur]
		switch cur - prev {
		case 1:
			rev = append(rev, domain.E)
		case -1:
			rev = append(rev, domain.W)
		case p.width:
			rev = append(rev, domain.S)
		case -p.width:
			rev = append(rev, domain.N)
		}
	}
	path := make([]domain.Cardinal, len(rev))
	for i, d := range rev {
		path[len(rev)-1-i] = d
	}
	return path, true
}

// CanGoTo is TryGoTo without building the route.
func (p *Planner) CanGoTo(from, to domain.Position) bool {
	if from == to {
		return true
	}
	if !p.inBounds(from) || !p.inBounds(to) || !p.walkable(to.X, to.Y) {
		return false
	}
	return p.search(from, to)
}

func (p *Planner) index(pos domain.Position) int { return pos.Y*p.width + pos.X }

func manhattan(a, b domain.Position) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// search runs A* with unit costs and a Manhattan heuristic, filling cameFrom.
func (p *Planner) search(from, to domain.Position) bool {
	for i := range p.gScore {
		p.gScore[i] = -1
		p.cameFrom[i] = -1
		p.closed[i] = false
	}
	p.open = p.open[:0]
	start, goal := p.index(from), p.index(to)
	p.gScore[start] = 0
	heap.Push(&p.open, node{idx: start, g: 0, f: manhattan(from, to)})

	for p.open.Len() > 0 {
		cur := heap.Pop(&p.open).(node)
		if p.closed[cur.idx] {
			continue
		}
		if cur.idx == goal {
			return true
		}
		p.closed[cur.idx] = true
		pos := domain.Position{X: cur.idx % p.width, Y: cur.idx / p.width}
		for _, d := range domain.Cardinals {
			n := pos.Step(d)
			if !p.inBounds(n) || !p.walkable(n.X, n.Y) {
				continue
			}
			ni := p.index(n)
			if p.closed[ni] {
				continue
			}
			g := cur.g + 1
			if old := p.gScore[ni]; old >= 0 && old <= g {
				continue
			}
			p.gScore[ni] = g
			p.cameFrom[ni] = cur.idx
			heap.Push(&p.open, node{idx: ni, g: g, f: g + manhattan(n, to)})
		}
	}
	return false
}

// --- Priority Queue Implementation ---

type node struct {
	idx  int
	g, f int
}

type openSet []node

func (o openSet) Len() int { return len(o) }

// Less orders by f, then prefers deeper nodes, then lower tile index.
func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	if o[i].g != o[j].g {
		return o[i].g > o[j].g
	}
	return o[i].idx < o[j].idx
}

func (o openSet) Swap(i, j int) { o[i], o[j] = o[j], o[i] }

func (o *openSet) Push(x any) { *o = append(*o, x.(node)) }

func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	it := old[n-1]
	*o = old[:n-1]
	return it
}
