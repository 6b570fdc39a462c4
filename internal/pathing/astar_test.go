package pathing

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/griphus/internal/domain"
)

// charGrid: '#' blocked, '~' lasered, anything else walkable.
type charGrid struct {
	rows []string
}

func parseGrid(s string) *charGrid {
	return &charGrid{rows: strings.Split(strings.Trim(s, "\n"), "\n")}
}

func (g *charGrid) Width() int  { return len(g.rows[0]) }
func (g *charGrid) Height() int { return len(g.rows) }
func (g *charGrid) at(x, y int) byte {
	if x < 0 || y < 0 || y >= len(g.rows) || x >= len(g.rows[y]) {
		return '#'
	}
	return g.rows[y][x]
}
func (g *charGrid) IsBlocked(x, y int) bool { return g.at(x, y) == '#' }
func (g *charGrid) IsLasered(x, y int) bool { return g.at(x, y) == '~' }

func walk(from domain.Position, path []domain.Cardinal) domain.Position {
	for _, d := range path {
		from = from.Step(d)
	}
	return from
}

// bfsDistance is the reference shortest distance, -1 if unreachable.
func bfsDistance(g *charGrid, from, to domain.Position) int {
	if from == to {
		return 0
	}
	walkable := func(p domain.Position) bool {
		c := g.at(p.X, p.Y)
		return c != '#' && c != '~'
	}
	if !walkable(to) {
		return -1
	}
	dist := map[domain.Position]int{from: 0}
	queue := []domain.Position{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range domain.Cardinals {
			n := cur.Step(d)
			if _, seen := dist[n]; seen || !walkable(n) {
				continue
			}
			dist[n] = dist[cur] + 1
			if n == to {
				return dist[n]
			}
			queue = append(queue, n)
		}
	}
	return -1
}

func TestTryGoTo(t *testing.T) {
	g := parseGrid(`
#######
#.....#
#.###.#
#.~.#.#
#...#.#
#######`)
	p := New(g)

	cases := []struct {
		name     string
		from, to domain.Position
		ok       bool
		length   int
	}{
		{"same tile", domain.Position{X: 1, Y: 1}, domain.Position{X: 1, Y: 1}, true, 0},
		{"straight", domain.Position{X: 1, Y: 1}, domain.Position{X: 5, Y: 1}, true, 4},
		{"around wall", domain.Position{X: 1, Y: 4}, domain.Position{X: 5, Y: 4}, true, 10},
		{"into wall", domain.Position{X: 1, Y: 1}, domain.Position{X: 2, Y: 2}, false, 0},
		{"into laser", domain.Position{X: 1, Y: 1}, domain.Position{X: 2, Y: 3}, false, 0},
		{"past laser", domain.Position{X: 1, Y: 1}, domain.Position{X: 3, Y: 3}, true, 6},
		{"out of bounds", domain.Position{X: 1, Y: 1}, domain.Position{X: 40, Y: 3}, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path, ok := p.TryGoTo(tc.from, tc.to)
			require.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.ok, p.CanGoTo(tc.from, tc.to))
			if !ok {
				assert.Nil(t, path)
				return
			}
			assert.NotNil(t, path)
			assert.Len(t, path, tc.length)
			assert.Equal(t, tc.to, walk(tc.from, path))
		})
	}
}

func TestTryGoToAvoidsLaseredTiles(t *testing.T) {
	g := parseGrid(`
#####
#...#
#~#.#
#...#
#####`)
	path, ok := New(g).TryGoTo(domain.Position{X: 1, Y: 1}, domain.Position{X: 1, Y: 3})
	require.True(t, ok)
	assert.Len(t, path, 6)
}

func TestTryGoToMatchesBreadthFirst(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		w, h := 4+rng.Intn(6), 4+rng.Intn(6)
		rows := make([]string, h)
		for y := range rows {
			var sb strings.Builder
			for x := 0; x < w; x++ {
				switch r := rng.Intn(10); {
				case r < 2:
					sb.WriteByte('#')
				case r < 3:
					sb.WriteByte('~')
				default:
					sb.WriteByte('.')
				}
			}
			rows[y] = sb.String()
		}
		g := &charGrid{rows: rows}
		p := New(g)
		for q := 0; q < 10; q++ {
			from := domain.Position{X: rng.Intn(w), Y: rng.Intn(h)}
			to := domain.Position{X: rng.Intn(w), Y: rng.Intn(h)}
			want := bfsDistance(g, from, to)
			path, ok := p.TryGoTo(from, to)
			if want < 0 {
				assert.False(t, ok, "round %d %v->%v", round, from, to)
				continue
			}
			require.True(t, ok, "round %d %v->%v", round, from, to)
			assert.Len(t, path, want)
			assert.Equal(t, to, walk(from, path))

			again, _ := p.TryGoTo(from, to)
			assert.Equal(t, path, again, "routes must be reproducible")
		}
	}
}
