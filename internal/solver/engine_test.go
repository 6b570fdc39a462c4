package solver

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/griphus/internal/domain"
	"svw.info/griphus/internal/generator"
	"svw.info/griphus/internal/level"
	"svw.info/griphus/internal/metrics"
)

func parse(t *testing.T, text string) *domain.Level {
	t.Helper()
	l, err := level.Parse(t.Name(), text)
	require.NoError(t, err)
	return l
}

func TestEngineSolveUnder1s(t *testing.T) {
	e := NewEngine(0, nil)
	e.Metrics = metrics.New(prometheus.NewRegistry())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for _, text := range []string{pushRoom, beamRoom} {
		l := parse(t, text)
		sol, st, err := e.Solve(ctx, l, 42)
		require.NoError(t, err, "searches=%d dur=%v", st.Searches, st.Duration)
		assert.Equal(t, len(sol.Moves), sol.Steps)
		assert.Equal(t, int64(42), sol.Seed)
		assert.Positive(t, st.Ticks)
		assert.Less(t, st.Duration, time.Second)

		log, err := Replay(l, sol.Moves)
		require.NoError(t, err)
		assert.Equal(t, domain.PlayerAtExit, log.State())
		assert.Equal(t, sol.Energy, log.EnergyUsed())
	}
}

func TestEngineExhaustiveSearch(t *testing.T) {
	e := NewEngine(0, nil)
	e.StopOnSolve = false
	l := parse(t, pushRoom)
	sol, st, err := e.Solve(context.Background(), l, 8)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, st.Solutions, uint64(1))
	assert.Positive(t, st.Duplicates)

	log, err := Replay(l, sol.Moves)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerAtExit, log.State())
}

func TestEngineUnsolvable(t *testing.T) {
	_, st, err := NewEngine(0, nil).Solve(context.Background(), parse(t, walledPlate), 1)
	require.ErrorIs(t, err, ErrUnsolvable)
	assert.Zero(t, st.Solutions)
}

func TestEngineTickBudget(t *testing.T) {
	_, st, err := NewEngine(3, nil).Solve(context.Background(), parse(t, beamRoom), 1)
	require.ErrorIs(t, err, ErrTickBudget)
	assert.Equal(t, 3, st.Ticks)
}

func TestEngineCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewEngine(0, nil).Solve(ctx, parse(t, pushRoom), 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestEngineRejectsBrokenLevel(t *testing.T) {
	_, _, err := NewEngine(0, nil).Solve(context.Background(), &domain.Level{Name: "broken"}, 1)
	assert.Error(t, err)
}

// Every generated room the engine solves must replay to the exit, and every
// room it gives up on must fail a plain brute-force search as well.
func TestEngineOnGeneratedRooms(t *testing.T) {
	gen := generator.NewRoomGenerator()
	e := NewEngine(200_000, nil)
	solved := 0
	for seed := int64(1); seed <= 40; seed++ {
		l, err := gen.Generate(context.Background(), seed, domain.GenOptions{Width: 6, Height: 6, Blocks: 1, Walls: int(seed % 3)})
		require.NoError(t, err)
		sol, _, err := e.Solve(context.Background(), l, seed)
		if err != nil {
			require.ErrorIs(t, err, ErrUnsolvable, "seed %d", seed)
			assert.False(t, bruteForceSolvable(l), "seed %d: engine gave up on a solvable room\n%s", seed, level.Format(l))
			continue
		}
		solved++
		log, err := Replay(l, sol.Moves)
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, domain.PlayerAtExit, log.State(), "seed %d", seed)
	}
	assert.Positive(t, solved)
}

// bruteForceSolvable explores single player steps for one-block rooms.
func bruteForceSolvable(l *domain.Level) bool {
	type state struct{ player, block domain.Position }
	var start state
	var plate, exit domain.Position
	for _, s := range l.Spawns {
		switch s.Kind {
		case domain.SpawnPlayer:
			start.player = s.Pos
		case domain.SpawnBlock:
			start.block = s.Pos
		case domain.SpawnPlate:
			plate = s.Pos
		}
	}
	for i, tl := range l.Tiles {
		if tl == domain.Exit {
			exit = domain.Position{X: i % l.Width, Y: i / l.Width}
		}
	}
	open := func(s state, p domain.Position) bool {
		switch l.TileAt(p.X, p.Y) {
		case domain.Wall:
			return false
		case domain.Exit:
			return s.block == plate
		}
		return true
	}
	seen := map[state]bool{start: true}
	queue := []state{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.player == exit {
			return true
		}
		for _, d := range domain.Cardinals {
			n := cur
			n.player = cur.player.Step(d)
			if !open(cur, n.player) {
				continue
			}
			if n.player == cur.block {
				n.block = cur.block.Step(d)
				if !open(cur, n.block) {
					continue
				}
			}
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}
