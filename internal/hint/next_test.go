package hint

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/griphus/internal/domain"
	"svw.info/griphus/internal/level"
	"svw.info/griphus/internal/ports"
	"svw.info/griphus/internal/solver"
)

type stubSolver struct {
	moves string
	err   error
}

func (s stubSolver) Solve(ctx context.Context, l *domain.Level, seed int64) (*domain.Solution, ports.Stats, error) {
	if s.err != nil {
		return nil, ports.Stats{}, s.err
	}
	return &domain.Solution{Moves: s.moves}, ports.Stats{}, nil
}

func TestHintFirstMove(t *testing.T) {
	h, ok, err := NewNextMove(stubSolver{moves: "ENN"}).Hint(context.Background(), &domain.Level{}, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "E", h.Move)
	assert.Equal(t, 2, h.Remaining)
	assert.Contains(t, h.Message, "go east")
}

func TestHintNoRoute(t *testing.T) {
	_, ok, err := NewNextMove(stubSolver{err: solver.ErrUnsolvable}).Hint(context.Background(), &domain.Level{}, 1)
	assert.True(t, errors.Is(err, solver.ErrUnsolvable))
	assert.False(t, ok)

	_, ok, err = NewNextMove(stubSolver{}).Hint(context.Background(), &domain.Level{}, 1)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestHintWithEngine(t *testing.T) {
	l, err := level.Parse("push", "###E###\n#.....#\n#..@bx#\n#.....#\n#######\n")
	require.NoError(t, err)
	h, ok, err := NewNextMove(solver.NewEngine(0, nil)).Hint(context.Background(), l, 4)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, h.Move, 1)
	assert.Contains(t, "NSEWA", h.Move)
}
