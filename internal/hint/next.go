package hint

import (
	"context"
	"fmt"

	"svw.info/griphus/internal/domain"
	"svw.info/griphus/internal/ports"
)

// NextMove implements a Hinter that solves the level and suggests the first
// input of the route found.
type NextMove struct {
	Solver ports.Solver
}

func NewNextMove(s ports.Solver) *NextMove { return &NextMove{Solver: s} }

// Hint returns false without error when the player already stands on an exit.
// Solver errors, ErrUnsolvable included, are passed through.
func (h *NextMove) Hint(ctx context.Context, l *domain.Level, seed int64) (domain.Hint, bool, error) {
	sol, _, err := h.Solver.Solve(ctx, l, seed)
	if err != nil {
		return domain.Hint{}, false, err
	}
	if sol.Moves == "" {
		return domain.Hint{}, false, nil
	}
	move := sol.Moves[:1]
	return domain.Hint{
		Move:      move,
		Message:   fmt.Sprintf("%s: %d more inputs reach an exit", describe(move[0]), len(sol.Moves)-1),
		Remaining: len(sol.Moves) - 1,
	}, true, nil
}

func describe(m byte) string {
	switch m {
	case 'N':
		return "go north"
	case 'S':
		return "go south"
	case 'E':
		return "go east"
	case 'W':
		return "go west"
	case 'A':
		return "actuate"
	}
	return "?"
}
