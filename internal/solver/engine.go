package solver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"svw.info/griphus/internal/domain"
	"svw.info/griphus/internal/history"
	"svw.info/griphus/internal/metrics"
	"svw.info/griphus/internal/ports"
	"svw.info/griphus/internal/world"
)

// ctxCheckEvery is how many ticks run between context checks.
const ctxCheckEvery = 256

// Engine runs a Controller to completion without a host loop.
type Engine struct {
	MaxTicks    int // 0 means unbounded
	// StopOnSolve returns the first route found. When false the whole space
	// is searched and the last route found is returned.
	StopOnSolve bool
	StrictDeath bool
	Logger      *slog.Logger
	Metrics     *metrics.Recorder
}

func NewEngine(maxTicks int, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{MaxTicks: maxTicks, StopOnSolve: true, Logger: logger}
}

// Solve searches l for any route to an exit. It returns ErrUnsolvable when
// the reachable space is exhausted, ErrTickBudget when MaxTicks runs out and
// the context error when ctx ends first.
func (e *Engine) Solve(ctx context.Context, l *domain.Level, seed int64) (*domain.Solution, ports.Stats, error) {
	start := time.Now()
	w, err := world.New(l)
	if err != nil {
		return nil, ports.Stats{}, fmt.Errorf("load level: %w", err)
	}
	c := NewController(w, Options{
		Seed:        seed,
		StopOnSolve: e.StopOnSolve,
		StrictDeath: e.StrictDeath,
		Logger:      e.Logger.With("level", l.Name, "seed", seed),
	})

	ticks := 0
	status := c.Status()
	for status == Searching {
		if ticks%ctxCheckEvery == 0 {
			if err = ctx.Err(); err != nil {
				break
			}
		}
		if e.MaxTicks > 0 && ticks >= e.MaxTicks {
			err = ErrTickBudget
			break
		}
		status, err = c.Tick(SignalNone)
		ticks++
		if err != nil {
			break
		}
	}

	cs := c.Stats()
	st := ports.Stats{
		Ticks:      ticks,
		Searches:   cs.Searches,
		DeadEnds:   cs.DeadEnds,
		Duplicates: cs.Duplicates,
		Solutions:  cs.Solutions,
		CacheSize:  cs.CacheSize,
		Duration:   time.Since(start),
	}
	if err == nil && status == Exhausted {
		err = ErrUnsolvable
	}
	e.Metrics.ObserveSolve(outcome(status, err), st)
	if err != nil {
		return nil, st, err
	}

	moves, _ := c.Solution()
	sol := &domain.Solution{
		Level:     l.Name,
		Seed:      seed,
		Moves:     Moves(moves),
		Steps:     len(moves),
		Energy:    c.SolutionEnergy(),
		Searches:  cs.Searches,
		DeadEnds:  cs.DeadEnds,
		CacheSize: cs.CacheSize,
	}
	e.Logger.Info("solved", "level", l.Name, "steps", sol.Steps, "energy", sol.Energy, "ticks", ticks, "dur", st.Duration.Round(time.Millisecond))
	return sol, st, nil
}

func outcome(status Status, err error) string {
	switch {
	case err == ErrTickBudget:
		return "budget"
	case err == ErrUnsolvable:
		return "exhausted"
	case err == ErrPlayerDied:
		return "died"
	case err != nil:
		return "canceled"
	case status == Solved:
		return "solved"
	}
	return status.String()
}

// Replay plays moves on a fresh world built from l and returns the log. It
// fails on the first move that does not change the world.
func Replay(l *domain.Level, moves string) (*history.Log, error) {
	subs, err := ParseMoves(moves)
	if err != nil {
		return nil, err
	}
	w, err := world.New(l)
	if err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}
	log := history.New(w, nil)
	for i, s := range subs {
		var actions []domain.Action
		if s.Actuate {
			actions = w.TryActuate()
		} else {
			actions = w.TryMove(s.Dir)
		}
		if len(actions) == 0 {
			return log, fmt.Errorf("move %d (%c) is blocked", i, s.Letter())
		}
		log.PlayTurn(actions)
		if log.State() == domain.PlayerDead {
			return log, fmt.Errorf("move %d (%c): %w", i, s.Letter(), ErrPlayerDied)
		}
	}
	return log, nil
}
