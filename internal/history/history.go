// Package history applies batches of world mutations and undoes them exactly.
package history

import (
	"log/slog"

	"svw.info/griphus/internal/domain"
)

// World is the mutation surface a Log needs.
type World interface {
	SetPosition(id domain.EntityID, p domain.Position)
	Actuate(id domain.EntityID)
	UndoActuate(id domain.EntityID)
	// Refresh re-derives the hazard layers and returns the new turn state.
	Refresh() domain.TurnState
}

// Turn is an ordered batch of actions applied and undone together.
type Turn []domain.Action

// Log is a stack of applied turns plus the step and energy counters.
type Log struct {
	world      World
	turns      []Turn
	steps      int
	energyUsed int
	state      domain.TurnState
	logger     *slog.Logger
}

func New(w World, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{world: w, state: domain.Running, logger: logger}
}

func (l *Log) Steps() int              { return l.steps }
func (l *Log) EnergyUsed() int         { return l.energyUsed }
func (l *Log) State() domain.TurnState { return l.state }
func (l *Log) Len() int                { return len(l.turns) }

// Turns returns the applied turns, oldest first. Callers must not modify them.
func (l *Log) Turns() []Turn { return l.turns }

// PlayTurn applies actions in order, pushes them as one turn and refreshes
// the world. An empty batch is ignored.
func (l *Log) PlayTurn(actions []domain.Action) {
	if len(actions) == 0 {
		return
	}
	for _, a := range actions {
		switch a.Kind {
		case domain.ActMove:
			l.world.SetPosition(a.Entity, a.To)
		case domain.ActActuate:
			l.world.Actuate(a.Entity)
		case domain.ActSpendEnergy:
			l.energyUsed += a.Amount
		}
	}
	l.turns = append(l.turns, Turn(actions))
	l.steps++
	l.state = l.world.Refresh()
}

// UndoLastTurn reverts the most recent turn and resets the turn state to
// Running. It does nothing when no turn is applied.
func (l *Log) UndoLastTurn() {
	if len(l.turns) == 0 {
		return
	}
	last := l.turns[len(l.turns)-1]
	l.turns = l.turns[:len(l.turns)-1]
	for i := len(last) - 1; i >= 0; i-- {
		a := last[i]
		switch a.Kind {
		case domain.ActMove:
			l.world.SetPosition(a.Entity, a.From)
		case domain.ActActuate:
			l.world.UndoActuate(a.Entity)
		case domain.ActSpendEnergy:
			l.energyUsed -= a.Amount
		}
	}
	l.steps--
	if l.state == domain.PlayerDead {
		l.logger.Debug("undo clears dead player", "steps", l.steps)
	}
	l.world.Refresh()
	l.state = domain.Running
}

// Undo reverts n turns, stopping early when the log is empty.
func (l *Log) Undo(n int) {
	for i := 0; i < n && len(l.turns) > 0; i++ {
		l.UndoLastTurn()
	}
}
