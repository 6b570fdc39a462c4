package world

import "svw.info/griphus/internal/domain"

// PushEnergy is spent for every push and every actuation.
const PushEnergy = 1

// TryMove returns the actions of stepping the player in dir, pushing the
// movable in front if the tile behind it is free. An empty result means the
// move is impossible; the world is never mutated here.
func (w *World) TryMove(dir domain.Cardinal) []domain.Action {
	if dir.Axis() == domain.AxisNone {
		return nil
	}
	from := w.PlayerPosition()
	dest := from.Step(dir)
	if !w.inBounds(dest.X, dest.Y) {
		return nil
	}
	if !w.IsBlocked(dest.X, dest.Y) {
		return []domain.Action{domain.MoveAction(w.player, from, dest)}
	}
	id, ok := w.OccupantAt(dest.X, dest.Y)
	if !ok || w.entities[id].tags&TagMovable == 0 {
		return nil
	}
	beyond := dest.Step(dir)
	if w.IsBlocked(beyond.X, beyond.Y) {
		return nil
	}
	return []domain.Action{
		domain.MoveAction(w.player, from, dest),
		domain.MoveAction(id, dest, beyond),
		domain.SpendEnergyAction(PushEnergy),
	}
}

// TryActuate returns the actions of actuating every actuator next to the player.
func (w *World) TryActuate() []domain.Action {
	p := w.PlayerPosition()
	var actions []domain.Action
	for _, d := range domain.Cardinals {
		n := p.Step(d)
		for _, id := range w.actuators {
			if w.entities[id].pos == n {
				actions = append(actions, domain.ActuateAction(id), domain.SpendEnergyAction(PushEnergy))
			}
		}
	}
	return actions
}

// Probe stands the player on p, plays the turn returned by act and reports
// the resulting state. The world is restored before Probe returns; ok is
// false when act produced no actions.
func (w *World) Probe(p domain.Position, act func(*World) []domain.Action) (state domain.TurnState, ok bool) {
	from := w.PlayerPosition()
	w.SetPosition(w.player, p)

	actions := act(w)
	if len(actions) == 0 {
		w.SetPosition(w.player, from)
		return domain.Running, false
	}
	for _, a := range actions {
		switch a.Kind {
		case domain.ActMove:
			w.SetPosition(a.Entity, a.To)
		case domain.ActActuate:
			w.Actuate(a.Entity)
		}
	}
	state = w.Refresh()
	for i := len(actions) - 1; i >= 0; i-- {
		switch a := actions[i]; a.Kind {
		case domain.ActMove:
			w.SetPosition(a.Entity, a.From)
		case domain.ActActuate:
			w.UndoActuate(a.Entity)
		}
	}
	w.SetPosition(w.player, from)
	w.Refresh()
	return state, true
}
