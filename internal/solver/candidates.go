package solver

import (
	"svw.info/griphus/internal/domain"
	"svw.info/griphus/internal/world"
)

func walkSteps(path []domain.Cardinal, extra int) []SubAction {
	out := make([]SubAction, 0, len(path)+extra)
	for _, d := range path {
		out = append(out, Move(d))
	}
	return out
}

// candidates enumerates the macro actions available from the current state,
// in a fixed order: exits, pushes, actuations. Routes only cross walkable
// tiles and the final push or actuation is dry-run first, so no candidate
// walks the player into a beam.
func (c *Controller) candidates() []Candidate {
	w := c.world
	from := w.PlayerPosition()
	var out []Candidate

	for _, exit := range w.Exits() {
		path, ok := c.paths.TryGoTo(from, exit)
		if !ok || len(path) == 0 {
			continue
		}
		out = append(out, Candidate{Kind: ExitTo, Target: exit, Steps: walkSteps(path, 0)})
	}

	for _, id := range w.Movables() {
		pos := w.Position(id)
		for _, d := range domain.Cardinals {
			front := pos.Step(d)
			if w.IsBlocked(front.X, front.Y) {
				continue
			}
			behind := pos.Step(d.Opposite())
			path, ok := c.paths.TryGoTo(from, behind)
			if !ok {
				continue
			}
			push := d
			if !c.safe(behind, func(w *world.World) []domain.Action { return w.TryMove(push) }) {
				continue
			}
			steps := append(walkSteps(path, 1), Move(d))
			out = append(out, Candidate{Kind: PushAt, Target: pos, Dir: d, Steps: steps})
		}
	}

	for _, id := range w.Actuators() {
		pos := w.Position(id)
		for _, d := range domain.Cardinals {
			stand := pos.Step(d)
			path, ok := c.paths.TryGoTo(from, stand)
			if !ok {
				continue
			}
			if !c.safe(stand, (*world.World).TryActuate) {
				continue
			}
			steps := append(walkSteps(path, 1), Actuate())
			out = append(out, Candidate{Kind: ActivateAt, Target: pos, Dir: d, Steps: steps})
		}
	}
	return out
}

// safe dry-runs act with the player standing on p.
func (c *Controller) safe(p domain.Position, act func(*world.World) []domain.Action) bool {
	state, ok := c.world.Probe(p, act)
	return ok && state != domain.PlayerDead
}
