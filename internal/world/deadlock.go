package world

import (
	"github.com/zyedidia/generic/mapset"

	"svw.info/griphus/internal/domain"
)

var corners = [4][2]domain.Cardinal{
	{domain.N, domain.E},
	{domain.E, domain.S},
	{domain.S, domain.W},
	{domain.W, domain.N},
}

// solid reports whether (x, y) can neither be entered nor emptied by the
// player without first moving one of its neighbours. Doors are excluded
// since they may open later.
func (w *World) solid(p domain.Position) bool {
	if !w.inBounds(p.X, p.Y) || w.Tile(p.X, p.Y) == domain.Wall {
		return true
	}
	_, occupied := w.OccupantAt(p.X, p.Y)
	return occupied
}

// Frozen reports whether a movable can never be pushed again: for some
// corner, both orthogonal neighbours and the diagonal are solid. Every
// entity of such a 2x2 square is stuck as long as the others are, so none
// of them ever moves.
func (w *World) Frozen(id domain.EntityID) bool {
	p := w.entities[id].pos
	for _, c := range corners {
		a, b := p.Step(c[0]), p.Step(c[1])
		if w.solid(a) && w.solid(b) && w.solid(a.Step(c[1])) {
			return true
		}
	}
	return false
}

// FrozenEntities lists movables that can never move again.
func (w *World) FrozenEntities() []domain.EntityID {
	var out []domain.EntityID
	for _, id := range w.movables {
		if w.Frozen(id) {
			out = append(out, id)
		}
	}
	return out
}

// IsImpossible reports a dead end: the movables still free to move are
// fewer than the door weight plates that no stuck entity covers. With one
// block per plate this is exactly "a frozen block off a plate".
func (w *World) IsImpossible() bool {
	needed := mapset.New[domain.EntityID]()
	for _, id := range w.doorIDs {
		for _, ref := range w.doors[id].Activations {
			if w.activables[ref].Kind == domain.Weight {
				needed.Put(ref)
			}
		}
	}
	if needed.Size() == 0 {
		return false
	}

	frozen := mapset.New[domain.EntityID]()
	for _, id := range w.FrozenEntities() {
		frozen.Put(id)
	}
	uncovered := 0
	needed.Each(func(plate domain.EntityID) {
		p := w.entities[plate].pos
		occ, ok := w.OccupantAt(p.X, p.Y)
		if ok && (frozen.Has(occ) || w.entities[occ].tags&TagMovable == 0) {
			return
		}
		uncovered++
	})
	movers := len(w.movables) - frozen.Size()
	return movers < uncovered
}
