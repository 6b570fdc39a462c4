package world

import (
	"github.com/zyedidia/generic/mapset"

	"svw.info/griphus/internal/domain"
)

// beamEdge is a (tile, travel direction) pair already swept by a beam.
type beamEdge struct {
	idx int
	dir domain.Cardinal
}

// Refresh re-derives every layer after positions or orientations changed and
// returns the resulting turn state. Queries are only valid after a Refresh.
func (w *World) Refresh() domain.TurnState {
	w.applyToggles()
	w.RecomputeBlocked()
	w.RecomputeLasers()
	w.updateActivables()
	w.updateDoors()
	w.state = w.turnState()
	return w.state
}

func (w *World) applyToggles() {
	for id, n := range w.toggles {
		if o, ok := w.reflectors[id]; ok && n%2 == 1 {
			if o == domain.NE {
				w.reflectors[id] = domain.NW
			} else {
				w.reflectors[id] = domain.NE
			}
		}
		delete(w.toggles, id)
	}
}

// RecomputeBlocked overwrites the blocked layer: walls, tile-blocking
// entities and closed doors. Door state is the one of the last Refresh.
func (w *World) RecomputeBlocked() {
	for i := range w.blocked {
		w.blocked[i] = w.tiles[i] == domain.Wall
		w.occupant[i] = -1
		w.plates[i] = false
	}
	for _, id := range w.blockerIDs {
		p := w.entities[id].pos
		i := w.idx(p.X, p.Y)
		w.blocked[i] = true
		w.occupant[i] = id
	}
	for _, id := range w.plateIDs {
		p := w.entities[id].pos
		w.plates[w.idx(p.X, p.Y)] = true
	}
	w.markClosedDoors()
}

func (w *World) markClosedDoors() {
	for _, id := range w.doorIDs {
		if !w.doors[id].Opened {
			p := w.entities[id].pos
			w.blocked[w.idx(p.X, p.Y)] = true
		}
	}
}

// RecomputeLasers walks every emitter's beam. A beam marks each tile it
// enters, stops on an opaque tile and turns on reflectors. Re-entering a
// tile in the same direction ends the beam, which bounds reflector cycles.
func (w *World) RecomputeLasers() {
	for i := range w.lasered {
		w.lasered[i] = domain.AxisNone
	}
	opaque := make([]bool, len(w.tiles))
	for i, t := range w.tiles {
		opaque[i] = t == domain.Wall
	}
	mirror := make(map[int]domain.EntityID, len(w.reflectors))
	for id := range w.entities {
		e := w.entities[id]
		i := w.idx(e.pos.X, e.pos.Y)
		if e.tags&TagBlocksLaser != 0 {
			opaque[i] = true
		}
		if _, ok := w.reflectors[domain.EntityID(id)]; ok {
			mirror[i] = domain.EntityID(id)
		}
	}

	for _, id := range w.laserIDs {
		dir := w.lasers[id]
		cur := w.entities[id].pos
		seen := mapset.New[beamEdge]()
		for {
			cur = cur.Step(dir)
			if !w.inBounds(cur.X, cur.Y) {
				break
			}
			i := w.idx(cur.X, cur.Y)
			w.lasered[i] |= dir.Axis()
			edge := beamEdge{idx: i, dir: dir}
			if seen.Has(edge) {
				break
			}
			seen.Put(edge)
			if opaque[i] {
				break
			}
			if m, ok := mirror[i]; ok {
				dir = domain.Reflect(w.reflectors[m], dir)
			}
		}
	}
}

func (w *World) updateActivables() {
	for _, id := range w.activeIDs {
		a := w.activables[id]
		p := w.entities[id].pos
		i := w.idx(p.X, p.Y)
		switch a.Kind {
		case domain.Weight:
			a.Active = w.occupant[i] >= 0
		case domain.LaserHit:
			a.Active = w.lasered[i] != domain.AxisNone
		}
	}
}

func (w *World) updateDoors() {
	for _, id := range w.doorIDs {
		d := w.doors[id]
		open := len(d.Activations) > 0
		for _, ref := range d.Activations {
			open = open && w.activables[ref].Active
		}
		d.Opened = open
	}
	// door state feeds back into the blocked layer only
	for i := range w.blocked {
		w.blocked[i] = w.tiles[i] == domain.Wall || w.occupant[i] >= 0
	}
	w.markClosedDoors()
}

func (w *World) turnState() domain.TurnState {
	p := w.PlayerPosition()
	switch {
	case w.IsLasered(p.X, p.Y):
		return domain.PlayerDead
	case w.IsExit(p.X, p.Y):
		return domain.PlayerAtExit
	}
	return domain.Running
}

// IsBlocked reports whether nothing may enter (x, y). Out of bounds is blocked.
func (w *World) IsBlocked(x, y int) bool {
	if !w.inBounds(x, y) {
		return true
	}
	return w.blocked[w.idx(x, y)]
}

// IsLasered reports whether a beam sweeps (x, y).
func (w *World) IsLasered(x, y int) bool {
	return w.LaserAxis(x, y) != domain.AxisNone
}

// LaserAxis returns the union of beam axes crossing (x, y).
func (w *World) LaserAxis(x, y int) domain.Axis {
	if !w.inBounds(x, y) {
		return domain.AxisNone
	}
	return w.lasered[w.idx(x, y)]
}

func (w *World) IsExit(x, y int) bool { return w.Tile(x, y) == domain.Exit }

// HasPlate reports whether a weight plate lies on (x, y).
func (w *World) HasPlate(x, y int) bool {
	if !w.inBounds(x, y) {
		return false
	}
	return w.plates[w.idx(x, y)]
}

// OccupantAt returns the tile-blocking entity on (x, y), if any.
func (w *World) OccupantAt(x, y int) (domain.EntityID, bool) {
	if !w.inBounds(x, y) {
		return 0, false
	}
	id := w.occupant[w.idx(x, y)]
	return id, id >= 0
}
