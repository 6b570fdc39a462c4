// Package world holds the entity arena of a loaded level and derives the
// blocked and lasered layers from it.
package world

import (
	"errors"
	"fmt"

	"svw.info/griphus/internal/domain"
)

// Tag is a marker bitmask attached to an entity.
type Tag uint16

const (
	TagPlayer Tag = 1 << iota
	TagBlock
	TagMovable
	TagActuator
	TagBlocksTile
	TagBlocksLaser
)

type entity struct {
	pos  domain.Position
	tags Tag
}

// World is the arena: entity handles index the component tables below.
// Entities are created by New only; none are added or removed afterwards.
type World struct {
	width, height int
	tiles         []domain.Tile
	exits         []domain.Position

	entities   []entity
	lasers     map[domain.EntityID]domain.Cardinal
	reflectors map[domain.EntityID]domain.Cardinal
	activables map[domain.EntityID]*domain.Activable
	doors      map[domain.EntityID]*domain.Door

	// per-marker indices, ascending by handle
	player     domain.EntityID
	movables   []domain.EntityID
	actuators  []domain.EntityID
	laserIDs   []domain.EntityID
	plateIDs   []domain.EntityID
	activeIDs  []domain.EntityID
	doorIDs    []domain.EntityID
	blockerIDs []domain.EntityID

	// pending actuation pulses, consumed by Refresh
	toggles map[domain.EntityID]int

	// derived layers
	blocked  []bool
	lasered  []domain.Axis
	occupant []domain.EntityID // tile-blocking entity per tile, -1 if none
	plates   []bool
	state    domain.TurnState
}

var errNoPlayer = errors.New("level has no player")

// New builds a world from a level and refreshes it once.
func New(l *domain.Level) (*World, error) {
	if l == nil || l.Width <= 0 || l.Height <= 0 || len(l.Tiles) != l.Width*l.Height {
		return nil, errors.New("invalid level dimensions")
	}
	n := l.Width * l.Height
	w := &World{
		width:      l.Width,
		height:     l.Height,
		tiles:      append([]domain.Tile(nil), l.Tiles...),
		lasers:     make(map[domain.EntityID]domain.Cardinal),
		reflectors: make(map[domain.EntityID]domain.Cardinal),
		activables: make(map[domain.EntityID]*domain.Activable),
		doors:      make(map[domain.EntityID]*domain.Door),
		player:     -1,
		toggles:    make(map[domain.EntityID]int),
		blocked:    make([]bool, n),
		lasered:    make([]domain.Axis, n),
		occupant:   make([]domain.EntityID, n),
		plates:     make([]bool, n),
	}
	for i, t := range w.tiles {
		if t == domain.Exit {
			w.exits = append(w.exits, w.idxPos(i))
		}
	}

	spawned := make([]domain.EntityID, len(l.Spawns))
	for i, s := range l.Spawns {
		if !w.inBounds(s.Pos.X, s.Pos.Y) {
			return nil, fmt.Errorf("spawn %d out of bounds at (%d,%d)", i, s.Pos.X, s.Pos.Y)
		}
		id, err := w.spawn(s)
		if err != nil {
			return nil, fmt.Errorf("spawn %d: %w", i, err)
		}
		spawned[i] = id
	}
	if w.player < 0 {
		return nil, errNoPlayer
	}
	for i, d := range l.Doors {
		if !w.inBounds(d.Pos.X, d.Pos.Y) {
			return nil, fmt.Errorf("door %d out of bounds at (%d,%d)", i, d.Pos.X, d.Pos.Y)
		}
		door := &domain.Door{}
		for _, ref := range d.Activations {
			if ref < 0 || ref >= len(spawned) || w.activables[spawned[ref]] == nil {
				return nil, fmt.Errorf("door %d: activation %d is not an activable", i, ref)
			}
			door.Activations = append(door.Activations, spawned[ref])
		}
		id := w.add(d.Pos, TagBlocksLaser)
		w.doors[id] = door
		w.doorIDs = append(w.doorIDs, id)
	}
	w.Refresh()
	return w, nil
}

func (w *World) add(p domain.Position, tags Tag) domain.EntityID {
	id := domain.EntityID(len(w.entities))
	w.entities = append(w.entities, entity{pos: p, tags: tags})
	if tags&TagMovable != 0 {
		w.movables = append(w.movables, id)
	}
	if tags&TagActuator != 0 {
		w.actuators = append(w.actuators, id)
	}
	if tags&TagBlocksTile != 0 {
		w.blockerIDs = append(w.blockerIDs, id)
	}
	return id
}

func (w *World) spawn(s domain.Spawn) (domain.EntityID, error) {
	switch s.Kind {
	case domain.SpawnPlayer:
		if w.player >= 0 {
			return 0, errors.New("second player")
		}
		w.player = w.add(s.Pos, TagPlayer)
		return w.player, nil
	case domain.SpawnBlock:
		return w.add(s.Pos, TagBlock|TagMovable|TagBlocksTile|TagBlocksLaser), nil
	case domain.SpawnLaser:
		if s.Dir.Axis() == domain.AxisNone {
			return 0, fmt.Errorf("laser direction %v", s.Dir)
		}
		id := w.add(s.Pos, TagMovable|TagBlocksTile|TagBlocksLaser)
		w.lasers[id] = s.Dir
		w.laserIDs = append(w.laserIDs, id)
		return id, nil
	case domain.SpawnReflector:
		if s.Dir != domain.NE && s.Dir != domain.NW {
			return 0, fmt.Errorf("reflector orientation %v", s.Dir)
		}
		id := w.add(s.Pos, TagMovable|TagActuator|TagBlocksTile)
		w.reflectors[id] = s.Dir
		return id, nil
	case domain.SpawnPlate:
		id := w.add(s.Pos, 0)
		w.activables[id] = &domain.Activable{Kind: domain.Weight}
		w.plateIDs = append(w.plateIDs, id)
		w.activeIDs = append(w.activeIDs, id)
		return id, nil
	case domain.SpawnReceptor:
		id := w.add(s.Pos, TagBlocksTile|TagBlocksLaser)
		w.activables[id] = &domain.Activable{Kind: domain.LaserHit}
		w.activeIDs = append(w.activeIDs, id)
		return id, nil
	}
	return 0, fmt.Errorf("unknown spawn kind %d", s.Kind)
}

func (w *World) Width() int  { return w.width }
func (w *World) Height() int { return w.height }

func (w *World) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < w.width && y < w.height
}

func (w *World) idx(x, y int) int { return y*w.width + x }

func (w *World) idxPos(i int) domain.Position {
	return domain.Position{X: i % w.width, Y: i / w.width}
}

// Tile returns the tile kind; out of bounds reads as Wall.
func (w *World) Tile(x, y int) domain.Tile {
	if !w.inBounds(x, y) {
		return domain.Wall
	}
	return w.tiles[w.idx(x, y)]
}

// Exits lists exit tiles in row-major order.
func (w *World) Exits() []domain.Position { return w.exits }

// Player returns the player's handle.
func (w *World) Player() domain.EntityID { return w.player }

// PlayerPosition returns the player's tile.
func (w *World) PlayerPosition() domain.Position { return w.entities[w.player].pos }

// Movables lists pushable entities (blocks, lasers, reflectors), excluding the player.
func (w *World) Movables() []domain.EntityID { return w.movables }

// Actuators lists entities that react to TryActuate.
func (w *World) Actuators() []domain.EntityID { return w.actuators }

// Position returns the tile of an entity.
func (w *World) Position(id domain.EntityID) domain.Position { return w.entities[id].pos }

// Tags returns the marker set of an entity.
func (w *World) Tags(id domain.EntityID) Tag { return w.entities[id].tags }

// Orientation returns a reflector's orientation and whether id is one.
func (w *World) Orientation(id domain.EntityID) (domain.Cardinal, bool) {
	o, ok := w.reflectors[id]
	return o, ok
}

// Activable returns the activation record of a plate or receptor.
func (w *World) Activable(id domain.EntityID) (domain.Activable, bool) {
	a, ok := w.activables[id]
	if !ok {
		return domain.Activable{}, false
	}
	return *a, true
}

// Door returns the door record of id.
func (w *World) Door(id domain.EntityID) (domain.Door, bool) {
	d, ok := w.doors[id]
	if !ok {
		return domain.Door{}, false
	}
	return *d, true
}

// Doors lists door handles.
func (w *World) Doors() []domain.EntityID { return w.doorIDs }

// State is the turn state computed by the last Refresh.
func (w *World) State() domain.TurnState { return w.state }

// SetPosition moves an entity without any rule checks.
func (w *World) SetPosition(id domain.EntityID, p domain.Position) {
	w.entities[id].pos = p
}

// Actuate registers an actuation pulse on id for the next Refresh.
func (w *World) Actuate(id domain.EntityID) { w.toggles[id]++ }

// UndoActuate registers the reverse pulse. Reflectors have two states, so
// it flips exactly like Actuate.
func (w *World) UndoActuate(id domain.EntityID) { w.toggles[id]++ }
