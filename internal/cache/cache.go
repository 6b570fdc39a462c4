// Package cache remembers every configuration the search has already entered.
package cache

import (
	"encoding/binary"

	"github.com/zyedidia/generic/mapset"

	"svw.info/griphus/internal/domain"
)

// Source is the read access the cache needs.
type Source interface {
	Player() domain.EntityID
	Movables() []domain.EntityID
	Actuators() []domain.EntityID
	Position(id domain.EntityID) domain.Position
	Orientation(id domain.EntityID) (domain.Cardinal, bool)
}

// StatesCache keys each configuration on its canonical snapshot: the
// positions of all movables and the player, then the position and
// orientation of every actuator. Each field has a fixed width, so distinct
// snapshots never share a key.
type StatesCache struct {
	src       Source
	movables  []domain.EntityID
	actuators []domain.EntityID
	seen      mapset.Set[string]
	buf       []byte
}

func New(src Source) *StatesCache {
	return &StatesCache{src: src, seen: mapset.New[string]()}
}

// init captures the entity set once; it is fixed for a level's lifetime.
func (c *StatesCache) init() {
	c.movables = append(append([]domain.EntityID(nil), c.src.Movables()...), c.src.Player())
	c.actuators = append([]domain.EntityID(nil), c.src.Actuators()...)
}

// Key returns the canonical snapshot of the current configuration.
func (c *StatesCache) Key() string {
	if c.movables == nil {
		c.init()
	}
	b := c.buf[:0]
	put := func(p domain.Position) {
		b = binary.BigEndian.AppendUint32(b, uint32(int32(p.X)))
		b = binary.BigEndian.AppendUint32(b, uint32(int32(p.Y)))
	}
	for _, id := range c.movables {
		put(c.src.Position(id))
	}
	for _, id := range c.actuators {
		put(c.src.Position(id))
		o, _ := c.src.Orientation(id)
		b = append(b, byte(o))
	}
	c.buf = b
	return string(b)
}

// HasSeen records the current configuration and reports whether it had
// been recorded before.
func (c *StatesCache) HasSeen() bool {
	k := c.Key()
	if c.seen.Has(k) {
		return true
	}
	c.seen.Put(k)
	return false
}

// Size is the number of distinct configurations recorded.
func (c *StatesCache) Size() int { return c.seen.Size() }
