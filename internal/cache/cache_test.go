package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"svw.info/griphus/internal/domain"
)

type fakeWorld struct {
	pos    map[domain.EntityID]domain.Position
	orient map[domain.EntityID]domain.Cardinal
}

func newFake() *fakeWorld {
	return &fakeWorld{
		pos: map[domain.EntityID]domain.Position{
			0: {X: 1, Y: 1}, // player
			1: {X: 2, Y: 2},
			2: {X: 3, Y: 3}, // reflector
		},
		orient: map[domain.EntityID]domain.Cardinal{2: domain.NE},
	}
}

func (f *fakeWorld) Player() domain.EntityID      { return 0 }
func (f *fakeWorld) Movables() []domain.EntityID  { return []domain.EntityID{1, 2} }
func (f *fakeWorld) Actuators() []domain.EntityID { return []domain.EntityID{2} }

func (f *fakeWorld) Position(id domain.EntityID) domain.Position { return f.pos[id] }
func (f *fakeWorld) Orientation(id domain.EntityID) (domain.Cardinal, bool) {
	o, ok := f.orient[id]
	return o, ok
}

func TestHasSeen(t *testing.T) {
	w := newFake()
	c := New(w)

	assert.False(t, c.HasSeen(), "first presentation is new")
	assert.True(t, c.HasSeen())
	assert.True(t, c.HasSeen())
	assert.Equal(t, 1, c.Size())
}

func TestSingleDifferencesAreDistinct(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(w *fakeWorld)
	}{
		{"player moved", func(w *fakeWorld) { w.pos[0] = domain.Position{X: 1, Y: 2} }},
		{"block moved", func(w *fakeWorld) { w.pos[1] = domain.Position{X: 2, Y: 1} }},
		{"reflector moved", func(w *fakeWorld) { w.pos[2] = domain.Position{X: 4, Y: 3} }},
		{"reflector turned", func(w *fakeWorld) { w.orient[2] = domain.NW }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := newFake()
			c := New(w)
			assert.False(t, c.HasSeen())
			tc.mutate(w)
			assert.False(t, c.HasSeen())
			assert.Equal(t, 2, c.Size())
			// back to the starting configuration
			*w = *newFake()
			assert.True(t, c.HasSeen())
		})
	}
}

func TestNegativeCoordinatesDoNotCollide(t *testing.T) {
	w := newFake()
	c := New(w)
	assert.False(t, c.HasSeen())
	w.pos[1] = domain.Position{X: -2, Y: 2}
	assert.False(t, c.HasSeen())
}
