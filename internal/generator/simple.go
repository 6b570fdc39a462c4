package generator

import (
	"context"
	"fmt"
	"math/rand"

	"svw.info/griphus/internal/domain"
)

func (g *RoomGenerator) fill(o domain.GenOptions) domain.GenOptions {
	if o.Width == 0 {
		o.Width = g.Defaults.Width
	}
	if o.Height == 0 {
		o.Height = g.Defaults.Height
	}
	if o.Blocks == 0 {
		o.Blocks = g.Defaults.Blocks
	}
	if o.Walls < 0 {
		o.Walls = 0
	}
	return o
}

// Generate creates a random level from seed. The same seed and options always
// produce the same level.
func (g *RoomGenerator) Generate(ctx context.Context, seed int64, opts domain.GenOptions) (*domain.Level, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := g.fill(opts)
	if o.Width < 3 || o.Height < 3 {
		return nil, fmt.Errorf("room %dx%d too small", o.Width, o.Height)
	}
	inner := (o.Width - 2) * (o.Height - 2)
	if need := o.Walls + 1 + 2*o.Blocks; need > inner {
		return nil, fmt.Errorf("room %dx%d has %d free cells, need %d", o.Width, o.Height, inner, need)
	}
	rng := rand.New(rand.NewSource(seed))

	l := &domain.Level{
		Name:   fmt.Sprintf("room-%d", seed),
		Width:  o.Width,
		Height: o.Height,
		Tiles:  make([]domain.Tile, o.Width*o.Height),
	}
	for x := 0; x < o.Width; x++ {
		l.Tiles[x] = domain.Wall
		l.Tiles[(o.Height-1)*o.Width+x] = domain.Wall
	}
	for y := 0; y < o.Height; y++ {
		l.Tiles[y*o.Width] = domain.Wall
		l.Tiles[y*o.Width+o.Width-1] = domain.Wall
	}
	exit := domain.Position{X: 1 + rng.Intn(o.Width-2), Y: 0}
	l.Tiles[exit.X] = domain.Exit

	// shuffled interior cells, consumed in order
	cells := make([]domain.Position, 0, inner)
	for y := 1; y < o.Height-1; y++ {
		for x := 1; x < o.Width-1; x++ {
			cells = append(cells, domain.Position{X: x, Y: y})
		}
	}
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	next := 0
	take := func() domain.Position {
		p := cells[next]
		next++
		return p
	}
	for i := 0; i < o.Walls; i++ {
		p := take()
		l.Tiles[p.Y*o.Width+p.X] = domain.Wall
	}
	l.Spawns = append(l.Spawns, domain.Spawn{Kind: domain.SpawnPlayer, Pos: take()})
	for i := 0; i < o.Blocks; i++ {
		l.Spawns = append(l.Spawns, domain.Spawn{Kind: domain.SpawnBlock, Pos: take()})
	}
	door := domain.DoorSpec{Pos: exit}
	for i := 0; i < o.Blocks; i++ {
		l.Spawns = append(l.Spawns, domain.Spawn{Kind: domain.SpawnPlate, Pos: take()})
		door.Activations = append(door.Activations, len(l.Spawns)-1)
	}
	l.Doors = []domain.DoorSpec{door}
	return l, nil
}
