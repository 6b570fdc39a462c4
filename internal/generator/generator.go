package generator

import "svw.info/griphus/internal/domain"

// RoomGenerator creates small walled rooms: interior walls, blocks, one weight
// plate per block, and an exit on the top wall gated on every plate.
type RoomGenerator struct {
	Defaults domain.GenOptions
}

// NewRoomGenerator returns a generator whose zero sizes fall back to a 7x7
// room with one block.
func NewRoomGenerator() *RoomGenerator {
	return &RoomGenerator{Defaults: domain.GenOptions{Width: 7, Height: 7, Blocks: 1}}
}

// Note: The Generate method is implemented in simple.go.
