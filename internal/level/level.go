// Package level reads and writes the plain-text level format.
//
//	#  wall            @  player
//	.  floor (or ' ')  b  block ($ also accepted)
//	E  exit            x  weight plate
//	*  block on plate  o  laser receptor
//	n s e w            laser emitter firing N/S/E/W
//	/ \                reflector oriented NE / NW
//
// Every exit is closed by a door that opens when all plates and receptors of
// the level are active. A level with neither gets no door.
package level

import (
	"errors"
	"fmt"
	"strings"

	"svw.info/griphus/internal/domain"
)

var ErrEmpty = errors.New("empty level")

// Parse decodes a level from its text form.
func Parse(name, text string) (*domain.Level, error) {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.Trim(text, "\n")
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmpty
	}
	lines := strings.Split(text, "\n")
	width := 0
	for _, ln := range lines {
		width = max(width, len(ln))
	}
	l := &domain.Level{
		Name:   name,
		Width:  width,
		Height: len(lines),
		Tiles:  make([]domain.Tile, width*len(lines)),
	}
	var activables []int
	var exits []domain.Position
	spawn := func(k domain.SpawnKind, x, y int, d domain.Cardinal) int {
		l.Spawns = append(l.Spawns, domain.Spawn{Kind: k, Pos: domain.Position{X: x, Y: y}, Dir: d})
		return len(l.Spawns) - 1
	}
	for y, ln := range lines {
		for x := 0; x < len(ln); x++ {
			c := ln[x]
			switch c {
			case '#':
				l.Tiles[y*width+x] = domain.Wall
			case '.', ' ':
			case 'E':
				l.Tiles[y*width+x] = domain.Exit
				exits = append(exits, domain.Position{X: x, Y: y})
			case '@':
				spawn(domain.SpawnPlayer, x, y, 0)
			case 'b', '$':
				spawn(domain.SpawnBlock, x, y, 0)
			case 'x':
				activables = append(activables, spawn(domain.SpawnPlate, x, y, 0))
			case '*':
				activables = append(activables, spawn(domain.SpawnPlate, x, y, 0))
				spawn(domain.SpawnBlock, x, y, 0)
			case 'o':
				activables = append(activables, spawn(domain.SpawnReceptor, x, y, 0))
			case 'n':
				spawn(domain.SpawnLaser, x, y, domain.N)
			case 's':
				spawn(domain.SpawnLaser, x, y, domain.S)
			case 'e':
				spawn(domain.SpawnLaser, x, y, domain.E)
			case 'w':
				spawn(domain.SpawnLaser, x, y, domain.W)
			case '/':
				spawn(domain.SpawnReflector, x, y, domain.NE)
			case '\\':
				spawn(domain.SpawnReflector, x, y, domain.NW)
			default:
				return nil, fmt.Errorf("line %d col %d: unknown glyph %q", y+1, x+1, c)
			}
		}
	}
	if len(activables) > 0 {
		for _, p := range exits {
			l.Doors = append(l.Doors, domain.DoorSpec{Pos: p, Activations: append([]int(nil), activables...)})
		}
	}
	return l, nil
}

// Format renders a level back to text. Doors are implied by exits.
func Format(l *domain.Level) string {
	grid := make([][]byte, l.Height)
	for y := range grid {
		grid[y] = make([]byte, l.Width)
		for x := range grid[y] {
			switch l.TileAt(x, y) {
			case domain.Wall:
				grid[y][x] = '#'
			case domain.Exit:
				grid[y][x] = 'E'
			default:
				grid[y][x] = '.'
			}
		}
	}
	for _, s := range l.Spawns {
		if s.Pos.X < 0 || s.Pos.Y < 0 || s.Pos.X >= l.Width || s.Pos.Y >= l.Height {
			continue
		}
		cell := &grid[s.Pos.Y][s.Pos.X]
		switch s.Kind {
		case domain.SpawnPlayer:
			*cell = '@'
		case domain.SpawnBlock:
			if *cell == 'x' {
				*cell = '*'
			} else {
				*cell = 'b'
			}
		case domain.SpawnPlate:
			if *cell == 'b' {
				*cell = '*'
			} else {
				*cell = 'x'
			}
		case domain.SpawnReceptor:
			*cell = 'o'
		case domain.SpawnLaser:
			*cell = strings.ToLower(s.Dir.String())[0]
		case domain.SpawnReflector:
			if s.Dir == domain.NE {
				*cell = '/'
			} else {
				*cell = '\\'
			}
		}
	}
	var sb strings.Builder
	for _, row := range grid {
		sb.Write(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}
