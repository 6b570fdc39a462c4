package validator

import (
	"context"
	"fmt"

	"svw.info/griphus/internal/domain"
)

type FastValidator struct{}

func New() *FastValidator { return &FastValidator{} }

// Validate checks the structural rules the engine assumes about a level.
func (v *FastValidator) Validate(ctx context.Context, l *domain.Level) (bool, []domain.Issue, error) {
	if l == nil || l.Width <= 0 || l.Height <= 0 || len(l.Tiles) != l.Width*l.Height {
		return false, []domain.Issue{{Message: "invalid dimensions"}}, nil
	}
	issues := make([]domain.Issue, 0, 4)
	add := func(p domain.Position, format string, args ...any) {
		issues = append(issues, domain.Issue{Pos: p, Message: fmt.Sprintf(format, args...)})
	}

	// tiles
	exits := 0
	for _, t := range l.Tiles {
		if t == domain.Exit {
			exits++
		}
	}
	if exits == 0 {
		add(domain.Position{}, "no exit")
	}

	// spawns
	players := 0
	blocking := make(map[domain.Position]bool, len(l.Spawns))
	for i, s := range l.Spawns {
		if s.Pos.X < 0 || s.Pos.Y < 0 || s.Pos.X >= l.Width || s.Pos.Y >= l.Height {
			add(s.Pos, "spawn %d out of bounds", i)
			continue
		}
		if l.TileAt(s.Pos.X, s.Pos.Y) == domain.Wall {
			add(s.Pos, "spawn %d inside a wall", i)
		}
		switch s.Kind {
		case domain.SpawnPlayer:
			players++
		case domain.SpawnBlock, domain.SpawnLaser, domain.SpawnReflector, domain.SpawnReceptor:
			if blocking[s.Pos] {
				add(s.Pos, "two blocking entities on one tile")
			}
			blocking[s.Pos] = true
		}
	}
	if players != 1 {
		add(domain.Position{}, "expected one player, found %d", players)
	}
	for _, s := range l.Spawns {
		if s.Kind == domain.SpawnPlayer && blocking[s.Pos] {
			add(s.Pos, "player on a blocking entity")
		}
	}

	// doors
	for i, d := range l.Doors {
		if len(d.Activations) == 0 {
			add(d.Pos, "door %d has no activations and never opens", i)
		}
		for _, ref := range d.Activations {
			if ref < 0 || ref >= len(l.Spawns) {
				add(d.Pos, "door %d references missing spawn %d", i, ref)
				continue
			}
			if k := l.Spawns[ref].Kind; k != domain.SpawnPlate && k != domain.SpawnReceptor {
				add(d.Pos, "door %d references spawn %d which is not activable", i, ref)
			}
		}
	}
	return len(issues) == 0, issues, nil
}
