package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/griphus/internal/domain"
	"svw.info/griphus/internal/level"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		ok     bool
		issues int
	}{
		{"valid", "###E###\n#..@bx#\n#######\n", true, 0},
		{"no player", "###E###\n#...bx#\n#######\n", false, 1},
		{"two players", "###E###\n#@.@bx#\n#######\n", false, 1},
		{"no exit", "#######\n#..@bx#\n#######\n", false, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := level.Parse(tc.name, tc.text)
			require.NoError(t, err)
			ok, issues, err := New().Validate(context.Background(), l)
			require.NoError(t, err)
			assert.Equal(t, tc.ok, ok)
			assert.Len(t, issues, tc.issues)
		})
	}
}

func TestValidateDoorReferences(t *testing.T) {
	l, err := level.Parse("doors", "###E###\n#..@bx#\n#######\n")
	require.NoError(t, err)
	l.Doors = append(l.Doors,
		domain.DoorSpec{Pos: domain.Position{X: 3, Y: 0}},
		domain.DoorSpec{Pos: domain.Position{X: 3, Y: 0}, Activations: []int{0, 99}},
	)
	ok, issues, err := New().Validate(context.Background(), l)
	require.NoError(t, err)
	assert.False(t, ok)
	// empty set, the player reference, the missing reference
	assert.Len(t, issues, 3)
}

func TestValidateStacking(t *testing.T) {
	l, err := level.Parse("stack", "###E###\n#..@bx#\n#######\n")
	require.NoError(t, err)
	l.Spawns = append(l.Spawns, domain.Spawn{Kind: domain.SpawnBlock, Pos: domain.Position{X: 4, Y: 1}})
	l.Spawns = append(l.Spawns, domain.Spawn{Kind: domain.SpawnBlock, Pos: domain.Position{X: 0, Y: 0}})
	ok, issues, err := New().Validate(context.Background(), l)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, issues, 2)
}
