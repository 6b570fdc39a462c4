package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/griphus/internal/domain"
)

const sample = `###E###
#.....#
#..@bx#
#.n.\.#
#######
`

func TestParse(t *testing.T) {
	l, err := Parse("sample", sample)
	require.NoError(t, err)
	assert.Equal(t, 7, l.Width)
	assert.Equal(t, 5, l.Height)
	assert.Equal(t, domain.Exit, l.TileAt(3, 0))
	assert.Equal(t, domain.Wall, l.TileAt(0, 0))
	assert.Equal(t, domain.Floor, l.TileAt(1, 1))

	kinds := map[domain.SpawnKind]int{}
	for _, s := range l.Spawns {
		kinds[s.Kind]++
	}
	assert.Equal(t, 1, kinds[domain.SpawnPlayer])
	assert.Equal(t, 1, kinds[domain.SpawnBlock])
	assert.Equal(t, 1, kinds[domain.SpawnPlate])
	assert.Equal(t, 1, kinds[domain.SpawnLaser])
	assert.Equal(t, 1, kinds[domain.SpawnReflector])

	require.Len(t, l.Doors, 1)
	assert.Equal(t, domain.Position{X: 3, Y: 0}, l.Doors[0].Pos)
	require.Len(t, l.Doors[0].Activations, 1)
	assert.Equal(t, domain.SpawnPlate, l.Spawns[l.Doors[0].Activations[0]].Kind)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"blank", "\n\n"},
		{"glyph", "#?#\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.name, tc.text)
			assert.Error(t, err)
		})
	}
}

func TestParseWithoutActivablesHasNoDoor(t *testing.T) {
	l, err := Parse("open", "#E#\n#@#\n###\n")
	require.NoError(t, err)
	assert.Empty(t, l.Doors)
}

func TestFormatRoundTrip(t *testing.T) {
	text := "#####\n#@*o#\n#e/x#\n##E##\n"
	l, err := Parse("rt", text)
	require.NoError(t, err)
	assert.Equal(t, text, Format(l))
}
