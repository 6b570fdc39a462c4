package domain

// Position is a grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the neighbouring position in direction c.
func (p Position) Step(c Cardinal) Position {
	dx, dy := c.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// EntityID is an opaque handle into the world's component tables.
type EntityID int

// Activable gates doors. Active is recomputed on every refresh.
type Activable struct {
	Active bool
	Kind   ActivationKind
}

// Door opens iff every referenced Activable is active. An empty set never opens.
type Door struct {
	Opened      bool
	Activations []EntityID
}

// ActionKind discriminates Action.
type ActionKind int

const (
	ActMove ActionKind = iota
	ActActuate
	ActSpendEnergy
)

// Action is the unit of undo.
type Action struct {
	Kind   ActionKind
	Entity EntityID
	From   Position
	To     Position
	Amount int
}

func MoveAction(e EntityID, from, to Position) Action {
	return Action{Kind: ActMove, Entity: e, From: from, To: to}
}

func ActuateAction(e EntityID) Action {
	return Action{Kind: ActActuate, Entity: e}
}

func SpendEnergyAction(n int) Action {
	return Action{Kind: ActSpendEnergy, Amount: n}
}

// Spawn places one entity when a level is loaded.
type Spawn struct {
	Kind SpawnKind `json:"kind"`
	Pos  Position  `json:"pos"`
	// Dir is the firing direction of a laser or the orientation (NE/NW) of a reflector.
	Dir Cardinal `json:"dir,omitempty"`
}

// DoorSpec places a door; Activations index into Level.Spawns.
type DoorSpec struct {
	Pos         Position `json:"pos"`
	Activations []int    `json:"activations"`
}

// Level is a loaded puzzle: tiles in row-major order plus the initial entities.
type Level struct {
	Name   string     `json:"name,omitempty"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Tiles  []Tile     `json:"tiles"`
	Spawns []Spawn    `json:"spawns"`
	Doors  []DoorSpec `json:"doors,omitempty"`
}

// TileAt returns the tile at (x, y); out of bounds reads as Wall.
func (l *Level) TileAt(x, y int) Tile {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return Wall
	}
	return l.Tiles[y*l.Width+x]
}

// Issue is a structural problem found by a validator.
type Issue struct {
	Pos     Position `json:"pos"`
	Message string   `json:"message"`
}

// GenOptions shapes a generated level.
type GenOptions struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	Blocks int `json:"blocks,omitempty"`
	Walls  int `json:"walls,omitempty"`
}

// Solution is a persisted search result.
type Solution struct {
	ID        string `json:"id,omitempty"`
	Level     string `json:"level"`
	Seed      int64  `json:"seed,omitempty"`
	Moves     string `json:"moves"`
	Steps     int    `json:"steps"`
	Energy    int    `json:"energy"`
	Searches  uint64 `json:"searches,omitempty"`
	DeadEnds  uint64 `json:"deadEnds,omitempty"`
	CacheSize int    `json:"cacheSize,omitempty"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}

// SolutionMeta is a lightweight listing entry.
type SolutionMeta struct {
	ID        string `json:"id"`
	Level     string `json:"level"`
	Steps     int    `json:"steps"`
	CreatedAt int64  `json:"createdAt"`
}

// Hint is the next input suggested for a level.
type Hint struct {
	Move      string `json:"move"`
	Message   string `json:"message"`
	Remaining int    `json:"remaining"`
}
