package domain

// Cardinal is a grid direction. Lasers and pushes use N/S/E/W only;
// NE and NW are reflector orientations.
type Cardinal int

const (
	N Cardinal = iota
	S
	E
	W
	NE
	NW
)

// Cardinals lists the four movement directions in a fixed order.
var Cardinals = [4]Cardinal{N, S, W, E}

// Delta returns the (dx, dy) of one step in direction c. y grows southwards.
func (c Cardinal) Delta() (int, int) {
	switch c {
	case N:
		return 0, -1
	case S:
		return 0, 1
	case E:
		return 1, 0
	case W:
		return -1, 0
	}
	return 0, 0
}

// Opposite returns the reverse movement direction.
func (c Cardinal) Opposite() Cardinal {
	switch c {
	case N:
		return S
	case S:
		return N
	case E:
		return W
	case W:
		return E
	}
	return c
}

// Axis reports the beam axis of a movement direction.
func (c Cardinal) Axis() Axis {
	switch c {
	case N, S:
		return AxisVertical
	case E, W:
		return AxisHorizontal
	}
	return AxisNone
}

// Letter is the single-letter form used in solution move strings.
func (c Cardinal) Letter() byte {
	switch c {
	case N:
		return 'N'
	case S:
		return 'S'
	case E:
		return 'E'
	case W:
		return 'W'
	}
	return '?'
}

func (c Cardinal) String() string {
	switch c {
	case NE:
		return "NE"
	case NW:
		return "NW"
	}
	return string(c.Letter())
}

// Reflect returns the outgoing direction of a beam travelling in dir that
// hits a reflector with the given orientation.
//
//	NE: N<->E, S<->W
//	NW: N<->W, S<->E
func Reflect(orientation, dir Cardinal) Cardinal {
	if orientation == NE {
		switch dir {
		case N:
			return E
		case E:
			return N
		case S:
			return W
		case W:
			return S
		}
	} else {
		switch dir {
		case N:
			return W
		case W:
			return N
		case S:
			return E
		case E:
			return S
		}
	}
	return dir
}

// Axis tags a lasered tile. Several beams crossing a tile are OR-ed together.
type Axis uint8

const (
	AxisNone       Axis = 0
	AxisVertical   Axis = 1 << 0
	AxisHorizontal Axis = 1 << 1
)

// Tile is the immutable kind of a grid cell.
type Tile uint8

const (
	Floor Tile = iota
	Wall
	Exit
)

// ActivationKind says what turns an Activable on.
type ActivationKind int

const (
	Weight ActivationKind = iota // a tile-blocking entity rests on it
	LaserHit                     // a beam reaches it
)

// TurnState is derived after every refresh of the world.
type TurnState int

const (
	Running TurnState = iota
	PlayerDead
	PlayerAtExit
)

func (s TurnState) String() string {
	switch s {
	case PlayerDead:
		return "player-dead"
	case PlayerAtExit:
		return "player-at-exit"
	default:
		return "running"
	}
}

// SpawnKind identifies what a level places on a tile.
type SpawnKind int

const (
	SpawnPlayer SpawnKind = iota
	SpawnBlock
	SpawnLaser
	SpawnReflector
	SpawnPlate
	SpawnReceptor
)
