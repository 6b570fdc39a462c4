package solver

import (
	"errors"
	"fmt"
	"strings"

	"svw.info/griphus/internal/domain"
)

var (
	ErrUnsolvable = errors.New("no solution in the reachable space")
	ErrTickBudget = errors.New("tick budget exhausted")
	ErrPlayerDied = errors.New("player died during search")
)

// Status is what a Tick leaves the controller in.
type Status int

const (
	Searching Status = iota
	Paused
	Solved
	Exhausted
	Aborted
)

func (s Status) String() string {
	switch s {
	case Searching:
		return "searching"
	case Paused:
		return "paused"
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Signal is an external control input, processed at the top of a tick.
type Signal int

const (
	SignalNone Signal = iota
	SignalTogglePause
	SignalToggleDisplay
	SignalAbort
)

// CandidateKind tells what a candidate is for.
type CandidateKind int

const (
	ExitTo CandidateKind = iota
	PushAt
	ActivateAt
)

func (k CandidateKind) String() string {
	switch k {
	case ExitTo:
		return "exit"
	case PushAt:
		return "push"
	case ActivateAt:
		return "actuate"
	}
	return "unknown"
}

// SubAction is one player input: a step in Dir, or an actuation.
type SubAction struct {
	Actuate bool
	Dir     domain.Cardinal
}

func Move(d domain.Cardinal) SubAction { return SubAction{Dir: d} }

func Actuate() SubAction { return SubAction{Actuate: true} }

func (s SubAction) Letter() byte {
	if s.Actuate {
		return 'A'
	}
	return s.Dir.Letter()
}

// Candidate is a macro action: walk somewhere, then optionally push or actuate.
type Candidate struct {
	Kind   CandidateKind
	Target domain.Position
	Dir    domain.Cardinal
	Steps  []SubAction
}

// Moves renders sub-actions as letters: N S E W for steps, A for actuate.
func Moves(subs []SubAction) string {
	var sb strings.Builder
	sb.Grow(len(subs))
	for _, s := range subs {
		sb.WriteByte(s.Letter())
	}
	return sb.String()
}

// ParseMoves is the inverse of Moves.
func ParseMoves(s string) ([]SubAction, error) {
	out := make([]SubAction, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'N':
			out = append(out, Move(domain.N))
		case 'S':
			out = append(out, Move(domain.S))
		case 'E':
			out = append(out, Move(domain.E))
		case 'W':
			out = append(out, Move(domain.W))
		case 'A':
			out = append(out, Actuate())
		default:
			return nil, fmt.Errorf("bad move letter %q at %d", s[i], i)
		}
	}
	return out, nil
}

type frame struct {
	step       int
	candidates []Candidate
}
