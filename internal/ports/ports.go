package ports

import (
	"context"
	"time"

	"svw.info/griphus/internal/domain"
)

// Stats captures the cost of a search.
type Stats struct {
	Ticks      int
	Searches   uint64
	DeadEnds   uint64
	Duplicates uint64
	Solutions  uint64
	CacheSize  int
	Duration   time.Duration
}

// Solver searches a level for any route to an exit.
type Solver interface {
	Solve(ctx context.Context, l *domain.Level, seed int64) (*domain.Solution, Stats, error)
}

// Generator creates random levels.
type Generator interface {
	Generate(ctx context.Context, seed int64, opts domain.GenOptions) (*domain.Level, error)
}

// Validator performs the structural checks the engine relies on.
type Validator interface {
	Validate(ctx context.Context, l *domain.Level) (ok bool, issues []domain.Issue, err error)
}

// Hinter suggests the next player input for a level.
type Hinter interface {
	Hint(ctx context.Context, l *domain.Level, seed int64) (domain.Hint, bool, error)
}

// Storage persists and retrieves solutions.
type Storage interface {
	Save(ctx context.Context, s *domain.Solution) error
	Load(ctx context.Context, id string) (*domain.Solution, error)
	List(ctx context.Context) ([]domain.SolutionMeta, error)
}
