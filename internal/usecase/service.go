package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"svw.info/griphus/internal/domain"
	"svw.info/griphus/internal/ports"
)

type Service struct {
	Solver    ports.Solver
	Generator ports.Generator
	Validator ports.Validator
	Hinter    ports.Hinter
	Storage   ports.Storage

	now func() time.Time
}

func NewService(s ports.Solver, g ports.Generator, v ports.Validator, h ports.Hinter, st ports.Storage) *Service {
	return &Service{Solver: s, Generator: g, Validator: v, Hinter: h, Storage: st, now: time.Now}
}

var errNotConfigured = errors.New("usecase dependency not configured")

// InvalidLevelError lists the structural issues that stopped a solve.
type InvalidLevelError struct {
	Issues []domain.Issue
}

func (e *InvalidLevelError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		msgs[i] = is.Message
	}
	return "invalid level: " + strings.Join(msgs, "; ")
}

// Solve validates l first when a validator is configured.
func (u *Service) Solve(ctx context.Context, l *domain.Level, seed int64) (*domain.Solution, ports.Stats, error) {
	if u.Solver == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	if err := u.check(ctx, l); err != nil {
		return nil, ports.Stats{}, err
	}
	return u.Solver.Solve(ctx, l, seed)
}

func (u *Service) check(ctx context.Context, l *domain.Level) error {
	if u.Validator == nil {
		return nil
	}
	ok, issues, err := u.Validator.Validate(ctx, l)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if !ok {
		return &InvalidLevelError{Issues: issues}
	}
	return nil
}

func (u *Service) Generate(ctx context.Context, seed int64, opts domain.GenOptions) (*domain.Level, error) {
	if u.Generator == nil {
		return nil, errNotConfigured
	}
	return u.Generator.Generate(ctx, seed, opts)
}

func (u *Service) Validate(ctx context.Context, l *domain.Level) (bool, []domain.Issue, error) {
	if u.Validator == nil {
		return false, nil, errNotConfigured
	}
	return u.Validator.Validate(ctx, l)
}

func (u *Service) Hint(ctx context.Context, l *domain.Level, seed int64) (domain.Hint, bool, error) {
	if u.Hinter == nil {
		return domain.Hint{}, false, errNotConfigured
	}
	if err := u.check(ctx, l); err != nil {
		return domain.Hint{}, false, err
	}
	return u.Hinter.Hint(ctx, l, seed)
}

// Persistence

// Save assigns an ID and creation time when missing.
func (u *Service) Save(ctx context.Context, s *domain.Solution) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	if s == nil {
		return errors.New("nil solution")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt == 0 {
		now := time.Now
		if u.now != nil {
			now = u.now
		}
		s.CreatedAt = now().UnixNano()
	}
	return u.Storage.Save(ctx, s)
}

func (u *Service) Load(ctx context.Context, id string) (*domain.Solution, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.Load(ctx, id)
}

func (u *Service) List(ctx context.Context) ([]domain.SolutionMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}
