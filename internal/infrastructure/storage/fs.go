package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"svw.info/griphus/internal/domain"
)

var ErrNotFound = errors.New("solution not found")

// FS stores one JSON file per solution under a sub-directory per level name.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

// levelDir keeps level names from escaping the store directory.
func levelDir(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "_unnamed"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}

func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\.`)
}

func (s *FS) pathFor(sol *domain.Solution) string {
	return filepath.Join(s.dir, levelDir(sol.Level), sol.ID+".json")
}

func (s *FS) Save(ctx context.Context, sol *domain.Solution) error {
	if sol == nil || !validID(sol.ID) {
		return errors.New("invalid solution: missing or malformed ID")
	}
	target := s.pathFor(sol)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(sol)
}

// Load finds id in any level directory.
func (s *FS) Load(ctx context.Context, id string) (*domain.Solution, error) {
	if !validID(id) {
		return nil, fmt.Errorf("load %q: %w", id, ErrNotFound)
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, "*", id+".json"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("load %q: %w", id, ErrNotFound)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, err
	}
	var out domain.Solution
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", matches[0], err)
	}
	return &out, nil
}

// List returns every stored solution, newest first. Unreadable files are skipped.
func (s *FS) List(ctx context.Context) ([]domain.SolutionMeta, error) {
	dirs, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []domain.SolutionMeta
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		ents, err := os.ReadDir(filepath.Join(s.dir, d.Name()))
		if err != nil {
			return nil, err
		}
		for _, e := range ents {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(s.dir, d.Name(), e.Name()))
			if err != nil {
				continue
			}
			var sol domain.Solution
			if err := json.Unmarshal(data, &sol); err != nil || sol.ID == "" {
				continue
			}
			out = append(out, meta(&sol))
		}
	}
	sortMetas(out)
	return out, nil
}

func meta(s *domain.Solution) domain.SolutionMeta {
	return domain.SolutionMeta{ID: s.ID, Level: s.Level, Steps: s.Steps, CreatedAt: s.CreatedAt}
}

func sortMetas(ms []domain.SolutionMeta) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].CreatedAt != ms[j].CreatedAt {
			return ms[i].CreatedAt > ms[j].CreatedAt
		}
		return ms[i].ID < ms[j].ID
	})
}
