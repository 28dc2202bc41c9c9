package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*Store)(nil)

// Store holds the current catalog and swaps it on reload. Safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	cat     *Catalog
	pattern string
	opts    []Option
	log     *logger.Logger

	// rmu serializes file reads and writes so a slower, older load never
	// replaces a newer catalog.
	rmu sync.Mutex

	lmu       sync.Mutex
	listeners []func(*Catalog, error)
}

// Open loads every file matching pattern into a new Store. pattern is a
// plain path or a doublestar glob such as "data/**/*.csv".
func Open(pattern string, log *logger.Logger, opts ...Option) (*Store, error) {
	if log == nil {
		log = logger.New(logger.LevelOff, nil)
	}
	s := &Store{
		pattern: pattern,
		opts:    append(opts, WithLogger(log)),
		log:     log,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStore wraps an already loaded catalog. Reload fails on such a store.
func NewStore(cat *Catalog, log *logger.Logger) *Store {
	if log == nil {
		log = logger.New(logger.LevelOff, nil)
	}
	return &Store{cat: cat, log: log}
}

// Pattern returns the data path the store loads from.
func (s *Store) Pattern() string { return s.pattern }

// Catalog returns the current catalog.
func (s *Store) Catalog() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cat
}

// OnReload registers fn to run after every reload attempt. On failure fn
// receives the catalog still in use and the error.
func (s *Store) OnReload(fn func(*Catalog, error)) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Reload reads the data files again. On failure the previous catalog stays.
// Concurrent reloads run one at a time.
func (s *Store) Reload() error {
	if s.pattern == "" {
		return fmt.Errorf("reload: store has no data path")
	}

	s.rmu.Lock()
	cat, err := s.reload()
	s.rmu.Unlock()

	s.notify(cat, err)
	return err
}

// reload loads and swaps in the new catalog. Callers hold rmu.
func (s *Store) reload() (*Catalog, error) {
	cat, err := s.load()
	if err != nil {
		if prev := s.Catalog(); prev != nil {
			s.log.Error("reload failed, keeping %d recipes: %v", prev.Len(), err)
		}
		return s.Catalog(), err
	}
	s.mu.Lock()
	s.cat = cat
	s.mu.Unlock()
	return cat, nil
}

func (s *Store) notify(cat *Catalog, err error) {
	s.lmu.Lock()
	listeners := append([]func(*Catalog, error){}, s.listeners...)
	s.lmu.Unlock()
	for _, fn := range listeners {
		fn(cat, err)
	}
}

func (s *Store) load() (*Catalog, error) {
	files, err := Resolve(s.pattern)
	if err != nil {
		return nil, err
	}
	s.log.Debug("loading %d file(s) for %s", len(files), s.pattern)
	return LoadFiles(files, s.opts...)
}

// Resolve expands pattern into the files to load, in lexical order. A
// pattern without glob syntax is returned as is.
func Resolve(pattern string) ([]string, error) {
	if !IsGlob(pattern) {
		return []string{pattern}, nil
	}
	files, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files match %s", domain.ErrOpenFailed, pattern)
	}
	sort.Strings(files)
	return files, nil
}

// IsGlob reports whether pattern uses glob syntax.
func IsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// AppendTarget returns the file new recipes are written to: the data path
// itself, or the last matching file for a glob.
func (s *Store) AppendTarget() (string, error) {
	files, err := Resolve(s.pattern)
	if err != nil {
		return "", err
	}
	return filepath.Clean(files[len(files)-1]), nil
}

// Add appends r to the data file, reloads and returns the stored recipe.
func (s *Store) Add(ctx context.Context, r domain.Recipe) (*domain.Recipe, error) {
	s.rmu.Lock()
	cat, err := s.appendAndReload(r)
	s.rmu.Unlock()
	if cat == nil {
		return nil, err
	}
	s.notify(cat, err)
	if err != nil {
		return nil, err
	}

	recipes := cat.recipes
	for i := len(recipes) - 1; i >= 0; i-- {
		if recipes[i].Name == nfc(strings.TrimSpace(r.Name)) {
			return recipes[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// appendAndReload writes r and reloads. A nil catalog means nothing was
// written. Callers hold rmu.
func (s *Store) appendAndReload(r domain.Recipe) (*Catalog, error) {
	target, err := s.AppendTarget()
	if err != nil {
		return nil, err
	}
	if err := Append(target, r); err != nil {
		return nil, err
	}
	s.log.Info("appended %q to %s", r.Name, target)
	return s.reload()
}

// List returns summaries of all recipes in catalog order.
func (s *Store) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	cat := s.Catalog()
	out := make([]domain.RecipeSummary, 0, cat.Len())
	for _, r := range cat.recipes {
		out = append(out, r.Summary())
	}
	return out, nil
}

// Get returns a recipe by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	r, err := s.Catalog().Get(id)
	if err != nil {
		s.log.Debug("recipe not found: %s", id)
	}
	return r, err
}

// Lookup resolves an ID or a recipe name.
func (s *Store) Lookup(ctx context.Context, key string) (*domain.Recipe, error) {
	return s.Catalog().Lookup(key)
}

// Search runs f against the current catalog.
func (s *Store) Search(ctx context.Context, f domain.Filter) ([]domain.Match, error) {
	s.log.Debug("search: %+v", f)
	return s.Catalog().Search(f), nil
}

// Units returns the distinct units of the current catalog.
func (s *Store) Units(ctx context.Context) ([]string, error) {
	return s.Catalog().Units(), nil
}
