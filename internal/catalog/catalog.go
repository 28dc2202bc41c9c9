// Package catalog loads a recipe CSV into an in-memory Catalog and answers
// read-only queries over it.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/hammamikhairi/recipebook/internal/csvrec"
	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/ingredient"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Header column names.
const (
	ColName        = "recipe_name"
	ColIngredients = "ingredients"
	ColDirections  = "directions"
	ColTime        = "total_time"
)

// idSpace namespaces the deterministic recipe IDs.
var idSpace = uuid.MustParse("5b0e8f4c-3d0a-4c36-9f3e-7a2d1c9b6e10")

// Catalog is the parsed recipe collection plus the distinct units seen in
// it. It is not modified after Load returns.
type Catalog struct {
	recipes []*domain.Recipe
	byID    map[string]*domain.Recipe
	units   []string
	skipped []SkippedRow
	sources []string
}

// SkippedRow describes a data row that was dropped during load.
type SkippedRow struct {
	Source string
	Line   int
	Reason string
}

// Option configures a load.
type Option func(*loader)

// WithParser sets the ingredient parser. The default is strict.
func WithParser(p *ingredient.Parser) Option {
	return func(l *loader) { l.parser = p }
}

// WithDedupe drops rows whose recipe name was already loaded.
func WithDedupe(on bool) Option {
	return func(l *loader) { l.dedupe = on }
}

// WithLogger sets the logger used for row diagnostics.
func WithLogger(log *logger.Logger) Option {
	return func(l *loader) {
		if log != nil {
			l.log = log
		}
	}
}

// Load reads the recipe file at path.
func Load(path string, opts ...Option) (*Catalog, error) {
	return LoadFiles([]string{path}, opts...)
}

// LoadFiles reads each file in order and concatenates their recipes. Every
// file must carry its own header.
func LoadFiles(paths []string, opts ...Option) (*Catalog, error) {
	l := newLoader(opts)
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrOpenFailed, err)
		}
		err = l.read(f, path)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return l.finish(), nil
}

// LoadReader reads recipes from r. source names the input in diagnostics.
func LoadReader(r io.Reader, source string, opts ...Option) (*Catalog, error) {
	l := newLoader(opts)
	if err := l.read(r, source); err != nil {
		return nil, err
	}
	return l.finish(), nil
}

type loader struct {
	parser *ingredient.Parser
	dedupe bool
	log    *logger.Logger

	cat  *Catalog
	seen map[string]bool
}

func newLoader(opts []Option) *loader {
	l := &loader{
		parser: ingredient.NewParser(ingredient.Strict),
		log:    logger.New(logger.LevelOff, nil),
		cat:    &Catalog{byID: make(map[string]*domain.Recipe)},
		seen:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type columns struct {
	name, ingredients, directions int
	time                          int // -1 when absent
	need                          int // fields a row must have
}

func locate(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	var missing []string
	get := func(name string) int {
		i, ok := idx[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	c := columns{
		name:        get(ColName),
		ingredients: get(ColIngredients),
		directions:  get(ColDirections),
		time:        -1,
	}
	if len(missing) > 0 {
		return c, &domain.MissingColumnsError{Columns: missing}
	}
	if i, ok := idx[ColTime]; ok {
		c.time = i
	}
	c.need = max(c.name, c.ingredients, c.directions) + 1
	return c, nil
}

func (l *loader) read(r io.Reader, source string) error {
	rr := csvrec.NewReader(r)

	var header string
	found := false
	for rec := range rr.All() {
		if strings.TrimSpace(rec) != "" {
			header, found = rec, true
			break
		}
	}
	if err := rr.Err(); err != nil {
		return fmt.Errorf("read %s: %w", source, err)
	}
	if !found {
		return fmt.Errorf("%s: %w", source, domain.ErrEmptyFile)
	}

	cols, err := locate(csvrec.SplitFields(header))
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	l.cat.sources = append(l.cat.sources, source)

	rows := 0
	for rec := range rr.All() {
		if strings.TrimSpace(rec) == "" {
			continue
		}
		rows++
		fields := csvrec.SplitFields(rec)
		if len(fields) < cols.need {
			l.skip(source, rr.Line(), fmt.Sprintf("%d fields, need %d", len(fields), cols.need))
			continue
		}
		r := l.build(fields, cols, source)
		key := strings.ToLower(r.Name)
		if l.dedupe && l.seen[key] {
			l.skip(source, rr.Line(), "duplicate recipe "+strconv.Quote(r.Name))
			continue
		}
		l.seen[key] = true
		l.add(r)
	}
	if err := rr.Err(); err != nil {
		return fmt.Errorf("read %s: %w", source, err)
	}
	l.log.Debug("read %s: %d rows", source, rows)
	return nil
}

func (l *loader) build(fields []string, cols columns, source string) *domain.Recipe {
	r := &domain.Recipe{
		Name:        nfc(strings.TrimSpace(fields[cols.name])),
		Ingredients: l.parser.ParseList(nfc(fields[cols.ingredients])),
		Directions:  nfc(fields[cols.directions]),
		Source:      source,
	}
	if cols.time >= 0 && cols.time < len(fields) {
		r.Time = nfc(strings.TrimSpace(fields[cols.time]))
	}
	return r
}

func (l *loader) add(r *domain.Recipe) {
	ordinal := len(l.cat.recipes)
	r.ID = uuid.NewSHA1(idSpace, []byte(strconv.Itoa(ordinal)+"\x00"+r.Name)).String()
	l.cat.recipes = append(l.cat.recipes, r)
	l.cat.byID[r.ID] = r
}

func (l *loader) skip(source string, line int, reason string) {
	l.cat.skipped = append(l.cat.skipped, SkippedRow{Source: source, Line: line, Reason: reason})
	l.log.Warn("skipping row at %s:%d: %s", source, line, reason)
}

// finish derives the unit set and then normalizes every ingredient. Units
// enter the set in canonical spelling so every entry matches the
// normalized ingredients it came from.
func (l *loader) finish() *Catalog {
	c := l.cat
	set := make(map[string]struct{})
	for _, r := range c.recipes {
		for _, ing := range r.Ingredients {
			if u := ingredient.Canonical(strings.TrimSpace(ing.Unit)); u != "" {
				set[u] = struct{}{}
			}
		}
	}
	c.units = make([]string, 0, len(set))
	for u := range set {
		c.units = append(c.units, u)
	}
	sort.Strings(c.units)

	for _, r := range c.recipes {
		ingredient.NormalizeAll(r.Ingredients)
	}

	l.log.Info("loaded %d recipes, %d units, %d rows skipped", len(c.recipes), len(c.units), len(c.skipped))
	return c
}

func nfc(s string) string {
	return norm.NFC.String(s)
}

// Len returns the number of recipes.
func (c *Catalog) Len() int { return len(c.recipes) }

// Recipes returns the recipes in source order. The slice is a copy; the
// recipes are shared and must not be modified.
func (c *Catalog) Recipes() []*domain.Recipe {
	out := make([]*domain.Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out
}

// Units returns the distinct non-empty units, sorted.
func (c *Catalog) Units() []string {
	out := make([]string, len(c.units))
	copy(out, c.units)
	return out
}

// Skipped returns the rows dropped during load.
func (c *Catalog) Skipped() []SkippedRow {
	out := make([]SkippedRow, len(c.skipped))
	copy(out, c.skipped)
	return out
}

// Sources returns the files the catalog was built from.
func (c *Catalog) Sources() []string {
	out := make([]string, len(c.sources))
	copy(out, c.sources)
	return out
}

// Get returns a recipe by ID.
func (c *Catalog) Get(id string) (*domain.Recipe, error) {
	r, ok := c.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// ErrAmbiguous is returned by Lookup when a name fragment matches more than
// one recipe.
var ErrAmbiguous = errors.New("ambiguous recipe name")

// Lookup resolves key as an ID, then as a case-insensitive exact name, then
// as a name fragment matching exactly one recipe.
func (c *Catalog) Lookup(key string) (*domain.Recipe, error) {
	if r, err := c.Get(key); err == nil {
		return r, nil
	}
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return nil, domain.ErrNotFound
	}
	var partial []*domain.Recipe
	for _, r := range c.recipes {
		name := strings.ToLower(r.Name)
		if name == k {
			return r, nil
		}
		if strings.Contains(name, k) {
			partial = append(partial, r)
		}
	}
	switch len(partial) {
	case 0:
		return nil, domain.ErrNotFound
	case 1:
		return partial[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d recipes", ErrAmbiguous, key, len(partial))
	}
}
