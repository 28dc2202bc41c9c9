package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/hammamikhairi/recipebook/internal/csvrec"
	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/ingredient"
)

// DefaultHeader is written to a new recipe file.
var DefaultHeader = []string{ColName, ColIngredients, ColDirections, ColTime}

// Append writes r as one row at the end of the recipe file at path. A
// missing or empty file gets DefaultHeader first; otherwise the existing
// header decides column positions and unknown columns are left empty. The
// loaded catalog is not touched; callers reload.
func Append(path string, r domain.Recipe) error {
	header, needNewline, err := existingHeader(path)
	if err != nil {
		return err
	}

	var b strings.Builder
	if header == nil {
		header = DefaultHeader
		b.WriteString(strings.Join(header, ","))
		b.WriteByte('\n')
	} else if needNewline {
		b.WriteByte('\n')
	}

	cols, err := locate(header)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	row := make([]string, len(header))
	row[cols.name] = r.Name
	row[cols.ingredients] = IngredientsField(r.Ingredients)
	row[cols.directions] = r.Directions
	if cols.time >= 0 {
		row[cols.time] = r.Time
	}
	b.WriteString(csvrec.FormatRecord(row))
	b.WriteByte('\n')

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrOpenFailed, err)
	}
	if _, err := io.WriteString(f, b.String()); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", path, err)
	}
	return f.Close()
}

// IngredientsField renders ingredients as the comma-joined phrase list the
// loader parses.
func IngredientsField(ings []domain.Ingredient) string {
	parts := make([]string, 0, len(ings))
	for _, ing := range ings {
		if s := ingredient.Format(ing); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// existingHeader returns the header fields of the file at path, or nil if
// the file is missing or holds no records. needNewline reports whether the
// file lacks a trailing newline.
func existingHeader(path string) (header []string, needNewline bool, err error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", domain.ErrOpenFailed, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, false, nil
	}

	rr := csvrec.NewReader(f)
	for rec := range rr.All() {
		if strings.TrimSpace(rec) != "" {
			header = csvrec.SplitFields(rec)
			break
		}
	}
	if err := rr.Err(); err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	if header == nil {
		return nil, false, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	return header, last[0] != '\n', nil
}
