// Package export renders a recipe for printing or sharing. Fractions are
// written in ASCII because plain fonts lack the vulgar fraction glyphs.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/recipebook/internal/directions"
	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/ingredient"
)

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for formats other than text, yaml and json.
var ErrUnknownFormat = errors.New("unknown export format")

// Document is a recipe prepared for output.
type Document struct {
	Title       string   `json:"title" yaml:"title"`
	Time        string   `json:"time,omitempty" yaml:"time,omitempty"`
	Ingredients []string `json:"ingredients" yaml:"ingredients"`
	Directions  []string `json:"directions" yaml:"directions"`
}

// Prepare builds the document for r: one line per ingredient and one per
// numbered direction step, all with ASCII fractions.
func Prepare(r domain.Recipe) Document {
	doc := Document{
		Title:       r.Name,
		Time:        r.Time,
		Ingredients: make([]string, 0, len(r.Ingredients)),
		Directions:  []string{},
	}
	for _, ing := range r.Ingredients {
		line := ingredient.Format(domain.Ingredient{
			Quantity: ingredient.ToASCII(ing.Quantity),
			Unit:     ing.Unit,
			Name:     ingredient.ToASCII(ing.Name),
		})
		if line != "" {
			doc.Ingredients = append(doc.Ingredients, line)
		}
	}
	for _, line := range strings.Split(directions.Clean(r.Directions), "\n") {
		if line != "" {
			doc.Directions = append(doc.Directions, ingredient.ToASCII(line))
		}
	}
	return doc
}

// ParseFormat maps a user supplied name to a Format. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if strings.EqualFold(ext, "md") {
		return FormatText, nil
	}
	return ParseFormat(ext)
}

// Ext returns the file extension for f, with the dot.
func (f Format) Ext() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Write renders doc to w in format f.
func Write(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatText, "":
		return Text(w, doc)
	case FormatYAML:
		return YAML(w, doc)
	case FormatJSON:
		return JSON(w, doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Text writes the printable layout.
func Text(w io.Writer, doc Document) error {
	var b strings.Builder
	b.WriteString(doc.Title)
	b.WriteByte('\n')
	if doc.Time != "" {
		fmt.Fprintf(&b, "Time: %s\n", doc.Time)
	}
	b.WriteString("\nIngredients:\n")
	for _, line := range doc.Ingredients {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	b.WriteString("\nDirections:\n")
	for _, line := range doc.Directions {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// YAML writes doc as a YAML document.
func YAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// JSON writes doc as indented JSON.
func JSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// WriteFile writes doc to path. An empty format is taken from the path's
// extension.
func WriteFile(path string, doc Document, f Format) error {
	if f == "" {
		var err error
		if f, err = FormatFromPath(path); err != nil {
			return err
		}
	}
	var b strings.Builder
	if err := Write(&b, doc, f); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// FileName derives a file name from the recipe title.
func FileName(doc Document, f Format) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(doc.Title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "recipe_export"
	}
	return name + f.Ext()
}
