package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/recipebook/internal/domain"
)

var cocoa = domain.Recipe{
	Name: "Hot Cocoa",
	Time: "10 mins",
	Ingredients: []domain.Ingredient{
		{Quantity: "1½", Unit: "cup", Name: "milk"},
		{Quantity: "2", Unit: "tbsp", Name: "cocoa"},
		{Name: "pinch of salt"},
		{},
	},
	Directions: "Warm ½ cup milk. Whisk in cocoa!\nEnjoy",
}

func TestPrepare(t *testing.T) {
	doc := Prepare(cocoa)

	assert.Equal(t, "Hot Cocoa", doc.Title)
	assert.Equal(t, "10 mins", doc.Time)
	assert.Equal(t, []string{"1 1/2 cup milk", "2 tbsp cocoa", "pinch of salt"}, doc.Ingredients)
	assert.Equal(t, []string{"1. Warm 1/2 cup milk.", "2. Whisk in cocoa!"}, doc.Directions)
}

func TestPrepareEmpty(t *testing.T) {
	doc := Prepare(domain.Recipe{Name: "Nothing"})
	assert.Empty(t, doc.Ingredients)
	assert.NotNil(t, doc.Directions)
	assert.Empty(t, doc.Directions)
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, Prepare(cocoa)))
	assert.Equal(t, `Hot Cocoa
Time: 10 mins

Ingredients:
  1 1/2 cup milk
  2 tbsp cocoa
  pinch of salt

Directions:
  1. Warm 1/2 cup milk.
  2. Whisk in cocoa!
`, buf.String())
}

func TestYAMLAndJSON(t *testing.T) {
	doc := Prepare(cocoa)

	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, doc))
	var fromYAML Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, doc, fromYAML)

	buf.Reset()
	require.NoError(t, JSON(&buf, doc))
	var fromJSON Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, doc, fromJSON)
	assert.Contains(t, buf.String(), `"title": "Hot Cocoa"`)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TXT", FormatText, false},
		{"yml", FormatYAML, false},
		{"json", FormatJSON, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	f, err := FormatFromPath("out/cocoa.yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	f, err = FormatFromPath("README.md")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	doc := Prepare(cocoa)

	path := filepath.Join(dir, "nested", "cocoa.json")
	require.NoError(t, WriteFile(path, doc, ""))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Document
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, doc, got)

	path = filepath.Join(dir, "cocoa.out")
	require.NoError(t, WriteFile(path, doc, FormatText))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("Hot Cocoa\n")))

	assert.ErrorIs(t, WriteFile(filepath.Join(dir, "cocoa.pdf"), doc, ""), ErrUnknownFormat)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "hot-cocoa.txt", FileName(Document{Title: "Hot Cocoa"}, FormatText))
	assert.Equal(t, "mom-s-best-pie-2.yaml", FileName(Document{Title: "  Mom's Best Pie #2!"}, FormatYAML))
	assert.Equal(t, "recipe_export.json", FileName(Document{Title: "???"}, FormatJSON))
}
