package csvrec

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, input string) []string {
	t.Helper()
	r := NewReader(strings.NewReader(input))
	recs := slices.Collect(r.All())
	require.NoError(t, r.Err())
	return recs
}

func TestReaderRecords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "plain lines",
			input: "a,b,c\n1,2,3\n",
			want:  []string{"a,b,c", "1,2,3"},
		},
		{
			name:  "quoted newline spans lines",
			input: "name,dir\n\"Soup\",\"Boil.\nServe, hot.\"\nnext,row\n",
			want:  []string{"name,dir", "\"Soup\",\"Boil.\nServe, hot.\"", "next,row"},
		},
		{
			name:  "escaped quotes do not toggle",
			input: "\"say \"\"hi\"\"\nthere\",x\ny\n",
			want:  []string{"\"say \"\"hi\"\"\nthere\",x", "y"},
		},
		{
			name:  "empty quoted field",
			input: "a,\"\",b\nc\n",
			want:  []string{"a,\"\",b", "c"},
		},
		{
			name:  "unterminated quote runs to eof",
			input: "ok\n\"open,\nstill open\nend",
			want:  []string{"ok", "\"open,\nstill open\nend"},
		},
		{
			name:  "crlf line endings",
			input: "a,b\r\nc,d\r\n",
			want:  []string{"a,b", "c,d"},
		},
		{
			name:  "blank line is its own record",
			input: "a\n\nb",
			want:  []string{"a", "", "b"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readAll(t, tt.input))
		})
	}
}

func TestReaderLine(t *testing.T) {
	r := NewReader(strings.NewReader("h\n\"a\nb\"\nc\n"))

	_, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, 1, r.Line())

	rec, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, "\"a\nb\"", rec)
	assert.Equal(t, 2, r.Line())

	_, ok = r.Next()
	require.True(t, ok)
	assert.Equal(t, 4, r.Line())

	_, ok = r.Next()
	assert.False(t, ok)
}

func TestReaderAllStopsEarly(t *testing.T) {
	r := NewReader(strings.NewReader("1\n2\n3\n"))
	for rec := range r.All() {
		if rec == "2" {
			break
		}
	}
	rec, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, "3", rec)
}
