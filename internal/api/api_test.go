package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipebook/internal/catalog"
	"github.com/hammamikhairi/recipebook/internal/config"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

const recipesCSV = `recipe_name,ingredients,directions,total_time
Pancakes,"1 1/2 cup flour, 2 Tbsp sugar","Mix. Fry!",20 mins
"Soup, Hearty","2 cups stock, 1/2 tsp salt","Boil. Serve.",1 hrs 30 mins
Toast,"2 slice bread, ½ T butter",Toast the bread.,5 mins
`

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*gin.Engine, *catalog.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.csv")
	require.NoError(t, os.WriteFile(path, []byte(recipesCSV), 0o644))

	store, err := catalog.Open(path, nil)
	require.NoError(t, err)

	cfg := &config.Config{
		Units:  config.UnitsConfig{Strict: true},
		Export: config.ExportConfig{Format: "yaml"},
	}
	return NewRouter(store, cfg, nil), store, path
}

func do(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func resultNames(resp SearchResponse) []string {
	out := make([]string, len(resp.Results))
	for i, m := range resp.Results {
		out[i] = m.Name
	}
	return out
}

func TestHealth(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := do(t, r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 3, body["recipes"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUnits(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := do(t, r, http.MethodGet, "/units", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string][]string](t, w)
	assert.Equal(t, []string{"cup", "slice", "tbsp", "tsp"}, body["units"])
}

func TestSearch(t *testing.T) {
	r, _, _ := newTestServer(t)

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"all", "/recipes", []string{"Pancakes", "Soup, Hearty", "Toast"}},
		{"name", "/recipes?name=soup", []string{"Soup, Hearty"}},
		{"ingredient", "/recipes?ingredient=salt", []string{"Soup, Hearty"}},
		{"unit", "/recipes?unit=tbsp", []string{"Pancakes", "Toast"}},
		{"quantity", "/recipes?qty=1%201/2", []string{"Pancakes"}},
		{"max minutes", "/recipes?max_minutes=30", []string{"Pancakes", "Toast"}},
		{"query language", "/recipes?q=ing:bread", []string{"Toast"}},
		{"parameter overrides query", "/recipes?q=ing:bread&ingredient=flour", []string{"Pancakes"}},
		{"no match", "/recipes?name=lasagna", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, w.Code)
			resp := decode[SearchResponse](t, w)
			assert.Equal(t, tt.want, resultNames(resp))
			assert.Equal(t, len(tt.want), resp.Count)
		})
	}
}

func TestSearchAtMost(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := do(t, r, http.MethodGet, "/recipes?qty=2&at_most=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[SearchResponse](t, w)
	require.Equal(t, []string{"Pancakes", "Soup, Hearty", "Toast"}, resultNames(resp))

	require.NotNil(t, resp.Results[0].Quantity)
	assert.Equal(t, 2.0, *resp.Results[0].Quantity)
	assert.Equal(t, "qty:<=2", resp.Query)
}

func TestSearchBadParams(t *testing.T) {
	r, _, _ := newTestServer(t)

	for _, target := range []string{
		"/recipes?at_most=maybe",
		"/recipes?max_minutes=soon",
		"/recipes?max_minutes=-5",
	} {
		w := do(t, r, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, decode[map[string]string](t, w), "error")
	}
}

func TestGetRecipe(t *testing.T) {
	r, store, _ := newTestServer(t)
	toast := store.Catalog().Recipes()[2]

	w := do(t, r, http.MethodGet, "/recipes/"+toast.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[RecipeResponse](t, w)
	assert.Equal(t, toast.ID, resp.ID)
	assert.Equal(t, "Toast", resp.Name)
	assert.Equal(t, "5 mins", resp.Time)
	assert.Equal(t, []string{"1. Toast the bread."}, resp.Steps)
	require.Len(t, resp.Ingredients, 2)
	assert.Equal(t, "slice", resp.Ingredients[0].Unit)

	w = do(t, r, http.MethodGet, "/recipes/pancakes", "")
	require.Equal(t, http.StatusOK, w.Code, "lookup by name")
	assert.Equal(t, []string{"1. Mix.", "2. Fry!"}, decode[RecipeResponse](t, w).Steps)
}

func TestGetRecipeErrors(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := do(t, r, http.MethodGet, "/recipes/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// "a" appears in every name.
	w = do(t, r, http.MethodGet, "/recipes/a", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestExport(t *testing.T) {
	r, store, _ := newTestServer(t)
	pancakes := store.Catalog().Recipes()[0]

	w := do(t, r, http.MethodGet, "/recipes/"+pancakes.ID+"/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"), "configured default")
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="pancakes.yaml"`)
	assert.Contains(t, w.Body.String(), "1 1/2 cup flour")

	w = do(t, r, http.MethodGet, "/recipes/"+pancakes.ID+"/export?format=json", "")
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode[map[string]any](t, w)
	assert.Equal(t, "Pancakes", doc["title"])

	w = do(t, r, http.MethodGet, "/recipes/"+pancakes.ID+"/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/recipes/nope/export", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRecipe(t *testing.T) {
	r, store, path := newTestServer(t)

	body := `{"name":"Omelette","ingredients":["2 eggs","1 tbsp butter",""],"directions":"Whisk. Cook.","time":"10 mins"}`
	w := do(t, r, http.MethodPost, "/recipes", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[RecipeResponse](t, w)
	assert.Equal(t, "Omelette", resp.Name)
	assert.Equal(t, []string{"1. Whisk.", "2. Cook."}, resp.Steps)
	assert.Len(t, resp.Ingredients, 2)
	assert.Equal(t, "/recipes/"+resp.ID, w.Header().Get("Location"))

	assert.Equal(t, 4, store.Catalog().Len())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Omelette","2 eggs, 1 tbsp butter","Whisk. Cook.","10 mins"`)

	w = do(t, r, http.MethodGet, "/recipes/"+resp.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateRecipeInvalid(t *testing.T) {
	r, store, _ := newTestServer(t)

	for _, body := range []string{
		`{"ingredients":["1 egg"]}`,
		`{"name":"   "}`,
		`not json`,
	} {
		w := do(t, r, http.MethodPost, "/recipes", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Equal(t, 3, store.Catalog().Len())
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.New(logger.LevelOff, nil)))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := do(t, r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode[map[string]string](t, w)["error"])
}

func TestBodySizeLimit(t *testing.T) {
	r, _, _ := newTestServer(t)

	big := `{"name":"` + strings.Repeat("x", maxBodySize) + `"}`
	w := do(t, r, http.MethodPost, "/recipes", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
