package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/recipebook/internal/catalog"
	"github.com/hammamikhairi/recipebook/internal/directions"
	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/export"
	"github.com/hammamikhairi/recipebook/internal/ingredient"
	"github.com/hammamikhairi/recipebook/internal/logger"
	"github.com/hammamikhairi/recipebook/internal/query"
)

type handler struct {
	store        Store
	log          *logger.Logger
	query        *query.Parser
	ingredients  *ingredient.Parser
	exportFormat export.Format
}

// MatchResponse is one search hit. Quantity is set in at-most mode only.
type MatchResponse struct {
	domain.RecipeSummary
	Quantity *float64 `json:"quantity,omitempty"`
}

// SearchResponse is the body of GET /recipes.
type SearchResponse struct {
	Query   string          `json:"query"`
	Count   int             `json:"count"`
	Results []MatchResponse `json:"results"`
}

// RecipeResponse is a full recipe plus its numbered steps.
type RecipeResponse struct {
	*domain.Recipe
	Steps []string `json:"steps"`
}

// CreateRequest is the body of POST /recipes. Each ingredient is a phrase
// such as "1 1/2 cup flour".
type CreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Ingredients []string `json:"ingredients"`
	Directions  string   `json:"directions"`
	Time        string   `json:"time"`
}

func (h *handler) health(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"recipes": len(list),
	})
}

func (h *handler) units(c *gin.Context) {
	units, err := h.store.Units(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": units})
}

// search handles GET /recipes. q takes the query language of the browser
// prompt; the named parameters override it.
func (h *handler) search(c *gin.Context) {
	f := h.query.Parse(c.Query("q"))
	if v, ok := c.GetQuery("name"); ok {
		f.Name = v
	}
	if v, ok := c.GetQuery("ingredient"); ok {
		f.Ingredient = v
	}
	if v, ok := c.GetQuery("qty"); ok {
		f.Quantity = v
	}
	if v, ok := c.GetQuery("unit"); ok {
		f.Unit = v
	}
	if v, ok := c.GetQuery("at_most"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.badRequest(c, fmt.Errorf("at_most: %w", err))
			return
		}
		f.AtMost = b
	}
	if v, ok := c.GetQuery("max_minutes"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.badRequest(c, fmt.Errorf("max_minutes: want a non-negative integer, got %q", v))
			return
		}
		f.MaxMinutes = n
	}

	matches, err := h.store.Search(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := SearchResponse{
		Query:   query.Format(f),
		Count:   len(matches),
		Results: make([]MatchResponse, 0, len(matches)),
	}
	for _, m := range matches {
		mr := MatchResponse{RecipeSummary: m.Recipe.Summary()}
		if f.AtMost && m.Quantity >= 0 {
			q := m.Quantity
			mr.Quantity = &q
		}
		resp.Results = append(resp.Results, mr)
	}
	c.JSON(http.StatusOK, resp)
}

// get handles GET /recipes/:id. The key may also be a recipe name.
func (h *handler) get(c *gin.Context) {
	r, err := h.store.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipeResponse(r))
}

func (h *handler) export(c *gin.Context) {
	f := h.exportFormat
	if v := c.Query("format"); v != "" {
		var err error
		if f, err = export.ParseFormat(v); err != nil {
			h.badRequest(c, err)
			return
		}
	}

	r, err := h.store.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	doc := export.Prepare(*r)
	var buf bytes.Buffer
	if err := export.Write(&buf, doc, f); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(doc, f)))
	c.Data(http.StatusOK, f.ContentType(), buf.Bytes())
}

// create handles POST /recipes: the recipe is appended to the data file
// and the catalog reloaded.
func (h *handler) create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		h.badRequest(c, errors.New("name is required"))
		return
	}

	r := domain.Recipe{
		Name:       name,
		Directions: req.Directions,
		Time:       strings.TrimSpace(req.Time),
	}
	for _, phrase := range req.Ingredients {
		ing := h.ingredients.Parse(phrase)
		if ingredient.Format(ing) != "" {
			r.Ingredients = append(r.Ingredients, ing)
		}
	}

	added, err := h.store.Add(c.Request.Context(), r)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.log.Info("api: added recipe %q (%s)", added.Name, added.ID)
	c.Header("Location", "/recipes/"+added.ID)
	c.JSON(http.StatusCreated, recipeResponse(added))
}

func recipeResponse(r *domain.Recipe) RecipeResponse {
	steps := directions.Steps(r.Directions)
	if steps == nil {
		steps = []string{}
	}
	return RecipeResponse{Recipe: r, Steps: steps}
}

func (h *handler) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// fail maps domain errors to status codes.
func (h *handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrAmbiguous):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.log.Error("api: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}
