package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantry/backend/internal/metrics"
	"github.com/pageza/pantry/backend/internal/service"
	"github.com/pageza/pantry/backend/internal/types"
)

// sampleSpices backs GET /api/spices
var sampleSpices = []types.Spice{
	{ID: 1, Name: "Turmeric", Flavor: "Earthy, bitter"},
	{ID: 2, Name: "Cumin", Flavor: "Warm, nutty"},
	{ID: 3, Name: "Cardamom", Flavor: "Sweet, floral"},
}

type RecipeHandler struct {
	catalog   *service.Catalog
	imagesDir string
	metrics   *metrics.Metrics
}

func NewRecipeHandler(catalog *service.Catalog, imagesDir string, m *metrics.Metrics) *RecipeHandler {
	return &RecipeHandler{
		catalog:   catalog,
		imagesDir: imagesDir,
		metrics:   m,
	}
}

func (h *RecipeHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/api/recipes", h.SearchRecipes)
	router.GET("/api/recipe/:id", h.GetRecipe)
	router.GET("/api/spices", h.ListSpices)
	router.GET("/images/*filename", h.ServeImage)
}

// SearchRecipes ranks recipes by ingredient overlap with ?ingredients=a,b.
// Without ingredients every recipe is listed.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	resp := h.catalog.Search(c.Query("ingredients"))

	kind := "ingredients"
	if len(resp.Query) == 0 {
		kind = "all"
	}
	h.metrics.RecordSearch(kind, len(resp.Results))

	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := parseRecipeID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	detail, err := h.catalog.Get(id, c.Query("ingredients"))
	if errors.Is(err, service.ErrRecipeNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// parseRecipeID accepts unsigned decimal ids only
func parseRecipeID(s string) (int, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(s)
}

// ServeImage serves a file from the dataset image directory. Missing files
// and names that escape the directory get an empty 404.
func (h *RecipeHandler) ServeImage(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filename"), "/")
	path, ok := service.LocalPath(h.imagesDir, name)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.File(path)
}

func (h *RecipeHandler) ListSpices(c *gin.Context) {
	c.JSON(http.StatusOK, sampleSpices)
}
