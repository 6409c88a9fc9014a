package service

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/pageza/pantry/backend/internal/model"
	"github.com/pageza/pantry/backend/internal/types"
)

const (
	// MaxSearchResults caps ingredient searches. Listing everything is not capped.
	MaxSearchResults = 60

	previewTokens           = 8
	instructionsPreviewRune = 220
)

// ErrRecipeNotFound is returned when no recipe has the requested id
var ErrRecipeNotFound = errors.New("recipe not found")

// Catalog is the read-only recipe collection shared by all requests. It is
// built once at startup and has no mutating methods, so concurrent readers
// need no locking.
type Catalog struct {
	recipes []model.Recipe
	images  *ImageLocator
}

// NewCatalog wraps recipes loaded at startup. The slice must not be modified
// afterwards.
func NewCatalog(recipes []model.Recipe, images *ImageLocator) *Catalog {
	if images == nil {
		images = NewImageLocator("", "")
	}
	return &Catalog{
		recipes: recipes,
		images:  images,
	}
}

// Len returns the number of recipes
func (c *Catalog) Len() int {
	return len(c.recipes)
}

// MatchPercent is round(100*score/max(1,querySize)) with ties rounded to even.
// It is not clamped: a score larger than the query size exceeds 100.
func MatchPercent(score, querySize int) int {
	if querySize < 1 {
		querySize = 1
	}
	return int(math.RoundToEven(100 * float64(score) / float64(querySize)))
}

// Search ranks recipes against a comma-separated ingredient query. An empty
// query lists every recipe. Results are always ordered by title, ignoring
// case, whatever their score.
func (c *Catalog) Search(query string) types.SearchResponse {
	queryTokens := ParseQuery(query)
	if queryTokens.Len() == 0 {
		return types.SearchResponse{
			Query:   []string{},
			Results: c.listAll(),
		}
	}

	results := make([]types.RecipeSummary, 0)
	for i := range c.recipes {
		r := &c.recipes[i]
		if r.Tokens.Len() == 0 {
			continue
		}
		overlap := r.Tokens.Intersect(queryTokens)
		if overlap.Len() == 0 {
			continue
		}
		percent := MatchPercent(overlap.Len(), queryTokens.Len())
		results = append(results, c.summary(r, overlap.Len(), &percent, overlap))
	}
	sortByTitle(results)
	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}
	return types.SearchResponse{
		Query:   queryTokens.Sorted(),
		Results: results,
	}
}

func (c *Catalog) listAll() []types.RecipeSummary {
	results := make([]types.RecipeSummary, 0, len(c.recipes))
	for i := range c.recipes {
		r := &c.recipes[i]
		results = append(results, c.summary(r, 0, nil, r.Tokens))
	}
	sortByTitle(results)
	return results
}

func (c *Catalog) summary(r *model.Recipe, score int, percent *int, preview model.TokenSet) types.RecipeSummary {
	return types.RecipeSummary{
		ID:                  r.ID,
		Title:               r.Title,
		MatchScore:          score,
		MatchPercent:        percent,
		ImageURL:            c.images.DisplayURL(r.ImageReference, r.Title, r.Tokens),
		IngredientsPreview:  firstN(preview.Sorted(), previewTokens),
		InstructionsPreview: instructionsPreview(r.Instructions),
	}
}

// Get returns the full view of one recipe. When query is non-empty the
// overlap with the recipe's tokens is reported as well.
func (c *Catalog) Get(id int, query string) (types.RecipeDetail, error) {
	r := c.find(id)
	if r == nil {
		return types.RecipeDetail{}, ErrRecipeNotFound
	}

	queryTokens := ParseQuery(query)
	matched := []string{}
	var percent *int
	if queryTokens.Len() > 0 {
		overlap := r.Tokens.Intersect(queryTokens)
		matched = overlap.Sorted()
		p := MatchPercent(overlap.Len(), queryTokens.Len())
		percent = &p
	}

	return types.RecipeDetail{
		ID:                 r.ID,
		Title:              r.Title,
		ImageURL:           c.images.DisplayURL(r.ImageReference, r.Title, r.Tokens),
		IngredientsText:    r.IngredientsText,
		Instructions:       r.Instructions,
		MatchedIngredients: matched,
		MatchPercent:       percent,
	}, nil
}

func (c *Catalog) find(id int) *model.Recipe {
	for i := range c.recipes {
		if c.recipes[i].ID == id {
			return &c.recipes[i]
		}
	}
	return nil
}

func sortByTitle(results []types.RecipeSummary) {
	sort.SliceStable(results, func(i, j int) bool {
		return strings.ToLower(results[i].Title) < strings.ToLower(results[j].Title)
	})
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func instructionsPreview(instructions string) string {
	line, _, _ := strings.Cut(instructions, "\n")
	runes := []rune(line)
	if len(runes) > instructionsPreviewRune {
		return string(runes[:instructionsPreviewRune])
	}
	return line
}
