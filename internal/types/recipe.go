package types

// RecipeSummary is one entry of a recipe search response
type RecipeSummary struct {
	ID                  int      `json:"id"`
	Title               string   `json:"title"`
	MatchScore          int      `json:"match_score"`
	MatchPercent        *int     `json:"match_percent"`
	ImageURL            string   `json:"image_url"`
	IngredientsPreview  []string `json:"ingredients_preview"`
	InstructionsPreview string   `json:"instructions_preview"`
}

// SearchResponse is returned by GET /api/recipes
type SearchResponse struct {
	Query   []string        `json:"query"`
	Results []RecipeSummary `json:"results"`
}

// RecipeDetail is returned by GET /api/recipe/:id
type RecipeDetail struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	ImageURL           string   `json:"image_url"`
	IngredientsText    string   `json:"ingredients_text"`
	Instructions       string   `json:"instructions"`
	MatchedIngredients []string `json:"matched_ingredients"`
	MatchPercent       *int     `json:"match_percent"`
}

// Spice is a sample entry served by GET /api/spices
type Spice struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Flavor string `json:"flavor"`
}
