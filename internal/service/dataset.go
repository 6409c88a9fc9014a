package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/pantry/backend/internal/model"
)

// Dataset column names
const (
	ColumnID                 = ""
	ColumnTitle              = "Title"
	ColumnCleanedIngredients = "Cleaned_Ingredients"
	ColumnIngredients        = "Ingredients"
	ColumnInstructions       = "Instructions"
	ColumnImageName          = "Image_Name"
	ColumnImageURL           = "Image_URL"
)

// Dataset is the result of loading the recipe CSV
type Dataset struct {
	Recipes []model.Recipe
	// TierCounts counts how many recipes each image resolver tier produced
	TierCounts map[string]int
	// SkippedRows counts records the CSV reader could not parse
	SkippedRows int
	ImageCount  int
}

// fieldRule resolves one recipe field from a row: the first listed column
// holding a usable value wins, otherwise the field is empty.
type fieldRule struct {
	columns []string
	clean   func(string) string
}

var (
	titleRule = fieldRule{
		columns: []string{ColumnTitle},
		clean:   strings.TrimSpace,
	}
	ingredientsRule = fieldRule{
		columns: []string{ColumnCleanedIngredients, ColumnIngredients},
	}
	instructionsRule = fieldRule{
		columns: []string{ColumnInstructions},
	}
	imageNameRule = fieldRule{
		columns: []string{ColumnImageName},
		clean:   trimImageName,
	}
	imageURLRule = fieldRule{
		columns: []string{ColumnImageURL, "ImageURL", "Image"},
	}
)

func trimImageName(s string) string {
	return strings.Trim(strings.Trim(strings.TrimSpace(s), `"`), "'")
}

// row is one CSV record addressed by header name
type row struct {
	header map[string]int
	values []string
}

func (r row) get(column string) (string, bool) {
	i, ok := r.header[column]
	if !ok || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}

func (r row) resolve(rule fieldRule) string {
	for _, col := range rule.columns {
		v, ok := r.get(col)
		if !ok || v == "" {
			continue
		}
		if rule.clean != nil {
			return rule.clean(v)
		}
		return v
	}
	return ""
}

// recipeID parses the unnamed identifier column, falling back to fallback
// when the column is absent, empty or not an integer.
func (r row) recipeID(fallback int) int {
	v, ok := r.get(ColumnID)
	if !ok {
		return fallback
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return id
}

// LoadDataset reads the recipe CSV at csvPath and resolves every recipe's
// image against imagesDir. A missing CSV yields an empty dataset. Read
// failures return the recipes loaded so far together with the error.
func LoadDataset(csvPath, imagesDir string, logger *zap.Logger) (*Dataset, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ds := &Dataset{TierCounts: make(map[string]int)}

	f, err := os.Open(csvPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Recipe dataset not found, starting with no recipes", zap.String("path", csvPath))
			return ds, nil
		}
		return ds, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	index := BuildImageIndex(imagesDir)
	ds.ImageCount = index.Len()
	if index.Len() == 0 {
		logger.Warn("No dataset images indexed", zap.String("dir", imagesDir))
	}

	err = readRecipes(f, index, ds, logger)
	logger.Info("Recipe dataset loaded",
		zap.String("path", csvPath),
		zap.Int("recipes", len(ds.Recipes)),
		zap.Int("images", ds.ImageCount),
		zap.Int("skipped_rows", ds.SkippedRows),
	)
	return ds, err
}

func readRecipes(r io.Reader, index *ImageIndex, ds *Dataset, logger *zap.Logger) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headerRow, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read dataset header: %w", err)
	}
	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		header[name] = i
	}

	for {
		values, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				ds.SkippedRows++
				logger.Warn("Skipping malformed dataset row", zap.Error(err))
				continue
			}
			return fmt.Errorf("failed to read dataset: %w", err)
		}

		rec := buildRecipe(row{header: header, values: values}, len(ds.Recipes), index)
		ds.TierCounts[rec.ImageTier]++
		ds.Recipes = append(ds.Recipes, rec)
	}
}

func buildRecipe(r row, position int, index *ImageIndex) model.Recipe {
	title := r.resolve(titleRule)
	ingredients := r.resolve(ingredientsRule)
	tokens := Tokenize(ingredients)
	ref, tier := ResolveImageReference(
		r.resolve(imageURLRule),
		r.resolve(imageNameRule),
		title,
		tokens,
		index,
	)
	return model.Recipe{
		ID:              r.recipeID(position),
		Title:           title,
		IngredientsText: ingredients,
		Instructions:    r.resolve(instructionsRule),
		ImageReference:  ref,
		Tokens:          tokens,
		ImageTier:       tier,
	}
}
