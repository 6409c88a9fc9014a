package service_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantry/backend/internal/model"
	"github.com/pageza/pantry/backend/internal/service"
	"github.com/pageza/pantry/backend/internal/testhelpers"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "miso-glazed-salmon", service.Slugify("  Miso-Glazed   Salmon! "))
	assert.Equal(t, "", service.Slugify("!!!"))
	assert.Equal(t, "pie", service.Slugify("--Pie--"))
	assert.Equal(t, "miso-salmon", service.Slugify("Miso\u00a0Salmon"))
	assert.Equal(t, "miso-salmon", service.Slugify("Miso\u2009\u3000Salmon"))
}

func TestResolveImageReferenceEdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		images    []string
		urlColumn string
		raw       string
		title     string
		tokens    model.TokenSet
		wantRef   string
		wantTier  string
	}{
		{
			name:     "title slug with a non-breaking space",
			images:   []string{"miso-salmon.jpg", "a-salmon-rice.jpg"},
			raw:      "missing",
			title:    "Miso\u00a0Salmon",
			tokens:   model.NewTokenSet("salmon"),
			wantRef:  "miso-salmon.jpg",
			wantTier: service.TierTitleSlug,
		},
		{
			name:     "title slug takes the first listed file containing it",
			images:   []string{"my-banana-bread", "banana-bread-muffins.jpg"},
			title:    "Banana Bread",
			wantRef:  "banana-bread-muffins.jpg",
			wantTier: service.TierTitleSlug,
		},
		{
			name:     "title slug equal to a file name",
			images:   []string{"banana-bread", "zucchini.jpg"},
			title:    "Banana Bread",
			wantRef:  "banana-bread",
			wantTier: service.TierTitleSlug,
		},
		{
			name:     "ingredient tier only reads the first five tokens",
			images:   []string{"fennel-salad.jpg"},
			raw:      "missing",
			tokens:   model.NewTokenSet("apple", "bacon", "carrot", "dill", "egg", "fennel"),
			wantRef:  "missing",
			wantTier: service.TierRaw,
		},
		{
			name:     "ingredient tier within the first five tokens",
			images:   []string{"dill-pickles.jpg"},
			tokens:   model.NewTokenSet("apple", "bacon", "carrot", "dill", "egg", "fennel"),
			wantRef:  "dill-pickles.jpg",
			wantTier: service.TierIngredientToken,
		},
		{
			name:     "extension guess prefers jpg",
			images:   []string{"stew.webp", "stew.png", "stew.jpeg", "stew.jpg"},
			raw:      "stew.gif",
			wantRef:  "stew.jpg",
			wantTier: service.TierExtensionGuess,
		},
		{
			name:     "extension guess falls back to jpeg",
			images:   []string{"stew.webp", "stew.png", "stew.jpeg"},
			raw:      "stew",
			wantRef:  "stew.jpeg",
			wantTier: service.TierExtensionGuess,
		},
		{
			name:      "unmatched raw reference with a relative url column",
			images:    []string{"soup.jpg"},
			urlColumn: "images/tart.jpg",
			raw:       "tart-photo",
			title:     "Tart",
			tokens:    model.NewTokenSet("pastry"),
			wantRef:   "tart-photo",
			wantTier:  service.TierRaw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := service.NewImageIndex(tt.images)
			ref, tier := service.ResolveImageReference(tt.urlColumn, tt.raw, tt.title, tt.tokens, index)
			assert.Equal(t, tt.wantRef, ref)
			assert.Equal(t, tt.wantTier, tier)
		})
	}
}

func TestResolveImageReference(t *testing.T) {
	index := service.NewImageIndex([]string{
		"soup.jpg",
		"Roast-Chicken.JPG",
		"best-banana-bread-loaf.jpg",
		"lemon-tart.png",
		"garlic-noodles.webp",
	})

	tests := []struct {
		name      string
		urlColumn string
		raw       string
		title     string
		tokens    model.TokenSet
		wantRef   string
		wantTier  string
	}{
		{
			name:      "url column beats exact filename",
			urlColumn: "https://cdn.example.com/soup.jpg",
			raw:       "soup.jpg",
			wantRef:   "https://cdn.example.com/soup.jpg",
			wantTier:  service.TierURLColumn,
		},
		{
			name:      "relative url column is ignored",
			urlColumn: "/soup.jpg",
			raw:       "soup.jpg",
			wantRef:   "soup.jpg",
			wantTier:  service.TierExactFilename,
		},
		{
			name:     "case insensitive filename",
			raw:      "roast-chicken.jpg",
			wantRef:  "Roast-Chicken.JPG",
			wantTier: service.TierCaseInsensitive,
		},
		{
			name:     "title slug substring",
			raw:      "missing",
			title:    "Banana Bread",
			wantRef:  "best-banana-bread-loaf.jpg",
			wantTier: service.TierTitleSlug,
		},
		{
			name:     "ingredient token substring",
			raw:      "missing",
			title:    "Something Else",
			tokens:   model.NewTokenSet("lemon", "sugar"),
			wantRef:  "lemon-tart.png",
			wantTier: service.TierIngredientToken,
		},
		{
			name:     "extension guess",
			raw:      "garlic-noodles.gif",
			wantRef:  "garlic-noodles.webp",
			wantTier: service.TierExtensionGuess,
		},
		{
			name:     "raw fallback",
			raw:      "nowhere.jpg",
			title:    "Quiche",
			tokens:   model.NewTokenSet("eggs"),
			wantRef:  "nowhere.jpg",
			wantTier: service.TierRaw,
		},
		{
			name:     "empty raw fallback",
			wantRef:  "",
			wantTier: service.TierRaw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, tier := service.ResolveImageReference(tt.urlColumn, tt.raw, tt.title, tt.tokens, index)
			assert.Equal(t, tt.wantRef, ref)
			assert.Equal(t, tt.wantTier, tier)
		})
	}
}

func TestResolveImageReferenceNilIndex(t *testing.T) {
	ref, tier := service.ResolveImageReference("", "soup.jpg", "Soup", model.NewTokenSet("soup"), nil)
	assert.Equal(t, "soup.jpg", ref)
	assert.Equal(t, service.TierRaw, tier)
}

func TestBuildImageIndex(t *testing.T) {
	dir := t.TempDir()
	testhelpers.WriteImages(t, dir, "b.jpg", "a.jpg")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	index := service.BuildImageIndex(dir)
	assert.Equal(t, 2, index.Len())
	assert.True(t, index.Contains("a.jpg"))
	assert.False(t, index.Contains("nested"))

	assert.Equal(t, 0, service.BuildImageIndex(filepath.Join(dir, "missing")).Len())
	assert.Equal(t, 0, service.BuildImageIndex("").Len())
}

func TestDisplayURL(t *testing.T) {
	dir := t.TempDir()
	imagesDir := filepath.Join(dir, "images")
	staticDir := filepath.Join(dir, "static", "img")
	testhelpers.WriteImages(t, imagesDir, "soup.jpg")
	testhelpers.WriteImages(t, staticDir, "logo.png")
	locator := service.NewImageLocator(imagesDir, staticDir)

	t.Run("absolute url unchanged", func(t *testing.T) {
		u := "https://cdn.example.com/x.jpg"
		assert.Equal(t, u, locator.DisplayURL(u, "Soup", nil))
	})

	t.Run("images dir", func(t *testing.T) {
		assert.Equal(t, "/images/soup.jpg", locator.DisplayURL("soup.jpg", "Soup", nil))
	})

	t.Run("static images", func(t *testing.T) {
		assert.Equal(t, "/static/img/logo.png", locator.DisplayURL("logo.png", "Soup", nil))
	})

	t.Run("search query from title tokens and ref", func(t *testing.T) {
		got := locator.DisplayURL("Missing Photo.JPG", "Grandma's Best Tomato Soup with Basil Oil", model.NewTokenSet("tomato", "basil", "oil", "salt"))
		require.True(t, strings.HasPrefix(got, "https://source.unsplash.com/featured/800x600/?"))
		query := strings.TrimPrefix(got, "https://source.unsplash.com/featured/800x600/?")
		assert.Equal(t, "grandmas,best,tomato,soup,with,basil,oil,salt,missing-photojpg", query)
	})

	t.Run("title words split on non-breaking spaces", func(t *testing.T) {
		got := locator.DisplayURL("", "Miso\u00a0Salmon", model.TokenSet{})
		assert.Equal(t, "https://source.unsplash.com/featured/800x600/?miso,salmon", got)
	})

	t.Run("local file names are escaped", func(t *testing.T) {
		testhelpers.WriteImages(t, imagesDir, "pie #1?.jpg", "100% rye.jpg")
		assert.Equal(t, "/images/pie%20%231%3F.jpg", locator.DisplayURL("pie #1?.jpg", "Pie", nil))
		assert.Equal(t, "/images/100%25%20rye.jpg", locator.DisplayURL("100% rye.jpg", "Rye", nil))
	})

	t.Run("search query without ref", func(t *testing.T) {
		got := locator.DisplayURL("", "Pancakes", model.NewTokenSet("eggs"))
		assert.Equal(t, "https://source.unsplash.com/featured/800x600/?pancakes,eggs", got)
	})

	t.Run("placeholder", func(t *testing.T) {
		assert.Equal(t, service.PlaceholderImageURL, locator.DisplayURL("", "", nil))
		assert.Equal(t, service.PlaceholderImageURL, locator.DisplayURL("", "!!!", model.TokenSet{}))
	})

	t.Run("traversal is not local", func(t *testing.T) {
		assert.Equal(t, service.PlaceholderImageURL, locator.DisplayURL("../images/soup.jpg", "", nil))
	})
}

func TestLocalPath(t *testing.T) {
	dir := t.TempDir()
	testhelpers.WriteImages(t, dir, "soup.jpg")

	p, ok := service.LocalPath(dir, "soup.jpg")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "soup.jpg"), p)

	for _, name := range []string{"", "missing.jpg", "../soup.jpg", "/etc/passwd"} {
		_, ok := service.LocalPath(dir, name)
		assert.False(t, ok, name)
	}
}
