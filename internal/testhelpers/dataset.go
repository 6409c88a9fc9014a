package testhelpers

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// DatasetHeader matches the column layout of the published recipe dataset
var DatasetHeader = []string{"", "Title", "Ingredients", "Instructions", "Image_Name", "Cleaned_Ingredients"}

// WriteCSV writes rows (header first) to name inside dir and returns the path
func WriteCSV(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create csv: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	return path
}

// WriteImages creates small image files in dir. Each file's content is
// "img:" followed by its name.
func WriteImages(t *testing.T, dir string, names ...string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create images dir: %v", err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("img:"+name), 0o644); err != nil {
			t.Fatalf("failed to write image: %v", err)
		}
	}
}

// Fixture is a small dataset on disk
type Fixture struct {
	Dir       string
	CSVPath   string
	ImagesDir string
	StaticDir string
}

// StaticImagesDir is where the fixture keeps its secondary images
func (f Fixture) StaticImagesDir() string {
	return filepath.Join(f.StaticDir, "img")
}

// SampleDataset writes a three-recipe dataset:
//
//	0 Banana Bread  image resolved by title slug to banana-bread.jpg
//	1 Apple Pie     image resolved by title slug to apple-pie.jpg
//	2 Plain Toast   raw reference toast.png, found under static/img
func SampleDataset(t *testing.T) Fixture {
	t.Helper()

	dir := t.TempDir()
	fx := Fixture{
		Dir:       dir,
		ImagesDir: filepath.Join(dir, "images"),
		StaticDir: filepath.Join(dir, "static"),
	}
	WriteImages(t, fx.ImagesDir, "banana-bread.jpg", "apple-pie.jpg")
	WriteImages(t, fx.StaticImagesDir(), "toast.png")

	fx.CSVPath = WriteCSV(t, dir, "recipes.csv", [][]string{
		DatasetHeader,
		{"0", "Banana Bread", "['3 bananas', '2 cups flour', 'sugar']", "Mash bananas.\nBake.", "banana-bread", "['bananas', 'flour', 'sugar']"},
		{"1", "Apple Pie", "['apples', 'flour', 'butter', 'sugar']", "Make crust.\nFill and bake.", "apple-pie", "['apples', 'flour', 'butter', 'sugar']"},
		{"2", "Plain Toast", "['butter', 'eggs']", "Toast it.", "toast.png", "['butter', 'eggs']"},
	})
	return fx
}
