package service

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/pageza/pantry/backend/internal/model"
)

const (
	// PlaceholderImageURL is served when nothing is known about a recipe
	PlaceholderImageURL = "https://images.unsplash.com/photo-1504674900247-0877df9cc836?w=1200&q=80&auto=format&fit=crop"

	imageSearchURL = "https://source.unsplash.com/featured/800x600/?"

	// ImagesRoute and StaticImagesRoute are the URL prefixes local files are served under
	ImagesRoute       = "/images/"
	StaticImagesRoute = "/static/img/"

	maxMatchTokens = 5
	maxTitleWords  = 5
	maxQueryTokens = 3
)

// Resolver tier names, in priority order
const (
	TierURLColumn       = "url_column"
	TierExactFilename   = "exact_filename"
	TierCaseInsensitive = "case_insensitive_filename"
	TierTitleSlug       = "title_slug"
	TierIngredientToken = "ingredient_token"
	TierExtensionGuess  = "extension_guess"
	TierRaw             = "raw"
)

// spaceClass matches ASCII whitespace and the Unicode separators, NBSP
// included
const spaceClass = `\s\x0b\x1c-\x1f\x{85}\p{Z}`

var (
	slugStrip       = regexp.MustCompile(`[^a-z0-9` + spaceClass + `-]+`)
	whitespaceRun   = regexp.MustCompile(`[` + spaceClass + `]+`)
	titleWordStrip  = regexp.MustCompile(`[^a-z0-9` + spaceClass + `]+`)
	guessExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
)

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r) || (r >= 0x1c && r <= 0x1f)
}

// IsAbsoluteURL reports whether ref starts with a web scheme
func IsAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Slugify lowercases s, keeps letters, digits, spaces and hyphens, joins
// whitespace runs with a single hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	s = slugStrip.ReplaceAllString(strings.ToLower(s), "")
	return strings.Trim(whitespaceRun.ReplaceAllString(s, "-"), "-")
}

// ImageIndex is a snapshot of the filenames in the images directory
type ImageIndex struct {
	exact map[string]struct{}
	lower map[string]string
	names []string
}

// NewImageIndex indexes the given filenames
func NewImageIndex(names []string) *ImageIndex {
	idx := &ImageIndex{
		exact: make(map[string]struct{}, len(names)),
		lower: make(map[string]string, len(names)),
		names: make([]string, 0, len(names)),
	}
	for _, n := range names {
		if _, dup := idx.exact[n]; dup {
			continue
		}
		idx.exact[n] = struct{}{}
		idx.names = append(idx.names, n)
	}
	sort.Strings(idx.names)
	for _, n := range idx.names {
		l := strings.ToLower(n)
		if _, ok := idx.lower[l]; !ok {
			idx.lower[l] = n
		}
	}
	return idx
}

// BuildImageIndex lists dir once. A missing or unreadable directory yields
// an empty index.
func BuildImageIndex(dir string) *ImageIndex {
	if dir == "" {
		return NewImageIndex(nil)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return NewImageIndex(nil)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return NewImageIndex(names)
}

// Len returns the number of indexed files
func (idx *ImageIndex) Len() int {
	return len(idx.names)
}

// Contains reports an exact filename match
func (idx *ImageIndex) Contains(name string) bool {
	_, ok := idx.exact[name]
	return ok
}

// imageContext is everything a resolver tier may look at
type imageContext struct {
	urlColumn string
	raw       string
	title     string
	tokens    []string
	index     *ImageIndex
}

type imageTier struct {
	name    string
	resolve func(imageContext) (string, bool)
}

// imageTiers is the load-time resolution chain. The first tier that returns
// ok wins.
var imageTiers = []imageTier{
	{TierURLColumn, fromURLColumn},
	{TierExactFilename, fromExactFilename},
	{TierCaseInsensitive, fromCaseInsensitiveFilename},
	{TierTitleSlug, fromTitleSlug},
	{TierIngredientToken, fromIngredientToken},
	{TierExtensionGuess, fromExtensionGuess},
	{TierRaw, fromRaw},
}

func fromURLColumn(ic imageContext) (string, bool) {
	u := strings.TrimSpace(ic.urlColumn)
	if IsAbsoluteURL(u) {
		return u, true
	}
	return "", false
}

func fromExactFilename(ic imageContext) (string, bool) {
	if ic.raw != "" && ic.index.Contains(ic.raw) {
		return ic.raw, true
	}
	return "", false
}

func fromCaseInsensitiveFilename(ic imageContext) (string, bool) {
	if ic.raw == "" {
		return "", false
	}
	name, ok := ic.index.lower[strings.ToLower(ic.raw)]
	return name, ok
}

func fromTitleSlug(ic imageContext) (string, bool) {
	if ic.title == "" {
		return "", false
	}
	slug := Slugify(ic.title)
	if slug == "" {
		return "", false
	}
	for _, n := range ic.index.names {
		nl := strings.ToLower(n)
		if nl == slug || strings.HasSuffix(nl, slug) || strings.Contains(nl, slug) || strings.HasPrefix(nl, slug) {
			return n, true
		}
	}
	return "", false
}

func fromIngredientToken(ic imageContext) (string, bool) {
	tokens := ic.tokens
	if len(tokens) > maxMatchTokens {
		tokens = tokens[:maxMatchTokens]
	}
	for _, t := range tokens {
		for _, n := range ic.index.names {
			if strings.Contains(strings.ToLower(n), t) {
				return n, true
			}
		}
	}
	return "", false
}

func fromExtensionGuess(ic imageContext) (string, bool) {
	if ic.raw == "" {
		return "", false
	}
	base := strings.TrimSuffix(ic.raw, filepath.Ext(ic.raw))
	for _, ext := range guessExtensions {
		if name := base + ext; ic.index.Contains(name) {
			return name, true
		}
	}
	return "", false
}

func fromRaw(ic imageContext) (string, bool) {
	return ic.raw, true
}

// ResolveImageReference runs the tier chain and returns the stored image
// reference together with the name of the tier that produced it.
func ResolveImageReference(urlColumn, rawImage, title string, tokens model.TokenSet, index *ImageIndex) (string, string) {
	if index == nil {
		index = NewImageIndex(nil)
	}
	ic := imageContext{
		urlColumn: urlColumn,
		raw:       rawImage,
		title:     title,
		tokens:    tokens.Sorted(),
		index:     index,
	}
	for _, tier := range imageTiers {
		if ref, ok := tier.resolve(ic); ok {
			return ref, tier.name
		}
	}
	return rawImage, TierRaw
}

// ImageLocator turns stored image references into URLs a browser can load
type ImageLocator struct {
	ImagesDir       string
	StaticImagesDir string
}

// NewImageLocator creates a locator over the dataset image directory and the
// static image folder
func NewImageLocator(imagesDir, staticImagesDir string) *ImageLocator {
	return &ImageLocator{
		ImagesDir:       imagesDir,
		StaticImagesDir: staticImagesDir,
	}
}

// DisplayURL resolves ref at request time: absolute URLs pass through, local
// files map to their serving routes and anything else becomes an image search
// built from the title, tokens and reference.
func (l *ImageLocator) DisplayURL(ref, title string, tokens model.TokenSet) string {
	if ref != "" {
		if IsAbsoluteURL(ref) {
			return ref
		}
		if fileExists(l.ImagesDir, ref) {
			return ImagesRoute + escapePath(ref)
		}
		if fileExists(l.StaticImagesDir, ref) {
			return StaticImagesRoute + escapePath(ref)
		}
	}
	return imageSearchFor(ref, title, tokens)
}

func imageSearchFor(ref, title string, tokens model.TokenSet) string {
	var parts []string
	if words := strings.FieldsFunc(titleWordStrip.ReplaceAllString(strings.ToLower(title), ""), isSpace); len(words) > 0 {
		if len(words) > maxTitleWords {
			words = words[:maxTitleWords]
		}
		parts = append(parts, words...)
	}
	sorted := tokens.Sorted()
	if len(sorted) > maxQueryTokens {
		sorted = sorted[:maxQueryTokens]
	}
	parts = append(parts, sorted...)

	if len(parts) == 0 {
		return PlaceholderImageURL
	}
	query := strings.Join(parts, ",")
	if ref != "" && !IsAbsoluteURL(ref) {
		slug := strings.ReplaceAll(slugStrip.ReplaceAllString(strings.ToLower(ref), ""), " ", "-")
		query += "," + slug
	}
	return imageSearchURL + query
}

// escapePath escapes each segment of a relative file path for use in a URL
func escapePath(name string) string {
	segments := strings.Split(filepath.ToSlash(name), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// LocalPath returns the on-disk path of name inside dir, or false when the
// name escapes dir or the file is missing.
func LocalPath(dir, name string) (string, bool) {
	if !fileExists(dir, name) {
		return "", false
	}
	return filepath.Join(dir, name), true
}

func fileExists(dir, name string) bool {
	if dir == "" || name == "" || !filepath.IsLocal(name) {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		return false
	}
	return !info.IsDir()
}
