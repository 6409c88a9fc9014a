package model

import "sort"

// TokenSet is an unordered set of normalized ingredient words
type TokenSet map[string]struct{}

// NewTokenSet builds a set from the given words, skipping empty ones
func NewTokenSet(words ...string) TokenSet {
	set := make(TokenSet, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// Has reports whether the token is in the set
func (s TokenSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Len returns the number of distinct tokens
func (s TokenSet) Len() int {
	return len(s)
}

// Sorted returns the tokens in ascending order
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Intersect returns the tokens present in both sets
func (s TokenSet) Intersect(other TokenSet) TokenSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(TokenSet)
	for t := range small {
		if large.Has(t) {
			out[t] = struct{}{}
		}
	}
	return out
}

// Recipe is a single row of the recipe dataset. It is built once at startup
// and never modified afterwards.
type Recipe struct {
	ID              int
	Title           string
	IngredientsText string
	Instructions    string
	// ImageReference is an absolute URL, a filename in the images
	// directory, or the raw value from the dataset (possibly empty).
	ImageReference string
	Tokens         TokenSet
	// ImageTier names the resolver tier that produced ImageReference.
	ImageTier string
}
