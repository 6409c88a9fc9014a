package service

import (
	"regexp"
	"strings"

	"github.com/pageza/pantry/backend/internal/model"
)

var nonLetters = regexp.MustCompile(`[^a-z]+`)

// NormalizeToken lowercases text and drops everything that is not a letter,
// so "Chili-Powder!!" becomes "chilipowder". Callers discard empty results.
func NormalizeToken(text string) string {
	return nonLetters.ReplaceAllString(strings.ToLower(text), "")
}

// Tokenize splits free-form ingredient text into a set of lowercase words.
// Serialized lists such as `['salt', 'pepper']` tokenize the same way as
// plain text since brackets, quotes, digits and punctuation all separate words.
func Tokenize(text string) model.TokenSet {
	if text == "" {
		return model.TokenSet{}
	}
	return model.NewTokenSet(nonLetters.Split(strings.ToLower(text), -1)...)
}

// ParseQuery turns a comma-separated ingredient list into a token set
func ParseQuery(query string) model.TokenSet {
	set := model.TokenSet{}
	if query == "" {
		return set
	}
	for _, part := range strings.Split(query, ",") {
		if tok := NormalizeToken(part); tok != "" {
			set[tok] = struct{}{}
		}
	}
	return set
}
