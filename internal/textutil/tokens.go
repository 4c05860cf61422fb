// Package textutil holds the tokenization helpers shared by the TF-IDF
// embedder, the frequency summarizer and the lexical fallback ranking.
package textutil

import (
	"regexp"
	"strings"
)

// WordPattern matches unicode words, keeping apostrophe contractions intact.
var WordPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// SentencePattern splits prose into sentence-sized pieces.
var SentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?;]+[.!?;])`)

// Tokenize lowercases text and returns its word tokens.
func Tokenize(text string) []string {
	return WordPattern.FindAllString(strings.ToLower(text), -1)
}

// TokenSet returns the distinct lowercased word tokens of text.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// Stopwords returns a fresh copy of the default English + Greek stopword set.
// The corpus and the user utterances are expected in either language.
func Stopwords() map[string]struct{} {
	words := []string{
		// English
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was",
		"were", "be", "been", "being", "it", "this", "that", "these", "those",
		"from", "up", "down", "over", "under", "again", "further", "than",
		"so", "such", "into", "about", "between", "through", "during",
		"before", "after", "above", "below", "out", "off", "own", "same",
		"too", "very", "can", "will", "just", "don", "should", "now",
		// Greek
		"και", "να", "το", "τα", "του", "της", "των", "τον", "την", "τη",
		"ο", "η", "οι", "τις", "με", "για", "σε", "που", "από", "είναι",
		"θα", "δεν", "μια", "ένα", "έναν", "στο", "στη", "στην", "στον",
		"στα", "στις", "ως", "αν", "ότι", "ή", "αλλά", "όπως", "επίσης",
		"κάθε", "πολύ", "πιο", "μας", "σας", "τους",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
