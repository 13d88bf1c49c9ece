// Package morph reduces text to the meaningful words it contains, in a
// canonical form that makes different inflections of a word compare equal.
package morph

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

const minMeaningfulWordLength = 2

var excludedPartsOfSpeech = map[PartOfSpeech]struct{}{
	Preposition:  {},
	Conjunction:  {},
	Particle:     {},
	Interjection: {},
	Pronoun:      {},
}

type warmer interface {
	Warm(words []string)
}

type Normalizer struct {
	analyzer Analyzer
}

func New(analyzer Analyzer) *Normalizer {
	return &Normalizer{analyzer: analyzer}
}

// Normalize removes punctuation, collapses whitespace and lowercases.
func Normalize(text string) string {
	if len(text) == 0 {
		return ""
	}

	withoutPunctuation := strings.Map(func(r rune) rune {
		if isPunctuation(r) {
			return -1
		}
		return r
	}, text)

	return strings.ToLower(strings.Join(strings.Fields(withoutPunctuation), " "))
}

func isPunctuation(r rune) bool {
	if r < utf8.RuneSelf {
		return strings.ContainsRune(asciiPunctuation, r)
	}
	return unicode.IsPunct(r)
}

func (n *Normalizer) Normalize(text string) string {
	return Normalize(text)
}

// IsMeaningful reports whether word carries meaning on its own. Words the
// analyzer cannot parse count as meaningful.
func (n *Normalizer) IsMeaningful(word string) bool {
	if utf8.RuneCountInString(word) < minMeaningfulWordLength {
		return false
	}

	parse, err := n.analyzer.Parse(word)
	if err != nil {
		return true
	}

	_, excluded := excludedPartsOfSpeech[parse.PartOfSpeech]
	return !excluded
}

func (n *Normalizer) ExtractMeaningfulWords(text string) []string {
	words := strings.Fields(Normalize(text))

	meaningfulWords := make([]string, 0, len(words))
	for _, word := range words {
		if !n.IsMeaningful(word) {
			continue
		}
		meaningfulWords = append(meaningfulWords, n.lemma(word))
	}

	return meaningfulWords
}

// HasMeaningfulWords reports whether text holds at least one meaningful word.
// It stops at the first one.
func (n *Normalizer) HasMeaningfulWords(text string) bool {
	for _, word := range strings.Fields(Normalize(text)) {
		if n.IsMeaningful(word) {
			return true
		}
	}

	return false
}

func (n *Normalizer) ExtractMeaningfulWordSet(text string) map[string]struct{} {
	words := n.ExtractMeaningfulWords(text)

	wordSet := make(map[string]struct{}, len(words))
	for _, word := range words {
		wordSet[word] = struct{}{}
	}

	return wordSet
}

// AllQueryWordsPresent reports whether every meaningful word of query occurs
// in fragmentText. A query made only of function words matches everything.
func (n *Normalizer) AllQueryWordsPresent(fragmentText string, query string) bool {
	queryWords := n.ExtractMeaningfulWordSet(query)
	if len(queryWords) == 0 {
		return true
	}

	fragmentWords := n.ExtractMeaningfulWordSet(fragmentText)
	for word := range queryWords {
		if _, ok := fragmentWords[word]; !ok {
			return false
		}
	}

	return true
}

// Warm parses the distinct words of texts in one batch when the analyzer
// supports it, so later lookups in the same request are cache hits.
func (n *Normalizer) Warm(texts ...string) {
	batchAnalyzer, ok := n.analyzer.(warmer)
	if !ok {
		return
	}

	seen := make(map[string]struct{})
	var words []string
	for _, text := range texts {
		for _, word := range strings.Fields(Normalize(text)) {
			if _, exists := seen[word]; exists {
				continue
			}
			seen[word] = struct{}{}
			words = append(words, word)
		}
	}

	if len(words) > 0 {
		batchAnalyzer.Warm(words)
	}
}

func (n *Normalizer) lemma(word string) string {
	parse, err := n.analyzer.Parse(word)
	if err != nil || len(parse.Lemma) == 0 {
		return word
	}

	return parse.Lemma
}
