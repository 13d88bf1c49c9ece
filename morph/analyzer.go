package morph

import (
	"errors"
	"strings"
	"unicode"

	"github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/english"
	"github.com/blevesearch/snowballstem/russian"
)

// ErrUnparsable is returned for words the analyzer cannot classify:
// words without letters and words mixing Cyrillic and Latin letters.
var ErrUnparsable = errors.New("word cannot be parsed")

type PartOfSpeech string

const (
	Preposition  PartOfSpeech = "PREP"
	Conjunction  PartOfSpeech = "CONJ"
	Particle     PartOfSpeech = "PRCL"
	Interjection PartOfSpeech = "INTJ"
	Pronoun      PartOfSpeech = "NPRO"
	ContentWord  PartOfSpeech = "CONT"
)

// Parse is the analysis of a single word.
type Parse struct {
	PartOfSpeech PartOfSpeech
	Lemma        string
}

// Analyzer classifies a single lowercase word.
type Analyzer interface {
	Parse(word string) (Parse, error)
}

type script int

const (
	scriptNone script = iota
	scriptCyrillic
	scriptLatin
	scriptMixed
)

// SnowballAnalyzer tags closed-class words from a fixed lexicon and reduces
// every word to its Snowball stem, which serves as the canonical form.
type SnowballAnalyzer struct {
	lexicon map[string]PartOfSpeech
}

func NewSnowballAnalyzer() *SnowballAnalyzer {
	return &SnowballAnalyzer{lexicon: closedClassLexicon()}
}

func (a *SnowballAnalyzer) Parse(word string) (Parse, error) {
	word = strings.ToLower(word)

	wordScript := detectScript(word)
	if wordScript == scriptNone || wordScript == scriptMixed {
		return Parse{}, ErrUnparsable
	}

	partOfSpeech, ok := a.lexicon[word]
	if !ok {
		partOfSpeech = ContentWord
	}

	return Parse{PartOfSpeech: partOfSpeech, Lemma: stem(word, wordScript)}, nil
}

func stem(word string, wordScript script) string {
	switch wordScript {
	case scriptCyrillic:
		env := snowballstem.NewEnv(strings.ReplaceAll(word, "ё", "е"))
		russian.Stem(env)
		return env.Current()
	case scriptLatin:
		env := snowballstem.NewEnv(word)
		english.Stem(env)
		return env.Current()
	default:
		return word
	}
}

func detectScript(word string) script {
	result := scriptNone
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}

		var current script
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			current = scriptCyrillic
		case unicode.Is(unicode.Latin, r):
			current = scriptLatin
		default:
			return scriptMixed
		}

		if result == scriptNone {
			result = current
		} else if result != current {
			return scriptMixed
		}
	}

	return result
}
