package fragment

import (
	"strings"

	"github.com/meghashyamc/docsearch/morph"
)

// WordDetector tells function words apart from meaningful ones.
type WordDetector interface {
	HasMeaningfulWords(text string) bool
}

// Merger joins highlighted spans that the search engine reported as separate
// tokens of one phrase.
type Merger struct {
	markers Markers
	words   WordDetector
}

func NewMerger(words WordDetector, markers Markers) *Merger {
	if !markers.valid() {
		markers = DefaultMarkers
	}

	return &Merger{markers: markers, words: words}
}

// MergePhraseHighlights collapses adjacent spans whose gap holds only
// whitespace, punctuation or function words. Merging runs left to right and
// chains, so "<mark>a</mark> <mark>b</mark>, <mark>c</mark>" becomes
// "<mark>a b, c</mark>".
func (m *Merger) MergePhraseHighlights(text string) string {
	spans := m.markers.findSpans(text)
	if len(spans) < 2 {
		return text
	}

	var merged strings.Builder
	merged.Grow(len(text))

	first := spans[0]
	merged.WriteString(text[:first.start])
	merged.WriteString(m.markers.Start)
	merged.WriteString(text[first.contentStart:first.contentEnd])

	for i := 1; i < len(spans); i++ {
		previous, current := spans[i-1], spans[i]
		gap := text[previous.end:current.start]

		if !m.mergeable(gap) {
			merged.WriteString(m.markers.End)
			merged.WriteString(gap)
			merged.WriteString(m.markers.Start)
		} else {
			merged.WriteString(gap)
		}
		merged.WriteString(text[current.contentStart:current.contentEnd])
	}

	last := spans[len(spans)-1]
	merged.WriteString(m.markers.End)
	merged.WriteString(text[last.end:])

	return merged.String()
}

func (m *Merger) mergeable(gap string) bool {
	if m.markers.containsMarker(gap) {
		return false
	}

	if len(morph.Normalize(gap)) == 0 {
		return true
	}

	return !m.words.HasMeaningfulWords(gap)
}
