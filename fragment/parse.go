package fragment

import (
	"strings"
	"unicode/utf8"
)

const wordSeparator = " "

// ContextInfo locates a highlight inside its context window. Positions and
// lengths count runes.
type ContextInfo struct {
	Text            string `json:"text"`
	Offset          int    `json:"offset"`
	Length          int    `json:"length"`
	HighlightStart  int    `json:"highlight_start"`
	HighlightLength int    `json:"highlight_length"`
}

type Fragment struct {
	Text    string      `json:"text"`
	Context ContextInfo `json:"context"`
}

// Highlighted returns the highlighted part of the context text.
func (f Fragment) Highlighted() string {
	runes := []rune(f.Context.Text)
	start := f.Context.HighlightStart
	end := start + f.Context.HighlightLength
	if start < 0 || end > len(runes) || start > end {
		return ""
	}

	return string(runes[start:end])
}

type Parser struct {
	markers Markers
}

func NewParser(markers Markers) *Parser {
	if !markers.valid() {
		markers = DefaultMarkers
	}

	return &Parser{markers: markers}
}

// ParseFragments returns one fragment per highlighted span of text, with up to
// wordsBefore words of context before the span and wordsAfter words after it.
//
// Offset is the position of the first occurrence of the highlighted text in
// the marker-free text, which points at an earlier match when the same text
// occurs more than once.
func (p *Parser) ParseFragments(text string, wordsBefore int, wordsAfter int) []Fragment {
	spans := p.markers.findSpans(text)
	if len(spans) == 0 {
		return nil
	}

	plainText := p.markers.Strip(text)

	fragments := make([]Fragment, 0, len(spans))
	for _, s := range spans {
		highlighted := text[s.contentStart:s.contentEnd]
		if len(highlighted) == 0 {
			continue
		}

		contextBefore := p.markers.Strip(lastWords(text[:s.start], wordsBefore))
		contextAfter := p.markers.Strip(firstWords(text[s.end:], wordsAfter))
		contextText := contextBefore + highlighted + contextAfter

		fragments = append(fragments, Fragment{
			Text: highlighted,
			Context: ContextInfo{
				Text:            contextText,
				Offset:          runeIndex(plainText, highlighted),
				Length:          utf8.RuneCountInString(contextText),
				HighlightStart:  utf8.RuneCountInString(contextBefore),
				HighlightLength: utf8.RuneCountInString(highlighted),
			},
		})
	}

	return fragments
}

// HighlightWindows returns, for every highlighted span of text, the span
// content with up to wordsBefore and wordsAfter words around it, without
// markers. Windows stop at neighbouring spans, so text far from any
// highlight is never returned.
func (p *Parser) HighlightWindows(text string, wordsBefore int, wordsAfter int) []string {
	spans := p.markers.findSpans(text)

	windows := make([]string, 0, len(spans))
	for i, s := range spans {
		gapStart := 0
		if i > 0 {
			gapStart = spans[i-1].end
		}
		gapEnd := len(text)
		if i < len(spans)-1 {
			gapEnd = spans[i+1].start
		}

		window := lastWords(text[gapStart:s.start], wordsBefore) +
			text[s.contentStart:s.contentEnd] +
			firstWords(text[s.end:gapEnd], wordsAfter)
		windows = append(windows, p.markers.Strip(window))
	}

	return windows
}

// lastWords returns the suffix of text holding its last count words. The text
// is split on single spaces; empty tokens keep the original spacing and are
// not counted as words.
func lastWords(text string, count int) string {
	if count <= 0 || len(text) == 0 {
		return ""
	}

	tokens := strings.Split(text, wordSeparator)
	taken := 0
	i := len(tokens)
	for i > 0 {
		if len(tokens[i-1]) > 0 {
			if taken == count {
				break
			}
			taken++
		}
		i--
	}

	return strings.Join(tokens[i:], wordSeparator)
}

// firstWords is the mirror of lastWords.
func firstWords(text string, count int) string {
	if count <= 0 || len(text) == 0 {
		return ""
	}

	tokens := strings.Split(text, wordSeparator)
	taken := 0
	j := 0
	for j < len(tokens) {
		if len(tokens[j]) > 0 {
			if taken == count {
				break
			}
			taken++
		}
		j++
	}

	return strings.Join(tokens[:j], wordSeparator)
}

func runeIndex(text string, substring string) int {
	byteIndex := strings.Index(text, substring)
	if byteIndex <= 0 {
		return 0
	}

	return utf8.RuneCountInString(text[:byteIndex])
}
