// Package fragment turns search engine output with inline highlight markers
// into highlighted fragments with a word-bounded context window.
package fragment

import "strings"

// Markers is the delimiter pair wrapping a highlighted span.
type Markers struct {
	Start string
	End   string
}

var DefaultMarkers = Markers{Start: "<mark>", End: "</mark>"}

// span holds byte offsets of one well-formed highlighted span.
type span struct {
	start        int // start marker
	contentStart int
	contentEnd   int // end marker
	end          int // first byte after the end marker
}

// findSpans returns the well-formed, non-nested spans of text in order.
// A start marker without a matching end marker, or followed by another start
// marker before its end, is skipped. End markers without a start are ignored.
func (m Markers) findSpans(text string) []span {
	var spans []span

	position := 0
	for position < len(text) {
		startIndex := strings.Index(text[position:], m.Start)
		if startIndex == -1 {
			break
		}
		startIndex += position
		contentStart := startIndex + len(m.Start)

		endIndex := strings.Index(text[contentStart:], m.End)
		if endIndex == -1 {
			break
		}
		endIndex += contentStart

		// The innermost start marker before the end marker owns the span.
		if nested := strings.LastIndex(text[contentStart:endIndex], m.Start); nested != -1 {
			startIndex = contentStart + nested
			contentStart = startIndex + len(m.Start)
		}

		spans = append(spans, span{
			start:        startIndex,
			contentStart: contentStart,
			contentEnd:   endIndex,
			end:          endIndex + len(m.End),
		})
		position = endIndex + len(m.End)
	}

	return spans
}

// Strip removes every start and end marker from text.
func (m Markers) Strip(text string) string {
	return strings.ReplaceAll(strings.ReplaceAll(text, m.Start, ""), m.End, "")
}

func (m Markers) containsMarker(text string) bool {
	return strings.Contains(text, m.Start) || strings.Contains(text, m.End)
}

func (m Markers) valid() bool {
	return len(m.Start) > 0 && len(m.End) > 0
}
