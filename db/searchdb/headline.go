package searchdb

import (
	"sort"
	"strings"

	"github.com/meghashyamc/docsearch/fragment"
)

// matchRange is a byte range [start, end) of content matched by the query.
type matchRange struct {
	start int
	end   int
}

// buildHeadline wraps every match range of content in highlight markers.
// Overlapping ranges are joined; out-of-bounds ranges are dropped.
func buildHeadline(content string, ranges []matchRange) string {
	ranges = normalizeRanges(ranges, len(content))
	if len(ranges) == 0 {
		return content
	}

	markers := fragment.DefaultMarkers

	var headline strings.Builder
	headline.Grow(len(content) + len(ranges)*(len(markers.Start)+len(markers.End)))

	previousEnd := 0
	for _, r := range ranges {
		headline.WriteString(content[previousEnd:r.start])
		headline.WriteString(markers.Start)
		headline.WriteString(content[r.start:r.end])
		headline.WriteString(markers.End)
		previousEnd = r.end
	}
	headline.WriteString(content[previousEnd:])

	return headline.String()
}

func normalizeRanges(ranges []matchRange, contentLength int) []matchRange {
	valid := make([]matchRange, 0, len(ranges))
	for _, r := range ranges {
		if r.start < 0 || r.start >= r.end || r.end > contentLength {
			continue
		}
		valid = append(valid, r)
	}

	sort.Slice(valid, func(i, j int) bool {
		if valid[i].start == valid[j].start {
			return valid[i].end < valid[j].end
		}
		return valid[i].start < valid[j].start
	})

	joined := make([]matchRange, 0, len(valid))
	for _, r := range valid {
		if last := len(joined) - 1; last >= 0 && r.start < joined[last].end {
			joined[last].end = max(joined[last].end, r.end)
			continue
		}
		joined = append(joined, r)
	}

	return joined
}
