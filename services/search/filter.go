package search

import "github.com/meghashyamc/docsearch/fragment"

// filterFragments keeps the fragments that contain every meaningful query
// word. In exact mode the normalized fragment must also equal the normalized
// query, so exact results are always a subset of fuzzy ones.
func (s *Service) filterFragments(fragments []fragment.Fragment, query string, exact bool) []fragment.Fragment {
	normalizedQuery := s.normalizer.Normalize(query)

	filtered := make([]fragment.Fragment, 0, len(fragments))
	for _, f := range fragments {
		if !s.normalizer.AllQueryWordsPresent(f.Text, query) {
			continue
		}
		if exact && s.normalizer.Normalize(f.Text) != normalizedQuery {
			continue
		}
		filtered = append(filtered, f)
	}

	return filtered
}
