package matcher

import (
	"github.com/monisha-alt/sonic-aura-stream/internal/emotion"
)

// buildQueries derives a small set of discovery queries from the primary
// emotion, up to two preferred genres and up to two mood keywords. The
// result is deduplicated, order-preserving and capped at maxQueries.
func buildQueries(profile emotion.Profile, prefs emotion.Preferences) []string {
	var raw []string

	raw = append(raw, "mood:"+string(profile.Primary))

	if len(prefs.Genres) > 0 {
		raw = append(raw, "genre:"+prefs.Genres[0])
		raw = append(raw, "year:2020-2024 genre:"+prefs.Genres[0])
	} else {
		raw = append(raw, string(profile.Primary))
		raw = append(raw, "year:2020-2024 "+string(profile.Primary))
	}

	for i, kw := range prefs.Keywords {
		if i == 2 {
			break
		}
		raw = append(raw, "mood:"+kw)
	}

	if len(prefs.Genres) > 1 {
		raw = append(raw, "genre:"+prefs.Genres[1])
	}

	seen := make(map[string]struct{}, len(raw))
	queries := make([]string, 0, maxQueries)
	for _, q := range raw {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		queries = append(queries, q)
		if len(queries) == maxQueries {
			break
		}
	}
	return queries
}
