package recommend

import "strings"

// Style matching is deliberately permissive: stored styles are free text
// ("New England IPA - Hazy") while user preferences are short labels
// ("IPA"). All comparisons are case-insensitive substring matches in either
// direction, centralised here so every path agrees.

func MatchesStyle(beerStyle, liked string) bool {
	beer := strings.ToLower(strings.TrimSpace(beerStyle))
	want := strings.ToLower(strings.TrimSpace(liked))

	if beer == "" || want == "" {
		return false
	}

	return strings.Contains(beer, want) || strings.Contains(want, beer)
}

func MatchesAnyStyle(beerStyle string, liked []string) bool {
	for _, style := range liked {
		if MatchesStyle(beerStyle, style) {
			return true
		}
	}

	return false
}

// SplitStyles parses a comma-separated liked_styles parameter, dropping
// empty entries.
func SplitStyles(csv string) []string {
	if csv == "" {
		return nil
	}

	parts := strings.Split(csv, ",")
	styles := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			styles = append(styles, trimmed)
		}
	}

	return styles
}

// SimplifyStyle buckets a free-text style into the handful of families the
// trending board tracks. Unrecognised styles keep their leading segment.
func SimplifyStyle(style string) string {
	lowered := strings.ToLower(style)

	switch {
	case strings.Contains(lowered, "new england") || strings.Contains(lowered, "neipa"):
		return "NEIPA"
	case strings.Contains(lowered, "ipa"):
		return "IPA"
	case strings.Contains(lowered, "sour"):
		return "Sour"
	case strings.Contains(lowered, "stout"):
		return "Stout"
	case strings.Contains(lowered, "lager"):
		return "Lager"
	case strings.Contains(lowered, "pale"):
		return "Pale Ale"
	default:
		return strings.SplitN(style, " - ", 2)[0]
	}
}
