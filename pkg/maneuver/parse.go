package maneuver

import "strings"

// SplitList splits an OSRM ";"-separated field ("A 1; B 2") into trimmed,
// non-empty parts.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseDestinations splits an OSRM destinations field. Refs come before an
// optional ":" and names after it, each list comma separated:
//
//	"A 1, A 6: Nürnberg, Heilbronn"
func ParseDestinations(s string) (codes, names []string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	namePart := s
	if before, after, ok := strings.Cut(s, ":"); ok {
		codes = splitComma(before)
		namePart = after
	}
	names = splitComma(namePart)
	return codes, names
}

func splitComma(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
