package signals

import "strings"

// NameGuess is a probable name extracted from a dotted or underscored
// local part. A heuristic only; single-word local parts yield nothing.
type NameGuess struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	FullName  string `json:"fullName,omitempty"`
}

func extractName(local string) NameGuess {
	sep := ""
	switch {
	case strings.Contains(local, "."):
		sep = "."
	case strings.Contains(local, "_"):
		sep = "_"
	default:
		return NameGuess{}
	}

	parts := strings.Split(local, sep)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return NameGuess{}
	}

	first, last := title(parts[0]), title(parts[1])
	return NameGuess{
		FirstName: first,
		LastName:  last,
		FullName:  first + " " + last,
	}
}

// title upper-cases the first ASCII letter; local parts here are already
// lowercase ASCII by the pattern gate.
func title(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
