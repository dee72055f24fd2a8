package signals

import (
	"regexp"
	"strings"
)

// PatternSignal classifies the shape of the local part and, when other
// company addresses are known, whether it follows the same convention.
type PatternSignal struct {
	Detected     string `json:"detected,omitempty"`
	MatchesKnown bool   `json:"matchesKnown"`
	Boost        int    `json:"boost"`
}

// localPatterns in match order: the first hit wins, so the specific dotted
// and underscored shapes come before the broad single-word ones.
var localPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"firstname.lastname", regexp.MustCompile(`^[a-z]+\.[a-z]+$`)},
	{"firstnamelastname", regexp.MustCompile(`^[a-z]{4,}$`)},
	{"f.lastname", regexp.MustCompile(`^[a-z]\.[a-z]+$`)},
	{"firstname_lastname", regexp.MustCompile(`^[a-z]+_[a-z]+$`)},
	{"firstname", regexp.MustCompile(`^[a-z]{2,15}$`)},
	{"flastname", regexp.MustCompile(`^[a-z][a-z]+$`)},
}

// professionalPatterns get a small boost on their own: these shapes are
// rarely used for throwaway mailboxes.
var professionalPatterns = map[string]bool{
	"firstname.lastname": true,
	"f.lastname":         true,
	"firstname_lastname": true,
}

func detectPattern(local string) string {
	for _, p := range localPatterns {
		if p.re.MatchString(local) {
			return p.name
		}
	}
	return ""
}

func classifyPattern(local string, knownEmails []string) PatternSignal {
	sig := PatternSignal{Detected: detectPattern(local)}
	if sig.Detected == "" {
		return sig
	}

	for _, known := range knownEmails {
		at := strings.LastIndex(known, "@")
		if at <= 0 {
			continue
		}
		if detectPattern(strings.ToLower(known[:at])) == sig.Detected {
			sig.MatchesKnown = true
			sig.Boost += 20
			break
		}
	}

	if professionalPatterns[sig.Detected] {
		sig.Boost += 5
	}
	return sig
}
