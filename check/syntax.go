package check

import (
	"regexp"
	"strings"
)

// deliverableShape is the fixed address pattern the verifier gates on
// before any network access. Deliberately stricter than RFC 5322: quoted
// local parts and domain literals are refused because the SMTP probe
// cannot usefully check them.
var deliverableShape = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Syntax reports whether email has the shape of a deliverable address:
// a standard local part and a dotted domain with a 2+ letter top-level
// label. Pure function, no network access.
func Syntax(email string) bool {
	// Length limits from RFC 5321: 254 for the whole address, 64 for
	// the local part.
	if len(email) > 254 {
		return false
	}
	if at := strings.LastIndex(email, "@"); at > 64 {
		return false
	}
	return deliverableShape.MatchString(email)
}
