package parse

import (
	"net/mail"
	"strings"

	"golang.org/x/net/idna"
)

// Email is the internal representation of a parsed email address.
// The verifier decomposes every input into this form exactly once;
// the parts are never recombined from the raw string afterwards.
type Email struct {
	Raw           string // the original, trimmed input
	Local         string // the part before @
	Domain        string // the part after @, ASCII/Punycode form (for DNS/SMTP)
	DomainUnicode string // the part after @, Unicode form (for display)
	Valid         bool   // false if Raw cannot be parsed
}

// Address returns the wire form of the address: the local part joined with
// the ASCII/Punycode domain. This is what goes into RCPT TO.
func (e Email) Address() string {
	return e.Local + "@" + e.Domain
}

// NewEmail attempts to parse the given email string.
// If parsing fails, Valid=false but Raw is always populated.
// Internationalized domain names are converted to Punycode (IDNA2008) so
// that DNS lookups and the SMTP dialogue always see the ASCII form.
func NewEmail(raw string) Email {
	raw = strings.TrimSpace(raw)

	addr, err := mail.ParseAddress(raw)
	if err != nil {
		addr, err = mail.ParseAddress("<" + raw + ">")
		if err != nil {
			// net/mail rejects some inputs worth decomposing anyway,
			// e.g. Unicode local parts (RFC 6531 SMTPUTF8).
			return parseManual(raw)
		}
	}

	parts := strings.SplitN(addr.Address, "@", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Email{Raw: raw, Valid: false}
	}

	return buildEmail(raw, parts[0], parts[1])
}

func parseManual(raw string) Email {
	atIdx := strings.LastIndex(raw, "@")
	if atIdx < 1 || atIdx >= len(raw)-1 {
		return Email{Raw: raw, Valid: false}
	}
	return buildEmail(raw, raw[:atIdx], raw[atIdx+1:])
}

// buildEmail constructs an Email with proper IDNA domain handling.
// The Domain field is always ASCII/Punycode, DomainUnicode the
// human-readable Unicode form.
func buildEmail(raw, local, domain string) Email {
	if local == "" || domain == "" {
		return Email{Raw: raw, Valid: false}
	}

	asciiDomain, unicodeDomain, ok := convertDomain(strings.ToLower(domain))
	if !ok {
		return Email{Raw: raw, Valid: false}
	}

	return Email{
		Raw:           raw,
		Local:         local,
		Domain:        asciiDomain,
		DomainUnicode: unicodeDomain,
		Valid:         true,
	}
}

// convertDomain converts a domain to both ASCII/Punycode and Unicode forms.
// ok is false if the domain contains non-ASCII characters that fail
// IDNA2008 validation.
func convertDomain(domain string) (ascii, unicode string, ok bool) {
	hasNonASCII := false
	for _, r := range domain {
		if r > 127 {
			hasNonASCII = true
			break
		}
	}

	if hasNonASCII {
		a, err := idna.Lookup.ToASCII(domain)
		if err != nil {
			return "", "", false
		}
		return a, domain, true
	}

	// Pure ASCII: still derive the Unicode display form so existing
	// Punycode like xn--mnchen-3ya.de renders as münchen.de.
	u, err := idna.Display.ToUnicode(domain)
	if err != nil {
		u = domain
	}
	return domain, u, true
}
