// Package types contains the shared types for mailprobe.
// This package does not import anything from other mailprobe packages
// to avoid circular imports.
package types

// Status is the terminal classification of one verification call.
type Status = string

const (
	// StatusValid means the mail server accepted the recipient probe and
	// rejected the synthetic probe, so the mailbox almost certainly exists.
	StatusValid Status = "valid"
	// StatusInvalid means the address is provably undeliverable: bad syntax,
	// no mail route, or a definitive server rejection.
	StatusInvalid Status = "invalid"
	// StatusRisky means the server accepted the probe but the acceptance
	// carries no information (catch-all or "cannot verify").
	StatusRisky Status = "risky"
	// StatusUnknown means the check could not be completed; the address is
	// neither confirmed nor refuted.
	StatusUnknown Status = "unknown"
)

// MXHost is one mail exchange for a domain. Lower Preference values are
// contacted first.
type MXHost struct {
	Preference uint16 `json:"preference"`
	Hostname   string `json:"hostname"`
}

// SMTPOutcome is the per-host result of one probe conversation.
// Constructed once by the conversation engine and never mutated after.
type SMTPOutcome struct {
	Accepted          bool   `json:"accepted"`
	CatchAll          bool   `json:"catchAll"`
	DefinitiveFailure bool   `json:"definitiveFailure"`
	StatusCode        int    `json:"statusCode,omitempty"`
	MXHost            string `json:"mxHost,omitempty"`
	Message           string `json:"message"`
}

// VerificationResult is the externally visible record of one verification.
// Once returned it is final.
type VerificationResult struct {
	Email        string       `json:"email"`
	SyntaxValid  bool         `json:"syntaxValid"`
	MXFound      bool         `json:"mxFound"`
	MXHosts      []string     `json:"mxHosts,omitempty"`
	SMTPChecked  bool         `json:"smtpChecked"`
	SMTPResponse *SMTPOutcome `json:"smtpResponse,omitempty"`
	Status       Status       `json:"status"`
	Score        int          `json:"score"`
	Message      string       `json:"message"`
}

// Deliverable reports whether the result justifies sending mail to the
// address without further checks.
func (r VerificationResult) Deliverable() bool {
	return r.Status == StatusValid
}
