package smtpconv

// Verdict classifies the server's reply to the real recipient probe.
type Verdict int

const (
	// VerdictAccepted: 250 or 251, the server takes mail for the recipient.
	VerdictAccepted Verdict = iota
	// VerdictUnverifiable: 252, the server will accept but admits it cannot
	// distinguish valid from invalid recipients.
	VerdictUnverifiable
	// VerdictRejected: 550, 551 or 553, the mailbox does not exist, is not
	// local, or is disallowed. Authoritative.
	VerdictRejected
	// VerdictTemporary: 450, 451 or 452, the server is busy or deferring.
	// Retry-worthy in principle, but this engine does not retry.
	VerdictTemporary
	// VerdictAmbiguous: any other code. The raw text is kept for
	// diagnostics.
	VerdictAmbiguous
)

// ClassifyReply maps a 3-digit SMTP status code onto a Verdict.
func ClassifyReply(code int) Verdict {
	switch code {
	case 250, 251:
		return VerdictAccepted
	case 252:
		return VerdictUnverifiable
	case 550, 551, 553:
		return VerdictRejected
	case 450, 451, 452:
		return VerdictTemporary
	default:
		return VerdictAmbiguous
	}
}

// accepts reports whether code is a 2xx-class acceptance. The synthetic
// probe's reply is classified on this axis alone.
func accepts(code int) bool {
	return code >= 200 && code < 300
}
