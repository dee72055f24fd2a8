// Package mailprobe determines, without sending a message, whether an
// email address is likely to be deliverable. It resolves the recipient
// domain's mail exchanges, speaks SMTP to them in preference order, and
// classifies the server's reply to a trial RCPT TO into a verdict with a
// numeric confidence score.
//
// Basic usage:
//
//	v := mailprobe.New()
//	result := v.Verify(ctx, "user@example.com")
//
// With custom probe identity and timeouts:
//
//	v := mailprobe.New(mailprobe.Options{
//	    HeloDomain: "myapp.com",
//	    MailFrom:   "verify@myapp.com",
//	    CommandTimeout: 15 * time.Second,
//	})
//	result := v.Verify(ctx, "user@example.com")
//
// Verify never returns an error: connection failures, timeouts and
// uncooperative servers all resolve into a VerificationResult whose Status
// and Message explain what happened.
package mailprobe

import "github.com/optimode/mailprobe/types"

// VerificationResult is a re-export from the types package so that
// consumers don't need to import the types package directly.
type VerificationResult = types.VerificationResult

// SMTPOutcome is a re-export.
type SMTPOutcome = types.SMTPOutcome

// Status is a re-export.
type Status = types.Status

// Status constants re-exported.
const (
	StatusValid   = types.StatusValid
	StatusInvalid = types.StatusInvalid
	StatusRisky   = types.StatusRisky
	StatusUnknown = types.StatusUnknown
)
