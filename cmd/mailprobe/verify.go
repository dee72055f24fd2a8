package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/optimode/mailprobe"
	"github.com/optimode/mailprobe/signals"
)

var verifyFlags struct {
	heloDomain   string
	mailFrom     string
	timeout      time.Duration
	personName   string
	companyName  string
	jobTitle     string
	knownEmails  []string
	searchAPIKey string
}

// combinedOutput composes the protocol verdict with the independent
// multi-signal score when person/company context was given.
type combinedOutput struct {
	Verification mailprobe.VerificationResult `json:"verification"`
	Signals      *signals.Report              `json:"signals,omitempty"`
}

var errAddressInvalid = errors.New("address is invalid")

var verifyCmd = &cobra.Command{
	Use:   "verify <email>",
	Short: "Verify one address and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := strings.TrimSpace(args[0])

		ctx, cancel := context.WithTimeout(cmd.Context(), verifyFlags.timeout)
		defer cancel()

		v := mailprobe.New(mailprobe.Options{
			HeloDomain: verifyFlags.heloDomain,
			MailFrom:   verifyFlags.mailFrom,
		})
		out := combinedOutput{Verification: v.Verify(ctx, email)}

		if verifyFlags.personName != "" || verifyFlags.companyName != "" {
			scorer := signals.NewScorer(signals.Options{
				SearchAPIKey: verifyFlags.searchAPIKey,
			})
			report := scorer.Score(ctx, signals.Input{
				Email:       email,
				PersonName:  verifyFlags.personName,
				CompanyName: verifyFlags.companyName,
				JobTitle:    verifyFlags.jobTitle,
				KnownEmails: verifyFlags.knownEmails,
			})
			out.Signals = &report
		}

		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))

		if out.Verification.Status == mailprobe.StatusInvalid {
			return errAddressInvalid
		}
		return nil
	},
}

func init() {
	f := verifyCmd.Flags()
	f.StringVar(&verifyFlags.heloDomain, "helo", "", "identity for the EHLO/HELO command")
	f.StringVar(&verifyFlags.mailFrom, "from", "", "sentinel sender for MAIL FROM")
	f.DurationVar(&verifyFlags.timeout, "timeout", 60*time.Second, "overall budget for the verification")
	f.StringVar(&verifyFlags.personName, "name", "", "person name for the multi-signal score")
	f.StringVar(&verifyFlags.companyName, "company", "", "company name for the multi-signal score")
	f.StringVar(&verifyFlags.jobTitle, "title", "", "job title for the multi-signal score")
	f.StringSliceVar(&verifyFlags.knownEmails, "known-email", nil, "known address at the same company (repeatable)")
	f.StringVar(&verifyFlags.searchAPIKey, "search-api-key", os.Getenv("PERPLEXITY_API_KEY"),
		"API key for the web-search signal (defaults to $PERPLEXITY_API_KEY)")
	rootCmd.AddCommand(verifyCmd)
}
