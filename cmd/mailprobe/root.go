package main

import (
	"github.com/spf13/cobra"
)

const mailprobeDesc = "SMTP-handshake email deliverability checker"
const mailprobeDescLong = mailprobeDesc + `

mailprobe talks SMTP to the recipient domain's mail servers and interprets
their response to a trial RCPT TO, without ever sending a message.

To check one address:
  mailprobe verify user@example.com

To add the heuristic multi-signal score (avatar lookup, pattern matching,
optional web search):
  mailprobe verify user@example.com --name "Ada Lovelace" --company "Analytical Engines"

To run the HTTP service:
  mailprobe serve --listen :8080
`

var rootCmd = &cobra.Command{
	Use:           "mailprobe",
	Version:       "v0.1.0",
	Short:         mailprobeDesc,
	Long:          mailprobeDescLong,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func execute() error {
	return rootCmd.Execute()
}
