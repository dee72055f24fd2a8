package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/optimode/mailprobe"
	"github.com/optimode/mailprobe/server"
)

var serveFlags struct {
	listen     string
	heloDomain string
	mailFrom   string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve verification over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		v := mailprobe.New(mailprobe.Options{
			HeloDomain: serveFlags.heloDomain,
			MailFrom:   serveFlags.mailFrom,
		})
		return server.New(v, log).Run(ctx, serveFlags.listen)
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.listen, "listen", ":8080", "address to listen on")
	f.StringVar(&serveFlags.heloDomain, "helo", "", "identity for the EHLO/HELO command")
	f.StringVar(&serveFlags.mailFrom, "from", "", "sentinel sender for MAIL FROM")
	rootCmd.AddCommand(serveCmd)
}
