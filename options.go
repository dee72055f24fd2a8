package mailprobe

import (
	"context"
	"net"
	"time"
)

// Options configures a Verifier. The zero value is usable: every field is
// back-filled with the defaults below.
type Options struct {
	// HeloDomain is the identity sent in the EHLO/HELO command.
	// Default: "verify.local"
	HeloDomain string
	// MailFrom is the sentinel sender for the MAIL FROM command.
	// Default: "verify@verify.local"
	MailFrom string
	// Port is the SMTP port. Default: "25"
	Port string
	// ConnectTimeout is the maximum time for the TCP connection. Default: 5s
	ConnectTimeout time.Duration
	// CommandTimeout bounds each SMTP command/response exchange. Default: 10s
	CommandTimeout time.Duration
	// DNSTimeout is the maximum time for the MX lookup. Default: 5s
	DNSTimeout time.Duration
	// CacheTTL is how long resolved MX host lists are reused across calls.
	// Default: 5m
	CacheTTL time.Duration
	// MaxMXHosts caps how many MX hosts are tried per call, in preference
	// order. 0 means all of them.
	MaxMXHosts int

	// LookupMX overrides the MX query. Injectable for testing.
	LookupMX func(ctx context.Context, domain string) ([]*net.MX, error)
	// Dial overrides the TCP dial. Injectable for testing.
	Dial func(ctx context.Context, network, address string) (net.Conn, error)
}

func defaultOptions() Options {
	return Options{
		HeloDomain:     "verify.local",
		MailFrom:       "verify@verify.local",
		Port:           "25",
		ConnectTimeout: 5 * time.Second,
		CommandTimeout: 10 * time.Second,
		DNSTimeout:     5 * time.Second,
		CacheTTL:       5 * time.Minute,
	}
}

// withDefaults back-fills unset fields.
func (o Options) withDefaults() Options {
	def := defaultOptions()
	if o.HeloDomain == "" {
		o.HeloDomain = def.HeloDomain
	}
	if o.MailFrom == "" {
		o.MailFrom = def.MailFrom
	}
	if o.Port == "" {
		o.Port = def.Port
	}
	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = def.ConnectTimeout
	}
	if o.CommandTimeout == 0 {
		o.CommandTimeout = def.CommandTimeout
	}
	if o.DNSTimeout == 0 {
		o.DNSTimeout = def.DNSTimeout
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = def.CacheTTL
	}
	return o
}
