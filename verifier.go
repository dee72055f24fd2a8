package mailprobe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/optimode/mailprobe/check"
	"github.com/optimode/mailprobe/internal/parse"
	"github.com/optimode/mailprobe/internal/resolve"
	"github.com/optimode/mailprobe/internal/smtpconv"
	"github.com/optimode/mailprobe/types"
)

// Score contributions. The constants match the original scoring scale so
// that results stay comparable across deployments.
const (
	scoreSyntax     = 20
	scoreMXFound    = 30
	scoreAccepted   = 50
	catchAllPenalty = 20
)

// Verifier runs the whole verification sequence: syntax gate, MX
// resolution, ordered walk over the mail exchanges, aggregation into a
// final result. A Verifier is safe for concurrent use; each Verify call
// owns its own connection and produces an independent result.
type Verifier struct {
	opts     Options
	resolver *resolve.Resolver
	prober   *smtpconv.Prober
}

// New creates a Verifier. Optionally overrides the default Options.
func New(opts ...Options) *Verifier {
	o := defaultOptions()
	if len(opts) > 0 {
		o = opts[0].withDefaults()
	}

	var resolver *resolve.Resolver
	if o.LookupMX != nil {
		resolver = resolve.NewWithLookup(o.DNSTimeout, o.CacheTTL, o.LookupMX)
	} else {
		resolver = resolve.New(o.DNSTimeout, o.CacheTTL)
	}

	return &Verifier{
		opts:     o,
		resolver: resolver,
		prober: smtpconv.New(smtpconv.Config{
			HeloDomain:     o.HeloDomain,
			MailFrom:       o.MailFrom,
			Port:           o.Port,
			ConnectTimeout: o.ConnectTimeout,
			CommandTimeout: o.CommandTimeout,
			Dial:           o.Dial,
		}),
	}
}

// Verify checks a single email address. The sequence is strictly
// synchronous: syntax gate (no network on failure), one MX resolution, then
// the mail exchanges one at a time in ascending preference order. The walk
// stops at the first definitive answer; temporary failures and connection
// errors advance to the next host. Bound ctx with a deadline to cap the
// whole call.
func (v *Verifier) Verify(ctx context.Context, email string) types.VerificationResult {
	result := types.VerificationResult{Email: email, Status: types.StatusUnknown}

	// The gate sees the raw input. Trimming, display-name stripping and
	// IDNA conversion happen only after an address has already passed.
	if !check.Syntax(email) {
		result.Status = types.StatusInvalid
		result.Message = "invalid email syntax"
		return result
	}
	parsed := parse.NewEmail(email)
	if !parsed.Valid {
		result.Status = types.StatusInvalid
		result.Message = "invalid email syntax"
		return result
	}
	result.SyntaxValid = true
	result.Score += scoreSyntax

	hosts, err := v.resolver.Resolve(ctx, parsed.Domain)
	if err != nil {
		if errors.Is(err, resolve.ErrNoMailExchange) {
			result.Status = types.StatusInvalid
			result.Message = "no MX records found for domain: " + parsed.Domain
		} else {
			// Infrastructure failure: we could not check, which is not
			// the same as the address being bad.
			result.Message = fmt.Sprintf("DNS lookup failed: %v", err)
		}
		return result
	}
	result.MXFound = true
	result.Score += scoreMXFound
	result.MXHosts = make([]string, len(hosts))
	for i, h := range hosts {
		result.MXHosts[i] = h.Hostname
	}

	if v.opts.MaxMXHosts > 0 && len(hosts) > v.opts.MaxMXHosts {
		hosts = hosts[:v.opts.MaxMXHosts]
	}

	var last *types.SMTPOutcome
	for _, h := range hosts {
		select {
		case <-ctx.Done():
			result.SMTPResponse = last
			result.Message = fmt.Sprintf("verification cancelled: %v", ctx.Err())
			return result
		default:
		}

		out := v.prober.Probe(ctx, h.Hostname, parsed.Address(), parsed.Domain)

		if out.DefinitiveFailure {
			// One mail server's definitive "no such user" is
			// authoritative; the remaining hosts are not consulted.
			result.SMTPResponse = &out
			result.Status = types.StatusInvalid
			result.Message = out.Message
			return result
		}
		if out.Accepted {
			result.SMTPResponse = &out
			result.SMTPChecked = true
			result.Score += scoreAccepted
			if out.CatchAll {
				result.Score -= catchAllPenalty
				result.Status = types.StatusRisky
				result.Message = "server accepts all recipients (catch-all), cannot definitively verify"
			} else {
				result.Status = types.StatusValid
				result.Message = "email address verified successfully"
			}
			return result
		}

		// Inconclusive: keep it for diagnostics, try the next host.
		last = &out
	}

	result.SMTPResponse = last
	result.Message = "could not verify via SMTP: server may be blocking verification"
	return result
}

// ConcurrencyOptions configures concurrent processing for VerifyMany.
type ConcurrencyOptions struct {
	// Workers is the number of concurrent goroutines. Default: 5
	Workers int
}

// VerifyMany verifies multiple addresses concurrently. The result order
// matches the input slice order. Inputs are processed grouped by domain so
// the resolver cache is hit as often as possible.
func (v *Verifier) VerifyMany(ctx context.Context, emails []string, opts ...ConcurrencyOptions) []types.VerificationResult {
	workers := 5
	if len(opts) > 0 && opts[0].Workers > 0 {
		workers = opts[0].Workers
	}

	results := make([]types.VerificationResult, len(emails))
	type job struct {
		idx    int
		email  string
		domain string
	}

	jobSlice := make([]job, len(emails))
	for i, e := range emails {
		domain := ""
		if atIdx := strings.LastIndex(e, "@"); atIdx >= 0 {
			domain = strings.ToLower(e[atIdx+1:])
		}
		jobSlice[i] = job{idx: i, email: e, domain: domain}
	}
	sort.SliceStable(jobSlice, func(i, j int) bool {
		return jobSlice[i].domain < jobSlice[j].domain
	})

	jobs := make(chan job)
	go func() {
		defer close(jobs)
		for _, j := range jobSlice {
			select {
			case jobs <- j:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = v.Verify(ctx, j.email)
			}
		}()
	}
	wg.Wait()

	// Jobs never dispatched because ctx was cancelled still resolve into a
	// result.
	for i := range results {
		if results[i].Status == "" {
			results[i] = types.VerificationResult{
				Email:   emails[i],
				Status:  types.StatusUnknown,
				Message: fmt.Sprintf("verification cancelled: %v", ctx.Err()),
			}
		}
	}

	return results
}
