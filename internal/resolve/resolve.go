// Package resolve turns a domain name into its ordered list of mail
// exchange hosts. Lookups are cached with a TTL and deduplicated so that
// concurrent verifications of the same domain perform one DNS query.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/optimode/mailprobe/types"
)

// ErrNoMailExchange means the domain has no usable mail route: it does not
// exist, or it exists but publishes no MX records. The address is
// undeliverable, not merely uncheckable.
var ErrNoMailExchange = errors.New("resolve: no mail exchange for domain")

// ResolutionError means the DNS infrastructure failed before an answer was
// obtained (timeout, unreachable nameserver, SERVFAIL). The address could
// not be checked; nothing is known about its validity.
type ResolutionError struct {
	Domain string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve: lookup %s: %v", e.Domain, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// LookupFunc is the raw MX query. Injectable for testing.
type LookupFunc func(ctx context.Context, domain string) ([]*net.MX, error)

// Resolver resolves and caches MX host lists. Concurrent resolutions of the
// same domain are deduplicated: one DNS query runs, all waiters share the
// answer.
type Resolver struct {
	mu            sync.Mutex
	entries       map[string]*entry
	cacheTTL      time.Duration
	lookupTimeout time.Duration
	lookup        LookupFunc
}

type entry struct {
	hosts   []types.MXHost
	err     error
	expires time.Time
	done    chan struct{} // closed when the lookup completes
}

// New creates a Resolver with the given per-query timeout and cache TTL.
func New(lookupTimeout, cacheTTL time.Duration) *Resolver {
	r := &net.Resolver{}
	return NewWithLookup(lookupTimeout, cacheTTL, r.LookupMX)
}

// NewWithLookup creates a Resolver with a custom MX query (for testing).
func NewWithLookup(lookupTimeout, cacheTTL time.Duration, fn LookupFunc) *Resolver {
	return &Resolver{
		entries:       make(map[string]*entry),
		cacheTTL:      cacheTTL,
		lookupTimeout: lookupTimeout,
		lookup:        fn,
	}
}

// Resolve returns the domain's mail exchanges in ascending preference
// order, hostname as the tiebreak, trailing dots stripped. It fails with
// ErrNoMailExchange when the domain has no mail route and with a
// *ResolutionError when the lookup itself could not be completed.
func (r *Resolver) Resolve(ctx context.Context, domain string) ([]types.MXHost, error) {
	r.mu.Lock()

	if e, ok := r.entries[domain]; ok {
		select {
		case <-e.done:
			if time.Now().Before(e.expires) {
				r.mu.Unlock()
				return copyHosts(e.hosts), e.err
			}
			// Expired, fall through to refresh.
		default:
			// Lookup in flight, wait for it.
			r.mu.Unlock()
			select {
			case <-e.done:
				return copyHosts(e.hosts), e.err
			case <-ctx.Done():
				return nil, &ResolutionError{Domain: domain, Err: ctx.Err()}
			}
		}
	}

	e := &entry{done: make(chan struct{})}
	r.entries[domain] = e
	r.mu.Unlock()

	lctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	records, err := r.lookup(lctx, domain)
	e.hosts, e.err = classify(domain, records, err)
	e.expires = time.Now().Add(r.cacheTTL)
	var resErr *ResolutionError
	if errors.As(e.err, &resErr) {
		// A transient lookup failure is not an answer: the next call
		// retries instead of serving the error for the full TTL.
		// ErrNoMailExchange is an authoritative answer and stays cached.
		e.expires = time.Now()
	}
	close(e.done)

	return copyHosts(e.hosts), e.err
}

// Len returns the number of cached domains (for diagnostics).
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// classify maps the raw lookup result onto the resolver's error taxonomy
// and produces the ordered host list.
func classify(domain string, records []*net.MX, err error) ([]types.MXHost, error) {
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			// NXDOMAIN: the domain provably cannot receive mail.
			return nil, ErrNoMailExchange
		}
		return nil, &ResolutionError{Domain: domain, Err: err}
	}

	hosts := make([]types.MXHost, 0, len(records))
	for _, mx := range records {
		hostname := strings.TrimSuffix(mx.Host, ".")
		if hostname == "" {
			// A null MX (RFC 7505) is an explicit "no mail here".
			continue
		}
		hosts = append(hosts, types.MXHost{Preference: mx.Pref, Hostname: hostname})
	}
	if len(hosts) == 0 {
		return nil, ErrNoMailExchange
	}

	sort.SliceStable(hosts, func(i, j int) bool {
		if hosts[i].Preference != hosts[j].Preference {
			return hosts[i].Preference < hosts[j].Preference
		}
		return hosts[i].Hostname < hosts[j].Hostname
	})
	return hosts, nil
}

// copyHosts keeps callers from mutating cached data.
func copyHosts(hosts []types.MXHost) []types.MXHost {
	if hosts == nil {
		return nil
	}
	out := make([]types.MXHost, len(hosts))
	copy(out, hosts)
	return out
}
