// Package smtpconv drives one SMTP conversation against one mail server to
// find out whether it accepts a given recipient. No message is ever sent:
// the dialogue stops after RCPT TO and always ends with QUIT.
package smtpconv

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/optimode/mailprobe/types"
)

// syntheticLen is the length of the random local part used for catch-all
// detection. Long enough that a collision with a real mailbox is not a
// practical concern; the value carries no other meaning.
const syntheticLen = 20

// Config configures the prober.
type Config struct {
	// HeloDomain is the identity sent in EHLO/HELO.
	HeloDomain string
	// MailFrom is the sentinel sender for MAIL FROM.
	MailFrom string
	// Port is the SMTP port, normally "25".
	Port string
	// ConnectTimeout bounds the TCP dial.
	ConnectTimeout time.Duration
	// CommandTimeout bounds each command/response exchange.
	CommandTimeout time.Duration
	// Dial is injectable for testing. Defaults to a net.Dialer.
	Dial func(ctx context.Context, network, address string) (net.Conn, error)
}

// Prober opens one connection per Probe call and walks the dialogue:
// greeting, hello, sender declaration, recipient probe, catch-all probe,
// termination. It holds no state between calls.
type Prober struct {
	cfg Config
}

// New creates a Prober. Zero timeouts and an empty port are back-filled
// with the package defaults.
func New(cfg Config) *Prober {
	if cfg.Port == "" {
		cfg.Port = "25"
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.CommandTimeout == 0 {
		cfg.CommandTimeout = 10 * time.Second
	}
	if cfg.Dial == nil {
		d := &net.Dialer{}
		cfg.Dial = d.DialContext
	}
	return &Prober{cfg: cfg}
}

// Probe runs the full conversation with host about address. The catch-all
// probe reuses the same connection as the real probe, because a server's
// catch-all behavior can depend on connection-level state.
//
// Probe never returns an error: every failure mode becomes a non-accepted,
// non-definitive outcome whose Message explains what happened.
func (p *Prober) Probe(ctx context.Context, host, address, domain string) types.SMTPOutcome {
	out := types.SMTPOutcome{MXHost: host}

	dctx, cancel := context.WithTimeout(ctx, p.cfg.ConnectTimeout)
	defer cancel()

	netConn, err := p.cfg.Dial(dctx, "tcp", net.JoinHostPort(host, p.cfg.Port))
	if err != nil {
		out.Message = fmt.Sprintf("connection failed: %v", err)
		return out
	}
	// A caller-imposed deadline caps every command exchange, so an overall
	// budget on ctx bounds the whole conversation, not just the first
	// command.
	ctxDeadline, _ := ctx.Deadline()
	c := &conn{
		netConn:     netConn,
		r:           bufio.NewReader(netConn),
		w:           bufio.NewWriter(netConn),
		timeout:     p.cfg.CommandTimeout,
		ctxDeadline: ctxDeadline,
	}
	// Guaranteed termination once the connection opened, whatever happens
	// in between.
	defer c.quit()

	code, text, err := c.read()
	if err != nil {
		out.Message = fmt.Sprintf("reading greeting: %v", err)
		return out
	}
	if code != 220 {
		// The server, not the address, is untrustworthy here.
		out.Message = fmt.Sprintf("unexpected greeting: %d %s", code, text)
		return out
	}

	code, _, err = c.cmd("EHLO " + p.cfg.HeloDomain)
	if err != nil {
		out.Message = fmt.Sprintf("EHLO failed: %v", err)
		return out
	}
	if !accepts(code) && code != 220 {
		// Single fallback for legacy servers. The HELO reply is read but
		// not gating; only MAIL FROM decides whether the probe goes on.
		if _, _, err = c.cmd("HELO " + p.cfg.HeloDomain); err != nil {
			out.Message = fmt.Sprintf("HELO failed: %v", err)
			return out
		}
	}

	code, text, err = c.cmd("MAIL FROM:<" + p.cfg.MailFrom + ">")
	if err != nil {
		out.Message = fmt.Sprintf("MAIL FROM failed: %v", err)
		return out
	}
	if !accepts(code) {
		// Says nothing about the recipient.
		out.Message = fmt.Sprintf("MAIL FROM rejected: %d %s", code, text)
		return out
	}

	code, text, err = c.cmd("RCPT TO:<" + address + ">")
	if err != nil {
		out.Message = fmt.Sprintf("RCPT TO failed: %v", err)
		return out
	}
	out.StatusCode = code

	switch ClassifyReply(code) {
	case VerdictAccepted:
		out.Accepted = true
		out.Message = "recipient accepted by server"
		if p.isCatchAll(c, domain) {
			out.CatchAll = true
			out.Message = "server accepts any recipient (catch-all)"
		}
	case VerdictUnverifiable:
		// 252 is by itself the server admitting it accepts blindly.
		out.Accepted = true
		out.CatchAll = true
		out.Message = "server cannot verify recipient but will accept"
	case VerdictRejected:
		out.DefinitiveFailure = true
		out.Message = fmt.Sprintf("recipient rejected: %d %s", code, text)
	case VerdictTemporary:
		out.Message = fmt.Sprintf("temporary failure: %d %s", code, text)
	default:
		out.Message = fmt.Sprintf("unexpected reply: %d %s", code, text)
	}
	return out
}

// isCatchAll sends a second RCPT with a freshly generated local part that
// cannot correspond to a real mailbox. Its reply only ever flags catch-all;
// it never changes the real probe's own verdict, so errors here are
// swallowed.
func (p *Prober) isCatchAll(c *conn, domain string) bool {
	code, _, err := c.cmd("RCPT TO:<" + randomLocalPart(syntheticLen) + "@" + domain + ">")
	return err == nil && accepts(code)
}

// randomLocalPart returns n random lowercase letters. Not cryptographic;
// collision avoidance is the only requirement.
func randomLocalPart(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + rand.Intn(26))
	}
	return string(b)
}

// conn wraps one SMTP connection with buffered line IO. Every exchange
// carries its own deadline.
type conn struct {
	netConn     net.Conn
	r           *bufio.Reader
	w           *bufio.Writer
	timeout     time.Duration
	ctxDeadline time.Time // zero when the caller set no deadline
}

// deadline is the next IO deadline: the per-command timeout, capped by the
// caller's overall budget.
func (c *conn) deadline() time.Time {
	d := time.Now().Add(c.timeout)
	if !c.ctxDeadline.IsZero() && c.ctxDeadline.Before(d) {
		d = c.ctxDeadline
	}
	return d
}

// cmd sends one command line and reads the response.
func (c *conn) cmd(line string) (int, string, error) {
	if err := c.netConn.SetDeadline(c.deadline()); err != nil {
		return 0, "", fmt.Errorf("set deadline: %w", err)
	}
	if _, err := c.w.WriteString(line + "\r\n"); err != nil {
		return 0, "", err
	}
	if err := c.w.Flush(); err != nil {
		return 0, "", err
	}
	return c.read()
}

// read reads a (possibly multi-line) SMTP response.
func (c *conn) read() (code int, full string, err error) {
	if err := c.netConn.SetDeadline(c.deadline()); err != nil {
		return 0, "", fmt.Errorf("set deadline: %w", err)
	}

	var lines []string
	for {
		line, readErr := c.r.ReadString('\n')
		if readErr != nil {
			return 0, "", fmt.Errorf("read SMTP response: %w", readErr)
		}
		line = strings.TrimRight(line, "\r\n")
		if len(line) < 3 {
			return 0, "", errors.New("SMTP response line too short")
		}
		lines = append(lines, line)
		// The 4th character is '-' on every line but the last.
		if len(line) < 4 || line[3] != '-' {
			break
		}
	}

	lastLine := lines[len(lines)-1]
	if _, err := fmt.Sscanf(lastLine[:3], "%d", &code); err != nil {
		return 0, "", fmt.Errorf("invalid SMTP response code %q: %w", lastLine[:3], err)
	}
	return code, strings.Join(lines, " | "), nil
}

// quit terminates the dialogue and closes the socket. Best effort: by the
// time this runs the outcome is already decided.
func (c *conn) quit() {
	_ = c.netConn.SetDeadline(time.Now().Add(2 * time.Second))
	_, _ = c.w.WriteString("QUIT\r\n")
	_ = c.w.Flush()
	_ = c.netConn.Close()
}
