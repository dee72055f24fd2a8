// Package signals scores an email address from non-protocol evidence: an
// avatar-existence lookup, local-part pattern matching against known
// addresses, name extraction, and an optional LLM-backed web search. It is
// independent of the SMTP verification core; the two produce separate
// confidence signals and may be composed by a caller.
package signals

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/optimode/mailprobe/check"
)

// Confidence levels for a Report.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// Input is one address plus optional person/company context. More context
// unlocks more signals.
type Input struct {
	Email       string
	PersonName  string
	CompanyName string
	JobTitle    string
	// KnownEmails are other addresses at the same company, used to decide
	// whether Email follows the company's local-part convention.
	KnownEmails []string
}

// Report is the scorer's outcome. Score is additive across signals;
// Evidence lists the human-readable findings that contributed.
type Report struct {
	Email       string           `json:"email"`
	SyntaxValid bool             `json:"syntaxValid"`
	Score       int              `json:"score"`
	Level       string           `json:"level"`
	Evidence    []string         `json:"evidence,omitempty"`
	Advice      string           `json:"advice"`
	Gravatar    *GravatarSignal  `json:"gravatar,omitempty"`
	Pattern     *PatternSignal   `json:"pattern,omitempty"`
	Name        *NameGuess       `json:"name,omitempty"`
	WebSearch   *WebSearchSignal `json:"webSearch,omitempty"`
}

// Options configures a Scorer.
type Options struct {
	// AvatarTimeout bounds the avatar existence lookup. Default: 5s
	AvatarTimeout time.Duration
	// SearchTimeout bounds the web-search confirmation. Default: 30s
	SearchTimeout time.Duration
	// SearchAPIKey enables the web-search signal. Empty disables it.
	SearchAPIKey string
	// AvatarBaseURL overrides the avatar service (for testing).
	AvatarBaseURL string
	// SearchURL overrides the chat-completions endpoint (for testing).
	SearchURL string
	// Client is the HTTP client for all lookups. Injectable for testing.
	Client *http.Client
}

func defaultScorerOptions() Options {
	return Options{
		AvatarTimeout: 5 * time.Second,
		SearchTimeout: 30 * time.Second,
		AvatarBaseURL: "https://www.gravatar.com",
		SearchURL:     "https://api.perplexity.ai/chat/completions",
		Client:        http.DefaultClient,
	}
}

// Scorer combines the signals into one Report. Safe for concurrent use.
type Scorer struct {
	opts Options
}

// NewScorer creates a Scorer. Optionally overrides the defaults.
func NewScorer(opts ...Options) *Scorer {
	o := defaultScorerOptions()
	if len(opts) > 0 {
		def := o
		o = opts[0]
		if o.AvatarTimeout == 0 {
			o.AvatarTimeout = def.AvatarTimeout
		}
		if o.SearchTimeout == 0 {
			o.SearchTimeout = def.SearchTimeout
		}
		if o.AvatarBaseURL == "" {
			o.AvatarBaseURL = def.AvatarBaseURL
		}
		if o.SearchURL == "" {
			o.SearchURL = def.SearchURL
		}
		if o.Client == nil {
			o.Client = def.Client
		}
	}
	return &Scorer{opts: o}
}

// Score evaluates every available signal for the input. It never returns
// an error: an unreachable signal source simply contributes nothing.
func (s *Scorer) Score(ctx context.Context, in Input) Report {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	report := Report{Email: email, Level: LevelLow}

	if !check.Syntax(email) {
		report.Advice = "invalid email syntax"
		return report
	}
	report.SyntaxValid = true
	report.Score = 10
	report.Evidence = append(report.Evidence, "valid email syntax")

	local := email[:strings.LastIndex(email, "@")]

	g := s.checkAvatar(ctx, email)
	report.Gravatar = &g
	if g.Exists {
		report.Score += g.Boost
		report.Evidence = append(report.Evidence, "has Gravatar profile: "+g.ProfileURL)
	}

	p := classifyPattern(local, in.KnownEmails)
	report.Pattern = &p
	if p.Detected != "" {
		report.Score += p.Boost
		report.Evidence = append(report.Evidence, "local part follows '"+p.Detected+"' pattern")
		if p.MatchesKnown {
			report.Evidence = append(report.Evidence, "pattern matches other known addresses at this company")
		}
	}

	n := extractName(local)
	report.Name = &n
	if in.PersonName != "" && n.FullName != "" {
		provided := strings.ToLower(in.PersonName)
		switch {
		case provided == strings.ToLower(n.FullName):
			report.Score += 25
			report.Evidence = append(report.Evidence, "address name matches provided name: "+in.PersonName)
		case n.FirstName != "" && strings.Contains(provided, strings.ToLower(n.FirstName)):
			report.Score += 15
			report.Evidence = append(report.Evidence, "address first name matches: "+n.FirstName)
		}
	}

	if s.opts.SearchAPIKey != "" && (in.PersonName != "" || in.CompanyName != "") {
		w := s.searchWeb(ctx, in)
		report.WebSearch = &w
		report.Score += w.Boost
		report.Evidence = append(report.Evidence, w.Evidence...)
	}

	switch {
	case report.Score >= 70:
		report.Level = LevelHigh
		report.Advice = "address likely valid, multiple signals confirm"
	case report.Score >= 40:
		report.Level = LevelMedium
		report.Advice = "address possibly valid, some confirming signals"
	default:
		report.Level = LevelLow
		report.Advice = "address uncertain, limited validation signals"
	}
	return report
}
