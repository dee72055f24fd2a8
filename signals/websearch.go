package signals

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// WebSearchSignal is the outcome of the LLM-backed confirmation step: a
// web search for the person, their employer and any public occurrence of
// the address itself.
type WebSearchSignal struct {
	Searched           bool     `json:"searched"`
	Boost              int      `json:"boost"`
	Evidence           []string `json:"evidence,omitempty"`
	LinkedInFound      bool     `json:"linkedinFound"`
	CompanyPageFound   bool     `json:"companyPageFound"`
	EmailFoundPublicly bool     `json:"emailFoundPublicly"`
	Notes              string   `json:"notes,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// searchVerdict is the JSON object the model is instructed to return.
type searchVerdict struct {
	PersonExistsAtCompany bool   `json:"person_exists_at_company"`
	LinkedInProfileFound  bool   `json:"linkedin_profile_found"`
	LinkedInURL           string `json:"linkedin_url"`
	EmailFoundPublicly    bool   `json:"email_found_publicly"`
	EmailSourceURL        string `json:"email_source_url"`
	CompanyPageMention    bool   `json:"company_page_mention"`
	CompanyPageURL        string `json:"company_page_url"`
	NewsMentions          bool   `json:"news_mentions"`
	Confidence            string `json:"confidence"`
	Notes                 string `json:"notes"`
}

// searchWeb asks a search-capable chat-completions API whether the person,
// company and address can be confirmed publicly. Failures of any kind
// yield an empty signal.
func (s *Scorer) searchWeb(ctx context.Context, in Input) WebSearchSignal {
	var sig WebSearchSignal

	body, err := json.Marshal(chatRequest{
		Model:       "sonar",
		Messages:    []chatMessage{{Role: "user", Content: searchPrompt(in)}},
		Temperature: 0,
	})
	if err != nil {
		return sig
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.SearchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.SearchURL, bytes.NewReader(body))
	if err != nil {
		return sig
	}
	req.Header.Set("Authorization", "Bearer "+s.opts.SearchAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.opts.Client.Do(req)
	if err != nil {
		return sig
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return sig
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil || len(cr.Choices) == 0 {
		return sig
	}

	verdict, ok := extractVerdict(cr.Choices[0].Message.Content)
	if !ok {
		return sig
	}
	sig.Searched = true

	if verdict.PersonExistsAtCompany {
		sig.Boost += 20
		sig.Evidence = append(sig.Evidence,
			fmt.Sprintf("web search confirms %s works at %s", in.PersonName, in.CompanyName))
	}
	if verdict.LinkedInProfileFound {
		sig.LinkedInFound = true
		sig.Boost += 15
		sig.Evidence = append(sig.Evidence, "LinkedIn profile found: "+orDefault(verdict.LinkedInURL, "LinkedIn"))
	}
	if verdict.EmailFoundPublicly {
		sig.EmailFoundPublicly = true
		sig.Boost += 25
		sig.Evidence = append(sig.Evidence, "address found publicly at: "+orDefault(verdict.EmailSourceURL, "web"))
	}
	if verdict.CompanyPageMention {
		sig.CompanyPageFound = true
		sig.Boost += 15
		sig.Evidence = append(sig.Evidence, "person found on company website: "+orDefault(verdict.CompanyPageURL, "company website"))
	}
	sig.Notes = verdict.Notes
	return sig
}

// extractVerdict pulls the JSON object out of the model reply, which may
// wrap it in prose or markdown despite the instructions.
func extractVerdict(content string) (searchVerdict, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return searchVerdict{}, false
	}
	var v searchVerdict
	if err := json.Unmarshal([]byte(content[start:end+1]), &v); err != nil {
		return searchVerdict{}, false
	}
	return v, true
}

func searchPrompt(in Input) string {
	name := orDefault(in.PersonName, "Unknown")
	company := orDefault(in.CompanyName, "Unknown")
	title := orDefault(in.JobTitle, "Unknown")
	return fmt.Sprintf(`Search the web to verify if this person and email are legitimate:

Email: %s
Name: %s
Company: %s
Job Title: %s

Please search for:
1. LinkedIn profile for %s at %s
2. The exact email "%s" appearing on any public webpage
3. %s mentioned on %s's website (team page, about page, news)
4. Any news articles or press releases mentioning this person at this company

Return ONLY a valid JSON object with no markdown:
{
    "person_exists_at_company": true/false,
    "linkedin_profile_found": true/false,
    "linkedin_url": "url or null",
    "email_found_publicly": true/false,
    "email_source_url": "url where email was found or null",
    "company_page_mention": true/false,
    "company_page_url": "url or null",
    "news_mentions": true/false,
    "confidence": "high/medium/low",
    "notes": "brief explanation of findings"
}`,
		in.Email, name, company, title,
		orDefault(in.PersonName, "this person"), orDefault(in.CompanyName, "this company"),
		in.Email,
		orDefault(in.PersonName, "This person"), orDefault(in.CompanyName, "company"))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
