package signals_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"

	"github.com/optimode/mailprobe/signals"
)

// avatarService answers the hash-addressed existence lookup: 200 for every
// listed hash path, 404 otherwise.
func avatarService(t *testing.T, found bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "404", r.URL.Query().Get("d"))
		if found {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
}

func TestScore_InvalidSyntax(t *testing.T) {
	s := signals.NewScorer()
	report := s.Score(context.Background(), signals.Input{Email: "not-an-email"})

	assert.False(t, report.SyntaxValid)
	assert.Zero(t, report.Score)
	assert.Equal(t, signals.LevelLow, report.Level)
	assert.Equal(t, "invalid email syntax", report.Advice)
}

func TestScore_AvatarFound(t *testing.T) {
	srv := avatarService(t, true)
	defer srv.Close()

	s := signals.NewScorer(signals.Options{AvatarBaseURL: srv.URL})
	report := s.Score(context.Background(), signals.Input{Email: "jane.doe@acme.example"})

	assert.True(t, report.SyntaxValid)
	if assert.NotNil(t, report.Gravatar) {
		assert.True(t, report.Gravatar.Exists)
		assert.Contains(t, report.Gravatar.ProfileURL, srv.URL)
	}
	// 10 syntax + 15 avatar + 5 professional pattern
	assert.Equal(t, 30, report.Score)
}

func TestScore_AvatarMissingProvesNothing(t *testing.T) {
	srv := avatarService(t, false)
	defer srv.Close()

	s := signals.NewScorer(signals.Options{AvatarBaseURL: srv.URL})
	report := s.Score(context.Background(), signals.Input{Email: "jane.doe@acme.example"})

	assert.True(t, report.SyntaxValid)
	if assert.NotNil(t, report.Gravatar) {
		assert.False(t, report.Gravatar.Exists)
	}
	assert.Equal(t, 15, report.Score) // 10 syntax + 5 pattern
}

func TestScore_NameMatch(t *testing.T) {
	srv := avatarService(t, false)
	defer srv.Close()

	s := signals.NewScorer(signals.Options{AvatarBaseURL: srv.URL})
	report := s.Score(context.Background(), signals.Input{
		Email:       "jane.doe@acme.example",
		PersonName:  "Jane Doe",
		KnownEmails: []string{"john.smith@acme.example"},
	})

	// 10 syntax + 25 pattern (known convention + professional) + 25 name
	assert.Equal(t, 60, report.Score)
	assert.Equal(t, signals.LevelMedium, report.Level)
	if assert.NotNil(t, report.Name) {
		assert.Equal(t, "Jane Doe", report.Name.FullName)
	}
}

func TestScore_FirstNameOnlyMatch(t *testing.T) {
	srv := avatarService(t, false)
	defer srv.Close()

	s := signals.NewScorer(signals.Options{AvatarBaseURL: srv.URL})
	report := s.Score(context.Background(), signals.Input{
		Email:      "jane.doe@acme.example",
		PersonName: "Jane Donaldson",
	})

	// 10 syntax + 5 pattern + 15 first-name match
	assert.Equal(t, 30, report.Score)
}

func TestScore_WebSearchConfirmation(t *testing.T) {
	avatar := avatarService(t, false)
	defer avatar.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sonar", req["model"])

		content := `Here is what I found: {"person_exists_at_company": true,` +
			`"linkedin_profile_found": true, "linkedin_url": "https://linkedin.example/in/jane",` +
			`"email_found_publicly": false, "company_page_mention": false,` +
			`"confidence": "high", "notes": "team page lists Jane Doe"}`
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
	defer search.Close()

	s := signals.NewScorer(signals.Options{
		AvatarBaseURL: avatar.URL,
		SearchURL:     search.URL,
		SearchAPIKey:  "test-key",
	})
	report := s.Score(context.Background(), signals.Input{
		Email:       "jane.doe@acme.example",
		PersonName:  "Jane Doe",
		CompanyName: "Acme",
	})

	if assert.NotNil(t, report.WebSearch) {
		assert.True(t, report.WebSearch.Searched)
		assert.True(t, report.WebSearch.LinkedInFound)
		assert.Equal(t, 35, report.WebSearch.Boost) // 20 person + 15 LinkedIn
		assert.Equal(t, "team page lists Jane Doe", report.WebSearch.Notes)
	}
	// 10 syntax + 5 pattern + 25 name + 35 web search
	assert.Equal(t, 75, report.Score)
	assert.Equal(t, signals.LevelHigh, report.Level)
}

func TestScore_WebSearchSkippedWithoutKey(t *testing.T) {
	avatar := avatarService(t, false)
	defer avatar.Close()

	s := signals.NewScorer(signals.Options{AvatarBaseURL: avatar.URL})
	report := s.Score(context.Background(), signals.Input{
		Email:       "jane.doe@acme.example",
		PersonName:  "Jane Doe",
		CompanyName: "Acme",
	})

	assert.Nil(t, report.WebSearch)
}

func TestScore_WebSearchFailureContributesNothing(t *testing.T) {
	avatar := avatarService(t, false)
	defer avatar.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer search.Close()

	s := signals.NewScorer(signals.Options{
		AvatarBaseURL: avatar.URL,
		SearchURL:     search.URL,
		SearchAPIKey:  "test-key",
	})
	report := s.Score(context.Background(), signals.Input{
		Email:      "jane.doe@acme.example",
		PersonName: "Jane Doe",
	})

	if assert.NotNil(t, report.WebSearch) {
		assert.False(t, report.WebSearch.Searched)
		assert.Zero(t, report.WebSearch.Boost)
	}
	// 10 syntax + 5 pattern + 25 name
	assert.Equal(t, 40, report.Score)
	assert.Equal(t, signals.LevelMedium, report.Level)
}
