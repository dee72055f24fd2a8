package check_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optimode/mailprobe/check"
)

func TestSyntax(t *testing.T) {
	tests := []struct {
		name   string
		email  string
		wantOK bool
	}{
		{"valid simple", "user@example.com", true},
		{"valid with plus", "user+tag@example.com", true},
		{"valid with dots", "first.last@example.com", true},
		{"valid with percent", "user%routed@example.com", true},
		{"valid subdomain", "user@mail.example.co.uk", true},
		{"valid hyphenated domain", "user@my-example.com", true},
		{"valid two letter TLD", "user@example.io", true},
		{"empty", "", false},
		{"no at sign", "userexample.com", false},
		{"no domain", "user@", false},
		{"no local", "@example.com", false},
		{"domain without dot", "user@localhost", false},
		{"one letter TLD", "user@example.c", false},
		{"numeric TLD", "user@example.123", false},
		{"space in local", "first last@example.com", false},
		{"display name form", "John Doe <user@example.com>", false},
		{"angle bracket form", "<user@example.com>", false},
		{"leading whitespace", " user@example.com", false},
		{"trailing whitespace", "user@example.com ", false},
		{"quoted local", `"user name"@example.com`, false},
		{"domain literal", "user@[127.0.0.1]", false},
		{"unicode local", "用户@example.com", false},
		{"too long total", strings.Repeat("a", 250) + "@example.com", false},
		{"too long local", strings.Repeat("a", 65) + "@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOK, check.Syntax(tt.email))
		})
	}
}
