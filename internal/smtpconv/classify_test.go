package smtpconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyReply(t *testing.T) {
	tests := []struct {
		code int
		want Verdict
	}{
		{250, VerdictAccepted},
		{251, VerdictAccepted},
		{252, VerdictUnverifiable},
		{550, VerdictRejected},
		{551, VerdictRejected},
		{553, VerdictRejected},
		{450, VerdictTemporary},
		{451, VerdictTemporary},
		{452, VerdictTemporary},
		{220, VerdictAmbiguous},
		{421, VerdictAmbiguous},
		{500, VerdictAmbiguous},
		{552, VerdictAmbiguous}, // storage exceeded is not proof of absence
		{554, VerdictAmbiguous},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyReply(tt.code), "code %d", tt.code)
	}
}

func TestAccepts(t *testing.T) {
	assert.True(t, accepts(250))
	assert.True(t, accepts(251))
	assert.True(t, accepts(252))
	assert.False(t, accepts(199))
	assert.False(t, accepts(300))
	assert.False(t, accepts(550))
}

func TestRandomLocalPart(t *testing.T) {
	a, b := randomLocalPart(syntheticLen), randomLocalPart(syntheticLen)
	assert.Len(t, a, syntheticLen)
	assert.NotEqual(t, a, b)
	for _, ch := range a {
		assert.True(t, ch >= 'a' && ch <= 'z', "unexpected character %q", ch)
	}
}
