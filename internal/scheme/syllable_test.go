package scheme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyllable_GenerateShape(t *testing.T) {
	s := NewSyllable(NewSource(3))

	for i := 0; i < 500; i++ {
		cred := s.Generate()
		parts := strings.Split(cred, Separator)
		require.Len(t, parts, 2, "credential %q", cred)
		for _, p := range parts {
			assert.NotEmpty(t, p)
			assert.True(t, hasPrefixIn(p, onsets), "syllable %q has no known onset", p)
		}
	}
}

func TestSyllable_Verify(t *testing.T) {
	s := NewSyllable(NewSource(1))

	tests := []struct {
		name   string
		raw    string
		stored string
		want   bool
	}{
		{"without separator", "bako", "ba*ko", true},
		{"with separator", "ba*ko", "ba*ko", false},
		{"separator in odd place", "b*ako", "ba*ko", false},
		{"padded with separators", "***bako**", "ba*ko", false},
		{"wrong syllable", "baku", "ba*ko", false},
		{"reordered", "koba", "ba*ko", false},
		{"empty", "", "ba*ko", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Verify(tc.raw, tc.stored))
		})
	}
}

func hasPrefixIn(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
