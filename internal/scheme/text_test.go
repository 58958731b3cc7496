package scheme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText_GenerateShape(t *testing.T) {
	s := NewText(NewSource(7))

	for i := 0; i < 500; i++ {
		cred := s.Generate()
		assert.Len(t, cred, 6)
		for _, r := range cred {
			// digits 10..35 in base 36 are the letters a..z
			assert.True(t, r >= 'a' && r <= 'z', "unexpected character %q in %q", r, cred)
		}
	}
}

func TestText_DeterministicForSeed(t *testing.T) {
	a := NewText(NewSource(99))
	b := NewText(NewSource(99))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Generate(), b.Generate())
	}
}

func TestText_Verify(t *testing.T) {
	s := NewText(NewSource(1))

	tests := []struct {
		name   string
		raw    string
		stored string
		want   bool
	}{
		{"exact", "abcdef", "abcdef", true},
		{"case differs", "ABCDEF", "abcdef", false},
		{"prefix", "abcde", "abcdef", false},
		{"empty", "", "abcdef", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Verify(tc.raw, tc.stored))
		})
	}
}
