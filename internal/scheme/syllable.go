package scheme

import (
	"strings"

	"password-study/internal/domain"
)

const (
	SyllableID domain.SchemeID = "syllable2"

	// Separator is shown between syllables but is never part of the secret.
	Separator = "*"

	syllableCount = 2
)

var (
	onsets = []string{
		"b", "d", "f", "g", "h", "j", "k", "l", "m", "n", "p", "r", "s", "t", "v", "w", "z",
		"bl", "br", "ch", "dr", "fl", "fr", "gr", "kl", "pl", "pr", "sh", "sl", "st", "th", "tr",
	}
	nuclei = []string{"a", "e", "i", "o", "u", "ai", "au", "ee", "oo", "ou"}
	codas  = []string{"", "", "", "k", "l", "m", "n", "p", "r", "s", "t", "x", "nd", "nk", "st"}
)

// Syllable builds a passphrase of two pronounceable syllables.
type Syllable struct {
	src *Source
}

func NewSyllable(src *Source) *Syllable {
	return &Syllable{src: src}
}

func (s *Syllable) ID() domain.SchemeID { return SyllableID }

func (s *Syllable) Generate() string {
	parts := make([]string, syllableCount)
	for i := range parts {
		parts[i] = s.src.Pick(onsets) + s.src.Pick(nuclei) + s.src.Pick(codas)
	}
	return strings.Join(parts, Separator)
}

// Verify compares the typed input with the stored credential minus its
// separators. Separators typed by the user are not ignored.
func (s *Syllable) Verify(raw, stored string) bool {
	return raw == stripSeparators(stored)
}

func stripSeparators(v string) string {
	return strings.ReplaceAll(v, Separator, "")
}
