package scheme

import (
	"strconv"
	"strings"

	"password-study/internal/domain"
)

const (
	TextID domain.SchemeID = "text6"

	textLength = 6
	textMin    = 10
	textMax    = 36
)

// Text is the control scheme: six base-36 digits, each sampled from [10,36).
type Text struct {
	src *Source
}

func NewText(src *Source) *Text {
	return &Text{src: src}
}

func (t *Text) ID() domain.SchemeID { return TextID }

func (t *Text) Generate() string {
	var b strings.Builder
	b.Grow(textLength)
	for i := 0; i < textLength; i++ {
		digit := textMin + t.src.IntN(textMax-textMin)
		b.WriteString(strconv.FormatInt(int64(digit), textMax))
	}
	return b.String()
}

func (t *Text) Verify(raw, stored string) bool {
	return raw == stored
}
