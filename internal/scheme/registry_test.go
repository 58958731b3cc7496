package scheme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"password-study/internal/domain"
)

func TestRegistry_RoundTrip(t *testing.T) {
	reg := Default(NewSource(42))

	for _, id := range reg.IDs() {
		t.Run(string(id), func(t *testing.T) {
			for i := 0; i < 200; i++ {
				cred, err := reg.Generate(id)
				require.NoError(t, err)

				typed := cred
				if id == SyllableID {
					typed = strings.ReplaceAll(cred, Separator, "")
				}
				ok, err := reg.Verify(id, typed, cred)
				require.NoError(t, err)
				assert.True(t, ok, "input %q should verify against %q", typed, cred)
			}
		})
	}
}

func TestRegistry_UnknownScheme(t *testing.T) {
	reg := Default(NewSource(1))

	_, err := reg.Generate("pin4")
	require.ErrorIs(t, err, ErrUnknownScheme)

	_, err = reg.Verify("pin4", "a", "a")
	require.ErrorIs(t, err, ErrUnknownScheme)

	_, err = reg.Get("")
	require.ErrorIs(t, err, ErrUnknownScheme)
}

func TestRegistry_IDsInRegistrationOrder(t *testing.T) {
	reg := Default(NewSource(1))
	assert.Equal(t, []domain.SchemeID{TextID, SyllableID}, reg.IDs())

	ids := reg.IDs()
	ids[0] = "mutated"
	assert.Equal(t, TextID, reg.IDs()[0])
}

func TestNewRegistry_DuplicatePanics(t *testing.T) {
	src := NewSource(1)
	assert.Panics(t, func() {
		NewRegistry(NewText(src), NewText(src))
	})
}

type fixedScheme struct{}

func (fixedScheme) ID() domain.SchemeID { return "fixed" }
func (fixedScheme) Generate() string { return "hunter2" }
func (fixedScheme) Verify(raw, stored string) bool { return strings.EqualFold(raw, stored) }

func TestRegistry_AcceptsNewVariants(t *testing.T) {
	reg := NewRegistry(fixedScheme{})

	cred, err := reg.Generate("fixed")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cred)

	ok, err := reg.Verify("fixed", "HUNTER2", cred)
	require.NoError(t, err)
	assert.True(t, ok)
}
