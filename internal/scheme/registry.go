// Package scheme holds the credential schemes compared by the study and the
// registry that dispatches to them by identifier.
package scheme

import (
	"errors"
	"fmt"

	"password-study/internal/domain"
)

// ErrUnknownScheme is returned for identifiers that were never registered.
var ErrUnknownScheme = errors.New("unknown scheme")

// Scheme generates credentials and verifies raw input against a stored one.
type Scheme interface {
	ID() domain.SchemeID
	Generate() string
	Verify(raw, stored string) bool
}

// Registry is a fixed mapping from scheme id to scheme. It is built once and
// never mutated, so it is safe for concurrent use.
type Registry struct {
	order   []domain.SchemeID
	schemes map[domain.SchemeID]Scheme
}

// NewRegistry registers the given schemes in order. Registering the same id
// twice is a programming error and panics.
func NewRegistry(schemes ...Scheme) *Registry {
	r := &Registry{
		order:   make([]domain.SchemeID, 0, len(schemes)),
		schemes: make(map[domain.SchemeID]Scheme, len(schemes)),
	}
	for _, s := range schemes {
		id := s.ID()
		if _, exists := r.schemes[id]; exists {
			panic(fmt.Sprintf("scheme %q registered twice", id))
		}
		r.schemes[id] = s
		r.order = append(r.order, id)
	}
	return r
}

// Default returns the registry used by the study: the text6 control scheme
// and the syllable2 passphrase scheme.
func Default(src *Source) *Registry {
	return NewRegistry(NewText(src), NewSyllable(src))
}

func (r *Registry) Get(id domain.SchemeID) (Scheme, error) {
	s, ok := r.schemes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, id)
	}
	return s, nil
}

func (r *Registry) Generate(id domain.SchemeID) (string, error) {
	s, err := r.Get(id)
	if err != nil {
		return "", err
	}
	return s.Generate(), nil
}

func (r *Registry) Verify(id domain.SchemeID, raw, stored string) (bool, error) {
	s, err := r.Get(id)
	if err != nil {
		return false, err
	}
	return s.Verify(raw, stored), nil
}

// IDs lists the registered scheme ids in registration order.
func (r *Registry) IDs() []domain.SchemeID {
	out := make([]domain.SchemeID, len(r.order))
	copy(out, r.order)
	return out
}
