// Package sequence defines the fixed order in which a subject moves through
// the study domains.
package sequence

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDomain is returned for names outside the sequence.
var ErrUnknownDomain = errors.New("unknown domain")

// Sequence is an immutable, duplicate-free list of domains.
type Sequence struct {
	domains []string
	index   map[string]int
}

// New validates and builds a sequence.
func New(domains ...string) (*Sequence, error) {
	if len(domains) == 0 {
		return nil, errors.New("domain sequence is empty")
	}
	s := &Sequence{
		domains: make([]string, 0, len(domains)),
		index:   make(map[string]int, len(domains)),
	}
	for _, d := range domains {
		d = strings.TrimSpace(d)
		if d == "" {
			return nil, errors.New("domain name is required")
		}
		if _, dup := s.index[d]; dup {
			return nil, fmt.Errorf("duplicate domain %q", d)
		}
		s.index[d] = len(s.domains)
		s.domains = append(s.domains, d)
	}
	return s, nil
}

// Default is the sequence used by the study.
func Default() *Sequence {
	s, err := New("Email", "Facebook", "Banking")
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Sequence) First() string {
	return s.domains[0]
}

func (s *Sequence) Contains(domain string) bool {
	_, ok := s.index[domain]
	return ok
}

// Next returns the domain after d. ok is false when d is the last one.
func (s *Sequence) Next(d string) (next string, ok bool, err error) {
	i, found := s.index[d]
	if !found {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownDomain, d)
	}
	if i+1 >= len(s.domains) {
		return "", false, nil
	}
	return s.domains[i+1], true, nil
}

func (s *Sequence) Domains() []string {
	out := make([]string, len(s.domains))
	copy(out, s.domains)
	return out
}

func (s *Sequence) Len() int {
	return len(s.domains)
}
