package service

import (
	"context"
	"errors"
	"fmt"

	"password-study/internal/domain"
	"password-study/internal/scheme"
)

const (
	AssignRoundRobin = "round-robin"
	AssignRandom     = "random"
)

// Assigner picks the scheme for a new subject.
type Assigner interface {
	Assign(ctx context.Context) (domain.SchemeID, error)
}

// UserCounter reports how many subjects exist.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// RoundRobinAssigner cycles through the schemes by registration count, so
// group sizes stay balanced without in-process state.
type RoundRobinAssigner struct {
	schemes []domain.SchemeID
	users   UserCounter
}

func NewRoundRobinAssigner(schemes []domain.SchemeID, users UserCounter) *RoundRobinAssigner {
	return &RoundRobinAssigner{schemes: schemes, users: users}
}

func (a *RoundRobinAssigner) Assign(ctx context.Context) (domain.SchemeID, error) {
	if len(a.schemes) == 0 {
		return "", errors.New("no schemes to assign")
	}
	n, err := a.users.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return a.schemes[n%int64(len(a.schemes))], nil
}

type RandomAssigner struct {
	schemes []domain.SchemeID
	src     *scheme.Source
}

func NewRandomAssigner(schemes []domain.SchemeID, src *scheme.Source) *RandomAssigner {
	return &RandomAssigner{schemes: schemes, src: src}
}

func (a *RandomAssigner) Assign(context.Context) (domain.SchemeID, error) {
	if len(a.schemes) == 0 {
		return "", errors.New("no schemes to assign")
	}
	return a.schemes[a.src.IntN(len(a.schemes))], nil
}

// NewAssigner builds the assigner named by kind.
func NewAssigner(kind string, schemes []domain.SchemeID, users UserCounter, src *scheme.Source) (Assigner, error) {
	switch kind {
	case "", AssignRoundRobin:
		return NewRoundRobinAssigner(schemes, users), nil
	case AssignRandom:
		return NewRandomAssigner(schemes, src), nil
	default:
		return nil, fmt.Errorf("unknown assignment rule %q", kind)
	}
}
