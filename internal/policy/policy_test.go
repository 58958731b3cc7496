package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttemptsRemaining(t *testing.T) {
	p := Default()

	tests := []struct {
		attempts int
		want     int
	}{
		{0, 3},
		{1, 2},
		{2, 1},
		{3, 0},
		{4, 0},
		{100, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, p.AttemptsRemaining(tc.attempts), "attempts=%d", tc.attempts)
	}
}

func TestAttemptsRemaining_MonotoneAndFloored(t *testing.T) {
	p := Default()
	prev := p.AttemptsRemaining(0)
	for n := 1; n < 20; n++ {
		cur := p.AttemptsRemaining(n)
		assert.LessOrEqual(t, cur, prev)
		assert.GreaterOrEqual(t, cur, 0)
		prev = cur
	}
}

func TestExhausted(t *testing.T) {
	p := Default()
	assert.False(t, p.Exhausted(2))
	assert.True(t, p.Exhausted(3))
}

func TestNew_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, MaxAttempts, New(0).Max)
	assert.Equal(t, MaxAttempts, New(-2).Max)
	assert.Equal(t, 5, New(5).Max)
	assert.Equal(t, 3, Policy{}.AttemptsRemaining(0))
}
