// Package policy implements the bounded-retry rule for login attempts.
package policy

// MaxAttempts is the number of login tries a subject gets per domain.
const MaxAttempts = 3

// Policy force-advances a subject once Max attempts are used up. It never
// locks anyone out permanently.
type Policy struct {
	Max int
}

func Default() Policy {
	return Policy{Max: MaxAttempts}
}

// New returns a policy with the given limit; non-positive values use MaxAttempts.
func New(limit int) Policy {
	if limit <= 0 {
		limit = MaxAttempts
	}
	return Policy{Max: limit}
}

func (p Policy) AttemptsRemaining(attemptNum int) int {
	return max(0, p.limit()-attemptNum)
}

// Exhausted reports whether the next visit must skip the domain.
func (p Policy) Exhausted(attemptNum int) bool {
	return p.AttemptsRemaining(attemptNum) <= 0
}

func (p Policy) limit() int {
	if p.Max <= 0 {
		return MaxAttempts
	}
	return p.Max
}
