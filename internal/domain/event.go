package domain

import "time"

type Mode string

const (
	ModePractice Mode = "practice"
	ModeLogin    Mode = "login"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModePractice || m == ModeLogin
}

type Event string

const (
	EventStart   Event = "start"
	EventSuccess Event = "success"
	EventFailure Event = "failure"
)

// AttemptOutcome is one logged interaction. It is never persisted by the engine.
type AttemptOutcome struct {
	Time    time.Time
	Domain  string
	UserID  int64
	Scheme  SchemeID
	Mode    Mode
	Event   Event
	Attempt int
}
