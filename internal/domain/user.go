package domain

import "time"

// SchemeID names a credential scheme under comparison.
type SchemeID string

// User represents a study subject. The scheme is fixed at registration.
type User struct {
	ID        int64
	Scheme    SchemeID
	CreatedAt time.Time
}
