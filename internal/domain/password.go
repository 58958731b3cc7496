package domain

import "time"

// PasswordRecord is the credential a user holds for one domain.
type PasswordRecord struct {
	UserID     int64
	Domain     string
	Scheme     SchemeID
	Credential string
	AttemptNum int
	UpdatedAt  time.Time
}
