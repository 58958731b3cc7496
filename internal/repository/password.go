package repository

import (
	"context"

	"password-study/internal/domain"
)

// PasswordRepository stores one credential record per (user, domain).
//
// AttemptPassword must increment the attempt counter and return the updated
// record as a single atomic step; concurrent logins rely on it.
type PasswordRepository interface {
	Init(ctx context.Context) error
	AddPasswords(ctx context.Context, records []domain.PasswordRecord) error
	GetPwInfo(ctx context.Context, userID int64, domainName string) (*domain.PasswordRecord, error)
	AttemptPassword(ctx context.Context, userID int64, domainName string) (*domain.PasswordRecord, error)
	ResetAttempts(ctx context.Context, userID int64, domainName string) error
}
