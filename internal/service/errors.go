package service

import (
	"errors"
	"fmt"

	"password-study/internal/repository"
)

var (
	// ErrRecordNotFound indicates no password record exists for the (user, domain) pair.
	ErrRecordNotFound = errors.New("record not found")
	// ErrUserNotFound indicates the user id is unknown.
	ErrUserNotFound = errors.New("user not found")
	// ErrPartialProvisioning indicates credentials were not fully written; retry user creation.
	ErrPartialProvisioning = errors.New("partial provisioning")
	// ErrStoreUnavailable wraps persistence failures other than missing rows.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrUnknownMode is returned for modes other than practice and login.
	ErrUnknownMode = errors.New("unknown mode")
)

func recordErr(err error, userID int64, domainName string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: user %d, domain %s", ErrRecordNotFound, userID, domainName)
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
