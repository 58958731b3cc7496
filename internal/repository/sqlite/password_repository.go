package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"password-study/internal/domain"
	"password-study/internal/repository"
)

const createPasswordsTable = `
CREATE TABLE IF NOT EXISTS passwords (
	user_id INTEGER NOT NULL,
	domain TEXT NOT NULL,
	scheme TEXT NOT NULL,
	credential TEXT NOT NULL,
	attempt_num INTEGER NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, domain),
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
`

const passwordColumns = `user_id, domain, scheme, credential, attempt_num, updated_at`

type PasswordRepository struct {
	db *sql.DB
}

func NewPasswordRepository(db *sql.DB) repository.PasswordRepository {
	return &PasswordRepository{db: db}
}

func (r *PasswordRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPasswordsTable); err != nil {
		return fmt.Errorf("create passwords table: %w", err)
	}
	return nil
}

// AddPasswords inserts all records in one transaction; either every record is
// written or none is.
func (r *PasswordRepository) AddPasswords(ctx context.Context, records []domain.PasswordRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	now := time.Now().UnixMilli()
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO passwords (`+passwordColumns+`)
VALUES (?, ?, ?, ?, ?, ?)`,
			rec.UserID,
			rec.Domain,
			string(rec.Scheme),
			rec.Credential,
			rec.AttemptNum,
			now,
		); err != nil {
			return fmt.Errorf("insert password for %s: %w", rec.Domain, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *PasswordRepository) GetPwInfo(ctx context.Context, userID int64, domainName string) (*domain.PasswordRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+passwordColumns+`
FROM passwords
WHERE user_id = ? AND domain = ?`,
		userID,
		domainName,
	)
	return scanPassword(row, userID, domainName)
}

// AttemptPassword bumps attempt_num and returns the row as it is after the
// increment, in a single statement.
func (r *PasswordRepository) AttemptPassword(ctx context.Context, userID int64, domainName string) (*domain.PasswordRecord, error) {
	row := r.db.QueryRowContext(ctx, `
UPDATE passwords
SET attempt_num = attempt_num + 1, updated_at = ?
WHERE user_id = ? AND domain = ?
RETURNING `+passwordColumns,
		time.Now().UnixMilli(),
		userID,
		domainName,
	)
	return scanPassword(row, userID, domainName)
}

func (r *PasswordRepository) ResetAttempts(ctx context.Context, userID int64, domainName string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE passwords
SET attempt_num = 0, updated_at = ?
WHERE user_id = ? AND domain = ?`,
		time.Now().UnixMilli(),
		userID,
		domainName,
	)
	if err != nil {
		return fmt.Errorf("reset attempts: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reset attempts rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("password for user %d domain %s: %w", userID, domainName, repository.ErrNotFound)
	}
	return nil
}

func scanPassword(row interface {
	Scan(dest ...any) error
}, userID int64, domainName string) (*domain.PasswordRecord, error) {
	var (
		rec       domain.PasswordRecord
		scheme    string
		updatedAt int64
	)
	if err := row.Scan(
		&rec.UserID,
		&rec.Domain,
		&scheme,
		&rec.Credential,
		&rec.AttemptNum,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("password for user %d domain %s: %w", userID, domainName, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan password: %w", err)
	}
	rec.Scheme = domain.SchemeID(scheme)
	rec.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &rec, nil
}
