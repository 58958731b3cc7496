package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"password-study/internal/domain"
	"password-study/internal/policy"
	"password-study/internal/repository"
	"password-study/internal/repository/sqlite"
	"password-study/internal/scheme"
	"password-study/internal/sequence"
)

type recordingEvents struct {
	mu      sync.Mutex
	entries []domain.AttemptOutcome
}

func (r *recordingEvents) Log(e domain.AttemptOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recordingEvents) all() []domain.AttemptOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AttemptOutcome(nil), r.entries...)
}

type fixture struct {
	flow       FlowService
	experiment ExperimentService
	users      repository.UserRepository
	passwords  repository.PasswordRepository
	events     *recordingEvents
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "study.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := sqlite.NewUserRepository(db)
	passwords := sqlite.NewPasswordRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, passwords.Init(ctx))

	logger, _ := logtest.NewNullLogger()
	src := scheme.NewSource(11)
	registry := scheme.Default(src)
	domains := sequence.Default()
	events := &recordingEvents{}
	now := time.UnixMilli(1700000000000)

	f := &fixture{
		users:     users,
		passwords: passwords,
		events:    events,
		now:       now,
	}
	f.flow = NewFlowService(FlowConfig{
		Schemes:   registry,
		Domains:   domains,
		Policy:    policy.Default(),
		Passwords: passwords,
		Events:    events,
		Now:       func() time.Time { return now },
		Logger:    logger,
	})
	f.experiment = NewExperimentService(ExperimentConfig{
		Schemes:   registry,
		Domains:   domains,
		Assigner:  NewRoundRobinAssigner(registry.IDs(), users),
		Users:     users,
		Passwords: passwords,
		Logger:    logger,
	})
	return f
}

// newUser creates a subject; the round-robin assigner gives text6 to the
// first user and syllable2 to the second.
func (f *fixture) newUser(t *testing.T) *domain.User {
	t.Helper()
	u, err := f.experiment.CreateUser(context.Background())
	require.NoError(t, err)
	return u
}

func (f *fixture) credential(t *testing.T, userID int64, d string) string {
	t.Helper()
	rec, err := f.passwords.GetPwInfo(context.Background(), userID, d)
	require.NoError(t, err)
	return rec.Credential
}

func (f *fixture) attempts(t *testing.T, userID int64, d string) int {
	t.Helper()
	rec, err := f.passwords.GetPwInfo(context.Background(), userID, d)
	require.NoError(t, err)
	return rec.AttemptNum
}
