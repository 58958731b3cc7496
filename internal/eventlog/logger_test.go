package eventlog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"password-study/internal/domain"
)

type recordingSink struct {
	mu      sync.Mutex
	entries []domain.AttemptOutcome
	err     error
	entered chan struct{}
	release chan struct{}
}

func (s *recordingSink) Write(_ context.Context, e domain.AttemptOutcome) error {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

func (s *recordingSink) written() []domain.AttemptOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AttemptOutcome(nil), s.entries...)
}

func entry(attempt int) domain.AttemptOutcome {
	return domain.AttemptOutcome{
		Time:    time.Now(),
		Domain:  "Email",
		UserID:  1,
		Scheme:  "text6",
		Mode:    domain.ModeLogin,
		Event:   domain.EventStart,
		Attempt: attempt,
	}
}

func TestAsyncLogger_DeliversInOrder(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	sink := &recordingSink{}
	l := NewAsyncLogger(Config{QueueSize: 10, Logger: logger}, sink)
	l.Start(context.Background())

	for i := 0; i < 5; i++ {
		l.Log(entry(i))
	}
	l.Shutdown()

	got := sink.written()
	require.Len(t, got, 5)
	for i, e := range got {
		assert.Equal(t, i, e.Attempt)
	}
	assert.Zero(t, l.Dropped())
}

func TestAsyncLogger_FullQueueDropsWithoutBlocking(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	sink := &recordingSink{
		entered: make(chan struct{}, 4),
		release: make(chan struct{}),
	}
	l := NewAsyncLogger(Config{QueueSize: 1, Logger: logger}, sink)
	l.Start(context.Background())

	l.Log(entry(1))
	<-sink.entered // worker holds entry 1

	done := make(chan struct{})
	go func() {
		l.Log(entry(2)) // queued
		l.Log(entry(3)) // queue full
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Log blocked on a full queue")
	}

	close(sink.release)
	l.Shutdown()

	assert.EqualValues(t, 1, l.Dropped())
	assert.Len(t, sink.written(), 2)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestAsyncLogger_SinkFailureIsSwallowed(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	sink := &recordingSink{err: errors.New("disk full")}
	l := NewAsyncLogger(Config{QueueSize: 4, Logger: logger}, sink)
	l.Start(context.Background())

	l.Log(entry(1))
	l.Shutdown()

	assert.EqualValues(t, 1, l.Failed())
	var reported bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			err, _ := e.Data[logrus.ErrorKey].(error)
			reported = errors.Is(err, ErrLogDelivery)
		}
	}
	assert.True(t, reported)
}

func TestAsyncLogger_LogAfterShutdown(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	l := NewAsyncLogger(Config{Logger: logger}, &recordingSink{})
	l.Start(context.Background())
	l.Shutdown()
	l.Shutdown()

	assert.NotPanics(t, func() { l.Log(entry(1)) })
	assert.EqualValues(t, 1, l.Dropped())
}

func TestCSVSink_AppendsPerScheme(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	sink, err := NewCSVSink(dir)
	require.NoError(t, err)
	ctx := context.Background()

	e := domain.AttemptOutcome{Time: time.UnixMilli(5), Domain: "Email", UserID: 3, Scheme: "text6", Mode: domain.ModeLogin, Event: domain.EventStart}
	require.NoError(t, sink.Write(ctx, e))
	e.Event, e.Attempt = domain.EventSuccess, 1
	require.NoError(t, sink.Write(ctx, e))
	e.Scheme = "syllable2"
	require.NoError(t, sink.Write(ctx, e))

	data, err := os.ReadFile(filepath.Join(dir, "text6-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, "5,Email,3,text6,login,start,0\n5,Email,3,text6,login,success,1\n", string(data))

	files, err := sink.Files()
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
