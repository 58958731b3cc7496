// Package eventlog records login outcomes for offline analysis. Delivery is
// best effort: nothing here can fail or delay the flow that produced an entry.
package eventlog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"password-study/internal/domain"
)

// ErrLogDelivery marks an entry that could not be written. It is reported,
// never returned to callers of Log.
var ErrLogDelivery = errors.New("log delivery failed")

// Logger accepts attempt outcomes.
type Logger interface {
	Log(entry domain.AttemptOutcome)
}

type Config struct {
	QueueSize int
	Logger    *logrus.Logger
}

// AsyncLogger queues entries on a bounded channel drained by one goroutine.
// A full queue drops the entry instead of blocking.
type AsyncLogger struct {
	cfg   Config
	sink  Sink
	queue chan domain.AttemptOutcome

	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Int64
	failed  atomic.Int64
}

func NewAsyncLogger(cfg Config, sink Sink) *AsyncLogger {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &AsyncLogger{
		cfg:   cfg,
		sink:  sink,
		queue: make(chan domain.AttemptOutcome, cfg.QueueSize),
	}
}

// Start launches the writer. Cancelling ctx does not discard queued entries;
// call Shutdown to drain and stop.
func (l *AsyncLogger) Start(ctx context.Context) {
	writeCtx := context.WithoutCancel(ctx)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for entry := range l.queue {
			l.deliver(writeCtx, entry)
		}
	}()
	l.cfg.Logger.Infof("event logger started, queue size %d", l.cfg.QueueSize)
}

func (l *AsyncLogger) Log(entry domain.AttemptOutcome) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		l.drop(entry, "logger stopped")
		return
	}
	select {
	case l.queue <- entry:
	default:
		l.drop(entry, "queue full")
	}
}

// Shutdown stops accepting entries and waits for the queue to drain.
func (l *AsyncLogger) Shutdown() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.queue)
	}
	l.mu.Unlock()

	l.wg.Wait()
	l.cfg.Logger.WithFields(logrus.Fields{
		"dropped": l.dropped.Load(),
		"failed":  l.failed.Load(),
	}).Info("event logger stopped")
}

// Dropped counts entries discarded because the queue was full or closed.
func (l *AsyncLogger) Dropped() int64 { return l.dropped.Load() }

// Failed counts entries the sink rejected.
func (l *AsyncLogger) Failed() int64 { return l.failed.Load() }

func (l *AsyncLogger) deliver(ctx context.Context, entry domain.AttemptOutcome) {
	if err := l.sink.Write(ctx, entry); err != nil {
		l.failed.Add(1)
		l.cfg.Logger.WithError(errors.Join(ErrLogDelivery, err)).
			WithFields(entryFields(entry)).
			Error("write event log entry")
	}
}

func (l *AsyncLogger) drop(entry domain.AttemptOutcome, reason string) {
	l.dropped.Add(1)
	l.cfg.Logger.WithFields(entryFields(entry)).Warnf("event log entry dropped: %s", reason)
}

func entryFields(e domain.AttemptOutcome) logrus.Fields {
	return logrus.Fields{
		"user":    e.UserID,
		"domain":  e.Domain,
		"scheme":  e.Scheme,
		"event":   e.Event,
		"attempt": e.Attempt,
	}
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Log(domain.AttemptOutcome) {}

var (
	_ Logger = (*AsyncLogger)(nil)
	_ Logger = Nop{}
)
