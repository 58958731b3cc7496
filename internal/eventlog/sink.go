package eventlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"password-study/internal/domain"
)

const fileSuffix = "-log.csv"

// Sink persists one formatted entry.
type Sink interface {
	Write(ctx context.Context, entry domain.AttemptOutcome) error
}

// CSVSink appends entries to one file per scheme under dir.
type CSVSink struct {
	dir string
	mu  sync.Mutex
}

func NewCSVSink(dir string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &CSVSink{dir: dir}, nil
}

func (s *CSVSink) Write(_ context.Context, entry domain.AttemptOutcome) error {
	line := FormatLine(entry)

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.PathFor(entry.Scheme), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("append log line: %w", err)
	}
	return f.Close()
}

// PathFor returns the log file used for a scheme.
func (s *CSVSink) PathFor(scheme domain.SchemeID) string {
	return filepath.Join(s.dir, string(scheme)+fileSuffix)
}

// Files lists the log files written so far.
func (s *CSVSink) Files() ([]string, error) {
	return filepath.Glob(filepath.Join(s.dir, "*"+fileSuffix))
}

var _ Sink = (*CSVSink)(nil)
