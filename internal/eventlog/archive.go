package eventlog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"password-study/internal/storage"
)

// Archiver copies the CSV logs to object storage, one folder per server run.
type Archiver struct {
	storage storage.Service
	files   func() ([]string, error)
	opts    storage.UploadOptions
	logger  *logrus.Logger
}

func NewArchiver(store storage.Service, sink *CSVSink, opts storage.UploadOptions, logger *logrus.Logger) *Archiver {
	if logger == nil {
		logger = logrus.New()
	}
	runPrefix := fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102T150405Z"), uuid.NewString())
	opts.KeyPrefix = storage.ObjectKey(opts.KeyPrefix, runPrefix)
	return &Archiver{
		storage: store,
		files:   sink.Files,
		opts:    opts,
		logger:  logger,
	}
}

// Prefix is the object key prefix used for this run.
func (a *Archiver) Prefix() string {
	return a.opts.KeyPrefix
}

// Archive uploads every log file and returns the resulting locations. It
// keeps going after a failed upload and reports the first error.
func (a *Archiver) Archive(ctx context.Context) ([]string, error) {
	files, err := a.files()
	if err != nil {
		return nil, fmt.Errorf("list log files: %w", err)
	}

	var (
		locations []string
		firstErr  error
	)
	for _, path := range files {
		loc, err := a.storage.UploadFile(ctx, path, a.opts)
		if err != nil {
			a.logger.WithError(err).Warnf("archive %s", path)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		a.logger.Infof("archived %s to %s", path, loc)
		locations = append(locations, loc)
	}
	return locations, firstErr
}
