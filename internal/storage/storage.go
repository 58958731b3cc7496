package storage

import (
	"context"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket    string
	KeyPrefix string
}

// Service copies experiment log files to remote object storage.
type Service interface {
	UploadFile(ctx context.Context, localPath string, opts UploadOptions) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}

// ObjectKey joins the prefix and the file's base name into an object key.
func ObjectKey(prefix, name string) string {
	prefix = trimSlashes(prefix)
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
