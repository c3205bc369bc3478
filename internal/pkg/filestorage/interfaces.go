package filestorage

import (
	"context"
	"io"
	"strings"
)

// FileStorage defines the interface for export destinations
type FileStorage interface {
	// Save runs write against a new object called name and returns its final location.
	// Nothing is left behind at the destination when write fails.
	Save(ctx context.Context, name string, write func(w io.Writer) error) (string, error)
}

// Router sends s3:// names to the object store and everything else to local disk
type Router struct {
	Local  FileStorage
	Remote FileStorage // nil when object storage is disabled
}

// Save implements FileStorage
func (r *Router) Save(ctx context.Context, name string, write func(w io.Writer) error) (string, error) {
	if IsS3URL(name) {
		if r.Remote == nil {
			return "", ErrRemoteDisabled
		}
		return r.Remote.Save(ctx, name, write)
	}
	return r.Local.Save(ctx, name, write)
}

// IsS3URL reports whether name addresses an S3 object
func IsS3URL(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), "s3://")
}
