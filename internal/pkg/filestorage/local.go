package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

// ErrRemoteDisabled is returned for s3:// names when no object store is configured
var ErrRemoteDisabled = fmt.Errorf("%w: s3 export is not enabled", apperrors.ErrInvalidDestination)

// LocalStorage writes export files to the local filesystem.
type LocalStorage struct {
	basePath string // Directory relative names are resolved against
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is created if it does not exist.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "."
	}
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create export directory")
		return nil, fmt.Errorf("failed to create export directory %s: %w", basePath, err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Resolve returns the filesystem path a name will be written to
func (ls *LocalStorage) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(ls.basePath, name)
}

// Save writes through a temp file in the destination directory and renames it into place.
func (ls *LocalStorage) Save(_ context.Context, name string, write func(w io.Writer) error) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty filename", apperrors.ErrInvalidDestination)
	}

	dstPath := ls.Resolve(name)
	dir := filepath.Dir(dstPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create export subdirectory")
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmpPath := filepath.Join(dir, "."+uuid.New().String()+".tmp")
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Error().Err(err).Str("path", tmpPath).Msg("Failed to create temp export file")
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close export file: %w", err)
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to move export file into place")
		return "", fmt.Errorf("failed to save export file: %w", err)
	}

	logger.Debug().Str("name", name).Str("path", dstPath).Msg("Export file saved")
	return dstPath, nil
}
