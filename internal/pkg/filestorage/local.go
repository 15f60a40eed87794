package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yigit/devcamper/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // The URL prefix the directory is served under
}

// NewLocalStorage creates a new LocalStorage instance, creating basePath if needed.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

func cleanName(name string) (string, error) {
	base := filepath.Base(name)
	if base == "" || base == "." || base == "/" || base == ".." {
		return "", fmt.Errorf("invalid file name: %q", name)
	}
	return base, nil
}

// Save writes r to basePath/name, replacing any existing file
func (ls *LocalStorage) Save(ctx context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	filename, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dstPath := ls.FullPath(filename)
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, r); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("saved_as", filename).Msg("File saved successfully")
	return filename, nil
}

// Delete removes a file from the storage directory
func (ls *LocalStorage) Delete(_ context.Context, name string) error {
	if name == "" {
		return nil
	}
	filename, err := cleanName(name)
	if err != nil {
		return err
	}

	physicalPath := ls.FullPath(filename)
	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL returns the public path of a stored file
func (ls *LocalStorage) URL(name string) string {
	return strings.TrimRight(ls.baseURL, "/") + "/" + filepath.Base(name)
}

// FullPath returns the filesystem path of a stored file
func (ls *LocalStorage) FullPath(name string) string {
	return filepath.Join(ls.basePath, filepath.Base(name))
}

// BasePath returns the directory files are stored in
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}
