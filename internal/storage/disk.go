package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultBaseDir    = "./uploads"
	DefaultStaticBase = "/uploads"
)

// Disk stores blobs on the local filesystem under baseDir and serves them via
// the static file route at staticBase.
type Disk struct {
	baseDir    string
	staticBase string
}

func NewDisk(baseDir, staticBase string) *Disk {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if staticBase == "" {
		staticBase = DefaultStaticBase
	}
	return &Disk{baseDir: baseDir, staticBase: staticBase}
}

func (d *Disk) Save(ctx context.Context, key, contentType string, data []byte) (string, error) {
	absPath := filepath.Join(d.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return d.staticBase + "/" + strings.TrimPrefix(key, "/"), nil
}
