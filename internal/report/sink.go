package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink persists rendered documents and returns where they ended up.
type Sink interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// DirSink writes documents into a directory, creating it on demand.
type DirSink struct {
	Dir string
}

func NewDirSink(dir string) *DirSink {
	return &DirSink{Dir: dir}
}

func (s *DirSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(s.Dir, sanitize(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// sanitize keeps a profile name from escaping the export directory.
func sanitize(name string) string {
	name = strings.NewReplacer("/", "_", "\\", "_", "\x00", "_").Replace(name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}
