// Package artifacts writes generated files for the operator.
package artifacts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/savaki/forge-bootstrap/internal/errors"
)

// Writer stores a named artifact and returns where it ended up.
type Writer interface {
	Write(ctx context.Context, name string, data []byte, perm os.FileMode) (string, error)
}

// FileWriter writes artifacts into a single directory. Names that would land
// outside that directory are rejected.
type FileWriter struct {
	dir string
}

func NewFileWriter(dir string) (*FileWriter, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory %s: %w", dir, err)
	}
	return &FileWriter{dir: abs}, nil
}

// Dir returns the absolute output directory.
func (w *FileWriter) Dir() string {
	return w.dir
}

func (w *FileWriter) Write(ctx context.Context, name string, data []byte, perm os.FileMode) (string, error) {
	path, err := w.resolve(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	// WriteFile only applies perm to new files and is subject to umask
	if err := os.Chmod(path, perm); err != nil {
		return "", fmt.Errorf("failed to chmod %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("bytes", len(data)).
		Str("mode", perm.String()).
		Msg("Wrote artifact")

	return path, nil
}

func (w *FileWriter) resolve(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", errors.ErrPathEscapesOutput, name)
	}

	path := filepath.Join(w.dir, name)
	rel, err := filepath.Rel(w.dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", errors.ErrPathEscapesOutput, name)
	}
	return path, nil
}

// Tee writes to primary and then mirrors the artifact to every mirror. The
// primary location is returned. A mirror failure is logged and does not fail
// the write.
func Tee(primary Writer, mirrors ...Writer) Writer {
	return &teeWriter{primary: primary, mirrors: mirrors}
}

type teeWriter struct {
	primary Writer
	mirrors []Writer
}

func (t *teeWriter) Write(ctx context.Context, name string, data []byte, perm os.FileMode) (string, error) {
	location, err := t.primary.Write(ctx, name, data, perm)
	if err != nil {
		return "", err
	}

	logger := zerolog.Ctx(ctx)
	for _, mirror := range t.mirrors {
		if mirror == nil {
			continue
		}
		copied, err := mirror.Write(ctx, name, data, perm)
		if err != nil {
			logger.Warn().Err(err).Str("artifact", name).Msg("Failed to mirror artifact")
			continue
		}
		logger.Info().Str("artifact", name).Str("location", copied).Msg("Mirrored artifact")
	}

	return location, nil
}
