package staging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"tunegrab/internal/logging"
)

// Workspace is the isolated on-disk scope for one request. It is the single
// owner of every file a request writes; Release removes the whole scope and
// runs on every exit path, including cancellation.
type Workspace struct {
	ID   string
	Root string

	releaseOnce sync.Once
	logger      *slog.Logger
}

// Acquire creates a fresh workspace directory under stagingRoot.
func Acquire(stagingRoot string, logger *slog.Logger) (*Workspace, error) {
	if stagingRoot == "" {
		return nil, fmt.Errorf("staging root required")
	}
	id := uuid.NewString()
	root := filepath.Join(stagingRoot, id)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %q: %w", root, err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Workspace{ID: id, Root: root, logger: logger}, nil
}

// Path returns the location of a named file inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Root, name)
}

// Release removes the workspace directory and everything inside it. It is
// idempotent and never returns an error; failures are logged since callers
// run it deferred.
func (w *Workspace) Release() {
	if w == nil {
		return
	}
	w.releaseOnce.Do(func() {
		if err := os.RemoveAll(w.Root); err != nil {
			w.logger.Warn("failed to remove workspace",
				logging.String("path", w.Root),
				logging.Error(err),
				logging.String(logging.FieldEventType, "workspace_release_failed"),
			)
			return
		}
		w.logger.Debug("workspace released",
			logging.String("path", w.Root),
			logging.String(logging.FieldEventType, "workspace_released"),
		)
	})
}
