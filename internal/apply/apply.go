// Package apply is the mutation layer: it takes a subtask's winning result
// and performs the corresponding file operation under a workspace root.
package apply

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ShayCichocki/quorum/pkg/models"
)

type handlerFunc func(w *Workspace, target, content string) error

// Workspace applies subtask results under a root directory. Every subtask
// type has a handler; adding a mutation kind means extending the type set
// and this map together.
type Workspace struct {
	root     string
	logger   *zap.Logger
	handlers map[models.SubtaskType]handlerFunc
}

// New creates a Workspace rooted at root.
func New(root string, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workspace{
		root:   root,
		logger: logger,
		handlers: map[models.SubtaskType]handlerFunc{
			models.SubtaskCreate:  (*Workspace).applyCreate,
			models.SubtaskWrite:   (*Workspace).applyWrite,
			models.SubtaskEdit:    (*Workspace).applyEdit,
			models.SubtaskDelete:  (*Workspace).applyDelete,
			models.SubtaskRead:    (*Workspace).applyNoop,
			models.SubtaskExecute: (*Workspace).applyNoop,
		},
	}
}

// Apply dispatches content to the handler for the subtask's type.
func (w *Workspace) Apply(taskType models.SubtaskType, target, content string) error {
	handler, ok := w.handlers[taskType]
	if !ok {
		return fmt.Errorf("no handler for subtask type %q", taskType)
	}
	return handler(w, target, content)
}

// Read returns the current content of target, or empty when it does not
// exist. Used for building edit/read context.
func (w *Workspace) Read(target string) (string, error) {
	path, err := w.resolve(target)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", target, err)
	}
	return string(data), nil
}

// Exists reports whether target currently exists in the workspace.
func (w *Workspace) Exists(target string) bool {
	path, err := w.resolve(target)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// resolve maps a target to an absolute path under the root, rejecting
// absolute targets and any path escaping the root.
func (w *Workspace) resolve(target string) (string, error) {
	if strings.TrimSpace(target) == "" {
		return "", fmt.Errorf("empty target")
	}
	if filepath.IsAbs(target) {
		return "", fmt.Errorf("target %q must be relative to the workspace", target)
	}
	path := filepath.Join(w.root, target)
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("target %q escapes the workspace", target)
	}
	return path, nil
}

func (w *Workspace) applyCreate(target, content string) error {
	path, err := w.resolve(target)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		w.logger.Warn("create target already exists, overwriting", zap.String("target", target))
	}
	return w.writeFile(path, target, content)
}

func (w *Workspace) applyWrite(target, content string) error {
	path, err := w.resolve(target)
	if err != nil {
		return err
	}
	return w.writeFile(path, target, content)
}

func (w *Workspace) applyEdit(target, content string) error {
	path, err := w.resolve(target)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("edit target %s does not exist: %w", target, err)
	}
	return w.writeFile(path, target, content)
}

func (w *Workspace) applyDelete(target, content string) error {
	path, err := w.resolve(target)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting %s: %w", target, err)
	}
	w.logger.Debug("deleted", zap.String("target", target))
	return nil
}

// applyNoop covers read and execute subtasks: their value is the produced
// content itself, nothing is mutated.
func (w *Workspace) applyNoop(target, content string) error {
	return nil
}

func (w *Workspace) writeFile(path, target, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directories for %s: %w", target, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	w.logger.Debug("wrote", zap.String("target", target), zap.Int("bytes", len(content)))
	return nil
}
