package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"careermatrix/errs"
	"careermatrix/logger"
	"careermatrix/matrix"
)

const fileExt = ".json"

// File stores each template as <dir>/<id>.json.
type File struct {
	mu  sync.RWMutex
	dir string
	log *slog.Logger
	now func() time.Time
}

// DefaultDir returns $HOME/.careermatrix/templates.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "careermatrix", "templates")
	}
	return filepath.Join(home, ".careermatrix", "templates")
}

// NewFile creates a file store, creating dir if needed. An empty dir uses
// DefaultDir.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Persistence("store.NewFile", fmt.Errorf("failed to create template directory: %w", err))
	}
	return &File{
		dir: dir,
		log: logger.ComponentLogger("store"),
		now: time.Now,
	}, nil
}

// Dir returns the directory holding the templates.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) path(id string) string {
	return filepath.Join(f.dir, id+fileExt)
}

// Load reads a template from disk.
func (f *File) Load(_ context.Context, id string) (*matrix.Template, error) {
	const op errs.Op = "store.Load"
	if err := validID(op, id); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.read(op, id)
}

func (f *File) read(op errs.Op, id string) (*matrix.Template, error) {
	data, err := os.ReadFile(f.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.NotFound(op, "template", id)
	}
	if err != nil {
		return nil, errs.Persistence(op, err)
	}

	var t matrix.Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errs.Persistence(op, fmt.Errorf("failed to parse %s: %w", f.path(id), err))
	}
	t.ID = id
	return &t, nil
}

// Save replaces the template's axes and matrix and rewrites its file.
func (f *File) Save(_ context.Context, id string, axes matrix.Axes, snap matrix.Snapshot) (int, error) {
	const op errs.Op = "store.Save"
	if err := validID(op, id); err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.read(op, id)
	if err != nil {
		return 0, err
	}
	t.Axes = axes.Clone()
	t.Snapshot = snap.Clone()
	t.Revision++
	t.UpdatedAt = f.now()
	if err := f.write(op, t); err != nil {
		return 0, err
	}
	f.log.Debug("template saved", "id", id, "revision", t.Revision)
	return t.Revision, nil
}

// write stores the template atomically: temp file, then rename.
func (f *File) write(op errs.Op, t *matrix.Template) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return errs.Persistence(op, fmt.Errorf("failed to marshal template: %w", err))
	}

	tmp, err := os.CreateTemp(f.dir, "."+t.ID+"-*.tmp")
	if err != nil {
		return errs.Persistence(op, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errs.Persistence(op, fmt.Errorf("failed to write temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errs.Persistence(op, err)
	}
	if err := os.Rename(tmpName, f.path(t.ID)); err != nil {
		os.Remove(tmpName)
		return errs.Persistence(op, fmt.Errorf("failed to rename template file: %w", err))
	}
	return nil
}

// List reads the metadata of every template in the directory. Files that
// fail to parse are skipped.
func (f *File) List(_ context.Context) ([]matrix.TemplateInfo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, errs.Persistence("store.List", err)
	}

	infos := make([]matrix.TemplateInfo, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		t, err := f.read("store.List", strings.TrimSuffix(name, fileExt))
		if err != nil {
			f.log.Warn("skipping unreadable template", "file", name, "error", err)
			continue
		}
		infos = append(infos, t.TemplateInfo)
	}
	sortInfos(infos)
	return infos, nil
}

// Create writes a new empty template.
func (f *File) Create(_ context.Context, info matrix.TemplateInfo, axes matrix.Axes) (string, error) {
	const op errs.Op = "store.Create"
	if info.ID != "" {
		if err := validID(op, info.ID); err != nil {
			return "", err
		}
	}
	t := matrix.NewTemplate(info, axes)
	t.UpdatedAt = f.now()

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := os.Stat(f.path(t.ID)); err == nil {
		return "", errs.E(op, errs.KindInvalid, "template "+t.ID+" already exists")
	}
	if err := f.write(op, t); err != nil {
		return "", err
	}
	f.log.Info("template created", "id", t.ID, "name", t.Name)
	return t.ID, nil
}
