// Package store persists career matrix templates.
//
// Three backends share the Store interface: Memory keeps templates in the
// process, File writes one JSON document per template into a directory, and
// Remote talks to the HTTP API served by package server.
package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"careermatrix/errs"
	"careermatrix/matrix"
)

// Store loads and saves templates. Implementations are safe for concurrent
// use.
type Store interface {
	// Load returns the template with the given id, or a KindNotFound error.
	Load(ctx context.Context, templateID string) (*matrix.Template, error)
	// Save replaces the axes and matrix of an existing template and returns
	// its new revision. Last write wins.
	Save(ctx context.Context, templateID string, axes matrix.Axes, snap matrix.Snapshot) (int, error)
	// List returns the metadata of every template, ordered by name.
	List(ctx context.Context) ([]matrix.TemplateInfo, error)
	// Create adds a template and returns its id. An empty info.ID gets a
	// generated one.
	Create(ctx context.Context, info matrix.TemplateInfo, axes matrix.Axes) (string, error)
}

// Kinds accepted by Open.
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindRemote = "remote"
)

// Options selects and configures a backend.
type Options struct {
	Kind string
	Dir  string // File backend directory
	URL  string // Remote backend base URL
}

// Open returns the backend described by opts.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(opts.Kind) {
	case KindMemory:
		return NewMemory(), nil
	case KindFile, "":
		return NewFile(opts.Dir)
	case KindRemote:
		return NewRemote(opts.URL, nil)
	default:
		return nil, fmt.Errorf("unknown store kind %q", opts.Kind)
	}
}

// LoadOrDefault loads a template and falls back to matrix.DefaultTemplate
// when nothing is stored under id.
func LoadOrDefault(ctx context.Context, s Store, id string) (*matrix.Template, error) {
	return LoadOrCreate(ctx, s, id, matrix.DefaultTemplate)
}

// LoadOrCreate loads a template; when nothing is stored under id it persists
// fallback(id) so later saves succeed. Other errors are returned unchanged.
func LoadOrCreate(ctx context.Context, s Store, id string, fallback func(id string) *matrix.Template) (*matrix.Template, error) {
	t, err := s.Load(ctx, id)
	if err == nil {
		return t, nil
	}
	if !errs.Is(err, errs.KindNotFound) {
		return nil, err
	}

	t = fallback(id)
	newID, err := s.Create(ctx, t.TemplateInfo, t.Axes)
	if err != nil {
		return nil, err
	}
	if _, err := s.Save(ctx, newID, t.Axes, t.Snapshot); err != nil {
		return nil, err
	}
	return s.Load(ctx, newID)
}

// validID rejects ids that cannot be used as a file name or URL segment.
func validID(op errs.Op, id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\?#%`) {
		return errs.E(op, errs.KindInvalid, fmt.Sprintf("invalid template id %q", id))
	}
	return nil
}

func sortInfos(infos []matrix.TemplateInfo) {
	slices.SortFunc(infos, func(a, b matrix.TemplateInfo) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
