package store

import (
	"context"
	"sync"
	"time"

	"careermatrix/errs"
	"careermatrix/matrix"
)

// Memory holds templates in memory.
type Memory struct {
	mu        sync.RWMutex
	templates map[string]*matrix.Template
	now       func() time.Time
}

// NewMemory creates a store seeded with copies of the given templates.
func NewMemory(seed ...*matrix.Template) *Memory {
	m := &Memory{
		templates: make(map[string]*matrix.Template),
		now:       time.Now,
	}
	for _, t := range seed {
		m.templates[t.ID] = t.Clone()
	}
	return m
}

// Load returns a copy of the stored template.
func (m *Memory) Load(_ context.Context, id string) (*matrix.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.templates[id]
	if !ok {
		return nil, errs.NotFound("store.Load", "template", id)
	}
	return t.Clone(), nil
}

// Save replaces the template's axes and matrix.
func (m *Memory) Save(_ context.Context, id string, axes matrix.Axes, snap matrix.Snapshot) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.templates[id]
	if !ok {
		return 0, errs.NotFound("store.Save", "template", id)
	}
	t.Axes = axes.Clone()
	t.Snapshot = snap.Clone()
	t.Revision++
	t.UpdatedAt = m.now()
	return t.Revision, nil
}

// List returns template metadata ordered by name.
func (m *Memory) List(_ context.Context) ([]matrix.TemplateInfo, error) {
	m.mu.RLock()
	infos := make([]matrix.TemplateInfo, 0, len(m.templates))
	for _, t := range m.templates {
		infos = append(infos, t.TemplateInfo)
	}
	m.mu.RUnlock()

	sortInfos(infos)
	return infos, nil
}

// Create adds an empty template.
func (m *Memory) Create(_ context.Context, info matrix.TemplateInfo, axes matrix.Axes) (string, error) {
	if info.ID != "" {
		if err := validID("store.Create", info.ID); err != nil {
			return "", err
		}
	}
	t := matrix.NewTemplate(info, axes)
	t.UpdatedAt = m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.templates[t.ID]; exists {
		return "", errs.E(errs.Op("store.Create"), errs.KindInvalid, "template "+t.ID+" already exists")
	}
	m.templates[t.ID] = t
	return t.ID, nil
}
