package matrix

import (
	"time"

	"careermatrix/core"
)

// TemplateInfo is the listing projection of a template.
type TemplateInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Profession string `json:"profession"`
}

// Template is a persisted career matrix.
type Template struct {
	TemplateInfo
	Axes      Axes      `json:"axes"`
	Snapshot  Snapshot  `json:"matrix"`
	Revision  int       `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTemplate creates an empty template with the given metadata and axes.
func NewTemplate(info TemplateInfo, axes Axes) *Template {
	if info.ID == "" {
		info.ID = NewID()
	}
	return &Template{
		TemplateInfo: info,
		Axes:         axes.Clone(),
		Snapshot:     NewSnapshot(),
	}
}

// Clone returns a deep copy of the template.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	c := *t
	c.Axes = t.Axes.Clone()
	c.Snapshot = t.Snapshot.Clone()
	return &c
}

// DefaultTemplate returns the built-in matrix substituted when a template id
// has nothing persisted.
func DefaultTemplate(id string) *Template {
	t := NewTemplate(TemplateInfo{
		ID:         id,
		Name:       "Quản lý thay đổi",
		Department: "Quản lý tác động",
		Profession: "Vận hành khai thác",
	}, DefaultAxes())

	plain := func(text string) Cell {
		return Cell{Text: text, Color: DefaultTextColor, Background: "#DCFCE7"}
	}
	current := func(text string) Cell {
		return Cell{Text: text, Color: "#FFFFFF", Background: "#2563EB"}
	}

	seed := map[core.Coord]Cell{
		{Row: 0, Col: 0}: plain("PvM0/1"),
		{Row: 0, Col: 1}: plain("PvM2"),
		{Row: 1, Col: 3}: plain("PP"),
		{Row: 2, Col: 4}: plain("TP"),
	}
	for row := 3; row <= 5; row++ {
		seed[core.Coord{Row: row, Col: 0}] = current("CM0/1")
		seed[core.Coord{Row: row, Col: 1}] = plain("CM2")
		seed[core.Coord{Row: row, Col: 3}] = plain("CM3")
	}
	t.Snapshot.Cells = seed
	return t
}
