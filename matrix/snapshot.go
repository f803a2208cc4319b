package matrix

import (
	"encoding/json"
	"sort"

	"careermatrix/core"
)

// Snapshot is the full editable state at one point in time. Snapshots handed
// out by the editor and the history are never shared; use Clone before
// keeping one.
type Snapshot struct {
	Cells  map[core.Coord]Cell
	Arrows []Arrow
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() Snapshot {
	return Snapshot{
		Cells:  make(map[core.Coord]Cell),
		Arrows: []Arrow{},
	}
}

// Clone creates a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	clone := Snapshot{
		Cells:  make(map[core.Coord]Cell, len(s.Cells)),
		Arrows: make([]Arrow, len(s.Arrows)),
	}
	for k, v := range s.Cells {
		clone.Cells[k] = v
	}
	copy(clone.Arrows, s.Arrows)
	return clone
}

// SortedCoords returns the coordinates of all materialized cells in
// row-major order.
func (s Snapshot) SortedCoords() []core.Coord {
	coords := make([]core.Coord, 0, len(s.Cells))
	for c := range s.Cells {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}

type cellRecord struct {
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Text       string `json:"text"`
	Color      string `json:"color"`
	Background string `json:"background"`
}

type snapshotJSON struct {
	Cells  []cellRecord `json:"cells"`
	Arrows []Arrow      `json:"arrows"`
}

// MarshalJSON writes cells as a row-major array of records.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{
		Cells:  make([]cellRecord, 0, len(s.Cells)),
		Arrows: s.Arrows,
	}
	if out.Arrows == nil {
		out.Arrows = []Arrow{}
	}
	for _, c := range s.SortedCoords() {
		cell := s.Cells[c]
		out.Cells = append(out.Cells, cellRecord{
			Row:        c.Row,
			Col:        c.Col,
			Text:       cell.Text,
			Color:      cell.Color,
			Background: cell.Background,
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the format written by MarshalJSON. Missing colors fall
// back to the defaults.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var in snapshotJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.Cells = make(map[core.Coord]Cell, len(in.Cells))
	for _, r := range in.Cells {
		cell := Cell{Text: r.Text, Color: r.Color, Background: r.Background}
		if cell.Color == "" {
			cell.Color = DefaultTextColor
		}
		if cell.Background == "" {
			cell.Background = DefaultBackground
		}
		s.Cells[core.Coord{Row: r.Row, Col: r.Col}] = cell
	}
	s.Arrows = in.Arrows
	if s.Arrows == nil {
		s.Arrows = []Arrow{}
	}
	return nil
}
