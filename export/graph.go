package export

import (
	"fmt"

	"careermatrix/core"
	"careermatrix/matrix"
)

// graphNode is a cell shown as a node in the graph formats.
type graphNode struct {
	Coord core.Coord
	ID    string
	Label string
	Cell  matrix.Cell
}

// graph is the view of a template used by the graph exporters: every cell
// with text or an arrow endpoint becomes a node, grouped by position row.
type graph struct {
	Rows  [][]graphNode // Indexed by position row; empty rows are kept
	Edges []matrix.Arrow
	nodes map[core.Coord]bool
}

func buildGraph(t *matrix.Template) graph {
	g := graph{
		Rows:  make([][]graphNode, t.Axes.Rows()),
		nodes: make(map[core.Coord]bool),
	}

	want := make(map[core.Coord]bool)
	for coord, cell := range t.Snapshot.Cells {
		if cell.Text != "" && t.Axes.Contains(coord) {
			want[coord] = true
		}
	}
	for _, a := range t.Snapshot.Arrows {
		if t.Axes.Contains(a.From) && t.Axes.Contains(a.To) {
			want[a.From] = true
			want[a.To] = true
			g.Edges = append(g.Edges, a)
		}
	}

	// Row-major order keeps the output stable.
	for row := 0; row < t.Axes.Rows(); row++ {
		for col := 0; col < t.Axes.Cols(); col++ {
			coord := core.Coord{Row: row, Col: col}
			if !want[coord] {
				continue
			}
			cell, ok := t.Snapshot.Cells[coord]
			if !ok {
				cell = matrix.DefaultCell()
			}
			label := cell.Text
			if label == "" {
				label = t.Axes.Levels[col]
			}
			g.Rows[row] = append(g.Rows[row], graphNode{Coord: coord, ID: nodeID(coord), Label: label, Cell: cell})
			g.nodes[coord] = true
		}
	}
	return g
}

func nodeID(c core.Coord) string {
	return fmt.Sprintf("r%dc%d", c.Row, c.Col)
}

// styled reports whether a cell's colors differ from the defaults.
func (n graphNode) styled() bool {
	return n.Cell.Background != matrix.DefaultBackground || n.Cell.Color != matrix.DefaultTextColor
}
