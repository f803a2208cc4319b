package export_test

import (
	"encoding/json"
	"strings"
	"testing"

	"careermatrix/core"
	"careermatrix/export"
	"careermatrix/matrix"
	"careermatrix/validation"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sampleTemplate() *matrix.Template {
	t := matrix.NewTemplate(matrix.TemplateInfo{ID: "sample", Name: "Sample"}, matrix.Axes{
		Positions: []string{"Engineer I", "Engineer II"},
		Levels:    []string{"L1", "L2", "L3"},
	})
	t.Snapshot.Cells[core.Coord{Row: 0, Col: 0}] = matrix.Cell{Text: "A", Color: "#000000", Background: "#DCFCE7"}
	t.Snapshot.Cells[core.Coord{Row: 1, Col: 2}] = matrix.Cell{Text: "B", Color: "#000000", Background: "#FFFFFF"}
	t.Snapshot.Arrows = []matrix.Arrow{
		{ID: "a1", From: core.Coord{Row: 0, Col: 0}, To: core.Coord{Row: 1, Col: 2}, Color: "#E53935", Label: "next"},
		{ID: "a2", From: core.Coord{Row: 0, Col: 1}, To: core.Coord{Row: 1, Col: 2}, Color: matrix.DefaultArrowColor},
	}
	return t
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected export.Format
		wantErr  bool
	}{
		{"ascii", export.FormatASCII, false},
		{"text", export.FormatASCII, false},
		{"ANSI", export.FormatANSI, false},
		{"json", export.FormatJSON, false},
		{"mermaid", export.FormatMermaid, false},
		{"mmd", export.FormatMermaid, false},
		{"dot", export.FormatGraphviz, false},
		{"d2", export.FormatD2, false},
		{"plantuml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := export.ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewExporter(t *testing.T) {
	descriptions := export.GetFormatDescriptions()
	for _, format := range export.GetAvailableFormats() {
		t.Run(string(format), func(t *testing.T) {
			exporter, err := export.NewExporter(format)
			if err != nil {
				t.Fatalf("NewExporter(%v) returned error: %v", format, err)
			}
			if exporter.GetFileExtension() == "" || exporter.GetFormatName() == "" {
				t.Errorf("exporter %v lacks extension or name", format)
			}
			if descriptions[format] == "" {
				t.Errorf("format %v has no description", format)
			}
			if _, err := exporter.Export(nil); err == nil {
				t.Error("expected an error for a nil template")
			}
		})
	}
}

func TestMermaidExport(t *testing.T) {
	out, err := export.NewMermaidExporter().Export(sampleTemplate())
	if err != nil {
		t.Fatal(err)
	}

	want := `%% Sample
flowchart LR
    subgraph p0["Engineer I"]
        r0c0["A"]
        r0c1["L2"]
    end
    subgraph p1["Engineer II"]
        r1c2["B"]
    end

    r0c0 -->|next| r1c2
    r0c1 --> r1c2
    linkStyle 0 stroke:#E53935

    classDef s0 fill:#DCFCE7,color:#000000
    class r0c0 s0
`
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("mermaid output mismatch (-want +got):\n%s", diff)
	}
}

func TestMermaidEscapesLabels(t *testing.T) {
	tmpl := sampleTemplate()
	tmpl.Snapshot.Cells[core.Coord{Row: 0, Col: 0}] = matrix.Cell{Text: `say "hi"`, Color: "#000000", Background: "#FFFFFF"}
	out, _ := export.NewMermaidExporter().Export(tmpl)
	if !strings.Contains(out, `r0c0["say #quot;hi#quot;"]`) {
		t.Errorf("quotes not escaped:\n%s", out)
	}
}

func TestGraphvizExport(t *testing.T) {
	out, err := export.NewGraphvizExporter().Export(sampleTemplate())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`digraph "Sample" {`,
		"subgraph cluster_p0 {",
		`label="Engineer II";`,
		`r0c0 [label="A", fillcolor="#DCFCE7", fontcolor="#000000"];`,
		`r1c2 [label="B"];`,
		`r0c0 -> r1c2 [label="next", color="#E53935"];`,
		`r0c1 -> r1c2 [color="#1769FE"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Count(out, "{") != strings.Count(out, "}") {
		t.Errorf("unbalanced braces:\n%s", out)
	}
}

func TestD2Export(t *testing.T) {
	out, err := export.NewD2Exporter().Export(sampleTemplate())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"# Sample",
		"p0: Engineer I {",
		"  r0c0: A",
		`  r0c0.style.fill: "#DCFCE7"`,
		"p0.r0c0 -> p1.r1c2: next",
		`(p0.r0c0 -> p1.r1c2)[0].style.stroke: "#E53935"`,
		`(p0.r0c1 -> p1.r1c2)[0].style.stroke: "#1769FE"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestJSONExportRoundTrip(t *testing.T) {
	tmpl := sampleTemplate()
	out, err := export.NewJSONExporter().Export(tmpl)
	if err != nil {
		t.Fatal(err)
	}

	var got matrix.Template
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if diff := cmp.Diff(tmpl.Snapshot, got.Snapshot, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if got.Name != "Sample" || got.Axes.Cols() != 3 {
		t.Errorf("metadata lost: %+v", got.TemplateInfo)
	}
}

func TestASCIIExport(t *testing.T) {
	out, err := export.NewASCIIExporter().Export(sampleTemplate())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Sample", "Engineer I", "Engineer II", "L1", "L2", "L3", "A", "B"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain export contains escape codes")
	}
	if errs := validation.NewLineValidator().Validate(out); len(errs) > 0 {
		t.Errorf("broken lines in export: %v\n%s", errs, out)
	}
}

func TestANSIExport(t *testing.T) {
	out, err := export.NewANSIExporter().Export(sampleTemplate())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "\x1b[") {
		t.Fatal("expected escape codes in ANSI export")
	}
	if !strings.Contains(out, "38;2;") {
		t.Errorf("expected 24-bit colors:\n%q", out)
	}
}

func TestExportRejectsEmptyAxes(t *testing.T) {
	tmpl := matrix.NewTemplate(matrix.TemplateInfo{ID: "empty"}, matrix.Axes{})
	for _, e := range []export.Exporter{export.NewASCIIExporter(), export.NewMermaidExporter()} {
		if _, err := e.Export(tmpl); err == nil {
			t.Errorf("%s: expected an error for empty axes", e.GetFormatName())
		}
	}
}
