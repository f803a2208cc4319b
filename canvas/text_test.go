package canvas

import (
	"testing"
)

func TestMeasureText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"ASCII", "Hello", 5},
		{"Empty", "", 0},
		{"Vietnamese", "Bậc 11", 6},
		{"CJK", "中文", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MeasureText(tt.text); got != tt.want {
				t.Errorf("MeasureText(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestFitText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		want     string
	}{
		{"Fits", "PvM2", 10, "PvM2"},
		{"Exact", "CM0/1", 5, "CM0/1"},
		{"Cut", "Engineering", 5, "Engi…"},
		{"Zero", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitText(tt.text, tt.maxWidth)
			if got != tt.want {
				t.Errorf("FitText(%q, %d) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
			if MeasureText(got) > tt.maxWidth {
				t.Errorf("result %q wider than %d", got, tt.maxWidth)
			}
		})
	}
}

func TestCenterText(t *testing.T) {
	if got := CenterText("ab", 6); got != "  ab  " {
		t.Errorf("CenterText = %q", got)
	}
	if got := CenterText("abc", 6); got != " abc  " {
		t.Errorf("CenterText odd gap = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		want     []string
	}{
		{"Single line", "Hello world", 20, []string{"Hello world"}},
		{"Two lines", "Hello world", 7, []string{"Hello", "world"}},
		{"Long word", "Engineering", 4, []string{"Engi", "neer", "ing"}},
		{"Empty", "", 5, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.maxWidth)
			if len(got) != len(tt.want) {
				t.Fatalf("WrapText(%q, %d) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
