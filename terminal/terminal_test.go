package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"careermatrix/core"
	"careermatrix/editor"
	"careermatrix/matrix"
	"careermatrix/store"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"
)

func testTemplate() *matrix.Template {
	return matrix.NewTemplate(matrix.TemplateInfo{ID: "t1", Name: "Ops"}, matrix.Axes{
		Positions: []string{"Engineer I", "Engineer II"},
		Levels:    []string{"L1", "L2", "L3"},
	})
}

func newTestSession(t *testing.T, w, h int) (*Session, tcell.SimulationScreen, *store.Memory) {
	t.Helper()
	scr := tcell.NewSimulationScreen("UTF-8")
	if err := scr.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(scr.Fini)
	scr.SetSize(w, h)

	tmpl := testTemplate()
	mem := store.NewMemory(tmpl)
	s := New(scr, tmpl, mem, editor.Options{}, Options{ResizeDebounce: time.Millisecond})
	s.measure()
	return s, scr, mem
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

// click presses and releases the primary button over a cell.
func click(t *testing.T, s *Session, row, col int) {
	t.Helper()
	rect, ok := s.Resolver().Position(row, col)
	if !ok {
		t.Fatalf("cell (%d,%d) not measured", row, col)
	}
	c := rect.Center()
	s.handle(context.Background(), tcell.NewEventMouse(int(c.X), int(c.Y), tcell.Button1, tcell.ModNone))
	s.handle(context.Background(), tcell.NewEventMouse(int(c.X), int(c.Y), tcell.ButtonNone, tcell.ModNone))
}

// waitFor polls the screen until an interrupt carrying a T arrives.
func waitFor[T any](t *testing.T, scr tcell.Screen) *tcell.EventInterrupt {
	t.Helper()
	deadline := time.After(2 * time.Second)
	events := make(chan tcell.Event)
	go func() {
		for {
			ev := scr.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
			if ie, ok := ev.(*tcell.EventInterrupt); ok {
				if _, ok := ie.Data().(T); ok {
					return
				}
			}
		}
	}()
	for {
		select {
		case ev := <-events:
			if ie, ok := ev.(*tcell.EventInterrupt); ok {
				if _, ok := ie.Data().(T); ok {
					return ie
				}
			}
		case <-deadline:
			t.Fatal("timed out waiting for event")
			return nil
		}
	}
}

func screenText(scr tcell.SimulationScreen) string {
	cells, w, h := scr.GetContents()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if r := cells[y*w+x].Runes; len(r) > 0 {
				sb.WriteRune(r[0])
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want editor.KeyEvent
		ok   bool
	}{
		{"rune", runeKey('x'), editor.Rune('x'), true},
		{"enter", key(tcell.KeyEnter), editor.Rune(13), true},
		{"escape", key(tcell.KeyEscape), editor.Rune(27), true},
		{"backspace", key(tcell.KeyBackspace2), editor.Rune(127), true},
		{"ctrl+z", key(tcell.KeyCtrlZ), editor.Rune(26), true},
		{"ctrl+s", key(tcell.KeyCtrlS), editor.Rune(19), true},
		{"up", key(tcell.KeyUp), editor.Special(editor.KeyArrowUp), true},
		{"tab", key(tcell.KeyTab), editor.Special(editor.KeyTab), true},
		{"delete", key(tcell.KeyDelete), editor.Special(editor.KeyDelete), true},
		{"f1", key(tcell.KeyF1), editor.KeyEvent{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translateKey(tt.ev)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestSessionEditAndSave(t *testing.T) {
	s, scr, mem := newTestSession(t, 100, 30)
	ctx := context.Background()

	s.handle(ctx, key(tcell.KeyEnter)) // open (0,0)
	for _, r := range "Hi" {
		s.handle(ctx, runeKey(r))
	}
	s.handle(ctx, key(tcell.KeyEnter)) // commit
	if got := s.Editor().GetCell(0, 0).Text; got != "Hi" {
		t.Fatalf("cell text = %q", got)
	}
	if !s.Editor().HasUnsavedChanges() {
		t.Error("edit should mark the template dirty")
	}

	s.handle(ctx, runeKey('s'))
	s.Editor().Wait()
	ev := waitFor[editor.SaveResult](t, scr)
	s.handle(ctx, ev)

	if s.Editor().HasUnsavedChanges() {
		t.Error("save result should clear the dirty flag")
	}
	stored, err := mem.Load(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Revision != 1 || stored.Snapshot.Cells[core.Coord{Row: 0, Col: 0}].Text != "Hi" {
		t.Errorf("stored = rev %d cells %v", stored.Revision, stored.Snapshot.Cells)
	}
	if !strings.Contains(s.statusText(), "saved (revision 1)") {
		t.Errorf("status = %q", s.statusText())
	}
}

func TestSessionMouseDrawsArrow(t *testing.T) {
	s, _, _ := newTestSession(t, 100, 30)
	ctx := context.Background()

	s.handle(ctx, runeKey('a'))
	click(t, s, 0, 0)
	if s.Editor().Mode() != editor.ModeArrowSourcePending {
		t.Fatalf("mode = %v after picking a source", s.Editor().Mode())
	}
	click(t, s, 1, 2)

	arrows := s.Editor().Arrows()
	if len(arrows) != 1 {
		t.Fatalf("got %d arrows", len(arrows))
	}
	want := [2]core.Coord{{Row: 0, Col: 0}, {Row: 1, Col: 2}}
	if got := [2]core.Coord{arrows[0].From, arrows[0].To}; got != want {
		t.Errorf("arrow = %v, want %v", got, want)
	}
}

func TestSessionHeldButtonClicksOnce(t *testing.T) {
	s, _, _ := newTestSession(t, 100, 30)
	ctx := context.Background()

	s.handle(ctx, runeKey('a'))
	rect, _ := s.Resolver().Position(0, 0)
	c := rect.Center()
	// A drag reports the button on every motion event.
	for i := 0; i < 3; i++ {
		s.handle(ctx, tcell.NewEventMouse(int(c.X), int(c.Y), tcell.Button1, tcell.ModNone))
	}
	if s.Editor().Mode() != editor.ModeArrowSourcePending {
		t.Errorf("mode = %v, want the source still pending", s.Editor().Mode())
	}
}

func TestSessionDraw(t *testing.T) {
	s, scr, _ := newTestSession(t, 100, 30)
	ctx := context.Background()

	s.handle(ctx, key(tcell.KeyEnter))
	for _, r := range "PvM" {
		s.handle(ctx, runeKey(r))
	}
	s.draw()
	scr.Show()

	text := screenText(scr)
	for _, want := range []string{"Engineer II", "L3", "PvM", "EDIT", "undo 1/1"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen lacks %q:\n%s", want, text)
		}
	}
	if _, _, visible := scr.GetCursor(); !visible {
		t.Error("text cursor should be visible while editing")
	}

	s.handle(ctx, key(tcell.KeyEscape))
	s.draw()
	scr.Show()
	if _, _, visible := scr.GetCursor(); visible {
		t.Error("text cursor should be hidden after editing")
	}
}

func TestSessionFollowsCursor(t *testing.T) {
	s, _, _ := newTestSession(t, 30, 12)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		s.handle(ctx, key(tcell.KeyRight))
		s.handle(ctx, key(tcell.KeyDown))
	}
	if s.scrollX == 0 || s.scrollY == 0 {
		t.Fatalf("scroll = (%d,%d), want both positive", s.scrollX, s.scrollY)
	}

	rect, ok := s.Resolver().Position(1, 2)
	if !ok {
		t.Fatal("cursor cell not measured")
	}
	vw, vh := s.viewport()
	if rect.X < 0 || rect.X+rect.W > float64(vw) || rect.Y < 0 || rect.Y+rect.H > float64(vh) {
		t.Errorf("cursor cell %+v outside %dx%d viewport", rect, vw, vh)
	}
	if got, ok := s.Resolver().CellAt(rect.Center()); !ok || got != (core.Coord{Row: 1, Col: 2}) {
		t.Errorf("CellAt(center) = %v, %v", got, ok)
	}
}

func TestSessionResizeRemeasures(t *testing.T) {
	s, scr, _ := newTestSession(t, 100, 30)
	ctx := context.Background()
	gen := s.Resolver().Generation()

	scr.SetSize(60, 20)
	for i := 0; i < 3; i++ {
		s.handle(ctx, tcell.NewEventResize(60, 20))
	}
	ev := waitFor[remeasure](t, scr)
	s.handle(ctx, ev)

	if got := s.Resolver().Generation(); got != gen+1 {
		t.Errorf("generation = %d, want %d (one remeasure per burst)", got, gen+1)
	}
}

func TestSessionRemoteRevision(t *testing.T) {
	s, _, _ := newTestSession(t, 100, 30)
	ctx := context.Background()

	s.handle(ctx, tcell.NewEventInterrupt(store.SaveEvent{TemplateID: "other", Revision: 9}))
	if strings.Contains(s.statusText(), "elsewhere") {
		t.Error("events for other templates must be ignored")
	}

	s.handle(ctx, tcell.NewEventInterrupt(store.SaveEvent{TemplateID: "t1", Revision: 3}))
	if !strings.Contains(s.statusText(), "revision 3 saved elsewhere") {
		t.Errorf("status = %q", s.statusText())
	}
}

func TestSessionQuit(t *testing.T) {
	s, _, _ := newTestSession(t, 100, 30)
	if !s.handle(context.Background(), runeKey('q')) {
		t.Error("q should stop the loop")
	}
	if !s.handle(context.Background(), tcell.NewEventInterrupt(context.Canceled)) {
		t.Error("cancellation should stop the loop")
	}
}

func TestSessionHelpOverlay(t *testing.T) {
	s, scr, _ := newTestSession(t, 100, 40)
	ctx := context.Background()

	s.handle(ctx, runeKey('?'))
	s.draw()
	scr.Show()
	if text := screenText(scr); !strings.Contains(text, "KEYS") || !strings.Contains(text, "Toggle this help") {
		t.Errorf("help panel missing:\n%s", text)
	}

	s.handle(ctx, runeKey('?'))
	s.draw()
	scr.Show()
	if strings.Contains(screenText(scr), "Toggle this help") {
		t.Error("help panel should close")
	}
}

func TestSceneReadsResolverMeasurements(t *testing.T) {
	s, _, _ := newTestSession(t, 30, 12)
	ed := s.Editor()
	if err := ed.ToggleArrowMode(); err != nil {
		t.Fatal(err)
	}
	if err := ed.Click(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := ed.Click(1, 2); err != nil {
		t.Fatal(err)
	}
	s.measure()
	s.scroll(5, 5)

	// Paths stay in layout space while the viewport is scrolled.
	want, _ := s.table.Rect(0, 0)
	paths := s.scene().Paths
	if len(paths) != 1 || paths[0].Start != want.Center() {
		t.Fatalf("paths = %+v, want start %v", paths, want.Center())
	}

	moved := core.Rect{X: 40, Y: 20, W: 10, H: 4}
	dest, _ := s.table.Rect(1, 2)
	s.resolver.Update(map[core.Coord]core.Rect{{Row: 0, Col: 0}: moved, {Row: 1, Col: 2}: dest})
	paths = s.scene().Paths
	if len(paths) != 1 || paths[0].Start != moved.Center() {
		t.Errorf("paths should follow the resolver, got %+v", paths)
	}
}
