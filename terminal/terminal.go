// Package terminal runs the matrix editor in a full-screen terminal UI.
package terminal

import (
	"context"
	"log/slog"
	"time"

	"careermatrix/canvas"
	"careermatrix/core"
	"careermatrix/editor"
	"careermatrix/errs"
	"careermatrix/geometry"
	"careermatrix/logger"
	"careermatrix/matrix"
	"careermatrix/store"

	"github.com/gdamore/tcell/v2"
)

// DefaultResizeDebounce is how long the terminal waits after the last resize
// before measuring the table again.
const DefaultResizeDebounce = 75 * time.Millisecond

// Lines below the matrix: key hints and the status line.
const chromeLines = 2

// Options configures a Session.
type Options struct {
	ResizeDebounce time.Duration
	Layout         canvas.LayoutOptions

	// Watch, when set, delivers saves made by other editors of the same
	// template. See store.Remote.Watch.
	Watch  <-chan store.SaveEvent
	Logger *slog.Logger
}

// remeasure asks the event loop to lay the table out again.
type remeasure struct{}

// Session binds a MatrixEditor to a tcell screen.
type Session struct {
	screen   tcell.Screen
	ed       *editor.MatrixEditor
	resolver *geometry.Resolver
	resize   *geometry.Debouncer
	table    *canvas.Table
	layout   canvas.LayoutOptions
	watch    <-chan store.SaveEvent
	colors   map[string]tcell.Color
	log      *slog.Logger

	scrollX, scrollY int
	lastButtons      tcell.ButtonMask
	savePending      bool
	remoteRevision   int
}

// New creates a session editing tmpl on screen. Save results from the editor
// are routed back through the screen's event queue, so every editor call
// happens on the goroutine running Run.
func New(screen tcell.Screen, tmpl *matrix.Template, saver editor.Saver, edOpts editor.Options, opts Options) *Session {
	if opts.ResizeDebounce <= 0 {
		opts.ResizeDebounce = DefaultResizeDebounce
	}
	if opts.Layout == (canvas.LayoutOptions{}) {
		opts.Layout = canvas.DefaultLayoutOptions()
	}
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("terminal")
	}

	s := &Session{
		screen:   screen,
		resolver: geometry.NewResolver(),
		layout:   opts.Layout,
		watch:    opts.Watch,
		colors:   make(map[string]tcell.Color),
		log:      log,
	}
	s.resize = geometry.NewDebouncer(opts.ResizeDebounce, func() {
		s.post(remeasure{})
	})

	onSave := edOpts.OnSave
	edOpts.OnSave = func(res editor.SaveResult) {
		if onSave != nil {
			onSave(res)
		}
		s.post(res)
	}
	s.ed = editor.New(tmpl, saver, edOpts)
	s.ed.SetArrowHeadLength(1)
	return s
}

// Editor returns the editor driven by the session.
func (s *Session) Editor() *editor.MatrixEditor { return s.ed }

// Resolver returns the cell geometry of the last layout, in screen
// coordinates.
func (s *Session) Resolver() *geometry.Resolver { return s.resolver }

func (s *Session) post(data any) {
	if err := s.screen.PostEvent(tcell.NewEventInterrupt(data)); err != nil {
		s.log.Warn("event queue full, dropped event", "error", err)
	}
}

// Run initializes the screen and processes events until the user quits or
// ctx is cancelled. In-flight saves finish before Run returns.
func (s *Session) Run(ctx context.Context) error {
	const op errs.Op = "terminal.Run"
	if err := s.screen.Init(); err != nil {
		return errs.E(op, errs.KindInvalidState, err)
	}
	defer s.screen.Fini()
	s.screen.EnableMouse()
	s.screen.Clear()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.post(ctx.Err())
		case <-done:
		}
	}()
	if s.watch != nil {
		go s.forward(done)
	}

	s.log.Info("editor started", "template", s.ed.TemplateID())
	s.measure()
	for {
		s.draw()
		s.screen.Show()

		if quit := s.handle(ctx, s.screen.PollEvent()); quit {
			break
		}
	}

	s.resize.Stop()
	s.ed.Wait()
	s.log.Info("editor stopped", "template", s.ed.TemplateID(), "unsaved", s.ed.HasUnsavedChanges())
	return nil
}

// forward relays remote save notifications into the event loop.
func (s *Session) forward(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev, ok := <-s.watch:
			if !ok {
				return
			}
			s.post(ev)
		}
	}
}

// handle applies one event and reports whether the loop should stop.
func (s *Session) handle(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case nil:
		return true

	case *tcell.EventResize:
		s.screen.Sync()
		s.resize.Trigger()

	case *tcell.EventKey:
		k, ok := translateKey(ev)
		if !ok {
			return false
		}
		if s.ed.HandleKey(k) {
			return true
		}
		if s.ed.GetSaveRequest() {
			s.save(ctx)
		}
		s.measure()

	case *tcell.EventMouse:
		s.handleMouse(ev)

	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case remeasure:
			s.measure()
		case editor.SaveResult:
			s.savePending = false
			s.ed.ApplySaveResult(data)
		case store.SaveEvent:
			if data.TemplateID == s.ed.TemplateID() && data.Revision > s.remoteRevision {
				s.remoteRevision = data.Revision
			}
		case error:
			return true
		}
	}
	return false
}

func (s *Session) save(ctx context.Context) {
	s.savePending = true
	s.ed.Save(ctx)
}

// handleMouse turns a primary button press into a cell click. Wheel events
// scroll the viewport.
func (s *Session) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && s.lastButtons&tcell.Button1 == 0
	s.lastButtons = buttons

	switch {
	case buttons&tcell.WheelUp != 0:
		s.scroll(0, -1)
	case buttons&tcell.WheelDown != 0:
		s.scroll(0, 1)
	case buttons&tcell.WheelLeft != 0:
		s.scroll(-1, 0)
	case buttons&tcell.WheelRight != 0:
		s.scroll(1, 0)
	case pressed:
		coord, ok := s.resolver.CellAt(core.Point{X: float64(x), Y: float64(y)})
		if !ok {
			return
		}
		if err := s.ed.Click(coord.Row, coord.Col); err != nil {
			if errs.UserVisible(err) {
				s.ed.SetStatus(err.Error())
			} else {
				s.log.Debug("click rejected", "cell", coord.String(), "error", err)
			}
		}
		s.measure()
	}
}

// measure lays the table out for the current contents, keeps the cursor
// cell in view and publishes the cell rectangles to the resolver.
func (s *Session) measure() {
	s.table = canvas.Layout(s.ed.Axes(), s.ed.Snapshot().Cells, s.layout)
	s.resolver.Update(s.table.Rects())
	s.follow(s.ed.Cursor())
}

// viewport returns the screen area available to the table.
func (s *Session) viewport() (w, h int) {
	w, h = s.screen.Size()
	return max(1, w), max(1, h-chromeLines)
}

// follow scrolls so that the border of the given cell is visible.
func (s *Session) follow(c core.Coord) {
	rect, ok := s.table.Rect(c.Row, c.Col)
	if !ok {
		s.clampScroll()
		return
	}
	vw, vh := s.viewport()
	x0, y0 := int(rect.X)-1, int(rect.Y)-1
	x1, y1 := int(rect.X+rect.W), int(rect.Y+rect.H)

	if x0 < s.scrollX {
		s.scrollX = x0
	} else if x1 >= s.scrollX+vw {
		s.scrollX = x1 - vw + 1
	}
	if y0 < s.scrollY {
		s.scrollY = y0
	} else if y1 >= s.scrollY+vh {
		s.scrollY = y1 - vh + 1
	}
	s.clampScroll()
}

func (s *Session) scroll(dx, dy int) {
	s.scrollX += dx
	s.scrollY += dy
	s.clampScroll()
}

func (s *Session) clampScroll() {
	vw, vh := s.viewport()
	s.scrollX = max(0, min(s.scrollX, s.table.Width-vw))
	s.scrollY = max(0, min(s.scrollY, s.table.Height-vh))
	s.resolver.Offset(float64(-s.scrollX), float64(-s.scrollY))
}

// scene collects what the editor wants drawn this frame.
func (s *Session) scene() canvas.Scene {
	cursor := s.ed.Cursor()
	sc := canvas.Scene{
		Axes:          s.ed.Axes(),
		Cells:         s.ed.Snapshot().Cells,
		Paths:         s.ed.Paths(s.resolver.Raw()),
		CornerLabel:   s.ed.Info().Name,
		Cursor:        &cursor,
		SelectedArrow: s.ed.SelectedArrow(),
	}
	if c, ok := s.ed.PendingSource(); ok {
		sc.Pending = &c
	}
	if c, ok := s.ed.Editing(); ok {
		sc.Editing = &c
		sc.EditText = s.ed.TextBuffer()
		sc.EditCursor = s.ed.TextCursor()
		sc.Cursor = nil
	}
	return sc
}
