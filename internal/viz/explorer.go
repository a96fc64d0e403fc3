package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/fraczoom/internal/animation"
	"github.com/san-kum/fraczoom/internal/fractal"
	"github.com/san-kum/fraczoom/internal/render"
)

const (
	statusLines  = 2
	tickInterval = time.Second / 20
)

// RecordFunc exports an animation from the session's current view. It
// reports progress after every frame and stops between frames once ctx
// is canceled.
type RecordFunc func(ctx context.Context, progress func(done, total int)) (animation.Result, error)

// Options configures an Explorer.
type Options[V fractal.View[V]] struct {
	Renderer      render.Renderer[V]
	Session       *animation.Session[V]
	Navigator     Navigator[V]
	MaxIterations int
	// CycleRate is the palette offset advanced per second while color
	// cycling is on.
	CycleRate float64
	Record    RecordFunc
	Canvas    *Canvas
}

type frameMsg struct {
	gen     int
	buf     *fractal.PixelBuffer
	elapsed time.Duration
	err     error
}

type tickMsg time.Time

type recordDoneMsg struct {
	res animation.Result
	err error
}

type recording struct {
	cancel      context.CancelFunc
	done, total atomic.Int64
	canceling   bool
}

// Explorer is the interactive bubbletea model. Navigation goes through
// the session; while a recording runs the session belongs to the
// animation driver and navigation keys are ignored.
type Explorer[V fractal.View[V]] struct {
	opts         Options[V]
	canvas       *Canvas
	cols, rows   int
	showOverlay  bool
	cycling      bool
	ticking      bool
	cycleStart   time.Time
	offset       float64
	gen          int
	cancelRender context.CancelFunc
	lastRender   time.Duration
	status       string
	err          error
	rec          *recording
	spin         int
}

func NewExplorer[V fractal.View[V]](opts Options[V]) Explorer[V] {
	canvas := opts.Canvas
	if canvas == nil {
		canvas = NewCanvas()
	}
	return Explorer[V]{
		opts:        opts,
		canvas:      canvas,
		cols:        80,
		rows:        24 - statusLines,
		showOverlay: true,
	}
}

// Run starts the full screen program with mouse support for wheel zoom.
func (m Explorer[V]) Run() error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

func (m Explorer[V]) Init() tea.Cmd {
	return m.renderCmd(context.Background(), m.gen)
}

func (m Explorer[V]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = max(msg.Height-statusLines, 1)
		cmd := m.requestRender()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case tea.MouseMsg:
		if m.rec != nil {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			w, h := PixelSize(m.cols, m.rows)
			px, py := CellToPixel(msg.X, msg.Y)
			zoomIn := msg.Button == tea.MouseButtonWheelUp
			return m.apply(func(v V) (V, error) {
				return m.opts.Navigator.Wheel(v, px, py, w, h, zoomIn)
			})
		}
		return m, nil

	case frameMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			if !errors.Is(msg.err, context.Canceled) {
				m.err = msg.err
			}
			return m, nil
		}
		m.err = nil
		m.lastRender = msg.elapsed
		m.canvas.Present(msg.buf)
		return m, nil

	case tickMsg:
		m.ticking = false
		if m.rec != nil {
			m.spin++
		}
		var cmds []tea.Cmd
		if m.cycling && m.rec == nil {
			m.offset = time.Since(m.cycleStart).Seconds() * m.opts.CycleRate
			cmds = append(cmds, m.requestRender())
		}
		if m.cycling || m.rec != nil {
			cmds = append(cmds, m.tick())
		}
		return m, tea.Batch(cmds...)

	case recordDoneMsg:
		m.rec = nil
		switch {
		case msg.err == nil:
			m.status = fmt.Sprintf("recorded %d frames in %v", msg.res.Frames, msg.res.Elapsed.Round(time.Millisecond))
		case errors.Is(msg.err, fractal.ErrCanceled):
			m.status = fmt.Sprintf("recording canceled after %d frames", msg.res.Frames)
		default:
			m.status = ""
			m.err = msg.err
		}
		cmd := m.requestRender()
		return m, cmd
	}
	return m, nil
}

func (m Explorer[V]) handleKey(key string) (tea.Model, tea.Cmd) {
	if key == "q" || key == "ctrl+c" {
		if m.rec != nil {
			m.rec.cancel()
		}
		if m.cancelRender != nil {
			m.cancelRender()
		}
		return m, tea.Quit
	}

	if m.rec != nil {
		if key == "esc" && !m.rec.canceling {
			m.rec.canceling = true
			m.rec.cancel()
		}
		return m, nil
	}

	switch key {
	case "t":
		m.showOverlay = !m.showOverlay
		return m, nil
	case "tab":
		NextTheme()
		return m, nil
	case "c":
		m.cycling = !m.cycling
		if !m.cycling {
			m.offset = 0
			cmd := m.requestRender()
			return m, cmd
		}
		m.cycleStart = time.Now()
		cmd := m.tick()
		return m, cmd
	case "r":
		return m.startRecording()
	}

	nav := m.opts.Navigator
	var handled bool
	next, cmd := m.apply(func(v V) (V, error) {
		n, ok, err := nav.Key(v, key)
		handled = ok
		return n, err
	})
	if !handled {
		return m, nil
	}
	return next, cmd
}

// apply moves the camera and schedules a render. A rejected move leaves
// the camera unchanged and shows the error.
func (m Explorer[V]) apply(op func(V) (V, error)) (Explorer[V], tea.Cmd) {
	before := m.opts.Session.View()
	after, err := m.opts.Session.Apply(op)
	if err != nil {
		m.err = err
		return m, nil
	}
	if any(after) == any(before) {
		return m, nil
	}
	m.err = nil
	m.status = ""
	cmd := m.requestRender()
	return m, cmd
}

func (m Explorer[V]) startRecording() (tea.Model, tea.Cmd) {
	if m.opts.Record == nil {
		m.status = "recording not configured"
		return m, nil
	}
	if m.cancelRender != nil {
		m.cancelRender()
	}

	ctx, cancel := context.WithCancel(context.Background())
	rec := &recording{cancel: cancel}
	m.rec = rec
	m.status = ""
	m.err = nil

	run := m.opts.Record
	record := func() tea.Msg {
		defer cancel()
		res, err := run(ctx, func(done, total int) {
			rec.done.Store(int64(done))
			rec.total.Store(int64(total))
		})
		return recordDoneMsg{res: res, err: err}
	}
	cmd := m.tick()
	return m, tea.Batch(record, cmd)
}

// requestRender supersedes any render in flight.
func (m *Explorer[V]) requestRender() tea.Cmd {
	if m.cancelRender != nil {
		m.cancelRender()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelRender = cancel
	m.gen++
	return m.renderCmd(ctx, m.gen)
}

func (m Explorer[V]) renderCmd(ctx context.Context, gen int) tea.Cmd {
	view := m.opts.Session.View()
	w, h := PixelSize(m.cols, m.rows)
	opts := render.Options{
		Width:         w,
		Height:        h,
		MaxIterations: m.opts.MaxIterations,
		TimeOffset:    m.offset,
	}
	renderer := m.opts.Renderer
	return func() tea.Msg {
		start := time.Now()
		buf, err := renderer.Render(ctx, view, opts)
		return frameMsg{gen: gen, buf: buf, elapsed: time.Since(start), err: err}
	}
}

// tick keeps at most one tick pending.
func (m *Explorer[V]) tick() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Explorer[V]) View() string {
	var sb strings.Builder
	sb.WriteString(m.canvas.String())
	sb.WriteString("\n")

	if m.showOverlay {
		sb.WriteString(overlayStyle().Render(m.opts.Navigator.Overlay(m.opts.Session.View())))
	}
	sb.WriteString("\n")
	sb.WriteString(m.statusLine())
	return sb.String()
}

func (m Explorer[V]) statusLine() string {
	if m.rec != nil {
		done, total := m.rec.done.Load(), m.rec.total.Load()
		pct := 0.0
		if total > 0 {
			pct = float64(done) / float64(total)
		}
		label := "esc cancel"
		if m.rec.canceling {
			label = "canceling"
		}
		return fmt.Sprintf("%s %s %s %d/%d  %s",
			StatusRecording.Render("● REC"), AnimatedSpinner(m.spin), ProgressBar(pct, 30), done, total, KeyHint.Render(label))
	}

	if m.err != nil {
		return errorStyle().Render(m.err.Error())
	}

	parts := []string{KeyHint.Render(m.opts.Navigator.Help() + "  t overlay  c cycle  r record  tab theme  q quit")}
	if m.cycling {
		parts = append(parts, StatusRunning.Render("cycling"))
	}
	if m.status != "" {
		parts = append(parts, StatusRunning.Render(m.status))
	}
	if m.lastRender > 0 {
		parts = append(parts, Subtle.Render(m.lastRender.Round(time.Millisecond).String()))
	}
	return strings.Join(parts, "  ")
}
