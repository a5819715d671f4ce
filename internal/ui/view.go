package ui

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	clog "github.com/charmbracelet/log"

	"crossword/internal/puzzle"
	"crossword/internal/solve"
	"crossword/internal/term"
)

const flashDuration = 4 * time.Second

type applyMsg struct {
	fn func(*Root)
}

type clockMsg time.Time
type animateMsg time.Time

type gameKeyMap struct {
	Help    key.Binding
	Check   key.Binding
	Reveal  key.Binding
	Pause   key.Binding
	Restart key.Binding
	Theme   key.Binding
	Quit    key.Binding
}

func (k gameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Check, k.Reveal, k.Pause, k.Restart, k.Quit}
}

func (k gameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Check, k.Reveal, k.Pause}, {k.Restart, k.Theme, k.Help, k.Quit}}
}

var quitBinding = key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"))

// Root is the Bubble Tea model for the solver screen.
type Root struct {
	theme        Theme
	ascii        bool
	ctrl         Controller
	styleVariant string
	motionLevel  string
	mouseScope   string

	mu      sync.Mutex
	program *tea.Program
	running bool
	calls   *callQueue

	layout LayoutMode
	cols   int
	rows   int

	ix       *puzzle.Index
	board    solve.View
	hasBoard bool

	checkOpen      bool
	revealOpen     bool
	restartOpen    bool
	completionOpen bool
	menuIndex      int
	restartIndex   int

	statusFlash string
	flashUntil  time.Time

	help       help.Model
	keymap     gameKeyMap
	fill       progress.Model
	checkSpin  spinner.Model
	markdown   *glamour.TermRenderer
	mdCache    map[string][]string
	logger     *clog.Logger
	overlayPos float64
	overlayVel float64
	spring     harmonica.Spring

	grid     gridGeometry
	clueHits []clueHit

	lastInputEvent string
	now            func() time.Time
}

type Options struct {
	ASCIIOnly    bool
	Debug        bool
	StyleVariant string
	MotionLevel  string
	MouseScope   string
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "crossword-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(56),
	)
	if err != nil {
		renderer = nil
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	motionLevel := normalizeMotionLevel(opts.MotionLevel)
	styleVariant := normalizeStyleVariant(opts.StyleVariant)
	theme := ThemeForVariant(styleVariant)
	spring := harmonica.NewSpring(harmonica.FPS(60), 7.0, 0.55)
	if motionLevel == "reduced" {
		spring = harmonica.NewSpring(harmonica.FPS(30), 9.0, 0.92)
	}
	fill := progress.New(
		progress.WithWidth(16),
		progress.WithColors(lipgloss.Color("#FF6F91"), lipgloss.Color("#FFC857"), lipgloss.Color("#67F0A8")),
		progress.WithScaled(true),
	)
	checkSpin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Fail),
	)

	r := &Root{
		theme:        theme,
		ascii:        opts.ASCIIOnly,
		styleVariant: styleVariant,
		motionLevel:  motionLevel,
		mouseScope:   normalizeMouseScope(opts.MouseScope),
		calls:        newCallQueue(),
		layout:       LayoutWide,
		cols:         120,
		rows:         40,
		help:         h,
		fill:         fill,
		checkSpin:    checkSpin,
		markdown:     renderer,
		mdCache:      map[string][]string{},
		logger:       logger,
		spring:       spring,
		now:          time.Now,
	}
	r.keymap = gameKeyMap{
		Help:    key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "Help")),
		Check:   key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "Check")),
		Reveal:  key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "Reveal")),
		Pause:   key.NewBinding(key.WithKeys("f5"), key.WithHelp("F5", "Pause")),
		Restart: key.NewBinding(key.WithKeys("f6"), key.WithHelp("F6", "Restart")),
		Theme:   key.NewBinding(key.WithKeys("f8"), key.WithHelp("F8", "Theme")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("Ctrl+Q", "Quit")),
	}
	return r
}

func (r *Root) Init() tea.Cmd {
	return tea.Batch(clockTickCmd(), spinnerTickCmd(r.checkSpin))
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows, r.gridSize())
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, r.animateIfNeeded()
	case clockMsg:
		if r.statusFlash != "" && !r.now().Before(r.flashUntil) {
			r.statusFlash = ""
		}
		return r, clockTickCmd()
	case animateMsg:
		target := r.overlayTarget()
		r.overlayPos, r.overlayVel = r.spring.Update(r.overlayPos, r.overlayVel, target)
		if r.shouldAnimate(target) {
			return r, animateTickCmd()
		}
		r.overlayPos = target
		r.overlayVel = 0
		return r, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		r.checkSpin, cmd = r.checkSpin.Update(msg)
		return r, cmd
	case tea.PasteMsg:
		return r.handlePaste(msg)
	case tea.MouseClickMsg:
		return r.handleMouseClick(msg)
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			msg := "UI recovered from a rendering panic. Check logs."
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()

	if r.cols < 1 {
		r.cols = 120
	}
	if r.rows < 1 {
		r.rows = 40
	}

	base := r.renderPlaying()
	if overlay := r.renderOverlay(); overlay != "" {
		base = composeOverlay(base, overlay, r.cols, r.rows)
	}
	v := tea.NewView(base)
	v.AltScreen = true
	v.MouseMode = r.currentMouseMode()
	return v
}

// Run blocks until the program exits. Controller calls made while it runs
// are delivered in order on a dedicated goroutine.
func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	done := make(chan struct{})
	drained := make(chan struct{})
	go func() {
		r.calls.run(done)
		close(drained)
	}()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	close(done)
	<-drained
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

func (r *Root) SetPuzzle(ix *puzzle.Index) {
	r.apply(func(r *Root) {
		r.ix = ix
		r.board = solve.View{State: solve.NewState(ix)}
		r.hasBoard = false
		r.layout = DetermineLayoutMode(r.cols, r.rows, r.gridSize())
	})
}

// SetBoard shows a session view. Views may arrive out of order from
// different goroutines; anything older than the current one is dropped.
func (r *Root) SetBoard(v solve.View) {
	r.apply(func(r *Root) {
		if v.State == nil {
			return
		}
		if r.hasBoard && v.Seq < r.board.Seq {
			return
		}
		wasComplete := r.hasBoard && r.board.IsComplete
		r.board = v
		r.hasBoard = true

		switch {
		case !v.IsComplete:
			r.completionOpen = false
		case !wasComplete:
			r.checkOpen = false
			r.revealOpen = false
			r.completionOpen = true
			r.overlayPos, r.overlayVel = 0, 0
			if r.motionLevel == "off" {
				r.overlayPos = 1
			}
		}
	})
}

func (r *Root) SetStyleVariant(variant string) {
	r.apply(func(r *Root) {
		r.setStyle(variant)
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(r *Root) {
		r.statusFlash = msg
		r.flashUntil = r.now().Add(flashDuration)
	})
}

func (r *Root) setStyle(variant string) {
	r.styleVariant = normalizeStyleVariant(variant)
	r.theme = ThemeForVariant(r.styleVariant)
	r.checkSpin.Style = r.theme.Fail
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	r.mu.Lock()
	running := r.running
	r.mu.Unlock()
	if !running {
		fn(ctrl)
		return
	}
	r.calls.push(func() { fn(ctrl) })
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if key.Matches(msg, quitBinding) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}
	if r.ix == nil {
		return r, nil
	}
	if r.overlayActive() {
		return r.handleOverlayKey(msg)
	}

	switch {
	case key.Matches(msg, r.keymap.Help):
		r.help.ShowAll = !r.help.ShowAll
		return r, nil
	case key.Matches(msg, r.keymap.Check):
		r.checkOpen = true
		r.menuIndex = 0
		return r, nil
	case key.Matches(msg, r.keymap.Reveal):
		r.revealOpen = true
		r.menuIndex = 0
		return r, nil
	case key.Matches(msg, r.keymap.Pause):
		r.dispatchController(func(c Controller) { c.OnTogglePause() })
		return r, nil
	case key.Matches(msg, r.keymap.Restart):
		r.restartOpen = true
		r.restartIndex = 0
		return r, nil
	case key.Matches(msg, r.keymap.Theme):
		r.cycleStyle()
		return r, nil
	}

	k, shift, ok := term.KeyIdentifier(msg)
	if !ok {
		return r, nil
	}
	r.dispatchController(func(c Controller) { c.OnKey(k, shift) })
	return r, nil
}

func (r *Root) handlePaste(msg tea.PasteMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("paste:%d", len(msg.Content)))

	if r.ix == nil || r.overlayActive() {
		return r, nil
	}
	text, ok := term.PasteText(msg.Content)
	if !ok {
		return r, nil
	}
	r.dispatchController(func(c Controller) { c.OnText(text) })
	return r, nil
}

func (r *Root) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	m := msg.Mouse()
	r.recordInputEvent(fmt.Sprintf("mouse_click:%d,%d button:%v", m.X, m.Y, m.Button))

	if r.mouseScope == "off" || m.Button != tea.MouseLeft || r.ix == nil {
		return r, nil
	}
	if r.overlayActive() {
		return r.handleOverlayMouseClick(m.X, m.Y)
	}
	if row, col, ok := r.grid.cellAt(m.X, m.Y); ok {
		r.dispatchController(func(c Controller) { c.OnCellClick(row, col) })
		return r, nil
	}
	if r.mouseScope != "full" {
		return r, nil
	}
	for _, hit := range r.clueHits {
		if m.Y == hit.y && m.X >= hit.x0 && m.X < hit.x1 {
			id := hit.id
			r.dispatchController(func(c Controller) { c.OnClueClick(id.Number, id.Direction) })
			break
		}
	}
	return r, nil
}

func (r *Root) cycleStyle() {
	next := StyleVariants[0]
	for i, v := range StyleVariants {
		if v == r.styleVariant {
			next = StyleVariants[wrapIndex(i+1, len(StyleVariants))]
			break
		}
	}
	r.setStyle(next)
	r.dispatchController(func(c Controller) { c.OnStyleChanged(next) })
}

func (r *Root) gridSize() GridSize {
	if r.ix == nil {
		return GridSize{}
	}
	g := r.ix.Grid()
	return GridSize{Rows: g.Rows, Cols: g.Cols}
}

func (r *Root) overlayTarget() float64 {
	if r.completionOpen {
		return 1
	}
	return 0
}

func (r *Root) animateIfNeeded() tea.Cmd {
	if r.shouldAnimate(r.overlayTarget()) {
		return animateTickCmd()
	}
	return nil
}

func (r *Root) shouldAnimate(target float64) bool {
	if r.motionLevel == "off" {
		return false
	}
	if target > 0 {
		return r.overlayPos < 0.999 || abs(r.overlayVel) > 0.001
	}
	return r.overlayPos > 0.001 || abs(r.overlayVel) > 0.001
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}

func (r *Root) currentMouseMode() tea.MouseMode {
	if r.mouseScope == "off" {
		return tea.MouseModeNone
	}
	return tea.MouseModeCellMotion
}

func normalizeStyleVariant(v string) string {
	v = strings.TrimSpace(v)
	for _, known := range StyleVariants {
		if v == known {
			return v
		}
	}
	return StyleValentine
}

func normalizeMotionLevel(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "reduced", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

// normalizeMouseScope: "scoped" takes grid clicks only, "full" adds the
// clue list.
func normalizeMouseScope(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "scoped", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}

	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered",
		"where", where,
		"panic", fmt.Sprintf("%v", recovered),
		"message_type", msgType,
		"layout", r.layout,
		"cols", r.cols,
		"rows", r.rows,
		"overlay", r.topOverlay(),
		"last_input", r.lastInputEvent,
		"stack", string(debug.Stack()),
	)
}

// callQueue runs controller calls in push order without ever blocking the
// pusher, so the update loop cannot stall behind a controller that is
// itself waiting to send a message to the program.
type callQueue struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

func newCallQueue() *callQueue {
	return &callQueue{wake: make(chan struct{}, 1)}
}

func (q *callQueue) push(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *callQueue) run(done <-chan struct{}) {
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()
		for _, fn := range batch {
			fn()
		}
		if len(batch) > 0 {
			continue
		}
		select {
		case <-done:
			return
		case <-q.wake:
		}
	}
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
