// Package display provides the terminal recipe browser using Bubble Tea.
//
// The [Browser] shows a query prompt over the list of matching recipes.
// Enter opens a recipe with a checklist of its numbered steps; ctrl+e
// exports the recipe under the cursor.
package display

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/recipebook/internal/catalog"
	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/engine"
	"github.com/hammamikhairi/recipebook/internal/export"
	"github.com/hammamikhairi/recipebook/internal/logger"
	"github.com/hammamikhairi/recipebook/internal/query"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	// BannerStyle is muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#bae6fd"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fde68a"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Strikethrough(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))
)

// ── Browser ──────────────────────────────────────────────────────

// Option configures the browser.
type Option func(*Browser)

// WithExport sets where ctrl+e writes recipes and in which format.
func WithExport(dir string, f export.Format) Option {
	return func(b *Browser) {
		b.exportDir = dir
		b.exportFormat = f
	}
}

// Browser is the interactive recipe browser. Call [NewBrowser] then
// [Browser.Run] (blocking). [Browser.NotifyReload] may be called from any
// goroutine.
type Browser struct {
	recipes      domain.RecipeSource
	engine       *engine.Engine
	parser       *query.Parser
	log          *logger.Logger
	exportDir    string
	exportFormat export.Format

	program *tea.Program
	done    atomic.Bool
}

// NewBrowser creates the browser. Call Run() to start.
func NewBrowser(recipes domain.RecipeSource, eng *engine.Engine, parser *query.Parser, log *logger.Logger, opts ...Option) *Browser {
	if log == nil {
		log = logger.New(logger.LevelOff, nil)
	}
	b := &Browser{
		recipes:      recipes,
		engine:       eng,
		parser:       parser,
		log:          log,
		exportDir:    ".",
		exportFormat: export.FormatText,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run starts the Bubble Tea event loop. Blocks until the user quits or
// ctx is cancelled.
func (b *Browser) Run(ctx context.Context) error {
	b.program = tea.NewProgram(b.newModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := b.program.Run()
	b.done.Store(true)
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// NotifyReload tells a running browser that the catalog changed. Its
// signature matches catalog.Store.OnReload.
func (b *Browser) NotifyReload(cat *catalog.Catalog, err error) {
	if b.program == nil || b.done.Load() {
		return
	}
	msg := reloadMsg{err: err}
	if cat != nil {
		msg.count = cat.Len()
	}
	b.program.Send(msg)
}

func (b *Browser) newModel() model {
	ti := textinput.New()
	// Plain-text prompt keeps the textinput width math correct.
	ti.Prompt = "search> "
	ti.PromptStyle = promptStyle
	ti.Placeholder = "name  ing:flour  unit:cup  qty:<=2  time:30"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	m := model{b: b, input: ti, step: -1}
	m.search()
	return m
}

func (b *Browser) exportCmd(r domain.Recipe) tea.Cmd {
	return func() tea.Msg {
		doc := export.Prepare(r)
		path := filepath.Join(b.exportDir, export.FileName(doc, b.exportFormat))
		err := export.WriteFile(path, doc, b.exportFormat)
		if err != nil {
			b.log.Error("export %q: %v", r.Name, err)
		} else {
			b.log.Info("exported %q to %s", r.Name, path)
		}
		return exportedMsg{path: path, err: err}
	}
}

// ── Bubble Tea model ─────────────────────────────────────────────

type mode int

const (
	modeList mode = iota
	modeDetail
)

type model struct {
	b     *Browser
	input textinput.Model
	mode  mode

	filter  domain.Filter
	matches []domain.Match
	cursor  int

	recipe  *domain.Recipe
	session *domain.Session
	step    int

	status    string
	statusErr bool
	width     int
	height    int
}

// Messages.
type (
	reloadMsg struct {
		count int
		err   error
	}
	exportedMsg struct {
		path string
		err  error
	}
)

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.SetWindowTitle("recipebook"))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if promptLen := len(m.input.Prompt); msg.Width > promptLen+1 {
			m.input.Width = msg.Width - promptLen - 1
		}
		return m, nil

	case reloadMsg:
		if msg.err != nil {
			m.setError("reload failed: %v", msg.err)
			return m, nil
		}
		m.search()
		m.refreshRecipe()
		m.setStatus("catalog reloaded: %d recipes", msg.count)
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.setError("export failed: %v", msg.err)
		} else {
			m.setStatus("exported to %s", msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.mode == modeDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp, tea.KeyCtrlP:
		m.cursor = max(m.cursor-1, 0)
		return m, nil
	case tea.KeyDown, tea.KeyCtrlN:
		m.cursor = min(m.cursor+1, max(len(m.matches)-1, 0))
		return m, nil
	case tea.KeyEnter:
		m.open()
		return m, nil
	case tea.KeyCtrlE:
		if r := m.highlighted(); r != nil {
			return m, m.b.exportCmd(*r)
		}
		return m, nil
	case tea.KeyEsc:
		if m.input.Value() == "" {
			return m, tea.Quit
		}
		m.input.Reset()
		m.search()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.search()
	}
	return m, cmd
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	total := 0
	if m.session != nil {
		total = len(m.session.Steps)
	}

	switch msg.String() {
	case "esc", "q", "backspace":
		m.close()
	case "a":
		m.abandon()
	case "up", "k":
		m.step = max(m.step-1, 0)
	case "down", "j":
		m.step = min(m.step+1, max(total-1, 0))
	case " ", "x":
		if m.session == nil || total == 0 {
			break
		}
		s, err := m.b.engine.Toggle(ctx, m.session.ID, m.step)
		if err != nil {
			m.setError("%v", err)
			break
		}
		m.session = s
		m.announceProgress()
	case "n", "enter":
		if m.session == nil {
			break
		}
		idx, err := m.b.engine.Advance(ctx, m.session.ID)
		if errors.Is(err, domain.ErrNoMoreSteps) {
			m.setStatus("all steps done")
			break
		}
		if err != nil {
			m.setError("%v", err)
			break
		}
		m.step = min(idx+1, max(total-1, 0))
		m.reloadSession()
		m.announceProgress()
	case "r":
		if m.session == nil {
			break
		}
		s, err := m.b.engine.Reset(ctx, m.session.ID)
		if err != nil {
			m.setError("%v", err)
			break
		}
		m.session = s
		m.step = 0
		m.setStatus("checklist reset")
	case "ctrl+e":
		if m.recipe != nil {
			return m, m.b.exportCmd(*m.recipe)
		}
	}
	return m, nil
}

// search runs the current query line against the recipe source.
func (m *model) search() {
	m.filter = m.b.parser.Parse(m.input.Value())
	matches, err := m.b.recipes.Search(context.Background(), m.filter)
	if err != nil {
		m.setError("search: %v", err)
		return
	}
	m.matches = matches
	m.cursor = min(m.cursor, max(len(matches)-1, 0))
}

func (m model) highlighted() *domain.Recipe {
	if m.cursor < 0 || m.cursor >= len(m.matches) {
		return nil
	}
	return m.matches[m.cursor].Recipe
}

func (m *model) open() {
	r := m.highlighted()
	if r == nil {
		return
	}
	session, resumed, err := m.b.engine.Resume(context.Background(), r.ID)
	if err != nil {
		m.setError("open %s: %v", r.Name, err)
		return
	}
	m.recipe, m.session = r, session
	m.mode = modeDetail
	m.status = ""
	m.step = max(firstOpen(session), 0)
	if resumed {
		m.setStatus("resumed: %d/%d steps done", session.Done(), len(session.Steps))
	}
}

// close leaves the detail view. The session stays active and is resumed
// the next time the recipe is opened.
func (m *model) close() {
	m.recipe, m.session, m.step = nil, nil, -1
	m.mode = modeList
	m.status = ""
}

// abandon drops the open checklist and leaves the detail view.
func (m *model) abandon() {
	if m.session != nil && m.session.Status == domain.SessionActive {
		if err := m.b.engine.Abandon(context.Background(), m.session.ID); err != nil {
			m.setError("%v", err)
			return
		}
	}
	m.close()
	m.setStatus("checklist abandoned")
}

func firstOpen(s *domain.Session) int {
	for i, st := range s.StepStates {
		if st.Status != domain.StepDone {
			return i
		}
	}
	return len(s.StepStates) - 1
}

func (m *model) reloadSession() {
	s, err := m.b.engine.Status(context.Background(), m.session.ID)
	if err != nil {
		m.setError("%v", err)
		return
	}
	m.session = s
}

// refreshRecipe swaps in the reloaded copy of the open recipe. The
// checklist keeps its state.
func (m *model) refreshRecipe() {
	if m.recipe == nil {
		return
	}
	r, err := m.b.recipes.Get(context.Background(), m.recipe.ID)
	if err != nil {
		m.close()
		return
	}
	m.recipe = r
}

func (m *model) announceProgress() {
	if m.session.Status == domain.SessionCompleted {
		m.setStatus("all %d steps done", len(m.session.Steps))
		return
	}
	m.setStatus("%d/%d steps done", m.session.Done(), len(m.session.Steps))
}

func (m *model) setStatus(format string, args ...any) {
	m.status, m.statusErr = fmt.Sprintf(format, args...), false
}

func (m *model) setError(format string, args ...any) {
	m.status, m.statusErr = fmt.Sprintf(format, args...), true
}

func (m model) View() string {
	var b strings.Builder
	if m.mode == modeDetail && m.recipe != nil {
		b.WriteString(RenderRecipe(m.recipe, m.session, m.step, m.width))
		b.WriteByte('\n')
		b.WriteString(m.renderStatus())
		b.WriteString(secondaryStyle.Render("  ↑/↓ move · space toggle · n next · r reset · a abandon · ctrl+e export · esc back"))
		return b.String()
	}

	if m.height == 0 || m.height > bannerLines+12 {
		b.WriteString(RenderBanner(m.width))
		b.WriteByte('\n')
	}
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderResults())
	b.WriteByte('\n')
	b.WriteString(m.renderStatus())
	b.WriteString(secondaryStyle.Render("  ↑/↓ move · enter open · ctrl+e export · esc clear/quit"))
	return b.String()
}

// renderResults shows the window of matches around the cursor that fits
// the terminal.
func (m model) renderResults() string {
	rows := len(m.matches)
	if m.height > 0 {
		used := 6
		if m.height > bannerLines+12 {
			used += bannerLines + 1
		}
		rows = max(m.height-used, 3)
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.matches))
	return RenderMatches(m.matches[start:end], m.cursor-start, m.filter.AtMost)
}

func (m model) renderStatus() string {
	summary := fmt.Sprintf(" %d recipes", len(m.matches))
	if q := query.Format(m.filter); q != "" {
		summary += " · " + q
	}
	if m.status != "" {
		style := primaryStyle
		if m.statusErr {
			style = urgentStyle
		}
		summary += " · " + style.Render(m.status)
	}
	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(summary) + "\n"
}
