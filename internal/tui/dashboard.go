package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/livevote/internal/clipboard"
	"github.com/f3rmion/livevote/internal/summary"
	"github.com/f3rmion/livevote/internal/tui/bigchar"
	"github.com/f3rmion/livevote/internal/vote"
)

// Mode tells the dashboard which driver feeds it.
type Mode int

const (
	ModePoll Mode = iota
	ModeStream
)

// ChartKind selects the chart variant.
type ChartKind int

const (
	ChartDonut ChartKind = iota
	ChartBars
)

const (
	frameInterval = 50 * time.Millisecond
	easing        = 0.25 // Fraction of the remaining distance covered per frame
	snapDistance  = 0.01
)

// Animation and clipboard messages
type frameMsg struct{}

type clearCopiedMsg struct{}

type copyResultMsg struct {
	err error
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func clearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// Settings configures a dashboard.
type Settings struct {
	Title    string
	Subtitle string
	Mode     Mode
	Chart    ChartKind
	Source   string // Domain or relay URL shown in the status line

	// OnReset zeroes the streamed tally. It runs outside Update because
	// it notifies the program.
	OnReset func()
}

// Model is the Bubble Tea model for the vote dashboard.
type Model struct {
	options  []vote.Option
	settings Settings
	renderer *summary.Renderer

	tally   vote.Tally
	target  []float64
	shown   []float64
	animate bool

	lastUpdate time.Time
	lastErr    error
	now        func() time.Time

	chart   ChartKind
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	copied  bool
	copyErr error

	width  int
	height int
}

// New creates a dashboard for the options with an all-zero tally.
func New(options []vote.Option, s Settings) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(ColorSecondary)

	return Model{
		options:  options,
		settings: s,
		renderer: summary.NewRenderer(options, s.Title, s.Subtitle),
		tally:    vote.NewTally(options),
		target:   make([]float64, len(options)),
		shown:    make([]float64, len(options)),
		now:      time.Now,
		chart:    s.Chart,
		keys:     newKeyMap(s.Mode == ModeStream && s.OnReset != nil),
		help:     help.New(),
		spinner:  sp,
		width:    80,
		height:   24,
	}
}

// Tally returns the most recently delivered tally.
func (m Model) Tally() vote.Tally {
	return m.tally.Clone()
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			if m.chart == ChartDonut {
				m.chart = ChartBars
			} else {
				m.chart = ChartDonut
			}
			return m, nil
		case key.Matches(msg, m.keys.Reset):
			return m, resetCmd(m.settings.OnReset)
		case key.Matches(msg, m.keys.Copy):
			return m, m.copySummary()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case TallyMsg:
		return m, m.setTally(msg.Tally)

	case StatusMsg:
		m.lastErr = msg.Err
		if msg.Err == nil && !msg.At.IsZero() {
			m.lastUpdate = msg.At
		}
		return m, nil

	case frameMsg:
		if m.step() {
			return m, frameTick()
		}
		m.animate = false
		return m, nil

	case copyResultMsg:
		m.copyErr = msg.err
		m.copied = msg.err == nil
		return m, clearCopiedAfter(2 * time.Second)

	case clearCopiedMsg:
		m.copied = false
		m.copyErr = nil
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	return m, nil
}

// setTally stores a delivered tally and starts the animation toward it.
// Out of range counts keep the previous value.
func (m *Model) setTally(t vote.Tally) tea.Cmd {
	m.tally = vote.Sanitize(m.tally, t)
	m.lastUpdate = m.now()
	if m.settings.Mode == ModeStream {
		m.lastErr = nil
	}

	for i, o := range m.options {
		m.target[i] = float64(m.tally[o.ID])
	}
	if m.animate {
		return nil
	}
	m.animate = true
	return frameTick()
}

// step moves the shown values toward their targets and reports whether
// another frame is needed.
func (m *Model) step() bool {
	moving := false
	for i := range m.shown {
		next := m.shown[i] + (m.target[i]-m.shown[i])*easing
		if !vote.ValidFloat(next) {
			continue
		}
		if math.Abs(m.target[i]-next) < snapDistance {
			next = m.target[i]
		} else {
			moving = true
		}
		m.shown[i] = next
	}
	return moving
}

func resetCmd(fn func()) tea.Cmd {
	if fn == nil {
		return nil
	}
	return func() tea.Msg {
		fn()
		return nil
	}
}

func (m Model) copySummary() tea.Cmd {
	text, err := m.renderer.Render(m.tally, m.lastUpdate)
	return func() tea.Msg {
		if err != nil {
			return copyResultMsg{err: err}
		}
		return copyResultMsg{err: clipboard.Write(text)}
	}
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	if m.settings.Title != "" {
		b.WriteString(TitleStyle.Render(m.settings.Title))
		b.WriteString("\n")
	}
	if m.settings.Subtitle != "" {
		b.WriteString(SubtitleStyle.Render(m.settings.Subtitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.chart == ChartBars {
		b.WriteString(ChartBoxStyle.Render(renderBars(m.barRows(), m.width-8)))
	} else {
		b.WriteString(ChartBoxStyle.Render(m.donutView()))
	}
	b.WriteString("\n\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// percents rounds the animated shares for display.
func (m Model) percents() []int {
	total := 0.0
	for _, v := range m.shown {
		total += v
	}
	out := make([]int, len(m.shown))
	if total <= 0 {
		return out
	}
	for i, v := range m.shown {
		out[i] = int(math.Round(v / total * 100))
	}
	return out
}

func (m Model) leader() (int, bool) {
	id, ok := m.tally.Leader(m.options)
	if !ok {
		return 0, false
	}
	for i, o := range m.options {
		if o.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (m Model) barRows() []barRow {
	pct := m.percents()
	lead, hasLead := m.leader()
	rows := make([]barRow, len(m.options))
	for i, o := range m.options {
		rows[i] = barRow{
			Label:   o.Label,
			Color:   o.Color,
			Value:   m.shown[i],
			Percent: pct[i],
			Leader:  hasLead && i == lead,
		}
	}
	return rows
}

func (m Model) donutView() string {
	rows := min(max(m.height-14, 8), 16)
	cols := rows * 2

	colors := make([]string, len(m.options))
	for i, o := range m.options {
		colors[i] = o.Color
	}
	donut := renderDonut(m.shown, colors, cols, rows)

	side := lipgloss.JoinVertical(lipgloss.Left, m.bigPercent(), "", m.legend())
	return lipgloss.JoinHorizontal(lipgloss.Center, donut, "   ", side)
}

// bigPercent renders the leader's share in large glyphs when a font is
// available.
func (m Model) bigPercent() string {
	lead, ok := m.leader()
	if !ok {
		return EmptySliceStyle.Render("waiting for votes")
	}

	text := fmt.Sprintf("%d%%", m.percents()[lead])
	style := BigTextStyle.Foreground(lipgloss.Color(m.options[lead].Color))
	if bigchar.IsAvailable() {
		if art := bigchar.Render(text, 24, 6); art != "" {
			return style.Render(art)
		}
	}
	return style.Render(text)
}

func (m Model) legend() string {
	pct := m.percents()
	lead, hasLead := m.leader()

	lines := make([]string, len(m.options))
	for i, o := range m.options {
		labelStyle := LabelStyle
		if hasLead && i == lead {
			labelStyle = LeaderStyle
		}
		lines[i] = fmt.Sprintf("%s %s %s",
			sliceStyle(o.Color).Render("■"),
			labelStyle.Render(o.Label),
			CountStyle.Render(fmt.Sprintf("%.0f (%d%%)", m.shown[i], pct[i])))
	}
	return strings.Join(lines, "\n")
}

func (m Model) statusLine() string {
	parts := []string{m.spinner.View()}
	if m.settings.Mode == ModeStream {
		parts = append(parts, "streaming")
	} else {
		parts = append(parts, "polling")
	}
	if m.settings.Source != "" {
		parts = append(parts, m.settings.Source)
	}
	parts = append(parts, fmt.Sprintf("total %d", m.tally.Total()))

	if m.lastUpdate.IsZero() {
		parts = append(parts, "no data yet")
	} else {
		age := m.now().Sub(m.lastUpdate).Truncate(time.Second)
		parts = append(parts, fmt.Sprintf("updated %s ago", age))
	}

	line := StatusStyle.Render(strings.Join(parts, " · "))
	switch {
	case m.copyErr != nil:
		line += "  " + ErrorStyle.Render("copy failed: "+m.copyErr.Error())
	case m.copied:
		line += "  " + CopiedStyle.Render("copied")
	case m.lastErr != nil:
		line += "  " + ErrorStyle.Render("⚠ "+m.lastErr.Error())
	}
	return line
}
