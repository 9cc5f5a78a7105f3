// Package monitor implements the live liveness TUI using BubbleTea. Each
// tick re-evaluates every sensor against the registry clock, so sensors turn
// offline on screen as their grace period runs out.
package monitor

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/sensorwatch/internal/chart"
	"github.com/luki/sensorwatch/internal/registry"
)

const pollInterval = 1 * time.Second

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

type snapshotMsg struct {
	statuses []registry.Status
	summary  registry.Summary
	time     time.Time
}

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the live monitor.
type Model struct {
	reg       *registry.Registry
	window    time.Duration
	statuses  []registry.Status
	summary   registry.Summary
	width     int
	height    int
	scroll    int
	lastPoll  time.Time
	startTime time.Time
	paused    bool
}

// New creates the monitor for reg. Recent-reading counts use window.
func New(reg *registry.Registry, window time.Duration) Model {
	return Model{
		reg:       reg,
		window:    window,
		startTime: time.Now(),
	}
}

// Run starts the monitor in the alternate screen and blocks until quit.
func Run(reg *registry.Registry, window time.Duration) error {
	p := tea.NewProgram(New(reg, window), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}

// ── Commands ─────────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) snapshot() tea.Msg {
	statuses := m.reg.Statuses()
	return snapshotMsg{
		statuses: statuses,
		summary:  registry.Summarize(statuses),
		time:     m.reg.Now(),
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.snapshot, tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			m.scroll++
		case "home":
			m.scroll = 0
		case " ", "p":
			m.paused = !m.paused
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(m.snapshot, tickCmd())

	case snapshotMsg:
		m.statuses = msg.statuses
		m.summary = msg.summary
		m.lastPoll = msg.time
	}

	return m, nil
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorName     = lipgloss.Color("147")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorOk       = lipgloss.Color("78")
	colorWarn     = lipgloss.Color("220")
	colorCrit     = lipgloss.Color("196")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections, m.renderTitleBar(contentWidth))

	if len(m.statuses) == 0 {
		waiting := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(contentWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("No sensors registered")
		sections = append(sections, waiting)
	} else {
		sections = append(sections, m.renderSensorPanel(contentWidth))
	}

	sections = append(sections, m.renderFooter(contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	lines := strings.Split(content, "\n")
	visibleLines := m.height
	if visibleLines < 5 {
		visibleLines = 5
	}
	maxScroll := len(lines) - visibleLines
	if maxScroll < 0 {
		maxScroll = 0
	}
	start := m.scroll
	if start > maxScroll {
		start = maxScroll
	}
	end := start + visibleLines
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("SENSOR LIVENESS")

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	statusParts := []string{
		lipgloss.NewStyle().Foreground(colorLabel).Render(fmt.Sprintf("%d sensors", m.summary.Total)),
		lipgloss.NewStyle().Foreground(colorOk).Render(fmt.Sprintf("%d online", m.summary.Online)),
		lipgloss.NewStyle().Foreground(colorCrit).Render(fmt.Sprintf("%d offline", m.summary.Offline)),
		dimS.Render("up " + chart.FormatAge(time.Since(m.startTime))),
	}

	if !m.lastPoll.IsZero() {
		statusParts = append(statusParts, dimS.Render(m.lastPoll.Format("15:04:05")))
	}

	if m.paused {
		statusParts = append(statusParts, lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Render("PAUSED"))
	}

	sep := dimS.Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func (m Model) renderSensorPanel(totalWidth int) string {
	innerWidth := totalWidth - 4
	nameW := 22
	statusW := 8
	ageW := 8
	barW := 21

	chartWidth := innerWidth - nameW - statusW - ageW - barW - 60
	if chartWidth < 10 {
		chartWidth = 10
	}
	if chartWidth > 120 {
		chartWidth = 120
	}

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	var rows []string
	for _, st := range m.statuses {
		name := lipgloss.NewStyle().
			Foreground(colorName).
			Bold(true).
			Width(nameW).
			Render(truncate(st.Sensor.Name+" ("+st.Sensor.ID+")", nameW))

		status := lipgloss.NewStyle().Width(statusW).Render(chart.RenderStatus(st.Offline))
		age := lipgloss.NewStyle().
			Width(ageW).
			Align(lipgloss.Right).
			Render(chart.RenderElapsed(st.Elapsed, st.Threshold))
		bar := chart.RenderGraceBar(st.Elapsed, st.Threshold, barW)

		row := name + " " + status + " " + age + " " + bar

		pts := m.reg.Values(st.Sensor.ID, chartWidth)
		if hist, ok := m.reg.Stats(st.Sensor.ID); ok {
			row += " " + chart.RenderSparklinePoints(pts, chartWidth, hist.Min-1, hist.Peak+1)
			row += dimS.Render(" last") + valS.Render(fmt.Sprintf("%7.1f", hist.Last)) +
				dimS.Render(" avg") + valS.Render(fmt.Sprintf("%7.1f", hist.Avg())) +
				dimS.Render(" n") + valS.Render(fmt.Sprintf("%d", hist.Count))
		} else {
			row += " " + chart.RenderSparklinePoints(nil, chartWidth, 0, 1)
		}
		if m.window > 0 {
			n := len(m.reg.RecentReadings(st.Sensor.ID, m.window))
			row += dimS.Render(" recent") + valS.Render(fmt.Sprintf("%d", n))
		}
		rows = append(rows, row)

		if timeline := chart.RenderTimeline(pts, chartWidth); strings.TrimSpace(timeline) != "" {
			pad := strings.Repeat(" ", nameW+statusW+ageW+barW+4)
			rows = append(rows, pad+timeline)
		}
	}

	if n := m.reg.Orphans(); n > 0 {
		rows = append(rows, lipgloss.NewStyle().Foreground(colorWarn).
			Render(fmt.Sprintf("%d orphan readings", n)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderFooter(width int) string {
	okS := lipgloss.NewStyle().Foreground(colorOk).Render("██")
	warnS := lipgloss.NewStyle().Foreground(colorWarn).Render("██")
	critS := lipgloss.NewStyle().Foreground(colorCrit).Render("██")
	markS := lipgloss.NewStyle().Foreground(colorWarn).Render("▪")

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	legend := okS + dimS.Render(" fresh ") +
		warnS + dimS.Render(" late ") +
		critS + dimS.Render(" offline ") +
		markS + dimS.Render(" threshold")

	keyS := lipgloss.NewStyle().Foreground(colorLabel)
	keys := dimS.Render("q") + keyS.Render(":quit") +
		dimS.Render("  j/k") + keyS.Render(":scroll") +
		dimS.Render("  p") + keyS.Render(":pause")

	gap := width - lipgloss.Width(legend) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(legend + strings.Repeat(" ", gap) + keys)
}

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 3 {
		return string(r[:w])
	}
	return string(r[:w-1]) + "…"
}
