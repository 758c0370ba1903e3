// Package tui renders a live trace of an in-progress sampler run: an
// asciigraph sparkline of the tracked scalar (log-density for HMC/NUTS,
// ELBO for ADVI) inside lipgloss-styled panels, plus running
// accept-rate/divergence counters. Grounded structurally on the
// teacher's internal/viz.Model (tea.Model, TickMsg, lipgloss styling,
// asciigraph.Plot) but not on its mechanical-system drawing.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const historyCapacity = 300

var (
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(50)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// TickMsg drives the periodic redraw.
type TickMsg time.Time

// Update is one progress event pushed into the model from the sampler
// driving loop, via a tea.Program's Send.
type Update struct {
	Iter       int
	Scalar     float64 // log-density or ELBO, whichever the run tracks
	AcceptStat float64
	Divergent  bool
	Done       bool
}

// Model is the bubbletea model for a live sampler trace.
type Model struct {
	title      string
	scalarName string
	maxIter    int

	iter        int
	history     []float64
	acceptSum   float64
	acceptCount int
	divergences int
	done        bool
	quitting    bool
}

// NewModel builds a live view titled title, tracking a scalar named
// scalarName (e.g. "lp__" or "ELBO") across up to maxIter iterations.
func NewModel(title, scalarName string, maxIter int) Model {
	return Model{
		title:      title,
		scalarName: scalarName,
		maxIter:    maxIter,
		history:    make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/10, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case Update:
		m.iter = msg.Iter
		m.history = append(m.history, msg.Scalar)
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
		m.acceptSum += msg.AcceptStat
		m.acceptCount++
		if msg.Divergent {
			m.divergences++
		}
		m.done = msg.Done
		if m.done {
			return m, tea.Quit
		}
	case TickMsg:
		if m.quitting || m.done {
			return m, nil
		}
		return m, tea.Tick(time.Second/10, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(6), asciigraph.Width(40), asciigraph.Caption(m.scalarName))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	progress := fmt.Sprintf("%d", m.iter)
	if m.maxIter > 0 {
		progress = fmt.Sprintf("%d / %d", m.iter, m.maxIter)
	}
	s.WriteString(labelStyle.Render("Iteration") + valueStyle.Render(progress) + "\n")

	if len(m.history) > 0 {
		s.WriteString(labelStyle.Render(m.scalarName) + valueStyle.Render(fmt.Sprintf("%.4f", m.history[len(m.history)-1])) + "\n")
	}
	if m.acceptCount > 0 {
		rate := m.acceptSum / float64(m.acceptCount)
		s.WriteString(labelStyle.Render("Accept rate") + valueStyle.Render(fmt.Sprintf("%.3f", rate)) + "\n")
	}
	if m.divergences > 0 {
		s.WriteString(labelStyle.Render("Divergences") + warnStyle.Render(fmt.Sprintf("%d", m.divergences)) + "\n")
	} else {
		s.WriteString(labelStyle.Render("Divergences") + valueStyle.Render("0") + "\n")
	}
	if m.done {
		s.WriteString(valueStyle.Render("\ndone\n"))
	}
	s.WriteString(helpStyle.Render("Q: quit"))
	return panelStyle.Render(s.String())
}
