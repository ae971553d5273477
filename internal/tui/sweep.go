package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/neurodyn/internal/analysis"
	"github.com/san-kum/neurodyn/internal/neuron"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	rowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hopfStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type rowMsg analysis.IndexedRecord

type doneMsg struct{}

// Model streams a bifurcation sweep row by row: progress bar, latest row
// readout, and an f-I curve drawn as rows arrive.
type Model struct {
	stimuli  []float64
	records  []analysis.Record
	seen     []bool
	done     int
	finished bool
	last     analysis.Record

	rows   <-chan analysis.IndexedRecord
	cancel context.CancelFunc
}

// NewModel starts the sweep in the background and returns the view model.
func NewModel(params neuron.ModelParameters, stimuli []float64, opts analysis.SweepOptions) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		stimuli: stimuli,
		records: make([]analysis.Record, len(stimuli)),
		seen:    make([]bool, len(stimuli)),
		rows:    analysis.StreamBifurcation(ctx, params, stimuli, opts),
		cancel:  cancel,
	}
}

// Run drives the live sweep to completion and returns the collected
// result (rows cancelled by quitting early come back indeterminate).
func Run(params neuron.ModelParameters, stimuli []float64, opts analysis.SweepOptions) (analysis.Sweep, error) {
	final, err := tea.NewProgram(NewModel(params, stimuli, opts)).Run()
	if err != nil {
		return analysis.Sweep{}, err
	}
	return final.(Model).finalize(), nil
}

// finalize cancels the stream and drains it before assembling the result.
// Draining matters on an early quit: it unblocks the worker goroutines
// still parked on the channel, and post-cancel rows arrive immediately as
// indeterminate records carrying their stimulus. A row lost to a read
// still in flight when the program stopped is filled in the same shape,
// so no zero-value Record ever escapes.
func (m Model) finalize() analysis.Sweep {
	m.cancel()
	for ir := range m.rows {
		if ir.Index >= 0 && ir.Index < len(m.records) {
			m.records[ir.Index] = ir.Record
			m.seen[ir.Index] = true
		}
	}
	for i, ok := range m.seen {
		if ok {
			continue
		}
		m.records[i] = analysis.Record{
			Stimulus:  m.stimuli[i],
			Label:     analysis.Indeterminate,
			VMax:      math.NaN(),
			VMin:      math.NaN(),
			Frequency: math.NaN(),
			Err:       context.Canceled,
		}
	}
	return analysis.Sweep{
		Records:     m.records,
		Transitions: analysis.DetectTransitions(m.records),
	}
}

func (m Model) Init() tea.Cmd {
	return m.nextRow()
}

func (m Model) nextRow() tea.Cmd {
	return func() tea.Msg {
		ir, ok := <-m.rows
		if !ok {
			return doneMsg{}
		}
		return rowMsg(ir)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}

	case rowMsg:
		if msg.Index >= 0 && msg.Index < len(m.records) {
			m.records[msg.Index] = msg.Record
			if !m.seen[msg.Index] {
				m.seen[msg.Index] = true
				m.done++
			}
			m.last = msg.Record
		}
		return m, m.nextRow()

	case doneMsg:
		m.finished = true
		m.cancel()
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("neurodyn sweep"))
	sb.WriteString("\n\n")

	sb.WriteString(m.progressBar(40))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d stimuli", m.done, len(m.stimuli))))
	sb.WriteString("\n\n")

	if m.done > 0 {
		sb.WriteString(rowStyle.Render(fmt.Sprintf(
			"I=%.2f  %s  V*=%.2f  f=%s",
			m.last.Stimulus, m.last.Label, m.last.Point.V, freqCell(m.last.Frequency))))
		sb.WriteString("\n")
	}

	if curve := m.fiCurve(); curve != "" {
		sb.WriteString(graphStyle.Render(curve))
		sb.WriteString("\n")
	}

	if m.finished {
		for _, tr := range analysis.DetectTransitions(m.records) {
			sb.WriteString(hopfStyle.Render(
				fmt.Sprintf("%s transition at I=%.3f", tr.Kind, tr.Stimulus)))
			sb.WriteString("\n")
		}
	}

	sb.WriteString(helpStyle.Render("q: quit"))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) progressBar(width int) string {
	filled := 0
	if len(m.stimuli) > 0 {
		filled = m.done * width / len(m.stimuli)
	}
	return barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

// fiCurve plots frequency over the contiguous prefix of finished rows, so
// the curve grows left to right as the sweep advances.
func (m Model) fiCurve() string {
	n := 0
	for n < len(m.seen) && m.seen[n] {
		n++
	}
	if n < 2 {
		return ""
	}
	freqs := make([]float64, n)
	for i := 0; i < n; i++ {
		if f := m.records[i].Frequency; !math.IsNaN(f) {
			freqs[i] = f
		}
	}
	return asciigraph.Plot(freqs, asciigraph.Height(8), asciigraph.Caption("f (Hz)"))
}

func freqCell(f float64) string {
	if math.IsNaN(f) {
		return "-"
	}
	return fmt.Sprintf("%.2f Hz", f)
}
