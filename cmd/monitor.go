// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/multical/multicald/pkg/kmp"
)

var monitorInterval int

var monitorCmd = &cobra.Command{
	Use:   "monitor [parameter...]",
	Short: "Live terminal view of meter readings",
	Long: `Poll the meter continuously and show the latest value per parameter in a
live table, together with transaction statistics.

Polling is strictly serialized: the next cycle starts only after the previous
one finished. Press q to quit.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().IntVar(&monitorInterval, "interval", 60, "Seconds between readout cycles")
}

// Styles
var (
	monitorTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	monitorStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	monitorErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196"))
)

// Messages
type pollDoneMsg struct {
	readings *kmp.ReadingSet
	stats    kmp.Statistics
	err      error
	at       time.Time
}

type pollTickMsg struct{}

type monitorModel struct {
	client   *kmp.Client
	specs    []kmp.ParamSpec
	connInfo string
	interval time.Duration

	table    table.Model
	latest   map[string]float64
	order    []string
	stats    kmp.Statistics
	lastPoll time.Time
	lastErr  error
	polling  bool
	quitting bool
}

func newMonitorModel(client *kmp.Client, specs []kmp.ParamSpec, connInfo string, interval time.Duration) monitorModel {
	columns := []table.Column{
		{Title: "Parameter", Width: 18},
		{Title: "Value", Width: 16},
		{Title: "Register", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(16),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(s)

	return monitorModel{
		client:   client,
		specs:    specs,
		connInfo: connInfo,
		interval: interval,
		table:    t,
		latest:   make(map[string]float64),
		polling:  true,
	}
}

// poll runs one readout cycle off the update loop. The counters are
// snapshotted here, after ReadAll returns, so Update and View never
// touch the live Statistics while a cycle is running.
func (m monitorModel) poll() tea.Cmd {
	client, specs := m.client, m.specs
	return func() tea.Msg {
		readings, err := client.ReadAll(specs)
		return pollDoneMsg{readings: readings, stats: *client.Stats(), err: err, at: time.Now()}
	}
}

func (m monitorModel) Init() tea.Cmd {
	return m.poll()
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case pollDoneMsg:
		m.polling = false
		m.lastPoll = msg.at
		m.lastErr = msg.err
		m.stats = msg.stats
		if msg.readings != nil {
			for _, key := range msg.readings.Keys() {
				if _, seen := m.latest[key]; !seen {
					m.order = append(m.order, key)
				}
				m.latest[key], _ = msg.readings.Get(key)
			}
		}
		m.refreshRows()
		return m, tea.Tick(m.interval, func(time.Time) tea.Msg { return pollTickMsg{} })

	case pollTickMsg:
		m.polling = true
		return m, m.poll()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *monitorModel) refreshRows() {
	reg := m.client.Registry()
	rows := make([]table.Row, 0, len(m.order))
	for _, key := range m.order {
		register := ""
		if addr, err := reg.Resolve(kmp.ParseSpec(key)); err == nil {
			register = fmt.Sprintf("0x%04X", addr)
		}
		rows = append(rows, table.Row{
			key,
			strconv.FormatFloat(m.latest[key], 'g', -1, 64),
			register,
		})
	}
	m.table.SetRows(rows)
}

func (m monitorModel) View() string {
	if m.quitting {
		return m.stats.String()
	}

	title := monitorTitleStyle.Render(fmt.Sprintf(" Multical %s @ %s ", m.client.Registry().Model(), m.connInfo))

	status := ""
	switch {
	case m.polling:
		status = monitorStatusStyle.Render("polling…")
	case m.lastErr != nil:
		status = monitorErrorStyle.Render("transport error: " + m.lastErr.Error())
	case !m.lastPoll.IsZero():
		status = monitorStatusStyle.Render(fmt.Sprintf("last readout %s, next in %s",
			m.lastPoll.Format("15:04:05"), m.interval))
	}

	footer := monitorStatusStyle.Render(fmt.Sprintf(
		"transactions %d  readings %d  timeouts %d  crc %d  echo %d  (q to quit)",
		m.stats.Transactions, m.stats.Readings, m.stats.Timeouts, m.stats.ChecksumErrors, m.stats.EchoMismatches))

	return title + "\n" + status + "\n\n" + m.table.View() + "\n\n" + footer + "\n"
}

func runMonitor(cmd *cobra.Command, args []string) error {
	port, connInfo, err := openPort()
	if err != nil {
		return err
	}

	specs := make([]kmp.ParamSpec, 0, len(args))
	for _, arg := range args {
		specs = append(specs, kmp.ParseSpec(arg))
	}

	client := kmp.NewClient(port, meterModel, logger)
	interval := time.Duration(monitorInterval) * time.Second

	program := tea.NewProgram(newMonitorModel(client, specs, connInfo, interval), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
