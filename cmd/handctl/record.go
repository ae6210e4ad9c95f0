package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/AlonMelo/inspire-hand-control/pkg/hand"
	"github.com/AlonMelo/inspire-hand-control/pkg/record"
	"github.com/AlonMelo/inspire-hand-control/pkg/session"
)

type RecordCommand struct {
	Hz  float64 `long:"hz" description:"Sampling rate in Hz (overrides config)"`
	Dir string  `long:"dir" description:"Recording directory (overrides config)"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Finger colors - distinct colors for each finger
var fingerColors = map[hand.Finger]string{
	hand.Thumb:  "196", // red
	hand.Index:  "208", // orange
	hand.Middle: "226", // yellow
	hand.Ring:   "46",  // green
	hand.Little: "51",  // cyan
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	actionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

// forceGroup is the index of the force metric in session.Metrics() order.
var forceGroup = func() int {
	for i, m := range session.Metrics() {
		if m == session.MetricForce {
			return i
		}
	}
	return 0
}()

type recordModel struct {
	sess     *session.Session
	hand     *hand.Hand
	keymap   map[string]string
	force    int
	chart    *streamlinechart.Model
	width    int
	height   int
	logs     []string
	stopping bool
	quitting bool
}

func (m *recordModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the session
type recMsg record.Record
type logMsg string
type stoppedMsg struct{ err error }

func waitForRecord(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		return recMsg(<-sess.Records())
	}
}

func waitForLog(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-sess.Logs())
	}
}

// stopSession drains the command queue and closes the sink off the UI
// thread, then reports back so the program can quit.
func stopSession(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		return stoppedMsg{err: sess.Stop()}
	}
}

func (m *recordModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *recordModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialRecordModel(sess *session.Session, h *hand.Hand, cfg *hand.Config) recordModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-1000, 1000),
	)

	// Set up data set styles for each finger
	for _, f := range hand.AllFingers() {
		color := fingerColors[f]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(string(f), runes.ThinLineStyle, style)
	}

	return recordModel{
		sess:   sess,
		hand:   h,
		keymap: cfg.Keymap,
		force:  cfg.DefaultForce,
		chart:  &chart,
	}
}

func (m recordModel) Init() tea.Cmd {
	// Start listening for record and log updates
	return tea.Batch(
		waitForRecord(m.sess),
		waitForLog(m.sess),
	)
}

func (m recordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		if m.stopping {
			return m, nil
		}
		switch msg.String() {
		case "esc", "ctrl+c":
			m.stopping = true
			// Leave the hand open for safety, then drain and close.
			m.dispatch("open_all")
			return m, stopSession(m.sess)
		default:
			if gesture, ok := m.keymap[msg.String()]; ok {
				m.dispatch(gesture)
			}
		}
		return m, nil

	case recMsg:
		rec := record.Record(msg)
		if forceGroup < len(rec.Values) {
			for i, f := range hand.AllFingers() {
				group := rec.Values[forceGroup]
				if i < len(group) && group[i].OK {
					m.chart.PushDataSet(string(f), group[i].F)
				}
			}
			m.chart.DrawAll()
		}
		return m, waitForRecord(m.sess)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.sess)

	case stoppedMsg:
		if msg.err != nil {
			m.addLog(fmt.Sprintf("shutdown: %v", msg.err))
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m recordModel) View() string {
	if m.quitting {
		return "Recording stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("Hand Record"))
	sb.WriteString(" - action: ")
	sb.WriteString(actionStyle.Render(m.sess.Action()))
	if n := m.sess.Pending(); n > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  (%d queued)", n)))
	}
	if m.stopping {
		sb.WriteString(statusStyle.Render("  draining..."))
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9")) // bright red

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render(keyHelp(m.keymap) + "  Esc: quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

// dispatch enqueues a gesture command. Grip-style gestures carry the
// configured force limit.
func (m *recordModel) dispatch(name string) {
	h := m.hand
	force := 0
	if name == "grip" || name == "pinch" {
		force = m.force
	}
	m.sess.Enqueue(name, func(ctx context.Context) error {
		return h.ApplyPreset(ctx, name, force)
	})
}

func renderLegend() string {
	var items []string
	for _, f := range hand.AllFingers() {
		color := fingerColors[f]
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		item := colorStyle.Render("━━") + " " + string(f)
		items = append(items, item)
	}
	return strings.Join(items, "  ") + statusStyle.Render("  (force)")
}

func keyHelp(keymap map[string]string) string {
	keys := make([]string, 0, len(keymap))
	for k := range keymap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]string, 0, len(keys))
	for _, k := range keys {
		items = append(items, fmt.Sprintf("%s:%s", k, keymap[k]))
	}
	return strings.Join(items, " ")
}

func (c *RecordCommand) Execute(args []string) error {
	cfg, err := hand.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "No configuration found. Run 'handctl setup' first.")
		os.Exit(1)
	}
	if cfg.Port == "" {
		fmt.Fprintln(os.Stderr, "Hand not configured. Run 'handctl setup' first.")
		os.Exit(1)
	}
	if c.Hz > 0 {
		cfg.SampleHz = c.Hz
	}
	if c.Dir != "" {
		cfg.LogDir = c.Dir
	}

	h, err := hand.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open hand: %v", err)
	}
	defer h.Close()

	ctx := context.Background()
	if err := h.Wake(ctx, 6); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: wake probe failed, continuing cautiously: %v\n", err)
	}
	if err := h.SetAllSpeeds(ctx, cfg.DefaultSpeed); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: init speed write failed: %v\n", err)
	}
	if err := h.SetAllForces(ctx, cfg.DefaultForce); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: init force write failed: %v\n", err)
	}

	w, err := record.Open(cfg.LogDir, hand.FingerNames())
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	sess, err := session.New(session.Config{
		Device:   h,
		Sink:     w,
		SampleHz: cfg.SampleHz,
	})
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	fmt.Printf("Recording to %s\n", w.Path())

	if err := sess.Start(ctx); err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	p := tea.NewProgram(initialRecordModel(sess, h, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	// The UI normally stops the session before quitting; this covers an
	// abnormal TUI exit.
	if err := sess.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
	}
	fmt.Printf("CSV saved: %s\n", w.Path())

	return nil
}
