package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AlonMelo/inspire-hand-control/pkg/hand"
	"github.com/AlonMelo/inspire-hand-control/pkg/session"
)

type ControlCommand struct{}

// controlModel is the chartless variant: gestures only, no telemetry.
type controlModel struct {
	sess     *session.Session
	hand     *hand.Hand
	keymap   map[string]string
	force    int
	logs     []string
	stopping bool
	quitting bool
}

func (m *controlModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m controlModel) Init() tea.Cmd {
	return waitForLog(m.sess)
}

func (m controlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.stopping {
			return m, nil
		}
		switch msg.String() {
		case "esc", "ctrl+c":
			m.stopping = true
			m.dispatch("open_all")
			return m, stopSession(m.sess)
		default:
			if gesture, ok := m.keymap[msg.String()]; ok {
				m.dispatch(gesture)
			}
		}
		return m, nil

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.sess)

	case stoppedMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *controlModel) dispatch(name string) {
	h := m.hand
	force := 0
	if name == "grip" || name == "pinch" {
		force = m.force
	}
	m.sess.Enqueue(name, func(ctx context.Context) error {
		return h.ApplyPreset(ctx, name, force)
	})
}

func (m controlModel) View() string {
	if m.quitting {
		return "Control stopped.\n"
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Hand Control"))
	sb.WriteString(" - action: ")
	sb.WriteString(actionStyle.Render(m.sess.Action()))
	if m.stopping {
		sb.WriteString(statusStyle.Render("  draining..."))
	}
	sb.WriteString("\n\n")
	sb.WriteString(statusStyle.Render(keyHelp(m.keymap) + "  Esc: quit"))
	sb.WriteString("\n\n")
	for _, l := range m.logs {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (c *ControlCommand) Execute(args []string) error {
	cfg, err := hand.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "No configuration found. Run 'handctl setup' first.")
		os.Exit(1)
	}
	if cfg.Port == "" {
		fmt.Fprintln(os.Stderr, "Hand not configured. Run 'handctl setup' first.")
		os.Exit(1)
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

	// No sink: dispatcher only, sampling disabled.
	sess, err := session.New(session.Config{Device: h})
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	if err := sess.Start(ctx); err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	model := controlModel{
		sess:   sess,
		hand:   h,
		keymap: cfg.Keymap,
		force:  cfg.DefaultForce,
	}
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	return sess.Stop()
}
