package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/AlonMelo/inspire-hand-control/pkg/hand"
	"github.com/AlonMelo/inspire-hand-control/pkg/session"
)

type ProbeCommand struct{}

func (c *ProbeCommand) Execute(args []string) error {
	cfg, err := hand.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "No configuration found. Run 'handctl setup' first.")
		os.Exit(1)
	}

	h, err := hand.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open hand: %v", err)
	}
	defer h.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.Wake(ctx, 6); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: wake probe failed: %v\n", err)
	}

	rows := make([][]string, 0, len(session.Metrics()))
	for _, m := range session.Metrics() {
		row := []string{m.String()}
		vals, err := h.ReadBulk(ctx, m)
		if err != nil {
			// Degrade to per-finger reads so one dead channel still
			// shows the others.
			for j := range h.Joints() {
				v, jerr := h.ReadJoint(ctx, m, j)
				if jerr != nil {
					row = append(row, "-")
					continue
				}
				row = append(row, formatProbe(v))
			}
		} else {
			for _, v := range vals {
				row = append(row, formatProbe(v))
			}
		}
		rows = append(rows, row)
	}

	headers := append([]string{"Channel"}, hand.FingerNames()...)

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	channelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 0 {
				return channelStyle
			}
			return cellStyle
		})

	fmt.Println(t.Render())
	return nil
}

func formatProbe(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
