package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"

	"github.com/AlonMelo/inspire-hand-control/pkg/hand"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct {
	Baud int `long:"baud" default:"1000000" description:"Serial baud rate"`
}

type foundHand struct {
	port string
	ids  []int
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("Hand Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━"))
	fmt.Println()
	fmt.Println("Scanning serial ports for the hand...")
	fmt.Println()

	hands := findHands(c.Baud)
	if len(hands) == 0 {
		fmt.Println("No hand found.")
		fmt.Println("Make sure the hand is connected and powered on.")
		os.Exit(1)
	}

	chosen := hands[0]
	if len(hands) > 1 {
		ports := make([]string, len(hands))
		for i, h := range hands {
			ports[i] = h.port
		}

		var port string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Multiple candidates found. Which port is the hand on?").
					Options(huh.NewOptions(ports...)...).
					Value(&port),
			),
		)
		if err := form.Run(); err != nil {
			fmt.Println()
			os.Exit(0)
		}
		for _, h := range hands {
			if h.port == port {
				chosen = h
			}
		}
	}

	cfg := hand.DefaultConfig()
	cfg.Port = chosen.port
	cfg.Baud = c.Baud
	for i, f := range hand.AllFingers() {
		fc := cfg.Calibration[f]
		fc.ID = chosen.ids[i]
		cfg.Calibration[f] = fc
	}

	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Hand on %s, servo IDs %v\n", chosen.port, chosen.ids)
	fmt.Printf("Configuration saved to %s\n", hand.DefaultConfigFile)
	fmt.Println()
	fmt.Println("Start a recording session with: " + headerStyle.Render("handctl record"))

	return nil
}

// findHands probes every serial port for a bus with at least five servos.
func findHands(baud int) []foundHand {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return nil
	}

	var hands []foundHand

	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)

		bus, err := feetech.NewBus(feetech.BusConfig{
			Port:     port,
			BaudRate: baud,
			Protocol: feetech.ProtocolSTS,
			Timeout:  100 * time.Millisecond,
		})
		if err != nil {
			cancel()
			continue
		}

		servos, err := bus.Scan(ctx, 1, 10)
		cancel()
		bus.Close()

		if err != nil || len(servos) < 5 {
			continue
		}

		ids := make([]int, 0, len(servos))
		for _, s := range servos {
			ids = append(ids, s.ID)
		}
		sort.Ints(ids)

		fmt.Printf("  Found %d servos on %s\n", len(servos), port)
		hands = append(hands, foundHand{port: port, ids: ids[:5]})
	}

	return hands
}
