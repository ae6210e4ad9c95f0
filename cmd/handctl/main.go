package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Setup   SetupCommand   `command:"setup" description:"Find the hand on a serial port and write a config file"`
	Control ControlCommand `command:"control" description:"Keyboard gesture control (no recording)"`
	Record  RecordCommand  `command:"record" description:"Keyboard gesture control with telemetry recording"`
	Probe   ProbeCommand   `command:"probe" description:"Read every telemetry channel once and print a table"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "handctl - keyboard control and telemetry recording for a five-finger servo hand"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
