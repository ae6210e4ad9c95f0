// Package inspirehand provides keyboard-driven control and telemetry
// recording for a five-finger robotic hand built from Feetech bus servos.
//
// The hand shares a single half-duplex serial bus between operator commands
// and a fixed-rate telemetry sampler. All bus traffic is serialized through
// one arbiter, so gestures and sensor reads never collide on the wire, and
// every sampling tick produces exactly one CSV row even when individual
// reads fail.
//
// # Installation
//
//	go install github.com/AlonMelo/inspire-hand-control/cmd/handctl@latest
//
// # Usage
//
// First, run setup to find the hand and write a config file:
//
//	handctl setup
//
// Then start a recording session:
//
//	handctl record
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/handctl: CLI with setup, control, record and probe commands
//   - pkg/hand: hand device layer, gestures, calibration, and configuration
//   - pkg/session: bus arbiter, command dispatcher, and telemetry sampler
//   - pkg/record: CSV telemetry sink
package inspirehand
