// Package environment exposes the machine as a frame-stepped
// reinforcement-learning environment: reset/step/backup/restore over
// an iNES ROM path and an 8-bit controller action.
package environment

import (
	"fmt"

	"github.com/bdwalton/gintendo/machine"
)

// Environment wraps a Machine with the ROM path needed to rebuild it
// on Reset, and the single pixel sink that accumulates frames.
type Environment struct {
	path   string
	sink   *frameSink
	mach   *machine.Machine
	backup *machine.Snapshot
}

type frameSink struct {
	pixels []uint32
}

func (s *frameSink) NewFrame(pixels []uint32) {
	s.pixels = pixels
}

// New loads the ROM at path and brings the machine to its post-power
// state, ready for Step calls.
func New(path string) (*Environment, error) {
	e := &Environment{path: path, sink: &frameSink{}}
	m, err := machine.New(path, e.sink)
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	e.mach = m
	return e, nil
}

// Reset reloads the ROM and powers the machine back up, discarding
// all prior state.
func (e *Environment) Reset() error {
	m, err := machine.New(e.path, e.sink)
	if err != nil {
		return fmt.Errorf("environment: reset: %w", err)
	}
	e.mach = m
	e.sink.pixels = nil
	return nil
}

// Step applies a controller-0 action byte and advances the machine by
// exactly one frame, returning the resulting framebuffer.
func (e *Environment) Step(action uint8) []uint32 {
	e.mach.SetButtons(0, action)
	e.mach.RunFrame()
	return e.sink.pixels
}

// Backup captures the machine's current state, overwriting any prior
// backup, for a later Restore call.
func (e *Environment) Backup() {
	e.backup = e.mach.Backup()
}

// Restore replaces the live machine state with a fresh copy of the
// last Backup. It is a no-op if Backup was never called.
func (e *Environment) Restore() {
	if e.backup == nil {
		return
	}
	e.mach.Restore(e.backup)
}

// Pixels returns the most recently delivered framebuffer.
func (e *Environment) Pixels() []uint32 {
	return e.sink.pixels
}
