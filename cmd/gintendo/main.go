package main

import (
	"flag"
	"log"

	"github.com/bdwalton/gintendo/environment"
)

var (
	romFile    = flag.String("nes_rom", "", "Path to NES ROM to run.")
	frameLimit = flag.Int("frames", 0, "Number of frames to run before exiting; 0 runs forever.")
)

// main runs the machine headlessly: no window, no input device, just
// RunFrame driven by a constant action byte. It exists so the core
// packages have a runnable entrypoint independent of any GUI frontend.
func main() {
	flag.Parse()

	env, err := environment.New(*romFile)
	if err != nil {
		log.Fatalf("Invalid ROM: %v", err)
	}

	var frame int
	for *frameLimit == 0 || frame < *frameLimit {
		env.Step(0)
		frame++
	}
}
