// Command scribble-term runs the screensaver inside the terminal.
//
// Drag with the left mouse button to draw a new stick; release to set it
// loose. Hold the right button (or press P) to pause. Press Q to quit.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teranos/scribble"
	"github.com/teranos/scribble/operators"
)

func main() {
	var (
		cast = flag.Int("cast", 0, "autonomous sticks to seed at startup")
		seed = flag.Int64("seed", 0, "random seed (0 means time-based)")
	)
	flag.Parse()

	config := scribble.DefaultSceneConfig()
	config.Seed = *seed

	// Real bounds arrive with the first WindowSizeMsg.
	director := scribble.NewSceneDirectorWithConfig(scribble.Bounds{Width: 79, Height: 22}, config).
		Cast(*cast)

	op := operators.NewTerminalOperator(director)
	p := tea.NewProgram(op, tea.WithAltScreen(), tea.WithMouseAllMotion())

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "scribble-term:", err)
		os.Exit(1)
	}
}
