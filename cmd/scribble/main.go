// Command scribble runs the screensaver in a desktop window.
//
// Drag with the left mouse button to draw a new stick; release to set it
// loose. Hold the right button to pause. Press Q or Escape to quit.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/teranos/scribble"
	"github.com/teranos/scribble/operators"
)

func main() {
	var (
		width  = flag.Int("width", 800, "window width in pixels")
		height = flag.Int("height", 600, "window height in pixels")
		cast   = flag.Int("cast", 0, "autonomous sticks to seed at startup")
		seed   = flag.Int64("seed", 0, "random seed (0 means time-based)")
	)
	flag.Parse()

	config := scribble.DefaultSceneConfig()
	config.Seed = *seed

	bounds := scribble.Bounds{Width: *width - 1, Height: *height - 1}
	director := scribble.NewSceneDirectorWithConfig(bounds, config).
		Cast(*cast).
		Start()

	op := operators.NewWindowOperator(director, *width, *height)

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("scribble")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(op); err != nil {
		fmt.Fprintln(os.Stderr, "scribble:", err)
		os.Exit(1)
	}

	fmt.Println(director.Stop().Summary())
}
