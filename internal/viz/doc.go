// Package viz provides the interactive terminal playback for text
// animations.
//
// The package implements a TUI using the Bubble Tea framework:
//
//   - [Model]: frame-driven playback of a typewriter or token reveal
//   - [ProgressBar]: ratio bar used in the stats panel
//   - Theme selection with 3 built-in color schemes
//
// # Key Bindings
//
//	R - Restart the animation from the initial phase
//	T - Cycle color themes
//	C - Toggle the blinking cursor
//	? - Show key bindings
//	Q - Quit
//
// The model polls the engine snapshot at 60 frames per second; the
// animation itself runs on the engine's own scheduler, so render rate
// and animation timing are independent.
package viz
