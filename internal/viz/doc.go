// Package viz is the terminal host for the demos, built on Bubble Tea.
//
//   - [App]: demo picker in front of the live view
//   - [Model]: one running session, drawn on a braille [Canvas]
//
// Each tick the model hands the session the current parameter snapshot, the
// mouse state and a viewport derived from the terminal size, then rasterizes
// the returned draw commands. Text overlays are shown in the side panel.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Step one frame while paused
//	R     - Rebuild the scene
//	Tab   - Cycle parameters
//	↑/↓   - Nudge the selected parameter one slider step
//	?     - Show help overlay
package viz
