// Package viz is the terminal view of a spiral pattern and an orbit moving
// through it, built on Bubble Tea.
//
// The left panel shades one quantity of the pattern (density, potential,
// radial or azimuthal force) on the x-y plane and marks the orbit. Pressing F
// swaps it for a Braille trace of the orbit in the frame rotating with the
// pattern.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset orbit and pattern parameters
//	M     - Cycle mapped quantity
//	F     - Toggle inertial / pattern frame
//	Tab   - Select amp, omega, alpha or rs; Up/Down to change it
//	[ ]   - Replay recorded history
//	G     - Toggle GIF recording of the map
//	T     - Cycle color themes
//	?     - Help overlay
package viz
