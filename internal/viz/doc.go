// Package viz is the interactive terminal explorer.
//
// Frames are drawn with half-block cells, two pixels per cell, in 24-bit
// color. The same explorer drives both camera kinds through a [Navigator].
//
// # Key Bindings
//
//	←↓↑→ / hjkl  - Pan (quadratic)
//	+ / -        - Zoom in / out
//	Wheel        - Zoom at the cursor
//	w / s        - Move the bulb slice along z
//	z / x        - Bulb zoom in / out
//	[ / ]        - Bulb power
//	t            - Toggle the center/zoom overlay
//	c            - Toggle clock driven color cycling
//	r            - Record from the current view to the configured end view
//	esc          - Cancel a recording between frames
//	tab          - Cycle color themes
//	q            - Quit
package viz
