// Package animation interpolates a camera between two views and drives the
// rasterizer frame by frame.
//
// Centers move linearly and zoom moves linearly in log space, so a path
// spanning fifteen orders of magnitude appears to zoom at a constant rate:
//
//	spec := animation.Spec[fractal.ViewState2D]{Start: a, End: b, FrameCount: 900, MaxIterations: 1000}
//	frames, _ := animation.Interpolate(spec, animation.Timing{Source: animation.FrameIndex})
//	for f := range frames {
//	    ...
//	}
//
// A [Driver] renders every frame of a path, in order, into a
// [fractal.FrameSink]. Frames are strictly sequential; parallelism lives
// inside the rasterizer.
package animation
