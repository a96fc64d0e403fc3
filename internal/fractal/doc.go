// Package fractal provides the core data model for escape-time fractal
// rendering.
//
// The package defines the camera, result and pixel types shared by the
// kernels, color mappers, rasterizer and animation driver:
//
//   - [ViewState2D]: center and zoom of the quadratic (Mandelbrot) camera
//   - [ViewState3D]: offset, zoom factor and power of the bulb camera
//   - [EscapeResult]: iteration count and escape metric for one sample
//   - [ColorRGB]: 8-bit color produced by a [ColorMapper]
//   - [PixelBuffer]: row-major frame handed to a [FrameSink]
//
// # Example
//
//	view, _ := fractal.NewViewState2D(-0.75, -0.1071, 1.0)
//	view, _ = view.ZoomByFactor(1.1)
//	x, y := view.ScreenToWorld(400, 300, 800, 600)
//
// # Precision
//
// All arithmetic uses native floating point. Past a zoom of roughly 1e13
// adjacent pixels map to the same float64 and the image degrades into
// blocks. That is expected; rendering stays finite and never yields NaN
// colors.
package fractal
