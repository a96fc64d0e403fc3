// Package compute provides the data-parallel backend used by the rasterizer.
//
// Rendering is an embarrassingly parallel map: every pixel owns a disjoint
// slot in the output buffer, so rows are split into chunks and handed to a
// bounded pool of goroutines without any locking:
//
//	backend := compute.GetBackend()
//	err := backend.ParallelRows(ctx, height, func(y0, y1 int) {
//	    for y := y0; y < y1; y++ { ... }
//	})
//
// The CPU backend sizes its pool from runtime.NumCPU. A serial backend is
// available for deterministic profiling and tests.
package compute
