// Package raster provides the pixel buffers shared by every stage of the
// line restoration pipeline.
//
// Two buffer types are defined:
//   - Gray: an owned, row-major grid of 8-bit intensity samples
//   - Float: an owned, row-major grid of float64 samples used for
//     intermediates that leave the [0, 255] range
//
// # Coordinate System
//
// Pixel (x, y) lives at index y*Width + x. X increases rightward (columns),
// Y increases downward (rows). There is no bounds origin offset: every
// buffer starts at (0, 0), which keeps the per-pixel loops of the stage
// packages free of Min.X/Min.Y arithmetic.
//
// # Ownership
//
// Stages never modify their input. Each stage allocates a new buffer for its
// output, so a buffer handed to a stage may be reused by the caller afterward.
//
// # Error Handling
//
// Structural problems are reported with typed errors:
//   - ErrInvalidImage: zero-sized or malformed buffers (wrapped with details)
//   - *GeometryError: a stage computed a non-positive output size
//
// Numeric problems (division by zero, NaN, Inf) are never errors. Division
// sites use SafeDivide and continue with a bounded fallback.
//
// # Loading
//
// ImageCache decodes PNG, JPEG, GIF, TIFF, BMP and WebP files into Gray
// buffers and keeps them keyed by path. It is safe for concurrent use.
package raster
