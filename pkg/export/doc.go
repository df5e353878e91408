// Package export turns a scene into a standalone PNG image.
//
// The pipeline runs in a fixed order:
//
//  1. [Prepare] measures the tight content box of the scene.
//  2. It copies the scene, adds a padding margin on every side, and re-bases
//     the copy so the box corner lands at (padding, padding).
//  3. [Serialize] writes the copy as an SVG document with explicit size and
//     an opaque background. The live view is never consulted.
//  4. [Decode] rasterizes the document at the oversampling factor in the
//     background and returns a [Future] that resolves exactly once.
//  5. [Composite] flattens the raster onto an opaque buffer, which is then
//     PNG-encoded.
//
// A scene with no drawable content fails with
// [errors.ErrCodeDegenerateContent]; a decode that errors or does not finish
// within the timeout fails with [errors.ErrCodeExportDecode]. No partial
// image is ever returned.
package export
