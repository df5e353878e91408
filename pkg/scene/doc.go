// Package scene maps a positioned layout to drawable shapes.
//
// [Build] is a pure function of the layout and a [Theme]: every node becomes
// a [NodeShape] (a pill for the root, a hollow marker for inner nodes, a
// solid marker for leaves) with a [Label], and every edge becomes an
// [EdgeShape] drawn as a horizontal cubic curve. Scene coordinates use X for
// the layout's along axis and Y for its across axis.
//
// The package also computes the tight content box of a scene ([Scene.Bounds])
// and serializes it as SVG ([Scene.WriteSVG]); the same writer produces the
// live view, wrapped in the viewport transform, and the export document,
// with explicit size and an opaque background.
package scene
