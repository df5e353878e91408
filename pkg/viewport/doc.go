// Package viewport holds the pan/zoom state of a live diagram.
//
// A [Controller] owns one [Transform] for the lifetime of a diagram. Pointer
// gestures ([Controller.Pan], [Controller.Wheel], [Controller.Pinch]) update
// it immediately. [Controller.AutoFit] and [Controller.ResetView] start an
// animated transition toward a computed target; the host advances it once
// per frame with [Controller.Advance] and the transform lands exactly on the
// target when the transition finishes.
//
// A controller is driven from a single goroutine and is not safe for
// concurrent use. Each update replaces the whole transform value, so a paint
// never sees a partly applied gesture.
package viewport
