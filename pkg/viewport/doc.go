// Package viewport implements pan, zoom and fit for a laid-out family tree.
//
// A [Transform] maps layout coordinates to screen coordinates:
//
//	screen = layout × K + (X, Y)
//
// All per-viewer state lives in a [Session]: the current transform, the
// drag gesture in progress, and whether input handlers have been attached.
// A [Controller] holds only constants (scale clamps, zoom factor, padding,
// drag threshold) and may be shared between any number of sessions.
//
// # Invariants
//
//   - K is always finite and inside the clamp of the operation that set it.
//   - [Controller.ZoomAt] keeps the layout point under the cursor fixed on
//     screen, computed at the clamped scale.
//   - A pointer press followed by movement of at most the drag threshold
//     (Manhattan distance) is a click, not a pan.
//
// Sessions are not safe for concurrent use; each handler invocation reads
// then writes the transform as one step. Once [Session.Dispose] has been
// called every operation returns [ErrDisposed].
package viewport
