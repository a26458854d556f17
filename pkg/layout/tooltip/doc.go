// Package tooltip positions a detail popup next to a pointer or focus origin
// so it stays inside the viewport.
//
// Placement is two-pass. Before the popup has been measured, [Place] returns
// a provisional position offset from the origin. Once its size and the
// viewport are known, the popup goes right of the origin if it fits, else
// left, else centered on it, and is then clamped to stay padding away from
// the viewport edges. The vertical axis works the same way with below
// preferred over above.
//
// [State] models the two passes explicitly. A popup opens Provisional and
// moves to Measured when [State.Apply] receives a usable [Measurement].
// Applying the same measurement twice yields the same state, so a host that
// re-measures on every frame settles immediately.
package tooltip
