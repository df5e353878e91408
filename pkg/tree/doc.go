// Package tree defines the mind map input model.
//
// A [Node] is a labeled tree node with ordered children, an optional display
// color, and an optional [Side] hint. Only the side of a direct child of the
// root is meaningful: it picks which half of the mirrored diagram the branch
// is drawn in.
//
// The tree is owned by the caller and treated as read-only for the duration
// of a render pass. Identity matters: the pipeline rebuilds everything when
// it receives a different *Node root, and keeps the view transform when it
// receives the same pointer again. Mutating a tree in place between passes
// is not supported.
//
// [Validate] checks the structural invariants (non-nil root, non-empty
// labels, no node reachable twice) before layout. Absent children are
// treated as empty; no other normalization is performed.
package tree
