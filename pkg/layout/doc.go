// Package layout computes the dual-sided tidy tree layout of a mind map.
//
// # Overview
//
// The root's direct children are split into a left and a right set
// ([Partition]). Each set is laid out independently as a tidy tree hanging
// off the shared root ([LayoutSide]); the left result is mirrored so it
// grows in the opposite direction ([Mirror]); the two results are spliced
// into one node list and one edge list ([Merge]). [Compute] runs the whole
// sequence.
//
// # Coordinates
//
// Positions are in layout space, not screen space:
//
//   - Along: the depth axis. depth × horizontal spacing, negated on the
//     left side. The root sits at 0.
//   - Across: the sibling axis. Tidy-tree packed so subtrees never overlap,
//     scaled by the vertical spacing. The root sits at 0.
//
// Spacing shrinks as the tree grows ([Options.Spacing]); the defaults are
//
//	vertical   = max(35, 60 − min(25, N/20))
//	horizontal = max(180, 220 + N/5)
//
// where N is the node count of the whole tree, not of one side.
//
// # Balancing
//
// When no root child asks for the left side and more than three children
// are present, the first ceil(n/2) children move to the left. An explicit
// left hint disables balancing entirely, however lopsided the sides are.
package layout
