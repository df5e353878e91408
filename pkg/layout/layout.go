package layout

import (
	"github.com/Gor-c/emind/pkg/errors"
	"github.com/Gor-c/emind/pkg/tree"
)

// Side identifies which half of the diagram a positioned node is drawn in.
type Side int

const (
	SideRoot Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "root"
	}
}

// MarshalText encodes the side as its name.
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Node is a tree node with its layout position.
type Node struct {
	// Source is the input node. It is never modified.
	Source *tree.Node
	// Parent is nil for the root.
	Parent   *Node
	Children []*Node
	Depth    int
	Along    float64
	Across   float64
	Side     Side
}

// IsRoot reports whether n is the diagram root.
func (n *Node) IsRoot() bool { return n.Depth == 0 }

// IsLeaf reports whether the input node has no children.
func (n *Node) IsLeaf() bool { return n.Source.IsLeaf() }

// Name returns the input node's label.
func (n *Node) Name() string { return n.Source.Name }

// Edge links a parent to one of its children.
type Edge struct {
	Parent *Node
	Child  *Node
}

// Subtree is the layout of one side: the root plus the side's branches.
// Nodes are in pre-order, starting with the root.
type Subtree struct {
	Side  Side
	Nodes []*Node
	Edges []Edge
}

// Root returns the subtree's root node.
func (s *Subtree) Root() *Node { return s.Nodes[0] }

// Layout is the merged diagram: one root, both sides.
type Layout struct {
	// Nodes holds the right side in pre-order (root first) followed by the
	// left side in pre-order without its root.
	Nodes   []*Node
	Edges   []Edge
	Spacing Spacing
	// LeftCount and RightCount are the number of root children on each side.
	LeftCount, RightCount int

	bySource map[*tree.Node]*Node
}

// Root returns the diagram root.
func (l *Layout) Root() *Node { return l.Nodes[0] }

// Lookup returns the positioned node for an input node.
func (l *Layout) Lookup(src *tree.Node) (*Node, bool) {
	n, ok := l.bySource[src]
	return n, ok
}

// Extent returns the min and max coordinates over all node centers.
func (l *Layout) Extent() (minAlong, maxAlong, minAcross, maxAcross float64) {
	for i, n := range l.Nodes {
		if i == 0 {
			minAlong, maxAlong, minAcross, maxAcross = n.Along, n.Along, n.Across, n.Across
			continue
		}
		minAlong = min(minAlong, n.Along)
		maxAlong = max(maxAlong, n.Along)
		minAcross = min(minAcross, n.Across)
		maxAcross = max(maxAcross, n.Across)
	}
	return
}

// Compute lays out root as a dual-sided tidy tree.
//
// The tree is validated first; an invalid tree yields an
// [errors.ErrCodeInvalidInput] error. A root without children produces a
// single node and no edges.
func Compute(root *tree.Node, opts Options) (*Layout, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeDegenerateContent, "nothing to lay out")
	}
	if err := tree.Validate(root); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sp := opts.Spacing(tree.Count(root))
	left, right := Partition(root.Children, opts.BalanceThreshold)

	rightSide := LayoutSide(root, right, SideRight, sp)
	leftSide := LayoutSide(root, left, SideLeft, sp)
	Mirror(leftSide)

	return Merge(rightSide, leftSide, sp), nil
}

// Partition splits the root's children into the left and right sets.
//
// Children with an explicit left side go left; everything else goes right.
// If that leaves the left set empty and the right set holds more than
// threshold children, the first ceil(n/2) right children move left. Order
// within each set follows the input order.
func Partition(children []*tree.Node, threshold int) (left, right []*tree.Node) {
	for _, c := range children {
		if c.Side == tree.SideLeft {
			left = append(left, c)
		} else {
			right = append(right, c)
		}
	}
	if len(left) == 0 && len(right) > threshold {
		half := (len(right) + 1) / 2
		left = append([]*tree.Node(nil), right[:half]...)
		right = append([]*tree.Node(nil), right[half:]...)
	}
	return left, right
}

// LayoutSide lays out a tidy tree whose root is root and whose first-level
// children are branches (not root.Children). Deeper levels follow the input
// tree. The result is not mirrored.
func LayoutSide(root *tree.Node, branches []*tree.Node, side Side, sp Spacing) *Subtree {
	sub := &Subtree{Side: side}
	top := &Node{Source: root, Side: SideRoot}
	sub.Nodes = append(sub.Nodes, top)
	build(sub, top, branches, side)

	tidy(top, sp)
	return sub
}

// build attaches positioned children to parent in pre-order.
func build(sub *Subtree, parent *Node, children []*tree.Node, side Side) {
	for _, c := range children {
		n := &Node{Source: c, Parent: parent, Depth: parent.Depth + 1, Side: side}
		parent.Children = append(parent.Children, n)
		sub.Nodes = append(sub.Nodes, n)
		sub.Edges = append(sub.Edges, Edge{Parent: parent, Child: n})
		build(sub, n, c.Children, side)
	}
}

// Mirror negates the along coordinate of every non-root node.
func Mirror(sub *Subtree) {
	for _, n := range sub.Nodes {
		if !n.IsRoot() {
			n.Along = -n.Along
		}
	}
}

// Merge splices two side layouts into one diagram sharing right's root.
//
// The result contains every node of right followed by every node of left
// except its root; left's first-level nodes are re-parented onto right's
// root. Left edges are kept only when they touch a non-root node, so the
// shared root never links to itself. Merge takes ownership of both inputs.
func Merge(right, left *Subtree, sp Spacing) *Layout {
	root := right.Root()
	l := &Layout{
		Nodes:      make([]*Node, 0, len(right.Nodes)+len(left.Nodes)-1),
		Edges:      make([]Edge, 0, len(right.Edges)+len(left.Edges)),
		Spacing:    sp,
		RightCount: len(root.Children),
		LeftCount:  len(left.Root().Children),
	}

	l.Nodes = append(l.Nodes, right.Nodes...)
	l.Edges = append(l.Edges, right.Edges...)

	leftRoot := left.Root()
	for _, n := range left.Nodes {
		if n == leftRoot {
			continue
		}
		if n.Parent == leftRoot {
			n.Parent = root
			root.Children = append(root.Children, n)
		}
		l.Nodes = append(l.Nodes, n)
	}
	for _, e := range left.Edges {
		if e.Parent.IsRoot() && e.Child.IsRoot() {
			continue
		}
		if e.Parent == leftRoot {
			e.Parent = root
		}
		l.Edges = append(l.Edges, e)
	}

	l.bySource = make(map[*tree.Node]*Node, len(l.Nodes))
	for _, n := range l.Nodes {
		l.bySource[n.Source] = n
	}
	return l
}
