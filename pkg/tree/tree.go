package tree

import (
	"fmt"
	"strings"

	"github.com/Gor-c/emind/pkg/errors"
)

// Side selects the half of the diagram a root branch belongs to.
type Side string

const (
	// SideUnset means no hint; the layout treats it as right unless the
	// balancing rule moves the branch.
	SideUnset Side = ""
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Valid reports whether s is one of the known side values.
func (s Side) Valid() bool {
	return s == SideUnset || s == SideLeft || s == SideRight
}

// UnmarshalText rejects anything other than "left", "right", or empty.
func (s *Side) UnmarshalText(text []byte) error {
	v := Side(strings.TrimSpace(string(text)))
	if !v.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid side %q (must be 'left' or 'right')", string(text))
	}
	*s = v
	return nil
}

// Node is one labeled node of a mind map.
type Node struct {
	Name     string  `json:"name" yaml:"name"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
	Color    string  `json:"color,omitempty" yaml:"color,omitempty"`
	Side     Side    `json:"side,omitempty" yaml:"side,omitempty"`
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Visitor is called for each node in pre-order. Returning false skips the
// node's subtree.
type Visitor func(n *Node, depth int) bool

// Walk visits root and its descendants in pre-order, children in order.
func Walk(root *Node, fn Visitor) {
	if root == nil {
		return
	}
	walk(root, 0, fn)
}

func walk(n *Node, depth int, fn Visitor) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		if c != nil {
			walk(c, depth+1, fn)
		}
	}
}

// Count returns the total number of nodes in the tree, root included.
func Count(root *Node) int {
	n := 0
	Walk(root, func(*Node, int) bool {
		n++
		return true
	})
	return n
}

// Depth returns the depth of the deepest node (0 for a lone root).
func Depth(root *Node) int {
	deepest := 0
	Walk(root, func(_ *Node, d int) bool {
		deepest = max(deepest, d)
		return true
	})
	return deepest
}

// Validate checks the structural invariants of a tree.
//
// It rejects a nil root, nil children, empty names, invalid sides, and any node
// reachable more than once (a cycle or a shared subtree). Errors carry
// [errors.ErrCodeInvalidInput] and the slash-separated path of the offending
// node.
func Validate(root *Node) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidInput, "tree has no root")
	}
	seen := make(map[*Node]bool)
	return validate(root, root.Name, seen)
}

func validate(n *Node, path string, seen map[*Node]bool) error {
	if seen[n] {
		return errors.New(errors.ErrCodeInvalidInput, "node %q is reachable more than once", path)
	}
	seen[n] = true

	if n.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "node %q has an empty name", path)
	}
	if !n.Side.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "node %q has invalid side %q", path, n.Side)
	}
	for i, c := range n.Children {
		if c == nil {
			return errors.New(errors.ErrCodeInvalidInput, "node %q has a nil child at index %d", path, i)
		}
		if err := validate(c, fmt.Sprintf("%s/%s", path, c.Name), seen); err != nil {
			return err
		}
	}
	return nil
}
