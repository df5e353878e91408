package layout

import "encoding/json"

// exportNode is the wire form of a positioned node.
type exportNode struct {
	ID     int     `json:"id"`
	Parent *int    `json:"parent,omitempty"`
	Name   string  `json:"name"`
	Depth  int     `json:"depth"`
	Side   Side    `json:"side"`
	Along  float64 `json:"along"`
	Across float64 `json:"across"`
	Leaf   bool    `json:"leaf,omitempty"`
	Color  string  `json:"color,omitempty"`
}

type exportLayout struct {
	Spacing Spacing      `json:"spacing"`
	Left    int          `json:"left"`
	Right   int          `json:"right"`
	Nodes   []exportNode `json:"nodes"`
	Edges   [][2]int     `json:"edges"`
}

// MarshalJSON encodes the layout with nodes referenced by their index in
// l.Nodes. Edges are [parent, child] index pairs.
func (l *Layout) MarshalJSON() ([]byte, error) {
	index := make(map[*Node]int, len(l.Nodes))
	for i, n := range l.Nodes {
		index[n] = i
	}

	out := exportLayout{
		Spacing: l.Spacing,
		Left:    l.LeftCount,
		Right:   l.RightCount,
		Nodes:   make([]exportNode, len(l.Nodes)),
		Edges:   make([][2]int, len(l.Edges)),
	}
	for i, n := range l.Nodes {
		en := exportNode{
			ID:     i,
			Name:   n.Name(),
			Depth:  n.Depth,
			Side:   n.Side,
			Along:  n.Along,
			Across: n.Across,
			Leaf:   !n.IsRoot() && n.IsLeaf(),
			Color:  n.Source.Color,
		}
		if n.Parent != nil {
			p := index[n.Parent]
			en.Parent = &p
		}
		out.Nodes[i] = en
	}
	for i, e := range l.Edges {
		out.Edges[i] = [2]int{index[e.Parent], index[e.Child]}
	}
	return json.Marshal(out)
}
