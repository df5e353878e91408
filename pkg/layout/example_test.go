package layout_test

import (
	"fmt"

	"github.com/Gor-c/emind/pkg/layout"
	"github.com/Gor-c/emind/pkg/tree"
)

func ExampleCompute() {
	root := &tree.Node{
		Name: "Root",
		Children: []*tree.Node{
			{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"},
		},
	}

	l, err := layout.Compute(root, layout.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, n := range l.Nodes {
		fmt.Printf("%s %s depth=%d along=%.0f\n", n.Name(), n.Side, n.Depth, n.Along)
	}
	// Output:
	// Root root depth=0 along=0
	// C right depth=1 along=221
	// D right depth=1 along=221
	// A left depth=1 along=-221
	// B left depth=1 along=-221
}

func ExamplePartition() {
	children := []*tree.Node{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}, {Name: "E"}}
	left, right := layout.Partition(children, 3)
	fmt.Println(len(left), "left,", len(right), "right")
	// Output: 3 left, 2 right
}
