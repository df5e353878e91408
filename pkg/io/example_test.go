package io_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/Gor-c/emind/pkg/io"
	"github.com/Gor-c/emind/pkg/tree"
)

func ExampleReadYAML() {
	root, err := io.ReadYAML(strings.NewReader(`
name: Trip
children:
  - name: Packing
    side: left
  - name: Route
`))
	if err != nil {
		fmt.Println(err)
		return
	}
	tree.Walk(root, func(n *tree.Node, depth int) bool {
		fmt.Printf("%s%s\n", strings.Repeat("  ", depth), n.Name)
		return true
	})
	// Output:
	// Trip
	//   Packing
	//   Route
}

func ExampleWriteJSON() {
	root := &tree.Node{Name: "Root", Children: []*tree.Node{{Name: "Idea", Side: tree.SideRight}}}
	if err := io.WriteJSON(root, os.Stdout); err != nil {
		fmt.Println(err)
	}
	// Output:
	// {
	//   "name": "Root",
	//   "children": [
	//     {
	//       "name": "Idea",
	//       "side": "right"
	//     }
	//   ]
	// }
}
