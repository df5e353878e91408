package layout

// walker carries the per-node state of the Buchheim–Walker tidy tree pass.
type walker struct {
	node     *Node
	parent   *walker
	children []*walker
	index    int

	ancestor *walker // default ancestor, kept on the parent
	a        *walker
	thread   *walker
	prelim   float64
	mod      float64
	change   float64
	shift    float64
}

// tidy assigns Along and Across to every node under root.
// Siblings are one unit apart, cousins two, before scaling by sp.
func tidy(root *Node, sp Spacing) {
	sentinel := &walker{}
	w := newWalker(root, sentinel, 0)
	sentinel.children = []*walker{w}

	firstWalk(w)
	sentinel.mod = -w.prelim
	secondWalk(w, sp)
}

func newWalker(n *Node, parent *walker, index int) *walker {
	w := &walker{node: n, parent: parent, index: index}
	w.a = w
	w.children = make([]*walker, len(n.Children))
	for i, c := range n.Children {
		w.children[i] = newWalker(c, w, i)
	}
	return w
}

func separation(a, b *walker) float64 {
	if a.parent == b.parent {
		return 1
	}
	return 2
}

func nextLeft(v *walker) *walker {
	if len(v.children) > 0 {
		return v.children[0]
	}
	return v.thread
}

func nextRight(v *walker) *walker {
	if len(v.children) > 0 {
		return v.children[len(v.children)-1]
	}
	return v.thread
}

func moveSubtree(wm, wp *walker, shift float64) {
	change := shift / float64(wp.index-wm.index)
	wp.change -= change
	wp.shift += shift
	wm.change += change
	wp.prelim += shift
	wp.mod += shift
}

func executeShifts(v *walker) {
	var shift, change float64
	for i := len(v.children) - 1; i >= 0; i-- {
		w := v.children[i]
		w.prelim += shift
		w.mod += shift
		change += w.change
		shift += w.shift + change
	}
}

func nextAncestor(vim, v, ancestor *walker) *walker {
	if vim.a.parent == v.parent {
		return vim.a
	}
	return ancestor
}

// firstWalk computes preliminary positions bottom-up.
func firstWalk(v *walker) {
	for _, c := range v.children {
		firstWalk(c)
	}

	siblings := v.parent.children
	var w *walker
	if v.index > 0 {
		w = siblings[v.index-1]
	}

	if len(v.children) > 0 {
		executeShifts(v)
		mid := (v.children[0].prelim + v.children[len(v.children)-1].prelim) / 2
		if w != nil {
			v.prelim = w.prelim + separation(v, w)
			v.mod = v.prelim - mid
		} else {
			v.prelim = mid
		}
	} else if w != nil {
		v.prelim = w.prelim + separation(v, w)
	}

	anc := v.parent.ancestor
	if anc == nil {
		anc = siblings[0]
	}
	v.parent.ancestor = apportion(v, w, anc)
}

// apportion pushes v's subtree right until it clears its left siblings.
func apportion(v, w, ancestor *walker) *walker {
	if w == nil {
		return ancestor
	}
	vip, vop := v, v
	vim := w
	vom := vip.parent.children[0]
	sip, sop := vip.mod, vop.mod
	sim, som := vim.mod, vom.mod

	for {
		vim = nextRight(vim)
		vip = nextLeft(vip)
		if vim == nil || vip == nil {
			break
		}
		vom = nextLeft(vom)
		vop = nextRight(vop)
		vop.a = v
		shift := vim.prelim + sim - vip.prelim - sip + separation(vim, vip)
		if shift > 0 {
			moveSubtree(nextAncestor(vim, v, ancestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += vim.mod
		sip += vip.mod
		som += vom.mod
		sop += vop.mod
	}

	if vim != nil && nextRight(vop) == nil {
		vop.thread = vim
		vop.mod += sim - sop
	}
	if vip != nil && nextLeft(vom) == nil {
		vom.thread = vip
		vom.mod += sip - som
		ancestor = v
	}
	return ancestor
}

// secondWalk resolves final positions top-down and applies spacing.
func secondWalk(v *walker, sp Spacing) {
	x := v.prelim + v.parent.mod
	v.mod += v.parent.mod
	v.node.Across = x * sp.Vertical
	v.node.Along = float64(v.node.Depth) * sp.Horizontal
	for _, c := range v.children {
		secondWalk(c, sp)
	}
}
