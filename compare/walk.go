package compare

// StepKind is the kind of an element produced by Walk.
type StepKind int

const (
	// StepRoot starts the subtree of a root node
	StepRoot StepKind = iota
	// StepEdge visits the union edge Head -> Dep
	StepEdge
	// StepCycle follows a StepEdge whose dependent is already an ancestor;
	// the branch is not descended
	StepCycle
)

// Step is one element of the depth first traversal of a Report.
type Step struct {
	Kind StepKind
	Dep  int
	Head int

	// Depth is 0 for roots and their direct edges
	Depth int

	// Last is true if the edge is the last child of its head
	Last bool

	// Trail holds, for every depth above this step, whether that ancestor
	// edge was the last child. It is only valid during the visit call.
	Trail []bool
}

// Walk traverses the union tree from each root in ascending order, children
// in ascending order, calling visit for every root, edge and cycle marker.
//
// The union of several trees may contain cycles; one ancestor set is kept
// along the current path, and a dependent already in it produces a
// StepCycle instead of a descent.
func Walk(r Report, visit func(Step)) {
	w := walker{r: r, visit: visit, path: map[int]bool{}}

	for _, root := range r.Roots {
		visit(Step{Kind: StepRoot, Dep: root})
		w.path[root] = true
		w.children(root, 0)
		delete(w.path, root)
	}
}

type walker struct {
	r     Report
	visit func(Step)
	path  map[int]bool
	trail []bool
}

func (w *walker) children(head, depth int) {
	deps := w.r.Children[head]
	for i, dep := range deps {
		last := i == len(deps)-1
		w.visit(Step{Kind: StepEdge, Dep: dep, Head: head, Depth: depth, Last: last, Trail: w.trail})

		w.trail = append(w.trail, last)
		if w.path[dep] {
			w.visit(Step{Kind: StepCycle, Dep: dep, Head: head, Depth: depth + 1, Trail: w.trail})
			w.trail = w.trail[:len(w.trail)-1]
			continue
		}

		w.path[dep] = true
		w.children(dep, depth+1)
		delete(w.path, dep)
		w.trail = w.trail[:len(w.trail)-1]
	}
}
