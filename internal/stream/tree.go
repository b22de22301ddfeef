package stream

// Node is one nested logging scope in the decoded tree.
type Node struct {
	ID     int
	Parent *Node
	Title  string
	// Label is the slash-joined path of ancestor titles, fixed at creation.
	Label    string
	Children []Child

	level    Level
	hasLevel bool
}

// Child is an ordered member of a context: a nested *Node, a *TextLeaf or an
// *ArtifactLeaf.
type Child interface {
	isChild()
}

// TextLeaf is a rendered text item.
type TextLeaf struct {
	Level Level
	Text  string
}

// ArtifactLeaf is a visual group of one or more artifact references.
// Consecutive artifact items of identical level under the same parent are
// coalesced into a single leaf.
type ArtifactLeaf struct {
	Level Level
	Refs  []ArtifactRef
}

// ArtifactRef is one artifact reference together with its registry identity.
// Viewable is false for files whose suffix is not in the configured viewable
// set; those render as opaque links and carry no Handle.
type ArtifactRef struct {
	Artifact Artifact
	Viewable bool
	Handle   Handle
}

func (*Node) isChild()         {}
func (*TextLeaf) isChild()     {}
func (*ArtifactLeaf) isChild() {}

// Level returns the most severe level seen among the node's descendant
// leaves. The second result is false while no leaf has been decoded below
// the node.
func (n *Node) Level() (Level, bool) {
	return n.level, n.hasLevel
}

// Tree is the decoded context tree. The root is a synthetic context with
// id 0 and an empty label; real contexts are numbered from 1 in creation
// order.
type Tree struct {
	Root   *Node
	nextID int
}

// NewTree returns an empty tree holding only the synthetic root.
func NewTree() *Tree {
	return &Tree{Root: &Node{}, nextID: 1}
}

func (t *Tree) open(parent *Node, title string) *Node {
	label := title
	if parent.Label != "" {
		label = parent.Label + "/" + title
	}
	n := &Node{ID: t.nextID, Parent: parent, Title: title, Label: label}
	t.nextID++
	parent.Children = append(parent.Children, n)
	return n
}

// propagate walks from n upward, recording level on every ancestor that is
// unset or less severe. It stops at the first ancestor that is already at
// least as severe: that one was propagated further up by an earlier leaf.
func propagate(n *Node, level Level) {
	for n != nil && (!n.hasLevel || level.MoreSevere(n.level)) {
		n.level = level
		n.hasLevel = true
		n = n.Parent
	}
}

// Walk visits every context node in the tree in decode order, root first.
func (t *Tree) Walk(visit func(*Node)) {
	var rec func(*Node)
	rec = func(n *Node) {
		visit(n)
		for _, c := range n.Children {
			if child, ok := c.(*Node); ok {
				rec(child)
			}
		}
	}
	rec(t.Root)
}
