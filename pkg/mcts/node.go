package mcts

import "fmt"

// Index of the node in the tree's arena
type NodeID int32

const (
	NoNode NodeID = -1
	RootID NodeID = 0
)

const (
	ExpandedMask uint32 = 1
	TerminalMask uint32 = 2
)

type Node[T MoveLike] struct {
	Stats NodeStats
	// Move leading to this node, undefined for the root
	Move T
	// Back reference only, NoNode for the root
	Parent NodeID
	// Ordered the same way as the state's legal moves
	Children []NodeID
	Flags    uint32
}

// Same as asking if the node has children
func (node *Node[T]) Expanded() bool {
	return node.Flags&ExpandedMask == ExpandedMask
}

// The game is over in this node's position, it will never get children
func (node *Node[T]) Terminal() bool {
	return node.Flags&TerminalMask == TerminalMask
}

func (node *Node[T]) String() string {
	return fmt.Sprintf("{Move=%v, N=%d, Q=%.2f, Children=%d, Flags=%d}",
		node.Move, node.Stats.N(), node.Stats.Q(), len(node.Children), node.Flags)
}

// Arena of nodes addressed by index, the root is always at RootID.
// Parent links are plain indices, so discarding the tree is a single allocation.
type Tree[T MoveLike] struct {
	nodes []Node[T]
}

func NewTree[T MoveLike]() *Tree[T] {
	tree := &Tree[T]{}
	tree.Reset()
	return tree
}

// Discard every node, leaving a fresh, empty root
func (t *Tree[T]) Reset() {
	t.nodes = make([]Node[T], 1, 256)
	t.nodes[RootID] = Node[T]{Parent: NoNode}
}

func (t *Tree[T]) Root() *Node[T] {
	return &t.nodes[RootID]
}

// Pointer is valid only until the next expansion (the arena may grow)
func (t *Tree[T]) Node(id NodeID) *Node[T] {
	return &t.nodes[id]
}

// Number of nodes in the tree
func (t *Tree[T]) Size() int {
	return len(t.nodes)
}

// Add one child per move to given node. Expansion happens at most once,
// returns false if the node was already expanded or there are no moves,
// in the latter case the node is marked as terminal.
func (t *Tree[T]) Expand(id NodeID, moves []T) bool {
	node := &t.nodes[id]
	if node.Expanded() || node.Terminal() {
		return false
	}

	if len(moves) == 0 {
		node.Flags |= TerminalMask
		return false
	}

	children := make([]NodeID, len(moves))
	for i, move := range moves {
		children[i] = NodeID(len(t.nodes))
		t.nodes = append(t.nodes, Node[T]{Move: move, Parent: id})
	}

	node = &t.nodes[id]
	node.Children = children
	node.Flags |= ExpandedMask
	return true
}

// Find the child reached by given move
func (t *Tree[T]) Child(id NodeID, move T) (NodeID, bool) {
	for _, child := range t.nodes[id].Children {
		if t.nodes[child].Move == move {
			return child, true
		}
	}
	return NoNode, false
}

// Nodes from the root down to given node (inclusive)
func (t *Tree[T]) Path(id NodeID) []NodeID {
	path := make([]NodeID, 0, 16)
	for ; id != NoNode; id = t.nodes[id].Parent {
		path = append(path, id)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Number of moves between the root and given node
func (t *Tree[T]) Depth(id NodeID) int {
	depth := 0
	for id = t.nodes[id].Parent; id != NoNode; id = t.nodes[id].Parent {
		depth++
	}
	return depth
}

// Make given child the new root, discarding its siblings and their subtrees.
// The subtree is copied breadth-first into a new arena, statistics are kept as they are.
func (t *Tree[T]) Reroot(child NodeID) {
	if child == RootID {
		return
	}

	old := t.nodes
	nodes := make([]Node[T], 0, max(256, len(old)/2))
	root := old[child]
	root.Parent = NoNode
	nodes = append(nodes, root)

	// nodes[i] is the copy of old[queue[i]]
	queue := []NodeID{child}
	for i := 0; i < len(queue); i++ {
		src := old[queue[i]].Children
		if len(src) == 0 {
			continue
		}

		children := make([]NodeID, len(src))
		for j, c := range src {
			children[j] = NodeID(len(nodes))
			node := old[c]
			node.Parent = NodeID(i)
			nodes = append(nodes, node)
			queue = append(queue, c)
		}
		nodes[i].Children = children
	}

	t.nodes = nodes
}
