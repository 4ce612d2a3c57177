package hierarchy

import (
	"iter"

	tgerrors "github.com/example/taskgraph/internal/errors"
)

// TreeNode is one node of a hierarchy snapshot.
type TreeNode struct {
	Node
	Depth    int
	Children []*TreeNode
}

// BuildTree materializes the subtree rooted at rootID. Construction is
// breadth-first with an explicit queue; depth beyond maxDepth or a node seen
// twice is a ConsistencyViolation.
func BuildTree(r Reader, rootID string, maxDepth int) (*TreeNode, error) {
	rootNode, err := r.Node(rootID)
	if err != nil {
		return nil, err
	}

	root := &TreeNode{Node: rootNode}
	seen := map[string]bool{rootID: true}
	queue := []*TreeNode{root}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		children, err := r.Children(cur.ID)
		if err != nil {
			return nil, err
		}
		if len(children) > 0 && cur.Depth+1 > maxDepth {
			return nil, tgerrors.ConsistencyViolation("subtree of %s exceeds depth %d", rootID, maxDepth)
		}

		for _, c := range children {
			if seen[c.ID] {
				return nil, tgerrors.ConsistencyViolation("item %s appears twice under %s", c.ID, rootID)
			}
			seen[c.ID] = true
			child := &TreeNode{Node: c, Depth: cur.Depth + 1}
			cur.Children = append(cur.Children, child)
			queue = append(queue, child)
		}
	}

	return root, nil
}

// All yields the subtree in pre-order. Each call starts a fresh traversal.
func (t *TreeNode) All() iter.Seq[*TreeNode] {
	return func(yield func(*TreeNode) bool) {
		if t == nil {
			return
		}
		stack := []*TreeNode{t}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, n.Children[i])
			}
		}
	}
}

// Size returns the number of nodes in the subtree.
func (t *TreeNode) Size() int {
	n := 0
	for range t.All() {
		n++
	}
	return n
}
