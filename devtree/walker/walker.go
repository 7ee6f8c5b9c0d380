package walker

import (
	"errors"
	"iter"

	"github.com/joshuapare/dtbmods/pkg/types"
)

const (
	// initialStackCapacity is the pre-allocated capacity for the traversal
	// stack. Device trees are shallow; 64 avoids reallocation in practice.
	initialStackCapacity = 64

	// RootPath is the path traversal starts from.
	RootPath = "/"
)

// stackEntry is a pending node. top marks the traversal root, whose
// siblings are never visited.
type stackEntry struct {
	id  types.NodeID
	top bool
}

// AllNodes returns a pre-order sequence of every node in the tree, each
// exactly once.
func AllNodes(nav types.Navigator) iter.Seq2[types.NodeID, error] {
	return func(yield func(types.NodeID, error) bool) {
		root, err := nav.PathOffset(RootPath)
		if err != nil {
			yield(0, err)
			return
		}

		stack := make([]stackEntry, 0, initialStackCapacity)
		stack = append(stack, stackEntry{id: root, top: true})

		for len(stack) > 0 {
			entry := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(entry.id, nil) {
				return
			}

			if !entry.top {
				sibling, err := nav.NextSubnode(entry.id)
				switch {
				case err == nil:
					stack = append(stack, stackEntry{id: sibling})
				case !errors.Is(err, types.ErrNotFound):
					yield(0, err)
					return
				}
			}

			child, err := nav.FirstSubnode(entry.id)
			switch {
			case err == nil:
				stack = append(stack, stackEntry{id: child})
			case !errors.Is(err, types.ErrNotFound):
				yield(0, err)
				return
			}
		}
	}
}

// Count returns the number of nodes in the tree.
func Count(nav types.Navigator) (int, error) {
	n := 0
	for _, err := range AllNodes(nav) {
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
