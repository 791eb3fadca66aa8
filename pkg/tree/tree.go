// Package tree provides a mutable n-ary tree with labelled nodes.
//
// A Tree is either empty or a root label with an ordered sequence of
// subtrees. Trees are built and taken apart with Assemble and Disassemble,
// both of which move subtrees rather than share them: after Assemble the
// child sequence passed in is empty, and after Disassemble the tree itself
// is empty.
package tree

import (
	"fmt"

	"github.com/perbu/stmtree/pkg/sequence"
)

// Tree is an n-ary tree of T labels. The zero value is an empty tree.
type Tree[T any] struct {
	root *node[T]
}

type node[T any] struct {
	label    T
	children *sequence.Sequence[*Tree[T]]
}

// New returns an empty tree.
func New[T any]() *Tree[T] {
	return &Tree[T]{}
}

// NewSequenceOfTree returns an empty child sequence suitable for Assemble
// and Disassemble.
func (t *Tree[T]) NewSequenceOfTree() *sequence.Sequence[*Tree[T]] {
	return sequence.New[*Tree[T]]()
}

// Assemble replaces t with a tree whose root is label and whose subtrees are
// the entries of children, in order. children is left empty. No entry of
// children may be nil or t itself.
func (t *Tree[T]) Assemble(label T, children *sequence.Sequence[*Tree[T]]) {
	if children == nil {
		panic("tree: assemble with nil children")
	}
	seen := make(map[*Tree[T]]int, children.Length())
	for i, c := range children.All {
		if c == nil {
			panic(fmt.Sprintf("tree: assemble child %d is nil", i))
		}
		if c == t {
			panic(fmt.Sprintf("tree: assemble child %d is the tree itself", i))
		}
		if j, ok := seen[c]; ok {
			panic(fmt.Sprintf("tree: assemble children %d and %d are the same tree", j, i))
		}
		seen[c] = i
	}

	owned := sequence.New[*Tree[T]]()
	owned.TransferFrom(children)
	t.root = &node[T]{label: label, children: owned}
}

// Disassemble empties t, moving its subtrees into children (replacing any
// previous entries) and returning the root label. t must not be empty.
func (t *Tree[T]) Disassemble(children *sequence.Sequence[*Tree[T]]) T {
	if t.root == nil {
		panic("tree: disassemble of empty tree")
	}
	if children == nil {
		panic("tree: disassemble with nil children")
	}
	n := t.root
	t.root = nil
	children.TransferFrom(n.children)
	return n.label
}

// Root returns the root label without modifying t. t must not be empty.
func (t *Tree[T]) Root() T {
	if t.root == nil {
		panic("tree: root of empty tree")
	}
	return t.root.label
}

// NumberOfSubtrees returns the number of immediate subtrees of the root.
// t must not be empty.
func (t *Tree[T]) NumberOfSubtrees() int {
	if t.root == nil {
		panic("tree: number of subtrees of empty tree")
	}
	return t.root.children.Length()
}

// Subtree returns the subtree at pos without detaching it. The result is
// still owned by t and must only be read.
func (t *Tree[T]) Subtree(pos int) *Tree[T] {
	if t.root == nil {
		panic("tree: subtree of empty tree")
	}
	return t.root.children.Entry(pos)
}

// Size returns the total number of nodes in t.
func (t *Tree[T]) Size() int {
	if t.root == nil {
		return 0
	}
	size := 1
	for _, c := range t.root.children.All {
		size += c.Size()
	}
	return size
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree[T]) Height() int {
	if t.root == nil {
		return 0
	}
	h := 0
	for _, c := range t.root.children.All {
		h = max(h, c.Height())
	}
	return h + 1
}

// Clear makes t empty.
func (t *Tree[T]) Clear() {
	t.root = nil
}

// TransferFrom moves the contents of source into t and leaves source empty.
func (t *Tree[T]) TransferFrom(source *Tree[T]) {
	if source == t {
		panic("tree: transfer from self")
	}
	t.root = source.root
	source.root = nil
}
