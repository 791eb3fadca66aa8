package statement

import (
	"strings"

	"github.com/perbu/stmtree/pkg/tree"
)

// Label returns a copy of the label at s's root.
func (s *Statement) Label() Label {
	return s.repr().Root()
}

// Equal reports whether s and other have the same kind, payload and
// children, recursively and in order.
func (s *Statement) Equal(other *Statement) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return equalTrees(s.repr(), other.repr())
}

func equalTrees(a, b *tree.Tree[Label]) bool {
	if a.Root() != b.Root() {
		return false
	}
	n := a.NumberOfSubtrees()
	if n != b.NumberOfSubtrees() {
		return false
	}
	for i := range n {
		if !equalTrees(a.Subtree(i), b.Subtree(i)) {
			return false
		}
	}
	return true
}

// Clone returns an independent deep copy of s created through s's factory.
func (s *Statement) Clone() *Statement {
	c := s.NewInstance()
	c.rep = cloneTree(s.repr())
	return c
}

func cloneTree(t *tree.Tree[Label]) *tree.Tree[Label] {
	children := t.NewSequenceOfTree()
	for i := range t.NumberOfSubtrees() {
		children.Add(i, cloneTree(t.Subtree(i)))
	}
	c := tree.New[Label]()
	c.Assemble(t.Root(), children)
	return c
}

// Size returns the number of statement nodes in s, counting s itself.
func (s *Statement) Size() int {
	return s.repr().Size()
}

// Height returns the number of statements on the longest root-to-leaf
// path. An empty BLOCK has height 1.
func (s *Statement) Height() int {
	return s.repr().Height()
}

// Walk calls fn for every node of s in depth-first pre-order, with the
// node's depth (0 for s itself). If fn returns false the node's children
// are skipped. fn must not modify s.
func (s *Statement) Walk(fn func(depth int, l Label) bool) {
	walk(s.repr(), 0, fn)
}

func walk(t *tree.Tree[Label], depth int, fn func(int, Label) bool) {
	if !fn(depth, t.Root()) {
		return
	}
	for i := range t.NumberOfSubtrees() {
		walk(t.Subtree(i), depth+1, fn)
	}
}

// String renders s as nested debug labels, for example
// (BLOCK,?,?){(CALL,?,move),(WHILE,TRUE,?){(BLOCK,?,?){}}}.
func (s *Statement) String() string {
	var b strings.Builder
	writeTree(&b, s.repr())
	return b.String()
}

func writeTree(b *strings.Builder, t *tree.Tree[Label]) {
	b.WriteString(t.Root().String())
	n := t.NumberOfSubtrees()
	if n == 0 && t.Root().Kind() == Call {
		return
	}
	b.WriteByte('{')
	for i := range n {
		if i > 0 {
			b.WriteByte(',')
		}
		writeTree(b, t.Subtree(i))
	}
	b.WriteByte('}')
}
