// Package statement implements the statement type of the Bugs Language: a
// tree whose nodes are BLOCK, IF, IF_ELSE, WHILE or CALL statements.
//
// A *Statement owns its tree exclusively. Operations that hand a subtree
// from one statement to another move it and reset the donor to an empty
// BLOCK, so no two live statements ever share structure:
//
//	body := statement.New()
//	step := statement.New()
//	step.AssembleCall("move")
//	body.AddToBlock(0, step) // step is now an empty BLOCK
//
//	loop := statement.New()
//	loop.AssembleWhile(condition.NextIsEmpty, body) // body is now an empty BLOCK
//
// Kernel operations panic with a *ContractError when a precondition does
// not hold. All checks run before any state changes.
//
// A Statement is not safe for concurrent use.
package statement

import (
	"github.com/perbu/stmtree/pkg/sequence"
	"github.com/perbu/stmtree/pkg/tree"
)

// Factory creates a fresh, empty BLOCK statement. NewInstance uses the
// factory a statement was created with whenever an operation has to hand
// out a new owning statement.
type Factory func() *Statement

// Statement is a statement tree. The zero value is an empty BLOCK.
//
// A Statement owns its tree exclusively and must not be copied by value
// after first use; pass *Statement instead.
type Statement struct {
	noCopy  noCopy
	rep     *tree.Tree[Label]
	factory Factory
}

// noCopy lets go vet's copylocks check report value copies of Statement.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New returns an empty BLOCK statement.
func New() *Statement {
	s := &Statement{factory: New}
	s.createNewRep()
	return s
}

// NewWithFactory returns an empty BLOCK statement whose NewInstance calls f.
func NewWithFactory(f Factory) *Statement {
	require(f != nil, "NewWithFactory", "f is not nil")
	s := &Statement{factory: f}
	s.createNewRep()
	return s
}

func (s *Statement) createNewRep() {
	s.rep = tree.New[Label]()
	s.rep.Assemble(blockLabel(), s.rep.NewSequenceOfTree())
}

func (s *Statement) repr() *tree.Tree[Label] {
	if s.rep == nil {
		s.createNewRep()
	}
	return s.rep
}

func (s *Statement) children() *sequence.Sequence[*tree.Tree[Label]] {
	return s.repr().NewSequenceOfTree()
}

// NewInstance returns a new empty BLOCK statement from s's factory.
func (s *Statement) NewInstance() *Statement {
	f := s.factory
	if f == nil {
		f = New
	}
	n := f()
	require(n != nil, "NewInstance", "factory result is not nil")
	require(n != s, "NewInstance", "factory result is not this")
	require(n.Kind() == Block && n.LengthOfBlock() == 0, "NewInstance", "factory result is an empty BLOCK")
	return n
}

// Clear resets s to an empty BLOCK.
func (s *Statement) Clear() {
	s.createNewRep()
}

// TransferFrom moves the whole tree of source into s, discarding s's
// previous value, and resets source to an empty BLOCK.
func (s *Statement) TransferFrom(source *Statement) {
	const op = "TransferFrom"
	require(source != nil, op, "source is not nil")
	require(source != s, op, "source is not this")

	s.rep = source.repr()
	source.createNewRep()
}
