package stmtspec

import (
	"github.com/perbu/stmtree/pkg/statement"
)

// Build assembles nodes into a new BLOCK statement. Every part is created
// and moved into place through the statement kernel, bottom-up. Nodes must
// have passed validation; an invalid node panics in the kernel.
func Build(nodes []Node) *statement.Statement {
	b := statement.New()
	for i := range nodes {
		s := buildNode(&nodes[i])
		b.AddToBlock(b.LengthOfBlock(), s)
	}
	return b
}

func buildNode(n *Node) *statement.Statement {
	s := statement.New()
	switch {
	case n.Call != "":
		s.AssembleCall(n.Call)
	case n.If != nil:
		s.AssembleIf(n.If.Condition, Build(n.If.Then))
	case n.IfElse != nil:
		s.AssembleIfElse(n.IfElse.Condition, Build(n.IfElse.Then), Build(n.IfElse.Else))
	case n.While != nil:
		s.AssembleWhile(n.While.Condition, Build(n.While.Do))
	}
	return s
}

// Describe returns the nodes of the BLOCK s. s is taken apart and put back
// together through the kernel, so it is unchanged when Describe returns.
func Describe(s *statement.Statement) []Node {
	nodes := make([]Node, 0, s.LengthOfBlock())
	for i := range s.LengthOfBlock() {
		child := s.RemoveFromBlock(i)
		nodes = append(nodes, describeNode(child))
		s.AddToBlock(i, child)
	}
	return nodes
}

func describeNode(s *statement.Statement) Node {
	switch s.Kind() {
	case statement.Call:
		inst := s.DisassembleCall()
		s.AssembleCall(inst)
		return Node{Call: inst}

	case statement.If:
		body := statement.New()
		c := s.DisassembleIf(body)
		then := Describe(body)
		s.AssembleIf(c, body)
		return Node{If: &Branch{Condition: c, Then: then}}

	case statement.IfElse:
		then, els := statement.New(), statement.New()
		c := s.DisassembleIfElse(then, els)
		n := Node{IfElse: &Branch{Condition: c, Then: Describe(then), Else: Describe(els)}}
		s.AssembleIfElse(c, then, els)
		return n

	case statement.While:
		body := statement.New()
		c := s.DisassembleWhile(body)
		do := Describe(body)
		s.AssembleWhile(c, body)
		return Node{While: &Loop{Condition: c, Do: do}}
	}

	// A BLOCK cannot be a child of a BLOCK.
	panic("stmtspec: describe of " + s.Kind().String())
}
