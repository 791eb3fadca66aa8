package statement

import "github.com/perbu/stmtree/pkg/condition"

// Kind returns the kind of s's root.
func (s *Statement) Kind() Kind {
	return s.repr().Root().Kind()
}

// LengthOfBlock returns the number of statements in the BLOCK s.
func (s *Statement) LengthOfBlock() int {
	require(s.Kind() == Block, "LengthOfBlock", "[this is a BLOCK statement]")
	return s.repr().NumberOfSubtrees()
}

// AddToBlock moves st into the BLOCK s at position pos and resets st to an
// empty BLOCK. st must not itself be a BLOCK.
func (s *Statement) AddToBlock(pos int, st *Statement) {
	const op = "AddToBlock"
	require(st != nil, op, "s is not nil")
	require(st != s, op, "s is not this")
	require(s.Kind() == Block, op, "[this is a BLOCK statement]")
	require(0 <= pos, op, "0 <= pos")
	require(pos <= s.LengthOfBlock(), op, "pos <= [length of this BLOCK]")
	require(st.Kind() != Block, op, "[s is not a BLOCK statement]")

	children := s.children()
	root := s.rep.Disassemble(children)
	children.Add(pos, st.rep)
	st.createNewRep()
	s.rep.Assemble(root, children)
}

// RemoveFromBlock detaches the statement at position pos of the BLOCK s and
// returns it as a new, independently owned statement.
func (s *Statement) RemoveFromBlock(pos int) *Statement {
	const op = "RemoveFromBlock"
	require(s.Kind() == Block, op, "[this is a BLOCK statement]")
	require(0 <= pos, op, "0 <= pos")
	require(pos < s.LengthOfBlock(), op, "pos < [length of this BLOCK]")

	removed := s.NewInstance()
	children := s.children()
	root := s.rep.Disassemble(children)
	removed.rep = children.Remove(pos)
	s.rep.Assemble(root, children)
	return removed
}

// AssembleIf makes s the statement IF c THEN st, moving st's tree in as
// the body and resetting st to an empty BLOCK. Whatever s held before is
// discarded. st must be a BLOCK.
func (s *Statement) AssembleIf(c condition.Condition, st *Statement) {
	const op = "AssembleIf"
	require(st != nil, op, "s is not nil")
	require(st != s, op, "s is not this")
	require(st.Kind() == Block, op, "[s is a BLOCK statement]")
	label := conditionLabel(op, If, c)

	children := s.children()
	children.Add(0, st.repr())
	s.repr().Assemble(label, children)
	st.createNewRep()
}

// DisassembleIf moves the body of the IF statement s into st, resets s to
// an empty BLOCK and returns the condition.
func (s *Statement) DisassembleIf(st *Statement) condition.Condition {
	const op = "DisassembleIf"
	require(st != nil, op, "s is not nil")
	require(st != s, op, "s is not this")
	require(s.Kind() == If, op, "[this is an IF statement]")

	children := s.children()
	label := s.rep.Disassemble(children)
	st.rep = children.Remove(0)
	s.createNewRep()
	return label.condition
}

// AssembleIfElse makes s the statement IF c THEN st1 ELSE st2, moving the
// two blocks in as then-body and else-body and resetting both donors to
// empty BLOCKs. st1 and st2 must be distinct BLOCKs.
func (s *Statement) AssembleIfElse(c condition.Condition, st1, st2 *Statement) {
	const op = "AssembleIfElse"
	require(st1 != nil, op, "s1 is not nil")
	require(st2 != nil, op, "s2 is not nil")
	require(st1 != s, op, "s1 is not this")
	require(st2 != s, op, "s2 is not this")
	require(st1 != st2, op, "s1 is not s2")
	require(st1.Kind() == Block, op, "[s1 is a BLOCK statement]")
	require(st2.Kind() == Block, op, "[s2 is a BLOCK statement]")
	label := conditionLabel(op, IfElse, c)

	children := s.children()
	children.Add(0, st1.repr())
	children.Add(1, st2.repr())
	s.repr().Assemble(label, children)
	st1.createNewRep()
	st2.createNewRep()
}

// DisassembleIfElse moves the then-body of the IF_ELSE statement s into st1
// and the else-body into st2, resets s to an empty BLOCK and returns the
// condition.
func (s *Statement) DisassembleIfElse(st1, st2 *Statement) condition.Condition {
	const op = "DisassembleIfElse"
	require(st1 != nil, op, "s1 is not nil")
	require(st2 != nil, op, "s2 is not nil")
	require(st1 != s, op, "s1 is not this")
	require(st2 != s, op, "s2 is not this")
	require(st1 != st2, op, "s1 is not s2")
	require(s.Kind() == IfElse, op, "[this is an IF_ELSE statement]")

	children := s.children()
	label := s.rep.Disassemble(children)
	st1.rep = children.Remove(0)
	st2.rep = children.Remove(0)
	s.createNewRep()
	return label.condition
}

// AssembleWhile makes s the statement WHILE c DO st, moving st's tree in as
// the body and resetting st to an empty BLOCK. st must be a BLOCK.
func (s *Statement) AssembleWhile(c condition.Condition, st *Statement) {
	const op = "AssembleWhile"
	require(st != nil, op, "s is not nil")
	require(st != s, op, "s is not this")
	require(st.Kind() == Block, op, "[s is a BLOCK statement]")
	label := conditionLabel(op, While, c)

	children := s.children()
	children.Add(0, st.repr())
	s.repr().Assemble(label, children)
	st.createNewRep()
}

// DisassembleWhile moves the body of the WHILE statement s into st, resets
// s to an empty BLOCK and returns the condition.
func (s *Statement) DisassembleWhile(st *Statement) condition.Condition {
	const op = "DisassembleWhile"
	require(st != nil, op, "s is not nil")
	require(st != s, op, "s is not this")
	require(s.Kind() == While, op, "[this is a WHILE statement]")

	children := s.children()
	label := s.rep.Disassemble(children)
	st.rep = children.Remove(0)
	s.createNewRep()
	return label.condition
}

// AssembleCall makes s the CALL statement for instruction inst.
func (s *Statement) AssembleCall(inst string) {
	label := callLabel("AssembleCall", inst)
	s.repr().Assemble(label, s.children())
}

// DisassembleCall resets the CALL statement s to an empty BLOCK and returns
// its instruction name.
func (s *Statement) DisassembleCall() string {
	require(s.Kind() == Call, "DisassembleCall", "[this is a CALL statement]")

	label := s.rep.Disassemble(s.children())
	s.createNewRep()
	return label.instruction
}
