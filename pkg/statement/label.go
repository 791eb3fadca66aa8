package statement

import (
	"github.com/perbu/stmtree/pkg/condition"
	"github.com/perbu/stmtree/pkg/identifier"
)

// Label is the value stored at every node of a statement tree. Its kind
// fixes which payload is present: a Condition for IF, IF_ELSE and WHILE, an
// instruction name for CALL, nothing for BLOCK. Labels can only be created
// through the kernel, so every Label is well formed.
type Label struct {
	kind        Kind
	condition   condition.Condition
	instruction string
}

func blockLabel() Label {
	return Label{kind: Block}
}

func conditionLabel(op string, k Kind, c condition.Condition) Label {
	require(k.HasCondition(), op, "k = IF or k = IF_ELSE or k = WHILE")
	require(c.Valid(), op, "c is a valid condition")
	return Label{kind: k, condition: c}
}

func callLabel(op string, inst string) Label {
	require(identifier.IsIdentifier(inst), op, "inst is an IDENTIFIER")
	return Label{kind: Call, instruction: inst}
}

// Kind returns the label's statement kind.
func (l Label) Kind() Kind {
	return l.kind
}

// Condition returns the guard of an IF, IF_ELSE or WHILE label.
func (l Label) Condition() condition.Condition {
	require(l.kind.HasCondition(), "Label.Condition", "label is IF, IF_ELSE or WHILE")
	return l.condition
}

// Instruction returns the instruction name of a CALL label.
func (l Label) Instruction() string {
	require(l.kind == Call, "Label.Instruction", "label is CALL")
	return l.instruction
}

// String renders the label as (KIND,condition,instruction), with "?" in
// place of the payload the kind does not carry.
func (l Label) String() string {
	cond, inst := "?", "?"
	switch {
	case l.kind.HasCondition():
		cond = l.condition.String()
	case l.kind == Call:
		inst = l.instruction
	}
	return "(" + l.kind.String() + "," + cond + "," + inst + ")"
}
