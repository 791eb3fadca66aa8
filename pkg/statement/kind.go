package statement

import (
	"fmt"
	"strings"
)

// Kind identifies which statement variant a node represents.
type Kind int

const (
	Block Kind = iota
	If
	IfElse
	While
	Call
)

var kindNames = [...]string{
	Block:  "BLOCK",
	If:     "IF",
	IfElse: "IF_ELSE",
	While:  "WHILE",
	Call:   "CALL",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{Block, If, IfElse, While, Call}
}

func (k Kind) String() string {
	if k < Block || k > Call {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// HasCondition reports whether statements of kind k carry a Condition.
func (k Kind) HasCondition() bool {
	return k == If || k == IfElse || k == While
}

// Arity returns the number of children a node of kind k has. Block returns
// -1 since a BLOCK may hold any number of statements.
func (k Kind) Arity() int {
	switch k {
	case If, While:
		return 1
	case IfElse:
		return 2
	case Call:
		return 0
	default:
		return -1
	}
}

// ParseKind returns the kind named s, ignoring case.
func ParseKind(s string) (Kind, error) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for k, name := range kindNames {
		if name == key {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown statement kind %q", s)
}
