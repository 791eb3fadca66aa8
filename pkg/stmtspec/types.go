package stmtspec

import (
	"fmt"
	"slices"

	"github.com/perbu/stmtree/pkg/condition"
	"gopkg.in/yaml.v3"
)

// Fixture is a single named statement with optional expectations
type Fixture struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Statement   []Node        `yaml:"statement"`        // The top-level BLOCK
	Expect      *Expectations `yaml:"expect,omitempty"` // Optional structural checks
}

// Node is one non-BLOCK statement. Exactly one field must be set.
// A plain string in YAML is shorthand for {call: <string>}.
type Node struct {
	Call   string  `yaml:"call,omitempty"`
	If     *Branch `yaml:"if,omitempty"`
	IfElse *Branch `yaml:"if_else,omitempty"`
	While  *Loop   `yaml:"while,omitempty"`
}

// Branch is the payload of an IF or IF_ELSE node
type Branch struct {
	Condition condition.Condition `yaml:"condition"`
	Then      []Node              `yaml:"then"`
	Else      []Node              `yaml:"else,omitempty"` // IF_ELSE only
}

// Loop is the payload of a WHILE node
type Loop struct {
	Condition condition.Condition `yaml:"condition"`
	Do        []Node              `yaml:"do"`
}

// Expectations describes structural properties the built statement must have
type Expectations struct {
	Length       *int           `yaml:"length,omitempty"`       // Statements in the top-level BLOCK
	Calls        *int           `yaml:"calls,omitempty"`        // CALL statements anywhere in the tree
	Depth        *int           `yaml:"depth,omitempty"`        // Nesting depth, root BLOCK = 1
	Kinds        map[string]int `yaml:"kinds,omitempty"`        // Node count per kind name
	Instructions []string       `yaml:"instructions,omitempty"` // Distinct instructions, sorted
}

// UnmarshalYAML implements custom unmarshaling to support the plain string form
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var call string
		if err := value.Decode(&call); err != nil {
			return err
		}
		*n = Node{Call: call}
		return nil
	}

	if err := checkKeys(value, "call", "if", "if_else", "while"); err != nil {
		return err
	}
	type rawNode Node
	var raw rawNode
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*n = Node(raw)
	return nil
}

// UnmarshalYAML rejects unknown fields, which Node.Decode would otherwise drop
func (b *Branch) UnmarshalYAML(value *yaml.Node) error {
	if err := checkKeys(value, "condition", "then", "else"); err != nil {
		return err
	}
	type rawBranch Branch
	var raw rawBranch
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*b = Branch(raw)
	return nil
}

// UnmarshalYAML rejects unknown fields, which Node.Decode would otherwise drop
func (l *Loop) UnmarshalYAML(value *yaml.Node) error {
	if err := checkKeys(value, "condition", "do"); err != nil {
		return err
	}
	type rawLoop Loop
	var raw rawLoop
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*l = Loop(raw)
	return nil
}

// checkKeys fails if a mapping node has a key outside allowed
func checkKeys(value *yaml.Node, allowed ...string) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i]
		if !slices.Contains(allowed, key.Value) {
			return fmt.Errorf("line %d: field %s not found, expected one of %v", key.Line, key.Value, allowed)
		}
	}
	return nil
}

// Form returns the statement form the node describes, or an error if the
// node sets no form or more than one.
func (n *Node) Form() (string, error) {
	var forms []string
	if n.Call != "" {
		forms = append(forms, "call")
	}
	if n.If != nil {
		forms = append(forms, "if")
	}
	if n.IfElse != nil {
		forms = append(forms, "if_else")
	}
	if n.While != nil {
		forms = append(forms, "while")
	}

	switch len(forms) {
	case 0:
		return "", fmt.Errorf("node must set one of call, if, if_else or while")
	case 1:
		return forms[0], nil
	default:
		return "", fmt.Errorf("node sets more than one form: %v", forms)
	}
}

// ApplyDefaults sets default values for optional fields
func (f *Fixture) ApplyDefaults() {
	if f.Statement == nil {
		f.Statement = []Node{}
	}
	if f.Expect != nil && f.Expect.Kinds == nil {
		f.Expect.Kinds = map[string]int{}
	}
}

// HasExpectations returns true if the fixture declares any checks
func (f *Fixture) HasExpectations() bool {
	if f.Expect == nil {
		return false
	}
	e := f.Expect
	return e.Length != nil || e.Calls != nil || e.Depth != nil ||
		len(e.Kinds) > 0 || e.Instructions != nil
}
