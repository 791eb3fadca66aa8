package stmtspec

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/perbu/stmtree/pkg/identifier"
	"github.com/perbu/stmtree/pkg/statement"
	"gopkg.in/yaml.v3"
)

// Load reads and parses a YAML fixture file
// Supports multiple fixture documents separated by ---
func Load(filename string) ([]Fixture, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading fixture file: %w", err)
	}

	fixtures, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("no fixture documents found in %s", filename)
	}
	return fixtures, nil
}

// Parse decodes every fixture document in data
func Parse(data []byte) ([]Fixture, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Strict mode - fail on unknown fields

	var fixtures []Fixture
	docNum := 0

	for {
		var fixture Fixture
		err := decoder.Decode(&fixture)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing fixture document %d: %w", docNum+1, err)
		}

		docNum++

		if err := validate(&fixture); err != nil {
			return nil, fmt.Errorf("fixture %d (%q): %w", docNum, fixture.Name, err)
		}

		fixture.ApplyDefaults()

		fixtures = append(fixtures, fixture)
	}

	return fixtures, nil
}

// validate checks that required fields are present and every node can be built
func validate(f *Fixture) error {
	if f.Name == "" {
		return fmt.Errorf("fixture name is required")
	}
	if err := validateBlock(f.Statement, "statement"); err != nil {
		return err
	}
	if f.Expect != nil {
		if err := validateExpectations(f.Expect); err != nil {
			return fmt.Errorf("expect: %w", err)
		}
	}
	return nil
}

func validateBlock(nodes []Node, path string) error {
	for i := range nodes {
		if err := validateNode(&nodes[i], fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func validateNode(n *Node, path string) error {
	form, err := n.Form()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	switch form {
	case "call":
		if !identifier.IsIdentifier(n.Call) {
			return fmt.Errorf("%s: call %q is not a valid identifier", path, n.Call)
		}
	case "if":
		if !n.If.Condition.Valid() {
			return fmt.Errorf("%s.if: condition is required", path)
		}
		if n.If.Else != nil {
			return fmt.Errorf("%s.if: else branch requires if_else", path)
		}
		return validateBlock(n.If.Then, path+".if.then")
	case "if_else":
		if !n.IfElse.Condition.Valid() {
			return fmt.Errorf("%s.if_else: condition is required", path)
		}
		if err := validateBlock(n.IfElse.Then, path+".if_else.then"); err != nil {
			return err
		}
		return validateBlock(n.IfElse.Else, path+".if_else.else")
	case "while":
		if !n.While.Condition.Valid() {
			return fmt.Errorf("%s.while: condition is required", path)
		}
		return validateBlock(n.While.Do, path+".while.do")
	}
	return nil
}

func validateExpectations(e *Expectations) error {
	for name, count := range e.Kinds {
		if _, err := statement.ParseKind(name); err != nil {
			return fmt.Errorf("%w, want one of %v", err, statement.Kinds())
		}
		if count < 0 {
			return fmt.Errorf("kinds.%s must not be negative", name)
		}
	}
	if e.Length != nil && *e.Length < 0 {
		return fmt.Errorf("length must not be negative")
	}
	if e.Calls != nil && *e.Calls < 0 {
		return fmt.Errorf("calls must not be negative")
	}
	if e.Depth != nil && *e.Depth < 1 {
		return fmt.Errorf("depth must be at least 1")
	}
	return nil
}
