// Package condition defines the guard conditions of IF, IF_ELSE and WHILE
// statements. A Condition is an opaque comparable value; the statement
// kernel only stores and returns it.
package condition

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Condition is a test a bug can make about its surroundings.
// The zero value is not a valid condition.
type Condition int

const (
	NextIsEmpty Condition = iota + 1
	NextIsNotEmpty
	NextIsWall
	NextIsNotWall
	NextIsFriend
	NextIsNotFriend
	NextIsEnemy
	NextIsNotEnemy
	Random
	True
)

var names = [...]string{
	NextIsEmpty:     "NEXT_IS_EMPTY",
	NextIsNotEmpty:  "NEXT_IS_NOT_EMPTY",
	NextIsWall:      "NEXT_IS_WALL",
	NextIsNotWall:   "NEXT_IS_NOT_WALL",
	NextIsFriend:    "NEXT_IS_FRIEND",
	NextIsNotFriend: "NEXT_IS_NOT_FRIEND",
	NextIsEnemy:     "NEXT_IS_ENEMY",
	NextIsNotEnemy:  "NEXT_IS_NOT_ENEMY",
	Random:          "RANDOM",
	True:            "TRUE",
}

// All returns every valid condition in declaration order.
func All() []Condition {
	all := make([]Condition, 0, len(names)-1)
	for c := NextIsEmpty; c <= True; c++ {
		all = append(all, c)
	}
	return all
}

// Valid reports whether c is one of the declared conditions.
func (c Condition) Valid() bool {
	return c >= NextIsEmpty && c <= True
}

func (c Condition) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Condition(%d)", int(c))
	}
	return names[c]
}

// Parse returns the condition named s. Matching ignores case and accepts
// hyphens in place of underscores ("next-is-empty").
func Parse(s string) (Condition, error) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for c := NextIsEmpty; c <= True; c++ {
		if names[c] == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown condition %q", s)
}

// MarshalYAML encodes c by name.
func (c Condition) MarshalYAML() (interface{}, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid condition %d", int(c))
	}
	return c.String(), nil
}

// UnmarshalYAML decodes a condition name.
func (c *Condition) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("line %d: condition must be a string: %w", value.Line, err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}
