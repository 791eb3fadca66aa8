// Package inspect computes structural summaries of statements.
//
// Summaries are read-only: they walk the statement tree without moving any
// subtree, so the statement is never modified.
package inspect

import (
	"slices"

	"github.com/perbu/stmtree/pkg/statement"
)

// Summary describes the shape of a statement tree
type Summary struct {
	Root         statement.Kind         // Kind of the root statement
	Length       int                    // Immediate children if the root is a BLOCK, otherwise 0
	Nodes        int                    // Total statement nodes, root included
	Depth        int                    // Nodes on the longest root-to-leaf path
	Calls        int                    // CALL statements anywhere in the tree
	Kinds        map[statement.Kind]int // Node count per kind
	Instructions []string               // Distinct CALL instructions, sorted
}

// Summarize walks s and returns its summary
func Summarize(s *statement.Statement) *Summary {
	sum := &Summary{
		Root:  s.Kind(),
		Depth: s.Height(),
		Kinds: make(map[statement.Kind]int),
	}
	if sum.Root == statement.Block {
		sum.Length = s.LengthOfBlock()
	}

	seen := make(map[string]bool)
	s.Walk(func(_ int, l statement.Label) bool {
		sum.Nodes++
		sum.Kinds[l.Kind()]++
		if l.Kind() == statement.Call {
			sum.Calls++
			if inst := l.Instruction(); !seen[inst] {
				seen[inst] = true
				sum.Instructions = append(sum.Instructions, inst)
			}
		}
		return true
	})
	slices.Sort(sum.Instructions)

	return sum
}

// Loops returns the number of WHILE statements in the tree
func (s *Summary) Loops() int {
	return s.Kinds[statement.While]
}

// Branches returns the number of IF and IF_ELSE statements in the tree
func (s *Summary) Branches() int {
	return s.Kinds[statement.If] + s.Kinds[statement.IfElse]
}
