package assertion

import (
	"fmt"
	"slices"
	"sort"

	"github.com/perbu/stmtree/pkg/inspect"
	"github.com/perbu/stmtree/pkg/statement"
	"github.com/perbu/stmtree/pkg/stmtspec"
)

// Result represents the outcome of assertion checking
type Result struct {
	Passed bool
	Errors []string
}

// Check verifies all expectations against a statement summary
func Check(expect *stmtspec.Expectations, sum *inspect.Summary) *Result {
	result := &Result{
		Passed: true,
		Errors: []string{},
	}
	if expect == nil {
		return result
	}

	fail := func(format string, args ...any) {
		result.Passed = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}

	// Check block length (if specified)
	if expect.Length != nil && sum.Length != *expect.Length {
		fail("Length: expected %d, got %d", *expect.Length, sum.Length)
	}

	// Check call count (if specified)
	if expect.Calls != nil && sum.Calls != *expect.Calls {
		fail("Calls: expected %d, got %d", *expect.Calls, sum.Calls)
	}

	// Check nesting depth (if specified)
	if expect.Depth != nil && sum.Depth != *expect.Depth {
		fail("Depth: expected %d, got %d", *expect.Depth, sum.Depth)
	}

	// Check per-kind counts in a stable order
	names := make([]string, 0, len(expect.Kinds))
	for name := range expect.Kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		kind, err := statement.ParseKind(name)
		if err != nil {
			fail("Kind %q: %v", name, err)
			continue
		}
		if got, want := sum.Kinds[kind], expect.Kinds[name]; got != want {
			fail("Kind %s: expected %d, got %d", kind, want, got)
		}
	}

	// Check instructions (if specified)
	if expect.Instructions != nil {
		want := slices.Clone(expect.Instructions)
		slices.Sort(want)
		want = slices.Compact(want)
		if !slices.Equal(want, sum.Instructions) {
			fail("Instructions: expected %v, got %v", want, sum.Instructions)
		}
	}

	return result
}
