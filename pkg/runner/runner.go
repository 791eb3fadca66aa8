package runner

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/perbu/stmtree/pkg/assertion"
	"github.com/perbu/stmtree/pkg/inspect"
	"github.com/perbu/stmtree/pkg/statement"
	"github.com/perbu/stmtree/pkg/stmtspec"
	"github.com/perbu/stmtree/pkg/workspace"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// sanitizeName converts a fixture name into a workspace name prefix
func sanitizeName(name string) string {
	sanitized := nonAlphanumeric.ReplaceAllString(name, "-")
	sanitized = strings.Trim(sanitized, "-")
	sanitized = strings.ToLower(sanitized)
	return "fixture-" + sanitized
}

// TestResult represents the outcome of a single fixture
type TestResult struct {
	TestName string
	Passed   bool
	Errors   []string
	Summary  *inspect.Summary
	Tree     string // Debug rendering of the built statement
	Duration time.Duration
}

// Runner builds fixtures in a workspace and checks them
type Runner struct {
	ws     *workspace.Workspace
	logger *slog.Logger
}

// New creates a new fixture runner
func New(ws *workspace.Workspace, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		ws:     ws,
		logger: logger,
	}
}

// Run builds a single fixture and verifies it. The returned error is only
// set when the workspace rejects the build itself; failed checks are
// reported in the result.
func (r *Runner) Run(f stmtspec.Fixture) (*TestResult, error) {
	start := time.Now()
	result := &TestResult{TestName: f.Name}
	fail := func(format string, args ...any) {
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}

	b := &builder{ws: r.ws, prefix: sanitizeName(f.Name)}
	rootName, err := b.block(f.Statement)
	defer b.release()
	if err != nil {
		return nil, fmt.Errorf("building %q: %w", f.Name, err)
	}
	root, err := r.ws.Snapshot(rootName)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", f.Name, err)
	}
	r.logger.Debug("Built fixture", "fixture", f.Name, "names", len(b.names))

	result.Tree = root.String()
	result.Summary = inspect.Summarize(root)

	if direct := stmtspec.Build(f.Statement); !direct.Equal(root) {
		fail("Workspace build differs from direct build:\n  workspace: %s\n  direct:    %s", root, direct)
	}

	if f.HasExpectations() {
		check := assertion.Check(f.Expect, result.Summary)
		result.Errors = append(result.Errors, check.Errors...)
	} else {
		r.logger.Debug("Fixture has no expectations", "fixture", f.Name)
	}

	before := root.Clone()
	if diff := cmp.Diff(f.Statement, stmtspec.Describe(root), cmpopts.EquateEmpty()); diff != "" {
		fail("Describe round trip mismatch (-fixture +described):\n%s", diff)
	}
	if !root.Equal(before) {
		fail("Describe modified the statement")
	}

	roundTrip(root)
	if !root.Equal(before) {
		fail("Kernel round trip mismatch:\n  got:  %s\n  want: %s", root, before)
	}

	result.Passed = len(result.Errors) == 0
	result.Duration = time.Since(start)
	r.logger.Debug("Fixture checked", "fixture", f.Name, "passed", result.Passed)
	return result, nil
}

// roundTrip disassembles every node of s and reassembles it in place
func roundTrip(s *statement.Statement) {
	switch s.Kind() {
	case statement.Block:
		n := s.LengthOfBlock()
		children := make([]*statement.Statement, n)
		for i := range n {
			children[i] = s.RemoveFromBlock(0)
		}
		for i, child := range children {
			roundTrip(child)
			s.AddToBlock(i, child)
		}
	case statement.If:
		body := s.NewInstance()
		c := s.DisassembleIf(body)
		roundTrip(body)
		s.AssembleIf(c, body)
	case statement.IfElse:
		then, els := s.NewInstance(), s.NewInstance()
		c := s.DisassembleIfElse(then, els)
		roundTrip(then)
		roundTrip(els)
		s.AssembleIfElse(c, then, els)
	case statement.While:
		body := s.NewInstance()
		c := s.DisassembleWhile(body)
		roundTrip(body)
		s.AssembleWhile(c, body)
	case statement.Call:
		s.AssembleCall(s.DisassembleCall())
	}
}

// builder assembles fixture nodes bottom-up through workspace names
type builder struct {
	ws     *workspace.Workspace
	prefix string
	names  []string
}

func (b *builder) create() (string, error) {
	name := fmt.Sprintf("%s/%d", b.prefix, len(b.names))
	if err := b.ws.Create(name); err != nil {
		return "", err
	}
	b.names = append(b.names, name)
	return name, nil
}

// release removes every name the builder created
func (b *builder) release() {
	for _, name := range b.names {
		_, _ = b.ws.Take(name)
	}
}

func (b *builder) block(nodes []stmtspec.Node) (string, error) {
	name, err := b.create()
	if err != nil {
		return "", err
	}
	for i := range nodes {
		child, err := b.node(&nodes[i])
		if err != nil {
			return "", err
		}
		if err := b.ws.AddToBlock(name, i, child); err != nil {
			return "", err
		}
	}
	return name, nil
}

func (b *builder) node(n *stmtspec.Node) (string, error) {
	switch {
	case n.Call != "":
		name, err := b.create()
		if err != nil {
			return "", err
		}
		return name, b.ws.AssembleCall(name, n.Call)
	case n.If != nil:
		return b.compound(func(name string) error {
			body, err := b.block(n.If.Then)
			if err != nil {
				return err
			}
			return b.ws.AssembleIf(name, n.If.Condition, body)
		})
	case n.IfElse != nil:
		return b.compound(func(name string) error {
			then, err := b.block(n.IfElse.Then)
			if err != nil {
				return err
			}
			els, err := b.block(n.IfElse.Else)
			if err != nil {
				return err
			}
			return b.ws.AssembleIfElse(name, n.IfElse.Condition, then, els)
		})
	case n.While != nil:
		return b.compound(func(name string) error {
			body, err := b.block(n.While.Do)
			if err != nil {
				return err
			}
			return b.ws.AssembleWhile(name, n.While.Condition, body)
		})
	}
	return "", fmt.Errorf("node has no statement form")
}

func (b *builder) compound(assemble func(name string) error) (string, error) {
	name, err := b.create()
	if err != nil {
		return "", err
	}
	return name, assemble(name)
}
