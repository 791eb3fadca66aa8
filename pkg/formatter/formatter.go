package formatter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/perbu/stmtree/pkg/runner"
	"github.com/perbu/stmtree/pkg/statement"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorGray   = "\033[90m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorBold   = "\033[1m"
)

var kindColors = map[statement.Kind]string{
	statement.Block:  ColorGray,
	statement.If:     ColorYellow,
	statement.IfElse: ColorYellow,
	statement.While:  ColorBlue,
	statement.Call:   ColorGreen,
}

// FormatTree renders every node label of s on its own line, indented two
// spaces per level.
func FormatTree(s *statement.Statement, useColor bool) string {
	var output strings.Builder
	s.Walk(func(depth int, l statement.Label) bool {
		indent := strings.Repeat("  ", depth)
		if useColor {
			fmt.Fprintf(&output, "%s%s%s%s\n", indent, kindColors[l.Kind()], l, ColorReset)
		} else {
			fmt.Fprintf(&output, "%s%s\n", indent, l)
		}
		return true
	})
	return output.String()
}

// FormatResult formats a single fixture result. Passing fixtures get one
// line; failures list every error, the tree's shape and the built tree.
func FormatResult(result *runner.TestResult, useColor bool) string {
	var output strings.Builder

	if result.Passed {
		if useColor {
			fmt.Fprintf(&output, "%sPASS%s: %s (%dms)\n", ColorGreen, ColorReset, result.TestName, result.Duration.Milliseconds())
		} else {
			fmt.Fprintf(&output, "PASS: %s (%dms)\n", result.TestName, result.Duration.Milliseconds())
		}
		return output.String()
	}

	if useColor {
		fmt.Fprintf(&output, "\n%s%sFAILED:%s %s\n", ColorBold, ColorRed, ColorReset, result.TestName)
	} else {
		fmt.Fprintf(&output, "\nFAILED: %s\n", result.TestName)
	}

	for _, err := range result.Errors {
		if useColor {
			fmt.Fprintf(&output, "  %s✗%s %s\n", ColorRed, ColorReset, err)
		} else {
			fmt.Fprintf(&output, "  ✗ %s\n", err)
		}
	}

	if sum := result.Summary; sum != nil {
		fmt.Fprintf(&output, "  nodes=%d depth=%d loops=%d branches=%d calls=%d\n",
			sum.Nodes, sum.Depth, sum.Loops(), sum.Branches(), sum.Calls)
	}

	if result.Tree != "" {
		if useColor {
			fmt.Fprintf(&output, "\n%s%sStatement:%s\n  %s\n", ColorBold, ColorYellow, ColorReset, result.Tree)
		} else {
			fmt.Fprintf(&output, "\nStatement:\n  %s\n", result.Tree)
		}
	}

	return output.String()
}

// WriteSummary writes the pass/fail totals and lists failed fixtures
func WriteSummary(w io.Writer, results []runner.TestResult, useColor bool) {
	passed, failed := 0, 0
	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	color := func(c string) string {
		if useColor {
			return c
		}
		return ""
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "========================================\n")
	fmt.Fprintf(w, "Fixture Summary\n")
	fmt.Fprintf(w, "========================================\n")
	fmt.Fprintf(w, "Total:  %d\n", len(results))
	fmt.Fprintf(w, "%sPassed: %d%s\n", color(ColorGreen), passed, color(ColorReset))
	if failed > 0 {
		fmt.Fprintf(w, "%sFailed: %d%s\n", color(ColorRed), failed, color(ColorReset))
		fmt.Fprintf(w, "\nFailed fixtures:\n")
		for _, r := range results {
			if !r.Passed {
				fmt.Fprintf(w, "  - %s\n", r.TestName)
			}
		}
	} else {
		fmt.Fprintf(w, "Failed: %d\n", failed)
	}
}

// ShouldUseColor determines if color output should be used.
// Returns true only if NO_COLOR is unset and stdout is a terminal.
func ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// UseColor resolves a color mode of auto, always or never
func UseColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return ShouldUseColor()
	}
}
