// Package identifier checks instruction names against the identifier
// grammar: a letter followed by letters, digits or hyphens.
//
// Tokenisation is delegated to the VCL lexer, whose identifier rule is a
// superset of ours (it also admits underscores); a candidate is accepted
// when it lexes to exactly one identifier or keyword token spanning the
// whole input and contains no underscore.
package identifier

import (
	"strings"

	"github.com/perbu/vclparser/pkg/lexer"
)

// IsIdentifier reports whether s is a valid instruction identifier.
func IsIdentifier(s string) bool {
	if s == "" || strings.ContainsRune(s, '_') {
		return false
	}

	tokens := lexer.New(s, "").TokenizeAll()
	if len(tokens) != 2 || tokens[1].Type != lexer.EOF {
		return false
	}

	tok := tokens[0]
	if tok.Value != s {
		return false
	}
	// readIdentifier classifies every scanned word through LookupKeyword, so
	// any other token type means s was a number, operator or comment.
	return tok.Type == lexer.LookupKeyword(tok.Value)
}
