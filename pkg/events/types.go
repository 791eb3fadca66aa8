package events

import (
	"github.com/google/uuid"

	"github.com/perbu/stmtree/pkg/statement"
)

// Statement edit events (published to /statement stream)

// TopicStatement is the broker topic workspace edits are published on
const TopicStatement = "/statement"

// EventStatementEdited is published after every successful workspace edit
type EventStatementEdited struct {
	ID     uuid.UUID
	Name   string         // Workspace entry that was edited
	Op     string         // Kernel operation, e.g. "AssembleWhile"
	Kind   statement.Kind // Kind of the entry after the edit
	Length int            // Block length after the edit, 0 for non-BLOCK kinds
}

// EventWorkspaceError is published when a workspace operation is rejected
type EventWorkspaceError struct {
	ID    uuid.UUID
	Op    string
	Error error
}
