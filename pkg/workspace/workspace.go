// Package workspace holds a set of named statements and applies kernel
// operations to them by name.
//
// Every operation takes the workspace lock, so a Workspace may be shared
// between goroutines. Contract violations raised by the statement kernel
// are returned as errors wrapping ErrContract; since the kernel checks all
// of its preconditions before touching any statement, a rejected operation
// leaves the workspace unchanged.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/perbu/stmtree/pkg/condition"
	"github.com/perbu/stmtree/pkg/events"
	"github.com/perbu/stmtree/pkg/statement"
)

const defaultPublishTimeout = 1 * time.Second

var (
	ErrNotFound = errors.New("statement not found")
	ErrExists   = errors.New("statement already exists")
	ErrContract = errors.New("contract violation")
)

// Publisher delivers workspace events. *broker.Broker satisfies it.
type Publisher interface {
	Publish(topic string, payload any, timeout time.Duration) error
}

// Config configures a Workspace
type Config struct {
	Publisher      Publisher         // Optional; events are dropped when nil
	PublishTimeout time.Duration     // Defaults to one second
	Factory        statement.Factory // Optional; used for every statement the workspace creates
	Logger         *slog.Logger
}

// Workspace is a mutex-guarded set of named statements
type Workspace struct {
	mu      sync.Mutex
	entries map[string]*statement.Statement

	publisher      Publisher
	publishTimeout time.Duration
	factory        statement.Factory
	logger         *slog.Logger
}

// New creates an empty workspace
func New(cfg Config) *Workspace {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.PublishTimeout == 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}
	return &Workspace{
		entries:        make(map[string]*statement.Statement),
		publisher:      cfg.Publisher,
		publishTimeout: cfg.PublishTimeout,
		factory:        cfg.Factory,
		logger:         cfg.Logger,
	}
}

func (w *Workspace) newStatement() *statement.Statement {
	if w.factory != nil {
		return statement.NewWithFactory(w.factory)
	}
	return statement.New()
}

// lookup must be called with w.mu held.
func (w *Workspace) lookup(name string) (*statement.Statement, error) {
	s, ok := w.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return s, nil
}

// output returns the entry for name, or a fresh statement recorded in
// pending when the name is unused. Pending statements are only added to the
// workspace once the operation succeeds.
func (w *Workspace) output(name string, pending map[string]*statement.Statement) *statement.Statement {
	if s, ok := w.entries[name]; ok {
		return s
	}
	if s, ok := pending[name]; ok {
		return s
	}
	s := w.newStatement()
	pending[name] = s
	return s
}

// guard runs fn, turning a kernel contract panic into an ErrContract error.
// Any other panic is re-raised.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			var ce *statement.ContractError
			if e, ok := r.(error); ok && errors.As(e, &ce) {
				err = fmt.Errorf("%w: %s", ErrContract, ce.Violation)
				return
			}
			panic(r)
		}
	}()
	return fn()
}

// edit runs fn under the lock and publishes the outcome for name.
func (w *Workspace) edit(op, name string, fn func() error) error {
	evt, err := w.apply(op, name, fn)
	if err != nil {
		err = fmt.Errorf("%s %q: %w", op, name, err)
		w.logger.Debug("Workspace operation rejected", "op", op, "name", name, "error", err)
		w.publish(events.EventWorkspaceError{ID: uuid.New(), Op: op, Error: err})
		return err
	}
	w.logger.Debug("Statement edited", "op", op, "name", name, "kind", evt.Kind, "length", evt.Length)
	w.publish(evt)
	return nil
}

// apply runs fn with w.mu held and describes the edited statement. The lock
// is released even when fn panics with something other than a contract
// violation.
func (w *Workspace) apply(op, name string, fn func() error) (events.EventStatementEdited, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := guard(fn); err != nil {
		return events.EventStatementEdited{}, err
	}
	return w.editedEvent(op, name), nil
}

// editedEvent must be called with w.mu held.
func (w *Workspace) editedEvent(op, name string) events.EventStatementEdited {
	evt := events.EventStatementEdited{
		ID:   uuid.New(),
		Name: name,
		Op:   op,
	}
	if s, ok := w.entries[name]; ok {
		evt.Kind = s.Kind()
		if evt.Kind == statement.Block {
			evt.Length = s.LengthOfBlock()
		}
	}
	return evt
}

func (w *Workspace) publish(payload any) {
	if w.publisher == nil {
		return
	}
	if err := w.publisher.Publish(events.TopicStatement, payload, w.publishTimeout); err != nil {
		w.logger.Warn("Failed to publish workspace event", "error", err)
	}
}

// Create adds an empty BLOCK named name
func (w *Workspace) Create(name string) error {
	return w.edit("Create", name, func() error {
		if name == "" {
			return fmt.Errorf("%w: name is empty", ErrContract)
		}
		if _, ok := w.entries[name]; ok {
			return fmt.Errorf("%w: %q", ErrExists, name)
		}
		w.entries[name] = w.newStatement()
		return nil
	})
}

// Put moves s into the workspace under name, replacing any existing entry.
// s is left as an empty BLOCK.
func (w *Workspace) Put(name string, s *statement.Statement) error {
	return w.edit("Put", name, func() error {
		if name == "" {
			return fmt.Errorf("%w: name is empty", ErrContract)
		}
		if s == nil {
			return fmt.Errorf("%w: s is not nil", ErrContract)
		}
		for _, existing := range w.entries {
			if existing == s {
				return fmt.Errorf("%w: s is not already in the workspace", ErrContract)
			}
		}
		entry := w.newStatement()
		entry.TransferFrom(s)
		w.entries[name] = entry
		return nil
	})
}

// Take removes name from the workspace and returns its statement
func (w *Workspace) Take(name string) (*statement.Statement, error) {
	var taken *statement.Statement
	err := w.edit("Take", name, func() error {
		s, err := w.lookup(name)
		if err != nil {
			return err
		}
		delete(w.entries, name)
		taken = s
		return nil
	})
	return taken, err
}

// Kind returns the kind of the statement named name
func (w *Workspace) Kind(name string) (statement.Kind, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, err := w.lookup(name)
	if err != nil {
		return 0, err
	}
	return s.Kind(), nil
}

// Length returns the block length of the statement named name
func (w *Workspace) Length(name string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, err := w.lookup(name)
	if err != nil {
		return 0, err
	}
	var n int
	err = guard(func() error {
		n = s.LengthOfBlock()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("Length %q: %w", name, err)
	}
	return n, nil
}

// AddToBlock moves donor into the BLOCK target at pos. The donor entry stays
// in the workspace as an empty BLOCK.
func (w *Workspace) AddToBlock(target string, pos int, donor string) error {
	return w.edit("AddToBlock", target, func() error {
		t, err := w.lookup(target)
		if err != nil {
			return err
		}
		d, err := w.lookup(donor)
		if err != nil {
			return err
		}
		t.AddToBlock(pos, d)
		return nil
	})
}

// RemoveFromBlock detaches the statement at pos of the BLOCK target and
// stores it under into, replacing any existing entry of that name.
func (w *Workspace) RemoveFromBlock(target string, pos int, into string) error {
	return w.edit("RemoveFromBlock", target, func() error {
		t, err := w.lookup(target)
		if err != nil {
			return err
		}
		if into == target {
			return fmt.Errorf("%w: into is not target", ErrContract)
		}
		if into == "" {
			return fmt.Errorf("%w: name is empty", ErrContract)
		}
		w.entries[into] = t.RemoveFromBlock(pos)
		return nil
	})
}

// AssembleIf makes name the statement IF c THEN body
func (w *Workspace) AssembleIf(name string, c condition.Condition, body string) error {
	return w.edit("AssembleIf", name, func() error {
		s, err := w.lookup(name)
		if err != nil {
			return err
		}
		b, err := w.lookup(body)
		if err != nil {
			return err
		}
		s.AssembleIf(c, b)
		return nil
	})
}

// AssembleIfElse makes name the statement IF c THEN then ELSE els
func (w *Workspace) AssembleIfElse(name string, c condition.Condition, then, els string) error {
	return w.edit("AssembleIfElse", name, func() error {
		s, err := w.lookup(name)
		if err != nil {
			return err
		}
		t, err := w.lookup(then)
		if err != nil {
			return err
		}
		e, err := w.lookup(els)
		if err != nil {
			return err
		}
		s.AssembleIfElse(c, t, e)
		return nil
	})
}

// AssembleWhile makes name the statement WHILE c DO body
func (w *Workspace) AssembleWhile(name string, c condition.Condition, body string) error {
	return w.edit("AssembleWhile", name, func() error {
		s, err := w.lookup(name)
		if err != nil {
			return err
		}
		b, err := w.lookup(body)
		if err != nil {
			return err
		}
		s.AssembleWhile(c, b)
		return nil
	})
}

// AssembleCall makes name the statement CALL inst
func (w *Workspace) AssembleCall(name, inst string) error {
	return w.edit("AssembleCall", name, func() error {
		s, err := w.lookup(name)
		if err != nil {
			return err
		}
		s.AssembleCall(inst)
		return nil
	})
}

// DisassembleIf moves the body of the IF statement name into body, which is
// created when it does not exist. name is left as an empty BLOCK.
func (w *Workspace) DisassembleIf(name, body string) (condition.Condition, error) {
	var c condition.Condition
	err := w.edit("DisassembleIf", name, func() error {
		s, err := w.lookup(name)
		if err != nil {
			return err
		}
		pending := make(map[string]*statement.Statement)
		c = s.DisassembleIf(w.output(body, pending))
		maps.Copy(w.entries, pending)
		return nil
	})
	return c, err
}

// DisassembleIfElse moves the branches of the IF_ELSE statement name into
// then and els, creating them when they do not exist.
func (w *Workspace) DisassembleIfElse(name, then, els string) (condition.Condition, error) {
	var c condition.Condition
	err := w.edit("DisassembleIfElse", name, func() error {
		s, err := w.lookup(name)
		if err != nil {
			return err
		}
		pending := make(map[string]*statement.Statement)
		c = s.DisassembleIfElse(w.output(then, pending), w.output(els, pending))
		maps.Copy(w.entries, pending)
		return nil
	})
	return c, err
}

// DisassembleWhile moves the body of the WHILE statement name into body
func (w *Workspace) DisassembleWhile(name, body string) (condition.Condition, error) {
	var c condition.Condition
	err := w.edit("DisassembleWhile", name, func() error {
		s, err := w.lookup(name)
		if err != nil {
			return err
		}
		pending := make(map[string]*statement.Statement)
		c = s.DisassembleWhile(w.output(body, pending))
		maps.Copy(w.entries, pending)
		return nil
	})
	return c, err
}

// DisassembleCall resets the CALL statement name to an empty BLOCK and
// returns its instruction
func (w *Workspace) DisassembleCall(name string) (string, error) {
	var inst string
	err := w.edit("DisassembleCall", name, func() error {
		s, err := w.lookup(name)
		if err != nil {
			return err
		}
		inst = s.DisassembleCall()
		return nil
	})
	return inst, err
}

// Clear resets name to an empty BLOCK
func (w *Workspace) Clear(name string) error {
	return w.edit("Clear", name, func() error {
		s, err := w.lookup(name)
		if err != nil {
			return err
		}
		s.Clear()
		return nil
	})
}

// Names returns the names in the workspace, sorted
func (w *Workspace) Names() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, 0, len(w.entries))
	for name := range w.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Snapshot returns an independent copy of the statement named name
func (w *Workspace) Snapshot(name string) (*statement.Statement, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, err := w.lookup(name)
	if err != nil {
		return nil, err
	}
	return s.Clone(), nil
}
