// Package journal records the statement edit events published on the
// broker's /statement stream.
package journal

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/borud/broker"

	"github.com/perbu/stmtree/pkg/events"
)

// Entry is one recorded event
type Entry struct {
	Seq  int
	Edit *events.EventStatementEdited // Set for successful edits
	Fail *events.EventWorkspaceError  // Set for rejected operations
}

// Journal subscribes to /statement and keeps every event in delivery order
type Journal struct {
	broker *broker.Broker
	logger *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	entries []Entry

	done chan struct{}
}

// New creates a journal for b
func New(b *broker.Broker, logger *slog.Logger) *Journal {
	j := &Journal{
		broker: b,
		logger: logger,
		done:   make(chan struct{}),
	}
	j.cond = sync.NewCond(&j.mu)
	return j
}

// Start subscribes to the statement stream and records events in the
// background until the broker shuts down.
func (j *Journal) Start() error {
	subscriber, err := j.broker.Subscribe(events.TopicStatement)
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", events.TopicStatement, err)
	}

	go func() {
		defer close(j.done)
		for msg := range subscriber.Messages() {
			switch evt := msg.Payload.(type) {
			case events.EventStatementEdited:
				j.logger.Debug("Journal entry", "op", evt.Op, "name", evt.Name, "kind", evt.Kind, "id", evt.ID)
				j.append(Entry{Edit: &evt})
			case events.EventWorkspaceError:
				j.logger.Debug("Journal error entry", "op", evt.Op, "error", evt.Error)
				j.append(Entry{Fail: &evt})
			default:
				j.logger.Warn("Journal ignoring unknown payload", "type", fmt.Sprintf("%T", msg.Payload))
			}
		}
	}()
	return nil
}

// Done is closed once the recording goroutine has exited, which happens when
// the broker is shut down. It never closes if Start failed.
func (j *Journal) Done() <-chan struct{} {
	return j.done
}

func (j *Journal) append(e Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	e.Seq = len(j.entries)
	j.entries = append(j.entries, e)
	j.cond.Broadcast()
}

// Entries returns a copy of the recorded entries
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Wait blocks until at least n entries are recorded or timeout elapses
func (j *Journal) Wait(n int, timeout time.Duration) error {
	// The deadline is fixed before the timer starts so the wakeup can never
	// arrive ahead of it.
	deadline := time.Now().Add(timeout)
	timer := time.AfterFunc(timeout, func() {
		j.mu.Lock()
		defer j.mu.Unlock()
		j.cond.Broadcast()
	})
	defer timer.Stop()

	j.mu.Lock()
	defer j.mu.Unlock()
	for len(j.entries) < n {
		if !time.Now().Before(deadline) {
			return fmt.Errorf("timeout waiting for %d journal entries, have %d", n, len(j.entries))
		}
		j.cond.Wait()
	}
	return nil
}
