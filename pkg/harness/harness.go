package harness

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/borud/broker"

	"github.com/perbu/stmtree/pkg/config"
	"github.com/perbu/stmtree/pkg/journal"
	"github.com/perbu/stmtree/pkg/runner"
	"github.com/perbu/stmtree/pkg/stmtspec"
	"github.com/perbu/stmtree/pkg/workspace"
)

const journalWait = 5 * time.Second

// Harness orchestrates fixture execution.
type Harness struct {
	cfg    *Config
	logger *slog.Logger
}

// New creates a new fixture harness with the given configuration.
func New(cfg *Config) *Harness {
	logger := cfg.Logger
	if logger == nil {
		logLevel := slog.LevelInfo
		if cfg.Verbose {
			logLevel = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}))
	}

	return &Harness{
		cfg:    cfg,
		logger: logger,
	}
}

// countingPublisher counts successful publishes so the harness knows how
// many journal entries to wait for.
type countingPublisher struct {
	b *broker.Broker
	n atomic.Int64
}

func (p *countingPublisher) Publish(topic string, payload any, timeout time.Duration) error {
	if err := p.b.Publish(topic, payload, timeout); err != nil {
		return err
	}
	p.n.Add(1)
	return nil
}

// Run executes all fixtures and returns the results.
func (h *Harness) Run(ctx context.Context) (*Result, error) {
	var fixtures []stmtspec.Fixture
	for _, file := range h.cfg.FixtureFiles {
		h.logger.Debug("Loading fixture file", "file", file)
		loaded, err := stmtspec.Load(file)
		if err != nil {
			return nil, fmt.Errorf("loading fixture file: %w", err)
		}
		h.logger.Debug("Loaded fixtures", "file", file, "count", len(loaded))
		fixtures = append(fixtures, loaded...)
	}

	b := h.newBroker()
	j := journal.New(b, h.logger)
	if err := j.Start(); err != nil {
		b.Shutdown()
		return nil, fmt.Errorf("starting journal: %w", err)
	}
	defer func() {
		b.Shutdown()
		<-j.Done()
	}()
	// Give the journal time to subscribe
	time.Sleep(50 * time.Millisecond)

	pub := &countingPublisher{b: b}
	ws := workspace.New(workspace.Config{
		Publisher:      pub,
		PublishTimeout: h.cfg.PublishTimeout,
		Logger:         h.logger,
	})
	fixtureRunner := runner.New(ws, h.logger)

	result, err := h.runFixtures(ctx, fixtureRunner, fixtures)
	if err != nil {
		return nil, err
	}

	if err := j.Wait(int(pub.n.Load()), journalWait); err != nil {
		h.logger.Warn("Journal incomplete", "error", err)
	}
	for _, e := range j.Entries() {
		switch {
		case e.Edit != nil:
			result.Edits++
		case e.Fail != nil:
			result.Rejected++
		}
	}
	return result, nil
}

// newBroker creates the event broker, filling unset sizes from the config
// defaults.
func (h *Harness) newBroker() *broker.Broker {
	bc := h.cfg.Broker
	defaults := config.Default().Broker
	if bc.DownStreamChanLen == 0 {
		bc.DownStreamChanLen = defaults.DownStreamChanLen
	}
	if bc.PublishChanLen == 0 {
		bc.PublishChanLen = defaults.PublishChanLen
	}
	if bc.SubscribeChanLen == 0 {
		bc.SubscribeChanLen = defaults.SubscribeChanLen
	}
	if bc.UnsubscribeChanLen == 0 {
		bc.UnsubscribeChanLen = defaults.UnsubscribeChanLen
	}
	if bc.DeliveryTimeout == 0 {
		bc.DeliveryTimeout = defaults.DeliveryTimeout
	}
	return broker.New(broker.Config{
		DownStreamChanLen:  bc.DownStreamChanLen,
		PublishChanLen:     bc.PublishChanLen,
		SubscribeChanLen:   bc.SubscribeChanLen,
		UnsubscribeChanLen: bc.UnsubscribeChanLen,
		DeliveryTimeout:    bc.DeliveryTimeout,
	})
}

// runFixtures executes all fixtures and collects results.
func (h *Harness) runFixtures(ctx context.Context, r *runner.Runner, fixtures []stmtspec.Fixture) (*Result, error) {
	result := &Result{
		Total:   len(fixtures),
		Results: make([]runner.TestResult, 0, len(fixtures)),
	}

	for _, f := range fixtures {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("running fixtures: %w", err)
		}

		fixtureResult, err := r.Run(f)
		if err != nil {
			h.logger.Debug("Fixture failed with error", "fixture", f.Name, "error", err)
			result.Failed++
			result.Results = append(result.Results, runner.TestResult{
				TestName: f.Name,
				Passed:   false,
				Errors:   []string{err.Error()},
			})
			continue
		}

		if fixtureResult.Passed {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Results = append(result.Results, *fixtureResult)
	}

	return result, nil
}
