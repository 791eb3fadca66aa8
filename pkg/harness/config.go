package harness

import (
	"log/slog"
	"time"

	"github.com/perbu/stmtree/pkg/config"
	"github.com/perbu/stmtree/pkg/runner"
)

// Config holds configuration for the fixture harness.
type Config struct {
	// FixtureFiles are the YAML fixture files to run, in order.
	FixtureFiles []string

	// Broker sizes the event broker. Zero values take the config defaults.
	Broker config.BrokerConfig

	// PublishTimeout bounds each workspace event publish.
	PublishTimeout time.Duration

	// Verbose enables debug logging.
	Verbose bool

	// Logger is the structured logger to use. If nil, a default is created.
	Logger *slog.Logger
}

// Result holds the outcome of running all fixtures.
type Result struct {
	// Passed is the count of fixtures that passed.
	Passed int

	// Failed is the count of fixtures that failed.
	Failed int

	// Total is the total number of fixtures run.
	Total int

	// Results contains detailed results for each fixture.
	Results []runner.TestResult

	// Edits is the number of successful workspace edits the journal saw.
	Edits int

	// Rejected is the number of workspace operations the journal saw fail.
	Rejected int
}
