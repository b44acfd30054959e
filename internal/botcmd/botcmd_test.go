package botcmd_test

import (
	"context"
	"sync"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/BakaBotTeam/NetworkTools/internal/botcmd"
	"github.com/BakaBotTeam/NetworkTools/internal/bottest"
)

// testTimeout is the common timeout for tests.
const testTimeout = 1 * time.Second

// testError is the common error for tests.
const testError errors.Error = "test error"

// Common IDs for tests.
const (
	testChatID   = "1000"
	testSenderID = "2000"
)

// testMetrics is a [botcmd.Metrics] for tests.  It is safe for concurrent use.
type testMetrics struct {
	mu          *sync.Mutex
	statuses    map[string]botcmd.CommandStatus
	rateLimited int
	unknown     int
}

// newTestMetrics returns a new empty *testMetrics.
func newTestMetrics() (m *testMetrics) {
	return &testMetrics{
		mu:       &sync.Mutex{},
		statuses: map[string]botcmd.CommandStatus{},
	}
}

// type check
var _ botcmd.Metrics = (*testMetrics)(nil)

// HandleCommand implements the [botcmd.Metrics] interface for *testMetrics.
func (m *testMetrics) HandleCommand(
	_ context.Context,
	name string,
	status botcmd.CommandStatus,
	_ time.Duration,
) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.statuses[name] = status
}

// IncrementRateLimited implements the [botcmd.Metrics] interface for
// *testMetrics.
func (m *testMetrics) IncrementRateLimited(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rateLimited++
}

// IncrementUnknown implements the [botcmd.Metrics] interface for *testMetrics.
func (m *testMetrics) IncrementUnknown(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unknown++
}

// status returns the recorded status of the command with the given name.
func (m *testMetrics) status(name string) (s botcmd.CommandStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.statuses[name]
}

// newErrCollector returns an error collector that sends the errors into the
// returned channel.
func newErrCollector() (c *bottest.ErrorCollector, errCh chan error) {
	errCh = make(chan error, 1)

	return &bottest.ErrorCollector{
		OnCollect: func(_ context.Context, err error) {
			errCh <- err
		},
	}, errCh
}

// newTestBoundary returns a new boundary with the given error collector and
// metrics.
func newTestBoundary(errColl *bottest.ErrorCollector, m botcmd.Metrics) (b *botcmd.Boundary) {
	return botcmd.NewBoundary(&botcmd.BoundaryConfig{
		Logger:  slogutil.NewDiscardLogger(),
		ErrColl: errColl,
		Metrics: m,
	})
}
