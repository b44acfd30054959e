package botcmd_test

import (
	"context"
	"strings"
	"testing"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/testutil"
	"github.com/BakaBotTeam/NetworkTools/internal/botcmd"
	"github.com/BakaBotTeam/NetworkTools/internal/bottest"
	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundary_Run(t *testing.T) {
	t.Parallel()

	const cmdName = "test"

	testCases := []struct {
		f          func(ctx context.Context) (err error)
		name       string
		wantBody   string
		wantStatus botcmd.CommandStatus
	}{{
		f: func(_ context.Context) (err error) {
			return testError
		},
		name:       "error",
		wantBody:   "execution failed: test error",
		wantStatus: botcmd.CommandStatusError,
	}, {
		f: func(_ context.Context) (err error) {
			return errors.Error("")
		},
		name:       "empty_reason",
		wantBody:   "execution failed: unknown",
		wantStatus: botcmd.CommandStatusError,
	}, {
		f: func(_ context.Context) (err error) {
			return &botcmd.UsageError{Usage: "test <arg>"}
		},
		name:       "usage",
		wantBody:   "execution failed: usage: test <arg>",
		wantStatus: botcmd.CommandStatusError,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			errColl, errCh := newErrCollector()
			m := newTestMetrics()
			b := newTestBoundary(errColl, m)
			sink := bottest.NewRecordingSink()

			b.Run(testutil.ContextWithTimeout(t, testTimeout), sink, cmdName, tc.f)

			want := []paginate.Message{&paginate.Text{Body: tc.wantBody}}
			assert.Equal(t, want, sink.Messages())
			assert.Equal(t, tc.wantStatus, m.status(cmdName))

			err, _ := testutil.RequireReceive(t, errCh, testTimeout)
			assert.Error(t, err)
		})
	}
}

func TestBoundary_Run_success(t *testing.T) {
	t.Parallel()

	errColl := &bottest.ErrorCollector{
		OnCollect: func(_ context.Context, err error) {
			panic(testutil.UnexpectedCall(err))
		},
	}

	m := newTestMetrics()
	b := newTestBoundary(errColl, m)
	sink := bottest.NewRecordingSink()

	b.Run(testutil.ContextWithTimeout(t, testTimeout), sink, "ok", func(ctx context.Context) (err error) {
		return sink.Send(ctx, &paginate.Text{Body: "done"})
	})

	assert.Equal(t, []paginate.Message{&paginate.Text{Body: "done"}}, sink.Messages())
	assert.Equal(t, botcmd.CommandStatusSuccess, m.status("ok"))
}

func TestBoundary_Run_panic(t *testing.T) {
	t.Parallel()

	errColl, errCh := newErrCollector()
	m := newTestMetrics()
	b := newTestBoundary(errColl, m)
	sink := bottest.NewRecordingSink()

	require.NotPanics(t, func() {
		b.Run(testutil.ContextWithTimeout(t, testTimeout), sink, "bad", func(_ context.Context) (err error) {
			panic(testError)
		})
	})

	msgs := sink.Messages()
	require.Len(t, msgs, 1)

	text := testutil.RequireTypeAssert[*paginate.Text](t, msgs[0])
	assert.True(t, strings.HasPrefix(text.Body, botcmd.FailurePrefix))
	assert.Contains(t, text.Body, string(testError))
	assert.Equal(t, botcmd.CommandStatusPanic, m.status("bad"))

	err, _ := testutil.RequireReceive(t, errCh, testTimeout)
	assert.ErrorIs(t, err, testError)
}

func TestBoundary_Run_sinkError(t *testing.T) {
	t.Parallel()

	errColl, errCh := newErrCollector()
	b := newTestBoundary(errColl, botcmd.EmptyMetrics{})

	var calls int
	sink := paginate.SinkFunc(func(_ context.Context, _ paginate.Message) (err error) {
		calls++

		return errors.Error("closed")
	})

	b.Run(testutil.ContextWithTimeout(t, testTimeout), sink, "test", func(_ context.Context) (err error) {
		return testError
	})

	assert.Equal(t, 1, calls)

	err, _ := testutil.RequireReceive(t, errCh, testTimeout)
	assert.ErrorIs(t, err, testError)
}
