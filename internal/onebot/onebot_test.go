package onebot_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/testutil"
	"github.com/BakaBotTeam/NetworkTools/internal/botcmd"
	"github.com/BakaBotTeam/NetworkTools/internal/bottest"
	"github.com/BakaBotTeam/NetworkTools/internal/onebot"
	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
	"github.com/c2h5oh/datasize"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// testTimeout is the common timeout for tests.
const testTimeout = 1 * time.Second

// Common test values.
const (
	testToken    = "secret"
	testNickname = "NetworkTools"
	testSelfID   = 10
)

// testRequest is an action request as the server sees it.
type testRequest struct {
	Params json.RawMessage `json:"params"`
	Action string          `json:"action"`
	Echo   string          `json:"echo"`
}

// handled is a message passed to the handler.
type handled struct {
	msg  *botcmd.Incoming
	sink paginate.Sink
}

// newTestServer starts a WebSocket server that requires [testToken] and sends
// the accepted connections into conns.
func newTestServer(t *testing.T) (u *url.URL, conns chan *websocket.Conn) {
	t.Helper()

	conns = make(chan *websocket.Conn, 1)
	upgrader := &websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			http.Error(w, "unauthorized", http.StatusUnauthorized)

			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrading: %s", err)

			return
		}

		conns <- conn
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	u.Scheme = "ws"

	return u, conns
}

// newTestClient returns a client for the server at u that sends the handled
// messages into the returned channel.
func newTestClient(t *testing.T, u *url.URL, token string) (c *onebot.Client, msgs chan handled) {
	t.Helper()

	msgs = make(chan handled, 1)
	h := &bottest.Handler{
		OnHandle: func(_ context.Context, msg *botcmd.Incoming, sink paginate.Sink) (ok bool) {
			msgs <- handled{
				msg:  msg,
				sink: sink,
			}

			return true
		},
	}

	c = onebot.New(&onebot.Config{
		Logger:         slogutil.NewDiscardLogger(),
		Metrics:        onebot.EmptyMetrics{},
		Handler:        h,
		URL:            u,
		AccessToken:    token,
		Nickname:       testNickname,
		MaxMessageSize: 64 * datasize.KB,
		ActionTimeout:  testTimeout,
		SendRate:       rate.Inf,
		SendBurst:      1,
	})

	return c, msgs
}

// startServing dials c, starts serving it, and returns the server side of the
// connection.
func startServing(
	t *testing.T,
	c *onebot.Client,
	conns chan *websocket.Conn,
) (srvConn *websocket.Conn, serveErrCh chan error) {
	t.Helper()

	require.NoError(t, c.Dial(testutil.ContextWithTimeout(t, testTimeout)))

	srvConn, _ = testutil.RequireReceive(t, conns, testTimeout)

	serveErrCh = make(chan error, 1)
	go func() {
		serveErrCh <- c.Serve(context.Background())
	}()

	return srvConn, serveErrCh
}

// readRequest reads a single action request from conn.
func readRequest(t *testing.T, conn *websocket.Conn) (req *testRequest) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(testTimeout)))

	req = &testRequest{}
	require.NoError(t, conn.ReadJSON(req))

	return req
}

// respond sends an action response for req into conn.
func respond(t *testing.T, conn *websocket.Conn, req *testRequest, status string, retcode int) {
	t.Helper()

	require.NoError(t, conn.WriteJSON(map[string]any{
		"status":  status,
		"retcode": retcode,
		"wording": "bad request",
		"echo":    req.Echo,
	}))
}

func TestClient_Serve_group(t *testing.T) {
	t.Parallel()

	u, conns := newTestServer(t)
	c, msgs := newTestClient(t, u, testToken)
	srvConn, serveErrCh := startServing(t, c, conns)
	testutil.CleanupAndRequireSuccess(t, srvConn.Close)

	require.NoError(t, srvConn.WriteJSON(map[string]any{
		"post_type":       "meta_event",
		"meta_event_type": "heartbeat",
		"self_id":         testSelfID,
	}))

	const event = `{
		"post_type": "message",
		"message_type": "group",
		"self_id": 10,
		"user_id": 42,
		"group_id": 100,
		"raw_message": "[CQ:at,qq=10] /match &#91;a&#93;&#44; &amp; text"
	}`

	require.NoError(t, srvConn.WriteMessage(websocket.TextMessage, []byte(event)))

	got, _ := testutil.RequireReceive(t, msgs, testTimeout)
	assert.Equal(t, &botcmd.Incoming{
		ChatID:   "100",
		SenderID: "42",
		Text:     "/match [a], & text",
	}, got.msg)

	ctx := testutil.ContextWithTimeout(t, testTimeout)
	sendErrCh := make(chan error, 1)

	go func() {
		sendErrCh <- got.sink.Send(ctx, &paginate.Text{Body: "hello"})
	}()

	req := readRequest(t, srvConn)
	assert.Equal(t, "send_msg", req.Action)
	assert.JSONEq(
		t,
		`{"message_type":"group","group_id":100,"message":"hello","auto_escape":true}`,
		string(req.Params),
	)

	respond(t, srvConn, req, "ok", 0)

	err, _ := testutil.RequireReceive(t, sendErrCh, testTimeout)
	require.NoError(t, err)

	go func() {
		sendErrCh <- got.sink.Send(ctx, &paginate.Forward{Items: []string{"a", "b"}})
	}()

	req = readRequest(t, srvConn)
	assert.Equal(t, "send_group_forward_msg", req.Action)
	assert.JSONEq(t, `{
		"group_id": 100,
		"messages": [{
			"type": "node",
			"data": {"name": "NetworkTools", "uin": "10", "content": "a"}
		}, {
			"type": "node",
			"data": {"name": "NetworkTools", "uin": "10", "content": "b"}
		}]
	}`, string(req.Params))

	respond(t, srvConn, req, "failed", 100)

	err, _ = testutil.RequireReceive(t, sendErrCh, testTimeout)

	var actErr *onebot.ActionError
	require.ErrorAs(t, err, &actErr)

	assert.Equal(t, "send_group_forward_msg", actErr.Action)
	assert.Equal(t, 100, actErr.RetCode)
	assert.Equal(t, "bad request", actErr.Message)

	require.NoError(t, c.Close())

	err, _ = testutil.RequireReceive(t, serveErrCh, testTimeout)
	assert.NoError(t, err)
}

func TestClient_Serve_private(t *testing.T) {
	t.Parallel()

	u, conns := newTestServer(t)
	c, msgs := newTestClient(t, u, testToken)
	srvConn, serveErrCh := startServing(t, c, conns)

	const (
		ownEvent = `{
			"post_type": "message",
			"message_type": "private",
			"self_id": 10,
			"user_id": 10,
			"raw_message": "/help"
		}`
		event = `{
			"post_type": "message",
			"message_type": "private",
			"self_id": 10,
			"user_id": 42,
			"raw_message": " /dns example.com "
		}`
	)

	require.NoError(t, srvConn.WriteMessage(websocket.TextMessage, []byte(ownEvent)))
	require.NoError(t, srvConn.WriteMessage(websocket.TextMessage, []byte(event)))

	got, _ := testutil.RequireReceive(t, msgs, testTimeout)
	assert.Equal(t, &botcmd.Incoming{
		ChatID:   "42",
		SenderID: "42",
		Text:     "/dns example.com",
	}, got.msg)

	ctx := testutil.ContextWithTimeout(t, testTimeout)
	sendErrCh := make(chan error, 1)

	go func() {
		sendErrCh <- got.sink.Send(ctx, &paginate.Notice{
			Text: paginate.NoticeTextOverflow,
			Kind: paginate.NoticeKindOverflow,
		})
	}()

	req := readRequest(t, srvConn)
	assert.Equal(t, "send_msg", req.Action)
	assert.JSONEq(t, `{
		"message_type": "private",
		"user_id": 42,
		"message": "Too many results, please query in smaller parts.",
		"auto_escape": true
	}`, string(req.Params))

	respond(t, srvConn, req, "ok", 0)

	err, _ := testutil.RequireReceive(t, sendErrCh, testTimeout)
	require.NoError(t, err)

	go func() {
		sendErrCh <- got.sink.Send(ctx, &paginate.Forward{Items: []string{"a"}})
	}()

	req = readRequest(t, srvConn)
	assert.Equal(t, "send_private_forward_msg", req.Action)
	assert.JSONEq(t, `{
		"user_id": 42,
		"messages": [{
			"type": "node",
			"data": {"name": "NetworkTools", "uin": "10", "content": "a"}
		}]
	}`, string(req.Params))

	respond(t, srvConn, req, "async", 1)

	err, _ = testutil.RequireReceive(t, sendErrCh, testTimeout)
	require.NoError(t, err)

	require.NoError(t, srvConn.Close())

	err, _ = testutil.RequireReceive(t, serveErrCh, testTimeout)
	assert.Error(t, err)

	assert.NoError(t, c.Close())
}

func TestClient_Dial_unauthorized(t *testing.T) {
	t.Parallel()

	u, _ := newTestServer(t)
	c, _ := newTestClient(t, u, "wrong")

	err := c.Dial(testutil.ContextWithTimeout(t, testTimeout))
	assert.ErrorIs(t, err, websocket.ErrBadHandshake)
}
