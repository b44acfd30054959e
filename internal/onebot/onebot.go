// Package onebot contains the OneBot v11 forward WebSocket transport of the
// bot.
package onebot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/osutil"
	"github.com/AdguardTeam/golibs/service"
	"github.com/BakaBotTeam/NetworkTools/internal/botcmd"
	"github.com/BakaBotTeam/NetworkTools/internal/version"
	"github.com/c2h5oh/datasize"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Connection defaults.
const (
	handshakeTimeout = 10 * time.Second
	closeTimeout     = 5 * time.Second
	bufferSize       = 4 * datasize.KB
)

// Config is the configuration structure for a [Client].
type Config struct {
	// Logger is used to log the connection events.  It must not be nil.
	Logger *slog.Logger

	// Metrics is used for the collection of the connection statistics.  It
	// must not be nil.
	Metrics Metrics

	// Handler handles the incoming chat messages.  It must not be nil.
	Handler botcmd.Handler

	// URL is the URL of the OneBot forward WebSocket server.  It must not be
	// nil.
	URL *url.URL

	// AccessToken is sent in the Authorization header, if not empty.
	AccessToken string

	// Nickname is the name of the bot shown on the forward message cards.
	Nickname string

	// MaxMessageSize is the maximum size of an incoming frame.  It must be
	// positive.
	MaxMessageSize datasize.ByteSize

	// ActionTimeout is the timeout of a single action including the wait for
	// the rate limiter.  It must be positive.
	ActionTimeout time.Duration

	// SendRate is the maximum number of actions per second.  It must be
	// positive.
	SendRate rate.Limit

	// SendBurst is the maximum burst of actions.  It must be positive.
	SendBurst int
}

// Client is a OneBot v11 forward WebSocket client.  It reads the message
// events and passes them to the handler, which replies through the per-chat
// sinks.  Client doesn't reconnect.
type Client struct {
	logger        *slog.Logger
	metrics       Metrics
	handler       botcmd.Handler
	dialer        *websocket.Dialer
	limiter       *rate.Limiter
	header        http.Header
	url           string
	nickname      string
	actionTimeout time.Duration
	readLimit     int64

	// connMu protects the writes into conn.
	connMu *sync.Mutex
	conn   *websocket.Conn

	pendingMu *sync.Mutex
	pending   map[string]chan *frame

	echo    *atomic.Uint64
	selfID  *atomic.Int64
	closing *atomic.Bool
}

// New returns a new properly initialized *Client.  c must not be nil and must
// be valid.
func New(c *Config) (cli *Client) {
	header := http.Header{}
	header.Set("User-Agent", version.UserAgent())
	if c.AccessToken != "" {
		header.Set("Authorization", "Bearer "+c.AccessToken)
	}

	return &Client{
		logger:  c.Logger,
		metrics: c.Metrics,
		handler: c.Handler,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			ReadBufferSize:   int(bufferSize.Bytes()),
			WriteBufferSize:  int(bufferSize.Bytes()),
			HandshakeTimeout: handshakeTimeout,
		},
		limiter:       rate.NewLimiter(c.SendRate, c.SendBurst),
		header:        header,
		url:           c.URL.String(),
		nickname:      c.Nickname,
		actionTimeout: c.ActionTimeout,
		readLimit:     int64(c.MaxMessageSize.Bytes()),
		connMu:        &sync.Mutex{},
		pendingMu:     &sync.Mutex{},
		pending:       map[string]chan *frame{},
		echo:          &atomic.Uint64{},
		selfID:        &atomic.Int64{},
		closing:       &atomic.Bool{},
	}
}

// type check
var _ service.Interface = (*Client)(nil)

// Start implements the [service.Interface] interface for *Client.  It dials
// the server and starts serving in a separate goroutine.  The process exits
// if the connection is closed by the server or fails.
func (c *Client) Start(ctx context.Context) (err error) {
	err = c.Dial(ctx)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return err
	}

	go c.serve(context.WithoutCancel(ctx))

	return nil
}

// serve runs [Client.Serve] and exits the process on errors.  It is intended
// to be used as a goroutine.
func (c *Client) serve(ctx context.Context) {
	defer slogutil.RecoverAndExit(ctx, c.logger, osutil.ExitCodeFailure)

	err := c.Serve(ctx)
	if err != nil {
		panic(fmt.Errorf("serving onebot connection: %w", err))
	}

	c.logger.InfoContext(ctx, "connection closed")
}

// Shutdown implements the [service.Interface] interface for *Client.
func (c *Client) Shutdown(_ context.Context) (err error) {
	err = c.Close()
	if err != nil {
		return fmt.Errorf("closing onebot connection: %w", err)
	}

	return nil
}

// Dial connects to the server.  It must be called once before [Client.Serve].
func (c *Client) Dial(ctx context.Context) (err error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("status %d: %w", resp.StatusCode, err)
		}

		return fmt.Errorf("dialing %s: %w", c.url, err)
	}

	conn.SetReadLimit(c.readLimit)

	c.connMu.Lock()
	defer c.connMu.Unlock()

	c.conn = conn

	c.logger.InfoContext(ctx, "connected", "url", c.url)

	return nil
}

// Serve reads the frames until the connection is closed.  err is nil if the
// connection has been closed by [Client.Close].
func (c *Client) Serve(ctx context.Context) (err error) {
	for {
		var data []byte
		_, data, err = c.conn.ReadMessage()
		if err != nil {
			if c.closing.Load() {
				return nil
			}

			return fmt.Errorf("reading frame: %w", err)
		}

		c.handleFrame(ctx, data)
	}
}

// Close closes the connection.  Any running [Client.Serve] returns.
func (c *Client) Close() (err error) {
	c.closing.Store(true)

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	ctrlErr := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeTimeout))
	if ctrlErr != nil {
		c.logger.Debug("writing close message", slogutil.KeyError, ctrlErr)
	}

	return c.conn.Close()
}

// write sends req into the connection.
func (c *Client) write(ctx context.Context, req *actionRequest) (err error) {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		err = c.conn.SetWriteDeadline(deadline)
		if err != nil {
			return fmt.Errorf("setting deadline: %w", err)
		}
	}

	return c.conn.WriteJSON(req)
}

// handleFrame dispatches a single incoming frame.
func (c *Client) handleFrame(ctx context.Context, data []byte) {
	f := &frame{}
	err := json.Unmarshal(data, f)
	if err != nil {
		c.logger.DebugContext(ctx, "decoding frame", slogutil.KeyError, err)

		return
	}

	switch {
	case f.Echo != "":
		c.handleResponse(ctx, f)
	case f.PostType != "":
		c.handleEvent(ctx, f)
	default:
		c.logger.DebugContext(ctx, "unknown frame", "len", len(data))
	}
}

// handleEvent handles a single event.
func (c *Client) handleEvent(ctx context.Context, f *frame) {
	c.metrics.IncrementEvents(ctx, f.PostType)

	if f.SelfID != 0 {
		c.selfID.Store(f.SelfID)
	}

	switch f.PostType {
	case postTypeMessage:
		// Go on.
	case postTypeMetaEvent:
		c.logger.DebugContext(ctx, "meta event", "type", f.MetaEventType)

		return
	default:
		return
	}

	if f.UserID == f.SelfID {
		return
	}

	t, ok := newChatTarget(f)
	if !ok {
		c.logger.DebugContext(ctx, "unsupported message type", "type", f.MessageType)

		return
	}

	msg := &botcmd.Incoming{
		ChatID:   t.chatID(),
		SenderID: strconv.FormatInt(f.UserID, 10),
		Text:     plainText(f.RawMessage),
	}

	c.handler.Handle(ctx, msg, &chatSink{
		client: c,
		target: t,
	})
}
