package onebot

import (
	"cmp"
	"context"
	"fmt"
	"strconv"
)

// Action names.
const (
	actionSendMsg               = "send_msg"
	actionSendGroupForwardMsg   = "send_group_forward_msg"
	actionSendPrivateForwardMsg = "send_private_forward_msg"
)

// actionRequest is a single outgoing action.
type actionRequest struct {
	Params any    `json:"params"`
	Action string `json:"action"`
	Echo   string `json:"echo"`
}

// sendMsgParams are the parameters of the send_msg action.
type sendMsgParams struct {
	MessageType string `json:"message_type"`
	Message     string `json:"message"`
	GroupID     int64  `json:"group_id,omitempty"`
	UserID      int64  `json:"user_id,omitempty"`
	AutoEscape  bool   `json:"auto_escape"`
}

// forwardMsgParams are the parameters of the send_group_forward_msg and
// send_private_forward_msg actions.
type forwardMsgParams struct {
	Messages []*forwardNode `json:"messages"`
	GroupID  int64          `json:"group_id,omitempty"`
	UserID   int64          `json:"user_id,omitempty"`
}

// forwardNode is a single card of a forward message.
type forwardNode struct {
	Data *forwardNodeData `json:"data"`
	Type string           `json:"type"`
}

// forwardNodeData is the content of a [forwardNode].
type forwardNodeData struct {
	Name    string `json:"name"`
	UIN     string `json:"uin"`
	Content string `json:"content"`
}

// ActionError is returned when the OneBot implementation reports a failed
// action.
type ActionError struct {
	// Action is the name of the failed action.
	Action string

	// Message is the error message, if any.
	Message string

	// RetCode is the return code of the response.
	RetCode int
}

// type check
var _ error = (*ActionError)(nil)

// Error implements the error interface for *ActionError.
func (err *ActionError) Error() (msg string) {
	msg = fmt.Sprintf("action %s failed with retcode %d", err.Action, err.RetCode)
	if err.Message != "" {
		msg += ": " + err.Message
	}

	return msg
}

// sendText sends text to the chat t.
func (c *Client) sendText(ctx context.Context, t *chatTarget, text string) (err error) {
	return c.call(ctx, actionSendMsg, &sendMsgParams{
		MessageType: t.messageType,
		Message:     text,
		GroupID:     t.groupID,
		UserID:      t.userID,
		AutoEscape:  true,
	})
}

// sendForward sends items to the chat t as one forward message with a card per
// item.
func (c *Client) sendForward(ctx context.Context, t *chatTarget, items []string) (err error) {
	uin := strconv.FormatInt(c.selfID.Load(), 10)
	nodes := make([]*forwardNode, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, &forwardNode{
			Type: "node",
			Data: &forwardNodeData{
				Name:    c.nickname,
				UIN:     uin,
				Content: item,
			},
		})
	}

	action := actionSendGroupForwardMsg
	if t.messageType == messageTypePrivate {
		action = actionSendPrivateForwardMsg
	}

	return c.call(ctx, action, &forwardMsgParams{
		Messages: nodes,
		GroupID:  t.groupID,
		UserID:   t.userID,
	})
}

// call sends the action with params and waits for the response.
func (c *Client) call(ctx context.Context, action string, params any) (err error) {
	defer func() { c.metrics.HandleAction(ctx, action, err) }()

	ctx, cancel := context.WithTimeout(ctx, c.actionTimeout)
	defer cancel()

	err = c.limiter.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", action, err)
	}

	echo := strconv.FormatUint(c.echo.Add(1), 10)
	respCh := make(chan *frame, 1)

	c.pendingMu.Lock()
	c.pending[echo] = respCh
	c.pendingMu.Unlock()

	defer func() {
		c.pendingMu.Lock()
		defer c.pendingMu.Unlock()

		delete(c.pending, echo)
	}()

	err = c.write(ctx, &actionRequest{
		Action: action,
		Params: params,
		Echo:   echo,
	})
	if err != nil {
		return fmt.Errorf("sending %s: %w", action, err)
	}

	select {
	case resp := <-respCh:
		if resp.Status != statusOK && resp.Status != statusAsync {
			return &ActionError{
				Action:  action,
				Message: cmp.Or(resp.Wording, resp.Msg),
				RetCode: resp.RetCode,
			}
		}

		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for %s response: %w", action, ctx.Err())
	}
}

// handleResponse passes the action response f to the waiting caller.
func (c *Client) handleResponse(ctx context.Context, f *frame) {
	c.pendingMu.Lock()
	respCh, ok := c.pending[f.Echo]
	c.pendingMu.Unlock()

	if !ok {
		c.logger.DebugContext(ctx, "unexpected response", "echo", f.Echo)

		return
	}

	select {
	case respCh <- f:
	default:
		c.logger.DebugContext(ctx, "duplicate response", "echo", f.Echo)
	}
}
