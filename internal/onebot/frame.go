package onebot

import (
	"regexp"
	"strconv"
	"strings"
)

// Post types of the events.
const (
	postTypeMessage   = "message"
	postTypeMetaEvent = "meta_event"
)

// Message types of the message events and the send_msg action.
const (
	messageTypeGroup   = "group"
	messageTypePrivate = "private"
)

// Action statuses.
const (
	statusOK    = "ok"
	statusAsync = "async"
)

// frame is a single incoming frame.  It's either an event or an action
// response.
type frame struct {
	// Status is the status of an action response.
	Status string `json:"status"`

	// Echo is the echo of an action response.  It's empty for events.
	Echo string `json:"echo"`

	// Msg is the error code of a failed action.
	Msg string `json:"msg"`

	// Wording is the human-readable error message of a failed action.
	Wording string `json:"wording"`

	// PostType is the post type of an event.  It's empty for action
	// responses.
	PostType string `json:"post_type"`

	// MessageType is the message type of a message event.
	MessageType string `json:"message_type"`

	// MetaEventType is the type of a meta event.
	MetaEventType string `json:"meta_event_type"`

	// RawMessage is the CQ-coded text of a message event.
	RawMessage string `json:"raw_message"`

	// RetCode is the return code of an action response.
	RetCode int `json:"retcode"`

	// SelfID is the ID of the bot account.
	SelfID int64 `json:"self_id"`

	// UserID is the ID of the sender of a message event.
	UserID int64 `json:"user_id"`

	// GroupID is the ID of the group of a group message event.
	GroupID int64 `json:"group_id"`
}

// chatTarget is the chat to which the replies are sent.
type chatTarget struct {
	messageType string
	groupID     int64
	userID      int64
}

// newChatTarget returns the reply target for the message event f.  ok is
// false if the message type is not supported.
func newChatTarget(f *frame) (t *chatTarget, ok bool) {
	switch f.MessageType {
	case messageTypeGroup:
		return &chatTarget{
			messageType: messageTypeGroup,
			groupID:     f.GroupID,
		}, true
	case messageTypePrivate:
		return &chatTarget{
			messageType: messageTypePrivate,
			userID:      f.UserID,
		}, true
	default:
		return nil, false
	}
}

// chatID returns the ID of the chat.
func (t *chatTarget) chatID() (id string) {
	if t.messageType == messageTypeGroup {
		return strconv.FormatInt(t.groupID, 10)
	}

	return strconv.FormatInt(t.userID, 10)
}

// cqCodeRe matches the CQ codes, such as mentions and replies.
var cqCodeRe = regexp.MustCompile(`\[CQ:[^\]]*\]`)

// cqUnescaper unescapes the special characters of the CQ-coded text.
var cqUnescaper = strings.NewReplacer(
	"&#91;", "[",
	"&#93;", "]",
	"&#44;", ",",
	"&amp;", "&",
)

// plainText returns the plain text of the CQ-coded raw message.
func plainText(raw string) (text string) {
	text = cqCodeRe.ReplaceAllString(raw, "")

	return cqUnescaper.Replace(strings.TrimSpace(text))
}
