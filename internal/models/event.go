package models

import (
	"encoding/json"
	"time"
)

// TextSource tells which branch of the message union produced the text.
type TextSource string

const (
	SourceConversation TextSource = "conversation"
	SourceExtendedText TextSource = "extended_text"
	SourceRawDump      TextSource = "raw_dump"
	SourceNone         TextSource = "none"
)

// WebhookPayload is the body the Evolution API posts to the webhook endpoint.
type WebhookPayload struct {
	Instance string     `json:"instance"`
	Event    string     `json:"event"`
	Data     *EventData `json:"data,omitempty"`
}

type EventData struct {
	RemoteJid string          `json:"remoteJid,omitempty"`
	From      string          `json:"from,omitempty"`
	Message   *MessagePayload `json:"message,omitempty"`
}

// Sender returns the provider's identifier for the originating chat,
// preferring remoteJid over the legacy from field.
func (d *EventData) Sender() string {
	if d == nil {
		return ""
	}
	if d.RemoteJid != "" {
		return d.RemoteJid
	}
	return d.From
}

type ExtendedTextMessage struct {
	Text string `json:"text"`
}

// MessagePayload models the known message-content shapes as a tagged union:
// plain conversation text, extended text, or an unknown shape kept as raw
// JSON for the fallback branch.
type MessagePayload struct {
	Conversation string
	ExtendedText *ExtendedTextMessage

	raw json.RawMessage
}

func (m *MessagePayload) UnmarshalJSON(data []byte) error {
	var known struct {
		Conversation string               `json:"conversation"`
		ExtendedText *ExtendedTextMessage `json:"extendedTextMessage"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	m.Conversation = known.Conversation
	m.ExtendedText = known.ExtendedText
	m.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (m *MessagePayload) MarshalJSON() ([]byte, error) {
	if m.raw != nil {
		return m.raw, nil
	}
	type alias struct {
		Conversation string               `json:"conversation,omitempty"`
		ExtendedText *ExtendedTextMessage `json:"extendedTextMessage,omitempty"`
	}
	return json.Marshal(alias{Conversation: m.Conversation, ExtendedText: m.ExtendedText})
}

// Text resolves the message content: conversation first, then extended text,
// then a dump of the raw message object.
func (m *MessagePayload) Text() (string, TextSource) {
	if m == nil {
		return "", SourceNone
	}
	if m.Conversation != "" {
		return m.Conversation, SourceConversation
	}
	if m.ExtendedText != nil && m.ExtendedText.Text != "" {
		return m.ExtendedText.Text, SourceExtendedText
	}
	if len(m.raw) > 0 {
		return string(m.raw), SourceRawDump
	}
	return "", SourceNone
}

// InboundEvent is one provider callback as persisted in webhook_logs.
// Immutable after creation except for the Processed flag.
type InboundEvent struct {
	ID           string          `json:"id"`
	InstanceName string          `json:"instance_name"`
	EventType    string          `json:"event_type"`
	SenderID     string          `json:"sender_id"`
	RawText      string          `json:"raw_text"`
	RawPayload   json.RawMessage `json:"raw_payload,omitempty"`
	ReceivedAt   time.Time       `json:"received_at"`
	Processed    bool            `json:"processed"`
}
