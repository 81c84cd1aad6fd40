package gateway

import (
	"encoding/json"
	"fmt"
)

// Event is an inbound frame decoded once at the channel boundary. Each
// protocol event name has exactly one concrete type so downstream handlers
// switch over the closed set instead of probing field presence.
type Event interface {
	eventName() string
}

type ConnectionEstablished struct {
	ConversationID int64
}

type Welcome struct {
	Text string
}

// MessageReceived acknowledges an outbound message. The carried conversation
// id is authoritative and may differ from what the client sent.
type MessageReceived struct {
	ConversationID int64
}

type Typing struct {
	IsTyping bool
}

type ResponseStart struct{}

// ResponseChunk is one content fragment of an in-flight assistant turn.
// MessageID is the server-issued correlation key for the turn.
type ResponseChunk struct {
	Content   string
	MessageID string
}

// FinalResult carries the complete turn content and, when the backend
// produced one, the structured report fields alongside it.
type FinalResult struct {
	Content        string
	MessageID      string
	ConversationID int64
	ReportKind     string
	ReportData     json.RawMessage
	Insights       []string
}

type ResponseEnd struct {
	MessageID string
}

// ErrorEvent is a free-form backend error message.
type ErrorEvent struct {
	Message string
}

// ErrorResponse is a classified backend turn failure.
type ErrorResponse struct {
	ErrorClass string
	Trace      string
}

type UsageLimitExceeded struct {
	Message    string
	RetryAfter int
}

type Pong struct{}

func (ConnectionEstablished) eventName() string { return "connection_established" }
func (Welcome) eventName() string               { return "welcome" }
func (MessageReceived) eventName() string       { return "message_received" }
func (Typing) eventName() string                { return "typing" }
func (ResponseStart) eventName() string         { return "response_start" }
func (ResponseChunk) eventName() string         { return "response_chunk" }
func (FinalResult) eventName() string           { return "final_result" }
func (ResponseEnd) eventName() string           { return "response_end" }
func (ErrorEvent) eventName() string            { return "error" }
func (ErrorResponse) eventName() string         { return "error_response" }
func (UsageLimitExceeded) eventName() string    { return "usage_limit_exceeded" }
func (Pong) eventName() string                  { return "pong" }

// frame is the loose wire shape shared by all inbound events. Fields are
// plucked per event type in DecodeEvent.
type frame struct {
	Type           string          `json:"type"`
	ConversationID int64           `json:"conversation_id"`
	Message        string          `json:"message"`
	Content        string          `json:"content"`
	MessageID      string          `json:"message_id"`
	IsTyping       bool            `json:"is_typing"`
	ErrorClass     string          `json:"error_class"`
	Trace          string          `json:"trace"`
	ReportKind     string          `json:"report_kind"`
	ReportData     json.RawMessage `json:"report_data"`
	Insights       []string        `json:"insights"`
	RetryAfter     int             `json:"retry_after"`
}

// DecodeEvent parses one raw inbound frame. Malformed JSON and unknown event
// names come back as errors; the read loop logs and skips them rather than
// tearing the connection down.
func DecodeEvent(raw []byte) (Event, error) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch f.Type {
	case "connection_established":
		return ConnectionEstablished{ConversationID: f.ConversationID}, nil
	case "welcome":
		return Welcome{Text: f.Message}, nil
	case "message_received":
		return MessageReceived{ConversationID: f.ConversationID}, nil
	case "typing":
		return Typing{IsTyping: f.IsTyping}, nil
	case "response_start":
		return ResponseStart{}, nil
	case "response_chunk":
		return ResponseChunk{Content: f.Content, MessageID: f.MessageID}, nil
	case "final_result":
		return FinalResult{
			Content:        f.Content,
			MessageID:      f.MessageID,
			ConversationID: f.ConversationID,
			ReportKind:     f.ReportKind,
			ReportData:     f.ReportData,
			Insights:       f.Insights,
		}, nil
	case "response_end":
		return ResponseEnd{MessageID: f.MessageID}, nil
	case "error":
		return ErrorEvent{Message: f.Message}, nil
	case "error_response":
		return ErrorResponse{ErrorClass: f.ErrorClass, Trace: f.Trace}, nil
	case "usage_limit_exceeded":
		return UsageLimitExceeded{Message: f.Message, RetryAfter: f.RetryAfter}, nil
	case "pong":
		return Pong{}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", f.Type)
	}
}

// outbound frames

type outboundMessage struct {
	Type           string `json:"type"`
	Content        string `json:"content"`
	ConversationID int64  `json:"conversation_id,omitempty"`
}

type outboundPing struct {
	Type string `json:"type"`
}
