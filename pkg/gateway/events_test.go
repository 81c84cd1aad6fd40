package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Event
	}{
		{
			name: "connection established",
			raw:  `{"type":"connection_established","conversation_id":12}`,
			want: ConnectionEstablished{ConversationID: 12},
		},
		{
			name: "welcome",
			raw:  `{"type":"welcome","message":"hello"}`,
			want: Welcome{Text: "hello"},
		},
		{
			name: "message received carries corrected id",
			raw:  `{"type":"message_received","conversation_id":99}`,
			want: MessageReceived{ConversationID: 99},
		},
		{
			name: "typing",
			raw:  `{"type":"typing","is_typing":true}`,
			want: Typing{IsTyping: true},
		},
		{
			name: "response start",
			raw:  `{"type":"response_start"}`,
			want: ResponseStart{},
		},
		{
			name: "response chunk",
			raw:  `{"type":"response_chunk","content":"Jon ","message_id":"t1"}`,
			want: ResponseChunk{Content: "Jon ", MessageID: "t1"},
		},
		{
			name: "response end",
			raw:  `{"type":"response_end","message_id":"t1"}`,
			want: ResponseEnd{MessageID: "t1"},
		},
		{
			name: "error",
			raw:  `{"type":"error","message":"boom"}`,
			want: ErrorEvent{Message: "boom"},
		},
		{
			name: "error response",
			raw:  `{"type":"error_response","error_class":"query_execution_error","trace":"..."}`,
			want: ErrorResponse{ErrorClass: "query_execution_error", Trace: "..."},
		},
		{
			name: "usage limit",
			raw:  `{"type":"usage_limit_exceeded","message":"limit","retry_after":60}`,
			want: UsageLimitExceeded{Message: "limit", RetryAfter: 60},
		},
		{
			name: "pong",
			raw:  `{"type":"pong"}`,
			want: Pong{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeEvent([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev)
		})
	}
}

func TestDecodeFinalResult(t *testing.T) {
	raw := `{"type":"final_result","content":"done","message_id":"t2","conversation_id":4,` +
		`"report_kind":"bar_chart","report_data":{"title":"X","data":[{"a":1}]},"insights":["i1"]}`

	ev, err := DecodeEvent([]byte(raw))
	require.NoError(t, err)

	fr, ok := ev.(FinalResult)
	require.True(t, ok)
	assert.Equal(t, "done", fr.Content)
	assert.Equal(t, "t2", fr.MessageID)
	assert.EqualValues(t, 4, fr.ConversationID)
	assert.Equal(t, "bar_chart", fr.ReportKind)
	assert.JSONEq(t, `{"title":"X","data":[{"a":1}]}`, string(fr.ReportData))
	assert.Equal(t, []string{"i1"}, fr.Insights)
}

func TestDecodeEventRejectsUnknownAndMalformed(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"type":"telepathy"}`))
	assert.Error(t, err)

	_, err = DecodeEvent([]byte(`{not json`))
	assert.Error(t, err)
}
