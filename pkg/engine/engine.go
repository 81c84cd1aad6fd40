package engine

import (
	"context"
	"sync"
	"time"

	"github.com/pryce-dev/vantage/pkg/chat"
	"github.com/pryce-dev/vantage/pkg/gateway"
	"github.com/pryce-dev/vantage/pkg/logger"
)

// ConversationLister fetches the conversation list from the REST surface.
// The engine refreshes it after a turn completes; failures are logged and
// never surface into the conversation itself.
type ConversationLister interface {
	ListConversations(ctx context.Context) ([]chat.ConversationRef, error)
}

const defaultSettleDelay = 100 * time.Millisecond

type Options struct {
	// Lister is optional. When nil the engine skips post-turn refreshes.
	Lister ConversationLister

	// OnConversations receives the refreshed conversation list. Called from
	// a background goroutine.
	OnConversations func([]chat.ConversationRef)

	// OnConversationConfirmed fires whenever the server confirms a
	// conversation identity, e.g. to update the reconnect handshake hint.
	OnConversationConfirmed func(id int64)

	// SettleDelay is how long the engine waits after turn completion before
	// refreshing the conversation list, giving the backend time to persist
	// the turn. Zero means the default of 100ms.
	SettleDelay time.Duration

	// ListTimeout bounds each conversation-list refresh call.
	ListTimeout time.Duration
}

// Engine turns the decoded event stream into chat state. It owns the single
// accumulator for the in-flight assistant turn and is the only writer of
// streaming messages in the store.
type Engine struct {
	store       *chat.Store
	lister      ConversationLister
	onList      func([]chat.ConversationRef)
	onConfirmed func(int64)
	settleDelay time.Duration
	listTimeout time.Duration

	mu  sync.Mutex
	acc *accumulator
}

func New(store *chat.Store, opts Options) *Engine {
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = defaultSettleDelay
	}
	if opts.ListTimeout <= 0 {
		opts.ListTimeout = 10 * time.Second
	}
	return &Engine{
		store:       store,
		lister:      opts.Lister,
		onList:      opts.OnConversations,
		onConfirmed: opts.OnConversationConfirmed,
		settleDelay: opts.SettleDelay,
		listTimeout: opts.ListTimeout,
	}
}

// HandleEvent dispatches one decoded event. Events arrive serially from the
// gateway read loop; the mutex only guards against a concurrent
// HandleDisconnect racing a late event during reconnects.
func (e *Engine) HandleEvent(ev gateway.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch ev := ev.(type) {
	case gateway.ConnectionEstablished:
		e.confirmConversation(ev.ConversationID)
	case gateway.Welcome:
		e.store.Append(chat.NewAssistantMessage(ev.Text))
	case gateway.MessageReceived:
		e.confirmConversation(ev.ConversationID)
	case gateway.Typing:
		e.store.SetTyping(ev.IsTyping)
	case gateway.ResponseStart:
		e.store.SetTyping(true)
	case gateway.ResponseChunk:
		e.applyChunk(ev.MessageID, ev.Content)
	case gateway.FinalResult:
		e.applyFinal(ev)
	case gateway.ResponseEnd:
		e.completeTurn(ev.MessageID)
	case gateway.ErrorEvent:
		e.failTurn(ev.Message)
	case gateway.ErrorResponse:
		logger.Error("Backend turn failure: class=%s trace=%s", ev.ErrorClass, ev.Trace)
		e.failTurn(ClassifyError(ev.ErrorClass))
	case gateway.UsageLimitExceeded:
		msg := ev.Message
		if msg == "" {
			msg = "Usage limit exceeded. Please try again later."
		}
		e.failTurn(msg)
	case gateway.Pong:
		// Filtered by the gateway; harmless if one slips through.
	default:
		logger.Debug("Engine ignoring event %T", ev)
	}
}

// HandleDisconnect force-finalizes any turn left open by a dropped
// connection so the store never carries a streaming message that will never
// finish.
func (e *Engine) HandleDisconnect(reason error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.SetTyping(false)
	if e.acc == nil {
		return
	}
	logger.Warn("Connection lost mid-turn %s: %v", e.acc.turnID, reason)
	e.finalize(chat.FlagPrefix + "Connection lost before the response completed.")
}

// ClearTurn empties the transient message working set. The conversation
// reference survives so a follow-up message continues the same conversation.
func (e *Engine) ClearTurn() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.acc = nil
	e.store.Clear()
}

// failTurn records a flagged assistant entry for a backend failure. An open
// accumulator is finalized first: a classified error closes the turn.
func (e *Engine) failTurn(message string) {
	if e.acc != nil {
		e.finalize("")
	}
	e.store.SetTyping(false)
	e.store.Append(chat.NewFlaggedMessage(message))
}
