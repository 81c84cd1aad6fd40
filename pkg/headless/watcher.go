package headless

import (
	"context"
	"fmt"

	"github.com/pryce-dev/vantage/pkg/chat"
)

// turnWatcher waits on the store for the assistant turn to finish
// streaming. Store callbacks may not call back into the store, so they only
// wake the waiter.
type turnWatcher struct {
	store         *chat.Store
	baseline      int
	seenStreaming map[string]bool
	wake          chan struct{}
	unsubscribe   func()
}

func newTurnWatcher(store *chat.Store) *turnWatcher {
	w := &turnWatcher{
		store:         store,
		baseline:      store.Len(),
		seenStreaming: make(map[string]bool),
		wake:          make(chan struct{}, 1),
	}
	w.unsubscribe = store.Subscribe(func() {
		select {
		case w.wake <- struct{}{}:
		default:
		}
	})
	return w
}

func (w *turnWatcher) stop() {
	w.unsubscribe()
}

// wait blocks until the turn's assistant message finalizes past the
// baseline or the context expires.
func (w *turnWatcher) wait(ctx context.Context) (chat.Message, error) {
	for {
		if msg, ok := w.finished(); ok {
			return msg, nil
		}
		select {
		case <-ctx.Done():
			return chat.Message{}, fmt.Errorf("timed out waiting for response: %w", ctx.Err())
		case <-w.wake:
		}
	}
}

// finished looks for the finalized turn. Only a message observed streaming
// that has since settled counts, plus flagged failure entries, which never
// stream. A plain assistant entry that never streamed is server chatter
// like the connect greeting, not the answer.
func (w *turnWatcher) finished() (chat.Message, bool) {
	msgs := w.store.Messages()
	for i := w.baseline; i < len(msgs); i++ {
		m := msgs[i]
		if !m.IsAssistant() {
			continue
		}
		if m.IsStreaming {
			w.seenStreaming[m.ID] = true
			continue
		}
		if w.seenStreaming[m.ID] || m.IsFlagged() {
			return m, true
		}
	}
	return chat.Message{}, false
}
