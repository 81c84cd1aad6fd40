package engine

import (
	"context"
	"time"

	"github.com/pryce-dev/vantage/pkg/chat"
	"github.com/pryce-dev/vantage/pkg/logger"
)

// confirmConversation installs the server-confirmed conversation identity.
// The reference is replaced wholesale, never merged: nothing from a
// provisional placeholder carries over.
func (e *Engine) confirmConversation(id int64) {
	if id == 0 {
		return
	}
	if cur, ok := e.store.Conversation(); ok && cur.ID == id {
		return
	}
	e.store.SetConversation(chat.ConversationRef{
		ID:             id,
		LastActivityAt: time.Now(),
	})
	logger.Debug("Conversation confirmed: id=%d", id)
	if e.onConfirmed != nil {
		e.onConfirmed(id)
	}
}

// scheduleRefresh kicks off a conversation-list refresh after the settle
// delay, giving the backend time to persist the completed turn.
func (e *Engine) scheduleRefresh() {
	if e.lister == nil {
		return
	}
	time.AfterFunc(e.settleDelay, e.refreshConversations)
}

func (e *Engine) refreshConversations() {
	ctx, cancel := context.WithTimeout(context.Background(), e.listTimeout)
	defer cancel()

	list, err := e.lister.ListConversations(ctx)
	if err != nil {
		logger.Warn("Conversation list refresh failed: %v", err)
		return
	}
	if e.onList != nil {
		e.onList(list)
	}
}
