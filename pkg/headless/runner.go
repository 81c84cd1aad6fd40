package headless

import (
	"context"
	"fmt"

	"github.com/pryce-dev/vantage/pkg/chat"
	"github.com/pryce-dev/vantage/pkg/gateway"
	"github.com/pryce-dev/vantage/pkg/logger"
)

// runner drives one prompt through the live channel and waits on the store
// for the finalized turn.
type runner struct {
	client *gateway.Client
	store  *chat.Store
	output *Output
}

func newRunner(deps Deps) *runner {
	return &runner{
		client: deps.Client,
		store:  deps.Store,
		output: NewOutput(),
	}
}

func (r *runner) run(ctx context.Context, prompt string) error {
	if err := r.client.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer r.client.Disconnect()

	r.store.Append(chat.NewUserMessage(prompt))
	r.output.UserPrompt(prompt)

	watcher := newTurnWatcher(r.store)
	defer watcher.stop()

	var convID int64
	if ref, ok := r.store.Conversation(); ok {
		convID = ref.ID
	}
	if err := r.client.Send(ctx, prompt, convID); err != nil {
		return fmt.Errorf("failed to send prompt: %w", err)
	}
	logger.Debug("Prompt sent, waiting for turn completion")

	msg, err := watcher.wait(ctx)
	if err != nil {
		return err
	}

	r.output.Response(msg)
	return nil
}
