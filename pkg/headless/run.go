package headless

import (
	"context"
	"fmt"

	"github.com/pryce-dev/vantage/pkg/chat"
	"github.com/pryce-dev/vantage/pkg/gateway"
)

// Deps are the collaborators a headless run needs. The gateway client must
// already have its event handler installed.
type Deps struct {
	Client *gateway.Client
	Store  *chat.Store
}

// RunHeadless executes a single prompt: connect, send, print the finalized
// response, disconnect. This is the main entry point for one-shot CLI
// execution.
func RunHeadless(ctx context.Context, deps Deps, prompt string) error {
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty in headless mode")
	}

	runner := newRunner(deps)
	if err := runner.run(ctx, prompt); err != nil {
		return fmt.Errorf("failed to execute prompt: %w", err)
	}
	return nil
}
