package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pryce-dev/vantage/pkg/api"
	"github.com/pryce-dev/vantage/pkg/chat"
	"github.com/pryce-dev/vantage/pkg/config"
	"github.com/pryce-dev/vantage/pkg/engine"
	"github.com/pryce-dev/vantage/pkg/gateway"
	"github.com/pryce-dev/vantage/pkg/logger"
)

// Session bundles the wired collaborators for one CLI invocation.
type Session struct {
	Client *gateway.Client
	Store  *chat.Store
	REST   *api.Client
	Engine *engine.Engine
}

func (s *Session) Close() {
	s.Client.Disconnect()
	logger.Close()
}

// buildSession wires the store, engine, gateway client and REST client from
// the loaded configuration.
func buildSession() (*Session, error) {
	settings := config.Get()

	token, err := settings.ResolveToken()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	tokens := gateway.StaticToken(token)

	store := chat.NewStore()
	rest := api.NewClient(settings.Server.URL, tokens)

	gwCfg := gateway.DefaultConfig(settings.Server.URL)
	gwCfg.HandshakeTimeout = settings.Server.HandshakeTimeout
	gwCfg.SendTimeout = settings.Server.SendTimeout
	gwCfg.PingInterval = settings.Server.PingInterval

	policy := gateway.ReconnectPolicy{}
	if settings.Reconnect.MaxAttempts > 0 {
		policy = gateway.ReconnectPolicy{
			MaxAttempts: settings.Reconnect.MaxAttempts,
			Backoff:     gateway.ExponentialBackoff(settings.Reconnect.BackoffBase, settings.Reconnect.BackoffMax),
		}
	}

	client := gateway.NewClient(gwCfg, tokens, policy)

	eng := engine.New(store, engine.Options{
		Lister:                  rest,
		OnConversationConfirmed: client.SetConversationHint,
	})
	client.SetHandler(eng)

	if convID := viper.GetInt64("conversation"); convID > 0 {
		client.SetConversationHint(convID)
		store.SetConversation(chat.ConversationRef{ID: convID})
	}

	return &Session{
		Client: client,
		Store:  store,
		REST:   rest,
		Engine: eng,
	}, nil
}
