package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pryce-dev/vantage/pkg/chat"
	"github.com/pryce-dev/vantage/pkg/gateway"
)

// Client talks to the REST surface of the service: conversation listing,
// history and deletion. Live turns go over the gateway, not here.
type Client struct {
	baseURL    string
	tokens     gateway.TokenProvider
	httpClient *http.Client
}

func NewClient(baseURL string, tokens gateway.TokenProvider) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type conversationSummary struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

type listResponse struct {
	Conversations []conversationSummary `json:"conversations"`
}

// HistoryMessage is one persisted entry of a past conversation.
type HistoryMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is the full record returned by GetConversation.
type Conversation struct {
	ID             int64            `json:"id"`
	Title          string           `json:"title"`
	CreatedAt      time.Time        `json:"created_at"`
	LastActivityAt time.Time        `json:"last_activity_at"`
	Messages       []HistoryMessage `json:"messages"`
}

// ListConversations returns the user's conversations, most recent first as
// served. It satisfies the engine's lister.
func (c *Client) ListConversations(ctx context.Context) ([]chat.ConversationRef, error) {
	var list listResponse
	if err := c.get(ctx, "/api/conversations", &list); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	refs := make([]chat.ConversationRef, 0, len(list.Conversations))
	for _, s := range list.Conversations {
		refs = append(refs, chat.ConversationRef{
			ID:             s.ID,
			Title:          s.Title,
			LastActivityAt: s.LastActivityAt,
		})
	}
	return refs, nil
}

func (c *Client) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	var conv Conversation
	if err := c.get(ctx, fmt.Sprintf("/api/conversations/%d", id), &conv); err != nil {
		return nil, fmt.Errorf("failed to get conversation %d: %w", id, err)
	}
	return &conv, nil
}

func (c *Client) DeleteConversation(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/conversations/%d", id))
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete conversation %d: %w", id, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete conversation %d failed with status: %d", id, resp.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}
