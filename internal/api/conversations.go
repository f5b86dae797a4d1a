package api

import (
	"context"

	"github.com/crewhub-app/sync-agent/internal/model"
)

type conversationsPayload struct {
	Conversations []model.Conversation `json:"conversations"`
}

type messagesPayload struct {
	Messages []model.Message `json:"messages"`
}

func (c *Client) conversationsBase() string {
	return c.rolePrefix() + "/communication/conversations"
}

// Conversations lists message threads for the current session.
func (c *Client) Conversations(ctx context.Context) ([]model.Conversation, error) {
	var payload conversationsPayload
	if err := c.do(ctx, "conversations.list", "GET", c.conversationsBase(), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Conversations, nil
}

// Messages fetches the message list of a conversation. The returned order is
// the server's and is treated as canonical; the client never re-sorts.
func (c *Client) Messages(ctx context.Context, conversationID string) ([]model.Message, error) {
	var payload messagesPayload
	err := c.do(ctx, "conversations.messages", "GET",
		c.conversationsBase()+"/"+conversationID+"/messages", nil, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Messages, nil
}

// SendMessage posts a message and returns the server-confirmed copy.
func (c *Client) SendMessage(ctx context.Context, conversationID string, req model.SendMessageRequest) (model.Message, error) {
	var payload struct {
		Message model.Message `json:"message"`
	}
	err := c.do(ctx, "conversations.send", "POST",
		c.conversationsBase()+"/"+conversationID+"/messages", req, &payload)
	if err != nil {
		return model.Message{}, err
	}
	return payload.Message, nil
}

// MarkRead zeroes the conversation's unread counter for the current user.
func (c *Client) MarkRead(ctx context.Context, conversationID string) error {
	return c.do(ctx, "conversations.read", "POST",
		c.conversationsBase()+"/"+conversationID+"/read", nil, nil)
}
