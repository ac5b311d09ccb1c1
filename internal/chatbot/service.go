// Package chatbot provides the typed wrappers around the backend's chatbot
// endpoints. It implements the transport interfaces consumed by the
// conversation synchronizer and the recent-chat list provider.
package chatbot

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shubham-309/chatbot/internal/api"
	"github.com/shubham-309/chatbot/internal/chats"
	"github.com/shubham-309/chatbot/internal/conversation"
)

// Service calls the chatbot routes over the shared transport.
type Service struct {
	client *api.Client
}

// NewService creates a chatbot endpoint service.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// LatestChats fetches the user's most recent conversations, newest first.
// The backend contract is "give me the top N", not offset paging.
func (s *Service) LatestChats(ctx context.Context, count int) ([]chats.ChatRef, error) {
	var resp struct {
		LatestChats []chats.ChatRef `json:"latest_chats"`
	}
	endpoint := fmt.Sprintf("chatbot/latest-chats?x=%d", count)
	if err := s.client.Get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.LatestChats, nil
}

// History fetches the full message log for a conversation.
func (s *Service) History(ctx context.Context, chatID string) ([]conversation.Message, error) {
	var resp struct {
		ChatHistory []conversation.Message `json:"chat_history"`
	}
	endpoint := "chatbot/chat-history?chat_id=" + url.QueryEscape(chatID)
	if err := s.client.Get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.ChatHistory, nil
}

// Ask sends a user message and returns the bot's reply text. The backend
// creates the conversation row when the identifier is new to it.
func (s *Service) Ask(ctx context.Context, chatID, message string) (string, error) {
	var resp struct {
		Response string `json:"response"`
	}
	err := s.client.Post(ctx, "chatbot/ask", map[string]string{
		"chat_id": chatID,
		"message": message,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}
