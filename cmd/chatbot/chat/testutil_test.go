package chat

import (
	"context"
	"time"

	"github.com/shubham-309/chatbot/cmd/chatbot/ui"
	"github.com/shubham-309/chatbot/internal/auth"
	"github.com/shubham-309/chatbot/internal/chats"
	"github.com/shubham-309/chatbot/internal/conversation"
)

// fakeBackend implements both the conversation transport and the sidebar
// lister against in-memory data.
type fakeBackend struct {
	latest     []chats.ChatRef
	latestErr  error
	history    map[string][]conversation.Message
	historyErr error
	reply      string
	askErr     error
}

func (f *fakeBackend) LatestChats(_ context.Context, count int) ([]chats.ChatRef, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	if count > len(f.latest) {
		count = len(f.latest)
	}
	return f.latest[:count], nil
}

func (f *fakeBackend) History(_ context.Context, chatID string) ([]conversation.Message, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history[chatID], nil
}

func (f *fakeBackend) Ask(_ context.Context, _, _ string) (string, error) {
	if f.askErr != nil {
		return "", f.askErr
	}
	return f.reply, nil
}

func newTestModel(backend *fakeBackend) Model {
	m := New(Options{
		Provider:       chats.NewProvider(backend),
		Conversation:   conversation.New(backend),
		Transport:      backend,
		User:           &auth.User{Username: "tester", Email: "tester@example.com"},
		Styles:         ui.NewStyles(ui.LightTheme()),
		RequestTimeout: time.Second,
	})
	m.ready = true
	m.width = 100
	m.height = 30
	return m
}
