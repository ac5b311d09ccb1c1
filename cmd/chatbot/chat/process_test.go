package chat

import (
	"errors"
	"testing"

	"github.com/shubham-309/chatbot/internal/chats"
	"github.com/shubham-309/chatbot/internal/conversation"
)

func TestAskCmdCarriesIntent(t *testing.T) {
	m := newTestModel(&fakeBackend{reply: "42"})

	intent, ok := m.conversation.BeginSend("meaning of life?")
	if !ok {
		t.Fatal("BeginSend failed")
	}

	msg := m.askCmd(intent)()
	result, ok := msg.(sendResultMsg)
	if !ok {
		t.Fatalf("unexpected message type %T", msg)
	}
	if result.reply != "42" {
		t.Fatalf("unexpected reply %q", result.reply)
	}
	if result.intent.ChatID != intent.ChatID {
		t.Fatal("intent must round-trip through the command")
	}
}

func TestAskCmdReportsFailure(t *testing.T) {
	m := newTestModel(&fakeBackend{askErr: errors.New("dial tcp: refused")})

	intent, _ := m.conversation.BeginSend("hello")
	msg := m.askCmd(intent)()
	result := msg.(sendResultMsg)
	if result.err == nil {
		t.Fatal("expected transport error to surface")
	}
}

func TestLoadHistoryCmdPinsGeneration(t *testing.T) {
	backend := &fakeBackend{history: map[string][]conversation.Message{
		"chat-1": {{Sender: conversation.SenderBot, Content: "welcome back"}},
	}}
	m := newTestModel(backend)
	m.conversation.Select("chat-1")
	gen, _ := m.conversation.BeginLoad()

	msg := m.loadHistoryCmd(gen, "chat-1")()
	result := msg.(historyLoadedMsg)
	if result.gen != gen {
		t.Fatalf("generation mismatch: %d != %d", result.gen, gen)
	}
	if len(result.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.msgs))
	}
}

func TestFetchChatsCmdRequestsCount(t *testing.T) {
	backend := &fakeBackend{latest: []chats.ChatRef{
		{ID: "a", Name: "1"}, {ID: "b", Name: "2"}, {ID: "c", Name: "3"},
	}}
	m := newTestModel(backend)

	msg := m.fetchChatsCmd(2)()
	result := msg.(chatsLoadedMsg)
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if len(result.refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(result.refs))
	}
}
