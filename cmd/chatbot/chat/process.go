package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shubham-309/chatbot/internal/chats"
	"github.com/shubham-309/chatbot/internal/conversation"
)

// Messages for tea updates. Fetch commands run off the loop goroutine and
// carry their results back here; all state mutation happens in Update.
type (
	chatsLoadedMsg struct {
		refs []chats.ChatRef
		err  error
	}

	historyLoadedMsg struct {
		gen  uint64
		msgs []conversation.Message
		err  error
	}

	sendResultMsg struct {
		intent conversation.SendIntent
		reply  string
		err    error
	}

	logoutDoneMsg struct{}
)

// fetchChatsCmd requests the top count conversations for the sidebar.
func (m Model) fetchChatsCmd(count int) tea.Cmd {
	lister := m.provider.Transport()
	timeout := m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		refs, err := lister.LatestChats(ctx, count)
		return chatsLoadedMsg{refs: refs, err: err}
	}
}

// loadHistoryCmd fetches the message log for the conversation generation
// captured at dispatch time. A stale generation is discarded on arrival.
func (m Model) loadHistoryCmd(gen uint64, chatID string) tea.Cmd {
	transport := m.transport
	timeout := m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		msgs, err := transport.History(ctx, chatID)
		return historyLoadedMsg{gen: gen, msgs: msgs, err: err}
	}
}

// askCmd submits the optimistically recorded message to the backend.
func (m Model) askCmd(intent conversation.SendIntent) tea.Cmd {
	transport := m.transport
	timeout := m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		reply, err := transport.Ask(ctx, intent.ChatID, intent.Text)
		return sendResultMsg{intent: intent, reply: reply, err: err}
	}
}

// logoutCmd ends the backend session. Local credentials are cleared even
// when the server call fails, so the result carries no error.
func (m Model) logoutCmd() tea.Cmd {
	session := m.session
	timeout := m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		session.Logout(ctx)
		return logoutDoneMsg{}
	}
}
