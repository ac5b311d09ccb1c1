package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/shubham-309/chatbot/internal/chats"
	"github.com/shubham-309/chatbot/internal/logging"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Any key other than menu navigation dismisses the account menu
		if m.menuOpen {
			return m.updateMenu(msg)
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyTab:
			if m.focus == focusInput {
				m.focus = focusSidebar
				m.textinput.Blur()
				if m.cursor < 0 && len(m.provider.Chats()) > 0 {
					m.cursor = 0
				}
			} else {
				m.focus = focusInput
				m.textinput.Focus()
			}
			return m, nil

		case tea.KeyCtrlN:
			return m.startNewConversation()

		case tea.KeyCtrlL:
			return m.loadMoreChats()

		case tea.KeyCtrlU:
			m.menuOpen = true
			m.menuCursor = 0
			return m, nil

		case tea.KeyUp:
			if m.focus == focusSidebar {
				if m.cursor > 0 {
					m.cursor--
				}
				return m, nil
			}

		case tea.KeyDown:
			if m.focus == focusSidebar {
				if m.cursor < len(m.provider.Chats())-1 {
					m.cursor++
				}
				return m, nil
			}

		case tea.KeyEnter:
			if m.focus == focusSidebar {
				return m.openSelectedChat()
			}
			return m.handleSubmit()
		}

		if m.focus == focusInput {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		footerHeight := 2
		inputHeight := 3
		chatWidth := msg.Width - sidebarWidth - 6

		if !m.ready {
			m.viewport = viewport.New(chatWidth, msg.Height-headerHeight-footerHeight-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = chatWidth
			m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		}

		m.textinput.Width = msg.Width - 6

		if m.renderer != nil {
			m.renderer, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(chatWidth-4),
			)
		}
		m.refreshViewport()

	case spinner.TickMsg:
		if m.conversation.PendingReply() || m.loadingHistory || m.loadingChats {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case chatsLoadedMsg:
		m.loadingChats = false
		if msg.err != nil {
			logging.UI("sidebar fetch failed: %v", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.provider.Replace(msg.refs)
		if m.cursor >= len(msg.refs) {
			m.cursor = len(msg.refs) - 1
		}
		return m, nil

	case historyLoadedMsg:
		m.loadingHistory = false
		if m.conversation.ApplyHistory(msg.gen, msg.msgs, msg.err) {
			m.refreshViewport()
		}
		return m, nil

	case sendResultMsg:
		outcome := m.conversation.ResolveSend(msg.intent, msg.reply, msg.err)
		if !outcome.Applied {
			return m, nil
		}
		m.refreshViewport()
		if outcome.AssignedID != "" {
			// First exchange of a fresh conversation: surface it in the
			// sidebar immediately, then reconcile with the backend's list.
			m.provider.Promote(chats.ChatRef{
				ID:   outcome.AssignedID,
				Name: sidebarTitle(msg.intent.Text),
			})
			m.cursor = 0
			m.route = chatRoute(outcome.AssignedID)
			return m, m.fetchChatsCmd(len(m.provider.Chats()))
		}
		return m, nil

	case logoutDoneMsg:
		m.loggedOut = true
		return m, tea.Quit
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

// updateMenu handles keys while the account menu overlay is open. Anything
// that is not menu navigation closes the menu without acting.
func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.menuCursor > 0 {
			m.menuCursor--
		}
		return m, nil

	case tea.KeyDown:
		if m.menuCursor < len(menuItems)-1 {
			m.menuCursor++
		}
		return m, nil

	case tea.KeyEnter:
		item := menuItems[m.menuCursor]
		m.menuOpen = false
		switch item {
		case "New chat":
			return m.startNewConversation()
		case "Log out":
			return m, m.logoutCmd()
		}
		return m, nil

	case tea.KeyCtrlC:
		return m, tea.Quit

	default:
		m.menuOpen = false
		return m, nil
	}
}

// handleSubmit records the input optimistically and dispatches the network
// call. Submits while a reply is pending are ignored.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	intent, ok := m.conversation.BeginSend(m.textinput.Value())
	if !ok {
		return m, nil
	}

	m.textinput.Reset()
	m.refreshViewport()

	return m, tea.Batch(
		m.spinner.Tick,
		m.askCmd(intent),
	)
}

// openSelectedChat switches the conversation to the highlighted sidebar
// entry and starts loading its history.
func (m Model) openSelectedChat() (tea.Model, tea.Cmd) {
	list := m.provider.Chats()
	if m.cursor < 0 || m.cursor >= len(list) {
		return m, nil
	}
	ref := list[m.cursor]

	if !m.conversation.Select(ref.ID) {
		// Already the active conversation.
		m.focus = focusInput
		m.textinput.Focus()
		return m, nil
	}
	m.route = chatRoute(ref.ID)
	m.refreshViewport()

	gen, ok := m.conversation.BeginLoad()
	if !ok {
		return m, nil
	}
	m.loadingHistory = true
	m.focus = focusInput
	m.textinput.Focus()

	return m, tea.Batch(
		m.spinner.Tick,
		m.loadHistoryCmd(gen, ref.ID),
	)
}

// startNewConversation clears the active conversation so the next send
// creates a fresh one server-side.
func (m Model) startNewConversation() (tea.Model, tea.Cmd) {
	m.conversation.Select("")
	m.cursor = -1
	m.route = chatRoute("")
	m.focus = focusInput
	m.textinput.Focus()
	m.refreshViewport()
	return m, nil
}

// loadMoreChats grows the sidebar by one page.
func (m Model) loadMoreChats() (tea.Model, tea.Cmd) {
	if m.loadingChats {
		return m, nil
	}
	m.loadingChats = true
	return m, tea.Batch(
		m.spinner.Tick,
		m.fetchChatsCmd(m.provider.NextCount()),
	)
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

// chatRoute formats the navigable location for the header.
func chatRoute(id string) string {
	if id == "" {
		return "/chat"
	}
	return "/chat?id=" + id
}

// sidebarTitle derives a display label from the first message. The backend
// names new chats with the full message text; the sidebar truncates it.
// Truncation counts runes so a multi-byte character is never split.
func sidebarTitle(text string) string {
	const maxLen = 32
	title := strings.TrimSpace(text)
	if runes := []rune(title); len(runes) > maxLen {
		title = string(runes[:maxLen])
	}
	return title
}
