package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shubham-309/chatbot/internal/conversation"
)

const sidebarWidth = 28

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	sidebar := m.styles.Sidebar.
		Width(sidebarWidth).
		Height(m.viewport.Height + 4).
		Render(m.renderSidebar())

	chatView := m.viewport.View()
	if m.conversation.PendingReply() || m.loadingHistory {
		chatView += "\n" + m.styles.Spinner.Render(m.spinner.View()) + " Thinking..."
	}
	if m.err != nil {
		chatView += "\n" + m.styles.Error.Render("Error: "+m.err.Error())
	}

	inputArea := m.styles.InputBox.
		BorderForeground(m.inputBorderColor()).
		Render(m.textinput.View())

	rightPane := lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.Chat.Render(chatView),
		inputArea,
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, rightPane)

	if m.menuOpen {
		body = m.overlayMenu(body)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		m.renderFooter(),
	)
}

func (m Model) inputBorderColor() lipgloss.Color {
	if m.focus == focusInput {
		return m.styles.Theme.Accent
	}
	return m.styles.Theme.Border
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" CHAT A.I+ ")

	account := ""
	if m.user != nil {
		account = m.styles.Muted.Render(fmt.Sprintf(" %s <%s> ", m.user.Username, m.user.Email))
	}

	var status string
	if m.conversation.PendingReply() || m.loadingHistory || m.loadingChats {
		status = m.styles.Warning.Render("● Working")
	} else {
		status = m.styles.Success.Render("● Ready")
	}

	headerLine := lipgloss.JoinHorizontal(
		lipgloss.Center,
		title,
		account,
		" ",
		status,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerLine,
		m.styles.Muted.Render(" "+m.route),
		m.styles.RenderDivider(m.width),
	)
}

func (m Model) renderSidebar() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Conversations"))
	sb.WriteString("\n")

	list := m.provider.Chats()
	if len(list) == 0 {
		sb.WriteString(m.styles.Muted.Render("No conversations yet."))
		sb.WriteString("\n")
	}

	activeID := m.conversation.ID()
	for i, ref := range list {
		label := sidebarTitle(ref.Name)
		line := m.styles.ChatItem.Render(label)
		if ref.ID == activeID {
			line = m.styles.ChatItemActive.Render(label)
		}
		if m.focus == focusSidebar && i == m.cursor {
			line = "> " + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if m.loadingChats {
		sb.WriteString(m.styles.Muted.Render("  loading..."))
	} else {
		sb.WriteString(m.styles.Muted.Render("  Ctrl+L: more"))
	}

	return sb.String()
}

func (m Model) renderConversation() string {
	msgs := m.conversation.Messages()
	if len(msgs) == 0 {
		if m.conversation.ID() == "" {
			greeting := "How can I help you today?"
			if m.user != nil {
				greeting = fmt.Sprintf("Hi %s, how can I help you today?", m.user.Username)
			}
			return m.styles.Subtitle.Render(greeting)
		}
		return ""
	}

	var sb strings.Builder
	for _, msg := range msgs {
		switch {
		case msg.Sender == conversation.SenderUser:
			sb.WriteString(m.styles.UserLabel.Render("You") + "\n")
			sb.WriteString(m.styles.UserMessage.Render(msg.Content))
			sb.WriteString("\n\n")

		case msg.Content == conversation.PlaceholderContent:
			sb.WriteString(m.styles.BotLabel.Render("Assistant") + "\n")
			sb.WriteString(m.styles.Placeholder.Render(msg.Content))
			sb.WriteString("\n\n")

		default:
			sb.WriteString(m.styles.BotLabel.Render("Assistant") + "\n")
			sb.WriteString(m.safeRenderMarkdown(msg.Content))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

func (m Model) overlayMenu(body string) string {
	var sb strings.Builder
	if m.user != nil {
		sb.WriteString(m.styles.Title.Render(m.user.Username))
		sb.WriteString("\n")
	}
	for i, item := range menuItems {
		if i == m.menuCursor {
			sb.WriteString(m.styles.MenuFocus.Render("> " + item))
		} else {
			sb.WriteString(m.styles.MenuItem.Render("  " + item))
		}
		sb.WriteString("\n")
	}
	menu := m.styles.MenuBox.Render(sb.String())

	return lipgloss.JoinVertical(lipgloss.Left, menu, body)
}

func (m Model) renderFooter() string {
	help := m.styles.Muted.Render(
		"Enter: send • Tab: sidebar • Ctrl+N: new chat • Ctrl+L: more chats • Ctrl+U: account • Ctrl+C: exit",
	)
	return lipgloss.NewStyle().MarginTop(1).Render(help)
}
