// Package chat implements the interactive terminal client: a recent-chat
// sidebar next to the active conversation, driven by bubbletea.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/shubham-309/chatbot/cmd/chatbot/ui"
	"github.com/shubham-309/chatbot/internal/auth"
	"github.com/shubham-309/chatbot/internal/chats"
	"github.com/shubham-309/chatbot/internal/conversation"
)

// focusArea tracks which pane receives navigation keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// menu entries shown under the account name, in order.
var menuItems = []string{"New chat", "Log out"}

// Model is the top-level bubbletea model for the chat screen.
type Model struct {
	// UI components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	// Domain state, owned by the update loop
	session      *auth.Session
	provider     *chats.Provider
	conversation *conversation.Conversation
	transport    conversation.Transport
	user         *auth.User

	// Sidebar
	cursor       int // index into provider.Chats(); -1 when nothing highlighted
	loadingChats bool

	// route is the navigable location shown in the header, "/chat" or
	// "/chat?id=<id>". Kept in step with the active conversation.
	route string

	// Account menu overlay
	menuOpen   bool
	menuCursor int

	// Layout
	focus          focusArea
	width          int
	height         int
	ready          bool
	loadingHistory bool
	err            error

	requestTimeout time.Duration
	loggedOut      bool
}

// Options configures the chat model.
type Options struct {
	Session        *auth.Session
	Provider       *chats.Provider
	Conversation   *conversation.Conversation
	Transport      conversation.Transport
	User           *auth.User
	Styles         ui.Styles
	RequestTimeout time.Duration
}

// New builds the chat model. The caller has already resolved the current
// user; an unauthenticated session never reaches this screen.
func New(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "What's on your mind?... (Enter to send, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 4096
	ti.Width = 80
	ti.PromptStyle = opts.Styles.Prompt
	ti.TextStyle = opts.Styles.Body

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = opts.Styles.Spinner

	vp := viewport.New(80, 20)
	vp.SetContent("")

	var renderer *glamour.TermRenderer
	if opts.Styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(80),
		)
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return Model{
		textinput:      ti,
		viewport:       vp,
		spinner:        sp,
		styles:         opts.Styles,
		renderer:       renderer,
		session:        opts.Session,
		provider:       opts.Provider,
		conversation:   opts.Conversation,
		transport:      opts.Transport,
		user:           opts.User,
		cursor:         -1,
		route:          "/chat",
		focus:          focusInput,
		requestTimeout: timeout,
	}
}

// LoggedOut reports whether the session ended via the account menu.
func (m Model) LoggedOut() bool {
	return m.loggedOut
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.fetchChatsCmd(chats.PageSize),
	)
}
