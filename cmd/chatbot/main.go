// Package main provides the chatbot CLI entry point.
// Run without arguments to start the interactive chat interface; the
// login/register/logout subcommands manage the backend session.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shubham-309/chatbot/cmd/chatbot/chat"
	"github.com/shubham-309/chatbot/cmd/chatbot/ui"
	"github.com/shubham-309/chatbot/internal/api"
	"github.com/shubham-309/chatbot/internal/auth"
	"github.com/shubham-309/chatbot/internal/chatbot"
	"github.com/shubham-309/chatbot/internal/chats"
	"github.com/shubham-309/chatbot/internal/config"
	"github.com/shubham-309/chatbot/internal/conversation"
	"github.com/shubham-309/chatbot/internal/logging"
)

var (
	// Global flags
	verbose   bool
	serverURL string

	// Logger for non-interactive subcommands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chatbot",
	Short: "CHAT A.I+ - terminal chat client",
	Long: `chatbot is the terminal client for the CHAT A.I+ backend.

It keeps your session in ~/.chatbot (cookies and account details), shows
your recent conversations in a sidebar, and syncs messages optimistically:
your message appears immediately and the assistant's reply fills in when
the backend answers.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "chatbot" && cmd.CalledAs() == "chatbot" {
			return nil
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat()
	},
}

// app wires the shared client stack: config, cookie jar, HTTP client,
// session and chat service.
type app struct {
	cfg      config.Config
	stateDir string
	session  *auth.Session
	service  *chatbot.Service
}

func newApp() (*app, error) {
	stateDir, err := config.StateDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve state directory: %w", err)
	}
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		// Malformed config falls back to defaults; keep going.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if err := logging.Initialize(stateDir, logging.Settings{
		DebugMode:  cfg.Logging.DebugMode,
		Categories: cfg.Logging.Categories,
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.JSONFormat,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	baseURL := cfg.Server.BaseURL
	if serverURL != "" {
		baseURL = serverURL
	}

	jar, err := api.NewJar(filepath.Join(stateDir, "cookies.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to open cookie jar: %w", err)
	}

	client := api.NewClient(baseURL, cfg.Server.RequestTimeout(), jar)
	store := auth.NewCredentialStore(filepath.Join(stateDir, "user.json"))

	return &app{
		cfg:      cfg,
		stateDir: stateDir,
		session:  auth.NewSession(client, store),
		service:  chatbot.NewService(client),
	}, nil
}

// runInteractiveChat resolves the session and starts the TUI. An
// unauthenticated user is told how to log in instead.
func runInteractiveChat() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer logging.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.RequestTimeout())
	user := a.session.ResolveCurrentUser(ctx)
	cancel()
	if user == nil {
		fmt.Fprintln(os.Stderr, "Not logged in. Run 'chatbot login' or 'chatbot register' first.")
		return fmt.Errorf("no active session")
	}

	styles := ui.NewStyles(ui.ThemeByName(a.cfg.UI.Theme))

	model := chat.New(chat.Options{
		Session:        a.session,
		Provider:       chats.NewProvider(a.service),
		Conversation:   conversation.New(a.service),
		Transport:      a.service,
		User:           user,
		Styles:         styles,
		RequestTimeout: a.cfg.Server.RequestTimeout(),
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(chat.Model); ok && m.LoggedOut() {
		fmt.Println("Logged out.")
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend base URL (or set CHATBOT_API_URL env)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
