package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// loginCmd authenticates against the backend with email and password
var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in to the chatbot backend",
	Long: `Authenticate with the backend using email and password.

The session cookie is stored in ~/.chatbot/cookies.json and reused by
subsequent runs, so you stay logged in until the cookie expires or you
run 'chatbot logout'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// loginGoogleCmd prints the Google OAuth entry point
var loginGoogleCmd = &cobra.Command{
	Use:   "google",
	Short: "Show the Google login URL",
	Long: `The Google OAuth flow runs in a browser: the backend redirects to
Google's consent screen and sets the session cookie on the way back.
This prints the URL to open.`,
	RunE: runLoginGoogle,
}

// registerCmd creates a new account
var registerCmd = &cobra.Command{
	Use:   "register [email]",
	Short: "Create a new account",
	RunE:  runRegister,
	Args:  cobra.MaximumNArgs(1),
}

// logoutCmd ends the session and clears local credentials
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear stored credentials",
	RunE:  runLogout,
}

// whoamiCmd shows the account the stored session resolves to
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently logged-in account",
	RunE:  runWhoami,
}

func init() {
	loginCmd.AddCommand(loginGoogleCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	email, err := resolveEmail(args)
	if err != nil {
		return err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Server.RequestTimeout())
	defer cancel()

	user, err := a.session.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	logger.Info("logged in", zap.String("email", user.Email))
	fmt.Printf("Logged in as %s <%s>\n", user.Username, user.Email)
	return nil
}

func runLoginGoogle(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	fmt.Println("Open this URL in a browser to log in with Google:")
	fmt.Println("  " + a.session.GoogleLoginURL())
	fmt.Println()
	fmt.Println("The browser session cookie is not shared with this client;")
	fmt.Println("use 'chatbot login' with a password account for terminal use.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	email, err := resolveEmail(args)
	if err != nil {
		return err
	}
	username, err := readLine("Username: ")
	if err != nil {
		return err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Server.RequestTimeout())
	defer cancel()

	resp, err := a.session.Register(ctx, email, password, username)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	logger.Info("registered", zap.String("email", email))
	if resp.Message != "" {
		fmt.Println(resp.Message)
	}
	fmt.Println("Account created. Run 'chatbot login' to sign in.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Server.RequestTimeout())
	defer cancel()

	a.session.Logout(ctx)
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Server.RequestTimeout())
	defer cancel()

	user := a.session.ResolveCurrentUser(ctx)
	if user == nil {
		fmt.Println("Not logged in.")
		return fmt.Errorf("no active session")
	}
	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	return nil
}

func resolveEmail(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return readLine("Email: ")
}

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
