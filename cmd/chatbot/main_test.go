package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newTestCommand builds a command with a context, which Execute normally
// provides.
func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestNewAppCreatesStateDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CHATBOT_HOME", filepath.Join(home, ".chatbot"))
	t.Setenv("CHATBOT_API_URL", "")

	a, err := newApp()
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}

	if _, err := os.Stat(a.stateDir); err != nil {
		t.Fatalf("state directory not created: %v", err)
	}
	if a.session == nil || a.service == nil {
		t.Fatal("session and service should be wired")
	}
}

func TestRunWhoamiWithoutSession(t *testing.T) {
	logger = zap.NewNop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/current" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"user": nil})
	}))
	defer server.Close()

	t.Setenv("CHATBOT_HOME", t.TempDir())
	t.Setenv("CHATBOT_API_URL", server.URL)

	if err := runWhoami(newTestCommand(), nil); err == nil {
		t.Fatal("expected an error when no session exists")
	}
}

func TestRunLogout(t *testing.T) {
	logger = zap.NewNop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/logout" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Logout successful"})
	}))
	defer server.Close()

	t.Setenv("CHATBOT_HOME", t.TempDir())
	t.Setenv("CHATBOT_API_URL", server.URL)

	if err := runLogout(newTestCommand(), nil); err != nil {
		t.Fatalf("runLogout failed: %v", err)
	}
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"login", "register", "logout", "whoami"} {
		if !names[want] {
			t.Fatalf("subcommand %q not registered", want)
		}
	}
}
