package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smit-tejani/smartassist-portal/internal/app"
	"github.com/smit-tejani/smartassist-portal/internal/credential"
	"github.com/smit-tejani/smartassist-portal/internal/model"
	"github.com/smit-tejani/smartassist-portal/internal/notify"
	"github.com/smit-tejani/smartassist-portal/internal/portal"
	"github.com/smit-tejani/smartassist-portal/internal/store"
)

// sessionEnvVar overrides the keyring-stored session token, mainly for
// development against a local backend.
const sessionEnvVar = "SMARTASSIST_SESSION"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "smartassist:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return err
	}

	session := os.Getenv(sessionEnvVar)
	if session == "" {
		session, err = credential.Get(credential.SessionKey)
		if err != nil || session == "" {
			return fmt.Errorf("no portal session found; store your session token in the system keyring under service %q, key %q, or set %s", "smartassist", credential.SessionKey, sessionEnvVar)
		}
	}

	client := portal.NewClient(cfg.Portal.BaseURL, session)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	user, err := client.CurrentUser(ctx)
	cancel()
	if err != nil {
		if portal.IsAuthError(err) {
			return fmt.Errorf("portal session expired; sign in again: %w", err)
		}
		return fmt.Errorf("reaching portal at %s: %w", cfg.Portal.BaseURL, err)
	}

	cachePath := defaultCachePath()
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	cache, err := store.NewSQLiteStore(cachePath)
	if err != nil {
		return fmt.Errorf("opening catalog cache: %w", err)
	}
	defer cache.Close()

	agent := notify.NewAgent(client, cfg.Portal.PageSize)

	p := tea.NewProgram(
		app.New(cfg, user, client, agent, cache),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "smartassist.db"
	}
	return filepath.Join(home, ".config", "smartassist", "cache.db")
}
