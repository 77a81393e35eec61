package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/WendelRafael/todo-go/internal/api"
	"github.com/WendelRafael/todo-go/internal/cache"
	"github.com/WendelRafael/todo-go/internal/config"
	"github.com/WendelRafael/todo-go/internal/session"
	"github.com/WendelRafael/todo-go/internal/tasklist"
	"github.com/WendelRafael/todo-go/internal/tui"
)

// setupSlog sends structured logs to a file; the TUI owns the terminal.
func setupSlog(path string) *os.File {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		// fall back to stderr rather than refusing to start
		slog.Error("log_file_open_failed", "path", path, "error", err)
		return nil
	}

	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))
	return file
}

// openCache returns nil when the cache cannot be opened; the client runs
// without local persistence in that case.
func openCache(path string) *cache.Cache {
	c, err := cache.Open(path)
	if err != nil {
		slog.Error("cache_open_failed", "path", path, "error", err)
		return nil
	}
	return c
}

func main() {
	cfg := config.New()

	logFile := setupSlog(cfg.LogPath)
	if logFile != nil {
		defer logFile.Close()
	}

	store := session.NewFileStore(cfg.TokenPath)
	client := api.New(cfg.ServerURL, store)

	// a typed nil must not reach the store interface
	localCache := openCache(cfg.CachePath)
	var list *tasklist.List
	if localCache != nil {
		defer localCache.Close()
		list = tasklist.New(client, localCache)
	} else {
		list = tasklist.New(client, nil)
	}

	token, err := store.Token()
	if err != nil {
		slog.Error("session_read_failed", "error", err)
	}

	slog.Info("client_start", "server", cfg.ServerURL, "logged_in", token != "")

	app := tui.New(client, list, token != "")
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("tui_run_failed", "error", err)
		os.Exit(1)
	}
}
