// Package tasklist owns the in-memory task collection behind the list
// screen: refreshing it from the remote API, reconciling single updates,
// and the optimistic-delete-with-rollback flow.
package tasklist

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/WendelRafael/todo-go/internal/models"
)

// remote is the slice of the API client the list needs.
type remote interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	DeleteTask(ctx context.Context, id int) error
}

// store is a local cache written through on every successful refresh. It
// is optional; a nil cache disables write-through.
type store interface {
	ReplaceAll(tasks []models.Task) error
	Tasks() ([]models.Task, error)
	Clear() error
}

type List struct {
	client remote
	cache  store

	mu    sync.Mutex
	tasks []models.Task
}

func New(client remote, cache store) *List {
	return &List{client: client, cache: cache}
}

// Restore loads the last cached collection so the UI has something to show
// before the first fetch resolves. Reports whether anything was loaded.
func (l *List) Restore() bool {
	if l.cache == nil {
		return false
	}
	tasks, err := l.cache.Tasks()
	if err != nil {
		slog.Warn("cache_read_failed", "error", err)
		return false
	}
	if len(tasks) == 0 {
		return false
	}
	l.mu.Lock()
	l.tasks = tasks
	l.mu.Unlock()
	return true
}

// Refresh replaces the collection with the server's answer and writes it
// through to the cache.
func (l *List) Refresh(ctx context.Context) error {
	tasks, err := l.client.ListTasks(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.tasks = tasks
	l.mu.Unlock()

	if l.cache != nil {
		if err := l.cache.ReplaceAll(tasks); err != nil {
			slog.Warn("cache_write_failed", "error", err)
		}
	}
	return nil
}

// Tasks returns a copy of the current collection in server order.
func (l *List) Tasks() []models.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.tasks)
}

// Put reconciles a single task returned by an update or toggle without a
// full re-fetch.
func (l *List) Put(task models.Task) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.tasks {
		if l.tasks[i].ID == task.ID {
			l.tasks[i] = task
			return
		}
	}
	l.tasks = append(l.tasks, task)
}

// Delete removes the task locally first, then issues the remote delete.
// On any failure the pre-delete collection is restored exactly and a
// re-fetch is attempted so the authoritative state wins; no partial state
// is ever exposed.
func (l *List) Delete(ctx context.Context, id int) error {
	l.mu.Lock()
	snapshot := slices.Clone(l.tasks)
	next := make([]models.Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	l.tasks = next
	l.mu.Unlock()

	if err := l.client.DeleteTask(ctx, id); err != nil {
		l.mu.Lock()
		l.tasks = snapshot
		l.mu.Unlock()
		if refreshErr := l.Refresh(ctx); refreshErr != nil {
			slog.Warn("refresh_after_failed_delete", "error", refreshErr)
		}
		return err
	}
	return nil
}

// Reset drops the in-memory collection and the cache, used on logout.
func (l *List) Reset() {
	l.mu.Lock()
	l.tasks = nil
	l.mu.Unlock()
	if l.cache != nil {
		if err := l.cache.Clear(); err != nil {
			slog.Warn("cache_clear_failed", "error", err)
		}
	}
}
