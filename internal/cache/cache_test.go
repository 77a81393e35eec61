package cache

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/WendelRafael/todo-go/internal/models"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestReplaceAllAndTasks(t *testing.T) {
	c := openTestCache(t)

	// ids deliberately out of order: fetch order must win, not id order
	tasks := []models.Task{
		{ID: 9, Title: "last created", Description: "d", Date: "2025-03-01"},
		{ID: 2, Title: "older", Completed: true},
		{ID: 5, Title: "middle"},
	}
	if err := c.ReplaceAll(tasks); err != nil {
		t.Fatalf("ReplaceAll() failed: %v", err)
	}

	got, err := c.Tasks()
	if err != nil {
		t.Fatalf("Tasks() failed: %v", err)
	}
	if !reflect.DeepEqual(got, tasks) {
		t.Fatalf("Tasks() = %+v, want %+v", got, tasks)
	}
}

func TestReplaceAllSwapsWholesale(t *testing.T) {
	c := openTestCache(t)

	if err := c.ReplaceAll([]models.Task{{ID: 1, Title: "old"}}); err != nil {
		t.Fatalf("ReplaceAll() failed: %v", err)
	}
	if err := c.ReplaceAll([]models.Task{{ID: 2, Title: "new"}}); err != nil {
		t.Fatalf("second ReplaceAll() failed: %v", err)
	}

	got, err := c.Tasks()
	if err != nil {
		t.Fatalf("Tasks() failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("old rows survived: %+v", got)
	}
}

func TestClear(t *testing.T) {
	c := openTestCache(t)

	if err := c.ReplaceAll([]models.Task{{ID: 1, Title: "t"}}); err != nil {
		t.Fatalf("ReplaceAll() failed: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	got, err := c.Tasks()
	if err != nil {
		t.Fatalf("Tasks() failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("rows survived Clear(): %+v", got)
	}
}

func TestEmptyCache(t *testing.T) {
	c := openTestCache(t)

	got, err := c.Tasks()
	if err != nil {
		t.Fatalf("Tasks() failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("fresh cache not empty: %+v", got)
	}
}
