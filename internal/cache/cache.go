// Package cache keeps the last successfully fetched task collection in a
// local sqlite file so the list screen can render immediately on startup
// and when the API is unreachable. The server stays the source of truth;
// the cache is replaced wholesale after every fetch.
package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/WendelRafael/todo-go/internal/models"
)

type Cache struct {
	db *sql.DB
}

func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	c := &Cache{db: db}
	if err := c.createTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not initialize table: %w", err)
	}
	return c, nil
}

func (c *Cache) createTable() error {
	// seq records server order; task ids are not assumed to be ordered
	query := `CREATE TABLE IF NOT EXISTS tasks(
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL DEFAULT '',
		completed INTEGER NOT NULL DEFAULT 0
	);`
	_, err := c.db.Exec(query)
	return err
}

// ReplaceAll swaps the cached collection for the given one, preserving
// slice order.
func (c *Cache) ReplaceAll(tasks []models.Task) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tasks"); err != nil {
		return err
	}
	for _, t := range tasks {
		_, err := tx.Exec(
			"INSERT INTO tasks (id, title, description, date, completed) VALUES (?, ?, ?, ?, ?)",
			t.ID, t.Title, t.Description, t.Date, t.Completed,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Tasks returns the cached collection in the order it was fetched.
func (c *Cache) Tasks() ([]models.Task, error) {
	rows, err := c.db.Query("SELECT id, title, description, date, completed FROM tasks ORDER BY seq ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Date, &t.Completed); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Clear empties the cache, used on logout.
func (c *Cache) Clear() error {
	_, err := c.db.Exec("DELETE FROM tasks")
	return err
}

func (c *Cache) Close() error {
	return c.db.Close()
}
