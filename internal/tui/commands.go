package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/WendelRafael/todo-go/internal/api"
	"github.com/WendelRafael/todo-go/internal/models"
	"github.com/WendelRafael/todo-go/internal/tasklist"
)

// Messages delivered back to Update by command goroutines.

type sessionMsg struct{}

type tasksLoadedMsg struct{ tasks []models.Task }

type taskSavedMsg struct{ task models.Task }

type taskDeletedMsg struct{ id int }

type deleteFailedMsg struct{ err error }

// opFailedMsg names the failed action in user terms ("load tasks",
// "save task", ...) so the notice line can stay generic.
type opFailedMsg struct {
	action string
	err    error
}

func loginCmd(client *api.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		if _, err := client.Login(context.Background(), username, password); err != nil {
			return opFailedMsg{action: "sign in", err: err}
		}
		return sessionMsg{}
	}
}

func registerCmd(client *api.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		if _, err := client.Register(context.Background(), username, password); err != nil {
			return opFailedMsg{action: "create account", err: err}
		}
		return sessionMsg{}
	}
}

func fetchCmd(list *tasklist.List) tea.Cmd {
	return func() tea.Msg {
		if err := list.Refresh(context.Background()); err != nil {
			return opFailedMsg{action: "load tasks", err: err}
		}
		return tasksLoadedMsg{tasks: list.Tasks()}
	}
}

func toggleCmd(client *api.Client, id int, current bool) tea.Cmd {
	return func() tea.Msg {
		task, err := client.ToggleComplete(context.Background(), id, current)
		if err != nil {
			return opFailedMsg{action: "save task", err: err}
		}
		return taskSavedMsg{task: task}
	}
}

func deleteCmd(list *tasklist.List, id int) tea.Cmd {
	return func() tea.Msg {
		if err := list.Delete(context.Background(), id); err != nil {
			return deleteFailedMsg{err: err}
		}
		return taskDeletedMsg{id: id}
	}
}

func saveCmd(client *api.Client, id int, title, description, date string) tea.Cmd {
	return func() tea.Msg {
		var (
			task models.Task
			err  error
		)
		if id == 0 {
			task, err = client.CreateTask(context.Background(), title, description, date)
		} else {
			task, err = client.Replace(context.Background(), id, title, description, date)
		}
		if err != nil {
			return opFailedMsg{action: "save task", err: err}
		}
		return taskSavedMsg{task: task}
	}
}
