// Package tui is the terminal front end: login and registration screens, a
// task list with status filters and two search fields, and a create/edit
// form. All remote work happens in command goroutines so the interface
// stays responsive while calls are in flight.
package tui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/WendelRafael/todo-go/internal/api"
	"github.com/WendelRafael/todo-go/internal/filter"
	"github.com/WendelRafael/todo-go/internal/models"
	"github.com/WendelRafael/todo-go/internal/tasklist"
)

type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenList
	screenForm
)

// which part of the list screen owns the keyboard
type listFocus int

const (
	focusTasks listFocus = iota
	focusSearch
	focusDateSearch
)

type Model struct {
	client *api.Client
	list   *tasklist.List

	screen screen

	// login / register
	username  textinput.Model
	password  textinput.Model
	authFocus int

	// list
	tasks      []models.Task
	cursor     int
	status     filter.Status
	search     textinput.Model
	dateSearch textinput.Model
	focus      listFocus
	confirmID  int  // task id awaiting delete confirmation, 0 = none
	stale      bool // currently showing cached data

	// form
	editID    int // 0 = creating a new task
	titleIn   textinput.Model
	descIn    textinput.Model
	dateIn    textinput.Model
	formFocus int

	spin    spinner.Model
	loading bool
	notice  string
	width   int
	height  int
}

func New(client *api.Client, list *tasklist.List, loggedIn bool) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword

	search := textinput.New()
	search.Placeholder = "search title or description"
	search.Prompt = "/ "

	dateSearch := textinput.New()
	dateSearch.Placeholder = "search date (YYYY-MM-DD)"
	dateSearch.Prompt = ". "

	titleIn := textinput.New()
	titleIn.Placeholder = "title"
	titleIn.CharLimit = 256

	descIn := textinput.New()
	descIn.Placeholder = "description (optional)"
	descIn.CharLimit = 512

	dateIn := textinput.New()
	dateIn.Placeholder = "date YYYY-MM-DD (optional)"
	dateIn.CharLimit = 10

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := Model{
		client:     client,
		list:       list,
		screen:     screenLogin,
		username:   username,
		password:   password,
		search:     search,
		dateSearch: dateSearch,
		titleIn:    titleIn,
		descIn:     descIn,
		dateIn:     dateIn,
		spin:       sp,
	}
	if loggedIn {
		m.screen = screenList
		m.loading = true
		if list.Restore() {
			m.tasks = list.Tasks()
			m.stale = true
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.screen == screenList {
		return tea.Batch(m.spin.Tick, fetchCmd(m.list))
	}
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case sessionMsg:
		m.screen = screenList
		m.loading = true
		m.notice = ""
		m.password.SetValue("")
		return m, tea.Batch(m.spin.Tick, fetchCmd(m.list))

	case tasksLoadedMsg:
		m.loading = false
		m.stale = false
		m.tasks = msg.tasks
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		return m, nil

	case taskSavedMsg:
		m.list.Put(msg.task)
		m.tasks = m.list.Tasks()
		m.notice = ""
		if m.screen == screenForm {
			m.screen = screenList
		}
		// re-fetch so server order stays authoritative
		m.loading = true
		return m, tea.Batch(m.spin.Tick, fetchCmd(m.list))

	case taskDeletedMsg:
		m.loading = false
		m.tasks = m.list.Tasks()
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		return m, nil

	case deleteFailedMsg:
		m.loading = false
		// collection was rolled back; mirror it
		m.tasks = m.list.Tasks()
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		if api.IsAuth(msg.err) {
			return m.toLogin("session expired, sign in again"), nil
		}
		m.notice = "could not delete task"
		return m, nil

	case opFailedMsg:
		m.loading = false
		if api.IsAuth(msg.err) {
			return m.toLogin("session expired, sign in again"), nil
		}
		m.notice = "could not " + msg.action
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.screen {
	case screenLogin, screenRegister:
		return m.updateAuth(msg)
	case screenForm:
		return m.updateForm(msg)
	default:
		return m.updateList(msg)
	}
}

// toLogin drops local session state and routes to the login screen.
func (m Model) toLogin(notice string) Model {
	m.client.Logout()
	m.list.Reset()
	m.tasks = nil
	m.cursor = 0
	m.stale = false
	m.loading = false
	m.screen = screenLogin
	m.notice = notice
	m.authFocus = 0
	m.username.Focus()
	m.password.Blur()
	m.password.SetValue("")
	return m
}

func (m Model) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			m.authFocus = 1 - m.authFocus
			if m.authFocus == 0 {
				m.username.Focus()
				m.password.Blur()
			} else {
				m.password.Focus()
				m.username.Blur()
			}
			return m, textinput.Blink

		case "enter":
			user, pass := m.username.Value(), m.password.Value()
			if user == "" || pass == "" {
				m.notice = "username and password are required"
				return m, nil
			}
			m.loading = true
			m.notice = ""
			if m.screen == screenRegister {
				return m, tea.Batch(m.spin.Tick, registerCmd(m.client, user, pass))
			}
			return m, tea.Batch(m.spin.Tick, loginCmd(m.client, user, pass))

		case "ctrl+n":
			if m.screen == screenLogin {
				m.screen = screenRegister
				m.notice = ""
			}
			return m, nil

		case "esc":
			if m.screen == screenRegister {
				m.screen = screenLogin
				m.notice = ""
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.authFocus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateSearchInputs(msg)
	}

	// a search field owns the keyboard
	if m.focus != focusTasks {
		switch key.String() {
		case "esc", "enter":
			m.focus = focusTasks
			m.search.Blur()
			m.dateSearch.Blur()
			return m, nil
		case "tab":
			if m.focus == focusSearch {
				m.focus = focusDateSearch
				m.search.Blur()
				m.dateSearch.Focus()
			} else {
				m.focus = focusSearch
				m.dateSearch.Blur()
				m.search.Focus()
			}
			return m, textinput.Blink
		}
		model, cmd := m.updateSearchInputs(msg)
		return model, cmd
	}

	// delete confirmation pending
	if m.confirmID != 0 {
		switch key.String() {
		case "y", "enter":
			id := m.confirmID
			m.confirmID = 0
			m.notice = ""
			// optimistic: the row disappears before the call resolves
			m.tasks = removeByID(m.tasks, id)
			m.cursor = clampCursor(m.cursor, len(m.visible()))
			return m, deleteCmd(m.list, id)
		default:
			m.confirmID = 0
			m.notice = ""
			return m, nil
		}
	}

	switch key.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		m.cursor = clampCursor(m.cursor+1, len(m.visible()))
		return m, nil

	case "k", "up":
		m.cursor = clampCursor(m.cursor-1, len(m.visible()))
		return m, nil

	case "1":
		m.status = filter.All
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		return m, nil

	case "2":
		m.status = filter.Pending
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		return m, nil

	case "3":
		m.status = filter.Completed
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		return m, nil

	case "/":
		m.focus = focusSearch
		m.search.Focus()
		return m, textinput.Blink

	case ".":
		m.focus = focusDateSearch
		m.dateSearch.Focus()
		return m, textinput.Blink

	case " ":
		if t, ok := m.selected(); ok {
			return m, toggleCmd(m.client, t.ID, t.Completed)
		}
		return m, nil

	case "d":
		if t, ok := m.selected(); ok {
			m.confirmID = t.ID
			m.notice = "delete \"" + t.Title + "\"? (y/n)"
		}
		return m, nil

	case "e":
		if t, ok := m.selected(); ok {
			return m.openForm(t), textinput.Blink
		}
		return m, nil

	case "a":
		return m.openForm(models.Task{}), textinput.Blink

	case "y":
		if t, ok := m.selected(); ok {
			if err := clipboard.WriteAll(t.Title); err != nil {
				m.notice = "could not copy to clipboard"
			} else {
				m.notice = "copied title"
			}
		}
		return m, nil

	case "r":
		m.loading = true
		m.notice = ""
		return m, tea.Batch(m.spin.Tick, fetchCmd(m.list))

	case "L":
		return m.toLogin("signed out"), nil
	}

	return m, nil
}

func (m Model) updateSearchInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusSearch:
		m.search, cmd = m.search.Update(msg)
	case focusDateSearch:
		m.dateSearch, cmd = m.dateSearch.Update(msg)
	}
	m.cursor = clampCursor(m.cursor, len(m.visible()))
	return m, cmd
}

// openForm prepares the form screen; a zero task means "create".
func (m Model) openForm(t models.Task) Model {
	m.screen = screenForm
	m.editID = t.ID
	m.titleIn.SetValue(t.Title)
	m.descIn.SetValue(t.Description)
	m.dateIn.SetValue(t.Date)
	m.formFocus = 0
	m.titleIn.Focus()
	m.descIn.Blur()
	m.dateIn.Blur()
	m.notice = ""
	return m
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.screen = screenList
			m.notice = ""
			return m, nil

		case "tab", "down":
			m = m.moveFormFocus(1)
			return m, textinput.Blink

		case "shift+tab", "up":
			m = m.moveFormFocus(-1)
			return m, textinput.Blink

		case "enter":
			if m.formFocus < 2 {
				m = m.moveFormFocus(1)
				return m, textinput.Blink
			}
			fallthrough
		case "ctrl+s":
			if m.titleIn.Value() == "" {
				m.notice = "title must not be empty"
				return m, nil
			}
			m.loading = true
			m.notice = ""
			return m, tea.Batch(m.spin.Tick,
				saveCmd(m.client, m.editID, m.titleIn.Value(), m.descIn.Value(), m.dateIn.Value()))
		}
	}

	var cmd tea.Cmd
	switch m.formFocus {
	case 0:
		m.titleIn, cmd = m.titleIn.Update(msg)
	case 1:
		m.descIn, cmd = m.descIn.Update(msg)
	default:
		m.dateIn, cmd = m.dateIn.Update(msg)
	}
	return m, cmd
}

func (m Model) moveFormFocus(delta int) Model {
	m.formFocus = (m.formFocus + delta + 3) % 3
	inputs := []*textinput.Model{&m.titleIn, &m.descIn, &m.dateIn}
	for i, in := range inputs {
		if i == m.formFocus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
	return m
}

// visible applies the current filters to the collection.
func (m Model) visible() []models.Task {
	return filter.Apply(m.tasks, filter.Query{
		Status:   m.status,
		Term:     m.search.Value(),
		DateTerm: m.dateSearch.Value(),
	})
}

func (m Model) selected() (models.Task, bool) {
	vis := m.visible()
	if len(vis) == 0 || m.cursor >= len(vis) {
		return models.Task{}, false
	}
	return vis[m.cursor], true
}

func removeByID(tasks []models.Task, id int) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func clampCursor(cursor, length int) int {
	if length == 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	return cursor
}
