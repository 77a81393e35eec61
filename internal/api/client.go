package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/WendelRafael/todo-go/internal/models"
	"github.com/WendelRafael/todo-go/internal/session"
)

// DefaultTimeout matches the timeout the mobile client shipped with.
const DefaultTimeout = 5 * time.Second

// Client talks to the remote task API. Every authenticated call reads the
// token from the injected session store and sends it as
// "Authorization: Token <t>"; with no stored token the call short-circuits
// to ErrNoSession without touching the network.
type Client struct {
	baseURL string
	http    *http.Client
	session session.Store

	// Mutations on the same task id are serialized so a rapid
	// toggle-then-delete resolves in call order.
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func New(baseURL string, store session.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		session: store,
		locks:   make(map[int]*sync.Mutex),
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token and persists it as the active
// session.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	return c.authenticate(ctx, "/token/", username, password)
}

// Register creates an account. The server hands back a usable token, so a
// successful registration doubles as a login.
func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	return c.authenticate(ctx, "/register/", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, path, credentials{Username: username, Password: password}, false)
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", asAuthError(err))
	}
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.Token == "" {
		// 2xx but no token is still a failed login
		return "", fmt.Errorf("authenticate: %w", ErrUnauthorized)
	}
	if err := c.session.Set(tr.Token); err != nil {
		return "", fmt.Errorf("persist token: %w", err)
	}
	slog.Info("session_established", "user", username)
	return tr.Token, nil
}

// asAuthError folds server rejections of a credentials post into the auth
// sentinel; the token endpoints answer 400, not 401, on bad credentials.
func asAuthError(err error) error {
	var se *ServerError
	if errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500 {
		return ErrUnauthorized
	}
	return err
}

// Logout clears the persisted token. It is side-effect only: a token file
// that is already gone counts as logged out, anything else is just logged.
func (c *Client) Logout() {
	if err := c.session.Clear(); err != nil {
		slog.Error("session_clear_failed", "error", err)
	}
}

// ListTasks returns the server's task collection in server order.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	body, err := c.do(ctx, http.MethodGet, "/tasks/", nil, true)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	var tasks []models.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	return tasks, nil
}

// GetTask fetches a single task, used when the edit form opens by id.
func (c *Client) GetTask(ctx context.Context, id int) (models.Task, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d/", id), nil, true)
	if err != nil {
		return models.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return decodeTask(body)
}

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"data,omitempty"`
}

// CreateTask creates a task with the given fields. Title is required;
// description and date may be empty.
func (c *Client) CreateTask(ctx context.Context, title, description, date string) (models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return models.Task{}, ErrEmptyTitle
	}
	body, err := c.do(ctx, http.MethodPost, "/tasks/", taskRequest{Title: title, Description: description, Date: date}, true)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return decodeTask(body)
}

// Replace overwrites title, description and date of an existing task (PUT).
func (c *Client) Replace(ctx context.Context, id int, title, description, date string) (models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return models.Task{}, ErrEmptyTitle
	}
	unlock := c.lockTask(id)
	defer unlock()

	body, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d/", id), taskRequest{Title: title, Description: description, Date: date}, true)
	if err != nil {
		return models.Task{}, fmt.Errorf("replace task %d: %w", id, err)
	}
	return decodeTask(body)
}

// Update applies a partial update (PATCH); only non-nil patch fields change.
func (c *Client) Update(ctx context.Context, id int, patch models.TaskPatch) (models.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return models.Task{}, ErrEmptyTitle
	}
	unlock := c.lockTask(id)
	defer unlock()

	body, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%d/", id), patch, true)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return decodeTask(body)
}

// ToggleComplete flips the completion flag from the value currently shown.
func (c *Client) ToggleComplete(ctx context.Context, id int, current bool) (models.Task, error) {
	return c.Update(ctx, id, models.TaskPatch{Completed: models.BoolPtr(!current)})
}

// DeleteTask removes the task server-side. Deleting an id that is already
// gone yields ErrNotFound.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	unlock := c.lockTask(id)
	defer unlock()

	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d/", id), nil, true); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

func decodeTask(body []byte) (models.Task, error) {
	var t models.Task
	if err := json.Unmarshal(body, &t); err != nil {
		return models.Task{}, fmt.Errorf("decode task: %w", err)
	}
	return t, nil
}

func (c *Client) lockTask(id int) func() {
	c.mu.Lock()
	l, ok := c.locks[id]
	if !ok {
		l = &sync.Mutex{}
		c.locks[id] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// do issues one request and maps the response onto the error taxonomy.
// The returned bytes are the raw response body of a 2xx answer.
func (c *Client) do(ctx context.Context, method, path string, payload any, authed bool) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, err := c.session.Token()
		if err != nil {
			return nil, fmt.Errorf("read session: %w", err)
		}
		if token == "" {
			return nil, ErrNoSession
		}
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("request_transport_failed", "method", method, "path", path, "error", err)
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	default:
		slog.Error("request_rejected", "method", method, "path", path, "status", resp.StatusCode)
		return nil, &ServerError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
}
