package api

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/WendelRafael/todo-go/internal/apitest"
	"github.com/WendelRafael/todo-go/internal/models"
	"github.com/WendelRafael/todo-go/internal/session"
)

func newIntegrationClient(t *testing.T) (*Client, *apitest.Server) {
	t.Helper()
	fake := apitest.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL, &session.Memory{}), fake
}

func TestLoginThenListWithoutReprompt(t *testing.T) {
	client, fake := newIntegrationClient(t)
	fake.AddUser("alice", "secret")

	ctx := context.Background()

	token, err := client.Login(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if token == "" {
		t.Fatal("Login() returned an empty token")
	}

	// the stored session must carry the next call on its own
	tasks, err := client.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() after login failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("fresh account has %d tasks, want 0", len(tasks))
	}
}

func TestLoginWithWrongPassword(t *testing.T) {
	client, fake := newIntegrationClient(t)
	fake.AddUser("alice", "secret")

	if _, err := client.Login(context.Background(), "alice", "nope"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Login() = %v, want ErrUnauthorized", err)
	}
}

func TestRegisterActsAsLogin(t *testing.T) {
	client, _ := newIntegrationClient(t)
	ctx := context.Background()

	token, err := client.Register(ctx, "bob", "hunter2")
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if token == "" {
		t.Fatal("Register() returned an empty token")
	}

	if _, err := client.ListTasks(ctx); err != nil {
		t.Fatalf("ListTasks() after register failed: %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	client, fake := newIntegrationClient(t)
	fake.AddUser("alice", "secret")

	if _, err := client.Register(context.Background(), "alice", "other"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Register() duplicate = %v, want ErrUnauthorized", err)
	}
}

func TestTaskRoundTrip(t *testing.T) {
	client, fake := newIntegrationClient(t)
	fake.AddUser("alice", "secret")
	ctx := context.Background()

	if _, err := client.Login(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	created, err := client.CreateTask(ctx, "Buy milk", "", "")
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("server did not assign an id")
	}
	if created.Title != "Buy milk" || created.Completed {
		t.Fatalf("unexpected created task: %+v", created)
	}

	tasks, err := client.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != created.ID || tasks[0].Title != "Buy milk" {
		t.Fatalf("list after create: %+v", tasks)
	}

	toggled, err := client.ToggleComplete(ctx, created.ID, created.Completed)
	if err != nil {
		t.Fatalf("ToggleComplete() failed: %v", err)
	}
	if !toggled.Completed {
		t.Fatalf("task not completed after toggle: %+v", toggled)
	}

	tasks, err = client.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() failed: %v", err)
	}
	if len(tasks) != 1 || !tasks[0].Completed {
		t.Fatalf("list after toggle: %+v", tasks)
	}

	if err := client.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTask() failed: %v", err)
	}

	tasks, err = client.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() failed: %v", err)
	}
	for _, task := range tasks {
		if task.ID == created.ID {
			t.Fatalf("deleted task still listed: %+v", task)
		}
	}

	// idempotent from the caller's view: the second delete reports not-found
	if err := client.DeleteTask(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteTask() = %v, want ErrNotFound", err)
	}
}

func TestPartialUpdateLeavesOtherFieldsAlone(t *testing.T) {
	client, fake := newIntegrationClient(t)
	fake.AddUser("alice", "secret")
	ctx := context.Background()

	if _, err := client.Login(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	created, err := client.CreateTask(ctx, "Write report", "quarterly numbers", "2025-02-01")
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}

	updated, err := client.Update(ctx, created.ID, models.TaskPatch{
		Title: models.StringPtr("Write final report"),
	})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if updated.Title != "Write final report" {
		t.Fatalf("title not updated: %+v", updated)
	}
	if updated.Description != "quarterly numbers" || updated.Date != "2025-02-01" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	replaced, err := client.Replace(ctx, created.ID, "Report", "", "")
	if err != nil {
		t.Fatalf("Replace() failed: %v", err)
	}
	if replaced.Description != "" || replaced.Date != "" {
		t.Fatalf("PUT did not replace all fields: %+v", replaced)
	}
}

func TestStaleTokenIsRejected(t *testing.T) {
	fake := apitest.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	store := &session.Memory{}
	store.Set("not-a-real-token")
	client := New(srv.URL, store)

	if _, err := client.ListTasks(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("ListTasks() = %v, want ErrUnauthorized", err)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	fake := apitest.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	fake.AddUser("alice", "secret")
	fake.AddUser("bob", "hunter2")
	ctx := context.Background()

	alice := New(srv.URL, &session.Memory{})
	bob := New(srv.URL, &session.Memory{})
	if _, err := alice.Login(ctx, "alice", "secret"); err != nil {
		t.Fatalf("alice login: %v", err)
	}
	if _, err := bob.Login(ctx, "bob", "hunter2"); err != nil {
		t.Fatalf("bob login: %v", err)
	}

	if _, err := alice.CreateTask(ctx, "alice task", "", ""); err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}

	tasks, err := bob.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("bob sees alice's tasks: %+v", tasks)
	}
}
