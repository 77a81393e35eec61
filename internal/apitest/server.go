// Package apitest is an in-memory stand-in for the remote task API,
// implementing the same endpoints and error bodies so the client and its
// screens can be tested without a deployed server.
package apitest

import (
	"crypto/rand"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/WendelRafael/todo-go/internal/models"
)

type Server struct {
	secret []byte
	router *mux.Router

	mu     sync.Mutex
	users  map[string][]byte        // username -> bcrypt hash
	tasks  map[string][]models.Task // username -> tasks in creation order
	nextID int
}

func New() *Server {
	secret := make([]byte, 32)
	rand.Read(secret)

	s := &Server{
		secret: secret,
		users:  make(map[string][]byte),
		tasks:  make(map[string][]models.Task),
		nextID: 1,
	}
	s.routes()
	return s
}

// Handler is what tests hand to httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.HandleFunc("/token/", s.loginHandler).Methods("POST")
	r.HandleFunc("/register/", s.registerHandler).Methods("POST")
	r.HandleFunc("/tasks/", s.authMiddleware(s.listHandler)).Methods("GET")
	r.HandleFunc("/tasks/", s.authMiddleware(s.createHandler)).Methods("POST")
	r.HandleFunc("/tasks/{id}/", s.authMiddleware(s.getHandler)).Methods("GET")
	r.HandleFunc("/tasks/{id}/", s.authMiddleware(s.replaceHandler)).Methods("PUT")
	r.HandleFunc("/tasks/{id}/", s.authMiddleware(s.patchHandler)).Methods("PATCH")
	r.HandleFunc("/tasks/{id}/", s.authMiddleware(s.deleteHandler)).Methods("DELETE")
	s.router = r
}

// AddUser seeds an account without going through /register/.
func (s *Server) AddUser(username, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	s.users[username] = hash
	s.mu.Unlock()
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	hash, ok := s.users[creds.Username]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(creds.Password)) != nil {
		// the token endpoint answers 400 on bad credentials
		writeError(w, http.StatusBadRequest, "unable to log in with provided credentials")
		return
	}

	token, err := s.generateToken(creds.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if creds.Username == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	s.mu.Lock()
	_, exists := s.users[creds.Username]
	s.mu.Unlock()
	if exists {
		writeError(w, http.StatusBadRequest, "a user with that username already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash failure")
		return
	}
	s.mu.Lock()
	s.users[creds.Username] = hash
	s.mu.Unlock()

	token, err := s.generateToken(creds.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r)

	s.mu.Lock()
	tasks := make([]models.Task, len(s.tasks[username]))
	copy(tasks, s.tasks[username])
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) createHandler(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r)

	var in models.Task
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	s.mu.Lock()
	task := models.Task{
		ID:          s.nextID,
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
	}
	s.nextID++
	s.tasks[username] = append(s.tasks[username], task)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) getHandler(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r)
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.find(username, id)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, s.tasks[username][idx])
}

func (s *Server) replaceHandler(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r)
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var in models.Task
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.find(username, id)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	task := &s.tasks[username][idx]
	task.Title = in.Title
	task.Description = in.Description
	task.Date = in.Date
	writeJSON(w, http.StatusOK, *task)
}

func (s *Server) patchHandler(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r)
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var patch models.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.find(username, id)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	task := &s.tasks[username][idx]
	if patch.Title != nil {
		if *patch.Title == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Date != nil {
		task.Date = *patch.Date
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	writeJSON(w, http.StatusOK, *task)
}

func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	username := usernameFromContext(r)
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.find(username, id)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.tasks[username] = append(s.tasks[username][:idx], s.tasks[username][idx+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

// find returns the slice index of a task id for the user, -1 when absent.
// Callers hold s.mu.
func (s *Server) find(username string, id int) int {
	for i, t := range s.tasks[username] {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func taskID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
