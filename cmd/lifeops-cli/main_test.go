package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	task := apiTask{ID: "t1", Title: "Filter", Category: "HOME", Status: "PENDING", NextDueDate: time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)}
	access := "old"

	mux := http.NewServeMux()
	mux.HandleFunc("/api/mobile/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "password123" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid email or password"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"user":         apiUser{ID: "u1", Name: "Ana"},
			"accessToken":  access,
			"refreshToken": "refresh",
		})
	})
	mux.HandleFunc("/api/mobile/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		access = "new"
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": access, "refreshToken": "refresh2"})
	})
	mux.HandleFunc("/api/mobile/tasks", func(w http.ResponseWriter, r *http.Request) {
		// the first token is rejected to force a refresh
		if r.Header.Get("Authorization") != "Bearer new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"tasks": []apiTask{task}})
	})
	mux.HandleFunc("/api/mobile/tasks/t1/complete", func(w http.ResponseWriter, r *http.Request) {
		task.Status = "COMPLETED_TODAY"
		task.CompletionCount++
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"task": task})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAPIClientRefreshesOnce(t *testing.T) {
	api := newAPIClient(fakeAPI(t).URL)

	_, err := api.Login("a@x.com", "wrong")
	assert.EqualError(t, err, "invalid email or password")

	user, err := api.Login("a@x.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)

	tasks, err := api.Tasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "new", api.accessToken)
	assert.Equal(t, "refresh2", api.refreshToken)

	updated, err := api.Toggle(tasks[0])
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED_TODAY", updated.Status)
	assert.Equal(t, 1, updated.CompletionCount)
}

func TestModelFlow(t *testing.T) {
	api := newAPIClient(fakeAPI(t).URL)
	var m tea.Model = initialModel(api)

	typeText := func(s string) {
		for _, r := range s {
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
	}

	typeText("a@x.com")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, stepEnteringPassword, m.(model).step)

	typeText("password123")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, stepLoggingIn, m.(model).step)

	m, cmd = m.Update(cmd())
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	require.Equal(t, stepListingTasks, m.(model).step)
	assert.Contains(t, m.View(), "Filter")

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.Equal(t, "COMPLETED_TODAY", m.(model).tasks[0].Status)
	assert.Contains(t, m.View(), "[x]")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
}
