package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var errUnauthorized = errors.New("session expired, log in again")

type apiUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

type apiTask struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Category          string     `json:"category"`
	ScheduleType      string     `json:"scheduleType"`
	NextDueDate       time.Time  `json:"nextDueDate"`
	LastCompletedDate *time.Time `json:"lastCompletedDate"`
	CompletionCount   int        `json:"completionCount"`
	Status            string     `json:"status"`
	Owned             bool       `json:"owned"`
}

// apiClient talks to the mobile API with bearer tokens, refreshing once when
// the access token is rejected.
type apiClient struct {
	baseURL      string
	http         *http.Client
	accessToken  string
	refreshToken string
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/mobile",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) do(method, path string, in, out interface{}, auth bool) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && auth {
		return errUnauthorized
	}
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			return errors.New(e.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// authed runs an authenticated call, refreshing the token pair once on 401.
func (c *apiClient) authed(method, path string, in, out interface{}) error {
	err := c.do(method, path, in, out, true)
	if !errors.Is(err, errUnauthorized) || c.refreshToken == "" {
		return err
	}
	var pair struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.do(http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": c.refreshToken}, &pair, false); err != nil {
		return errUnauthorized
	}
	c.accessToken, c.refreshToken = pair.AccessToken, pair.RefreshToken
	return c.do(method, path, in, out, true)
}

func (c *apiClient) Login(email, password string) (*apiUser, error) {
	var res struct {
		User         apiUser `json:"user"`
		AccessToken  string  `json:"accessToken"`
		RefreshToken string  `json:"refreshToken"`
	}
	err := c.do(http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &res, false)
	if err != nil {
		return nil, err
	}
	c.accessToken, c.refreshToken = res.AccessToken, res.RefreshToken
	return &res.User, nil
}

func (c *apiClient) Tasks() ([]apiTask, error) {
	var res struct {
		Tasks []apiTask `json:"tasks"`
	}
	if err := c.authed(http.MethodGet, "/tasks", nil, &res); err != nil {
		return nil, err
	}
	return res.Tasks, nil
}

// Toggle completes a task, or clears today's completion if it already has one.
func (c *apiClient) Toggle(t apiTask) (*apiTask, error) {
	action := "complete"
	if t.Status == "COMPLETED_TODAY" {
		action = "uncomplete"
	}
	var res struct {
		Task apiTask `json:"task"`
	}
	if err := c.authed(http.MethodPost, "/tasks/"+t.ID+"/"+action, nil, &res); err != nil {
		return nil, err
	}
	return &res.Task, nil
}
