package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wricardo/mcp-training/leaderchess/game/engine"
	"github.com/wricardo/mcp-training/leaderchess/game/service"
)

// Client plays one session through the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session created by CreateSession
func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) CreateSession(configID string) (*engine.GameState, error) {
	var req interface{}
	if configID != "" {
		req = map[string]string{"config_id": configID}
	}

	var session service.SessionInfo
	if err := c.do(http.MethodPost, "/api/sessions", req, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) State() (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

func (c *Client) Start() (*service.ActionResult, error) {
	return c.lifecycle("start")
}

func (c *Client) Restart() (*service.ActionResult, error) {
	return c.lifecycle("restart")
}

func (c *Client) NewMatch() (*service.ActionResult, error) {
	return c.lifecycle("new-match")
}

func (c *Client) lifecycle(action string) (*service.ActionResult, error) {
	var result service.ActionResult
	if err := c.do(http.MethodPost, c.sessionPath("/"+action), nil, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	if !result.Accepted {
		return &result, fmt.Errorf("%s not accepted: %s", action, result.Message)
	}
	return &result, nil
}

func (c *Client) Move(m engine.Move) (*service.MoveResult, error) {
	req := map[string]engine.Position{"from": m.From, "to": m.To}

	var result service.MoveResult
	if err := c.do(http.MethodPost, c.sessionPath("/move"), req, &result); err != nil {
		return nil, fmt.Errorf("move %s->%s: %w", m.From, m.To, err)
	}
	if !result.Success {
		return &result, fmt.Errorf("move failed: %s", result.Message)
	}
	return &result, nil
}

func (c *Client) sessionPath(suffix string) string {
	return fmt.Sprintf("/api/sessions/%s%s", c.sessionID, suffix)
}

// do sends body as JSON and decodes the response into result. Error
// responses are turned into errors carrying the server's message.
func (c *Client) do(method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s: %s", resp.Status, string(data))
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
