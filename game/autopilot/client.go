package autopilot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/mars-rover-game/game/engine"
	"github.com/wricardo/mars-rover-game/game/service"
)

// Client drives one session through the REST API.
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client plays.
func (c *Client) SessionID() string {
	return c.sessionID
}

// UseSession resumes an existing session.
func (c *Client) UseSession(id string) {
	c.sessionID = id
}

// CreateSession opens a new session and plays it from now on.
func (c *Client) CreateSession(ctx context.Context, configID string, viewportWidth int) (*service.SessionInfo, error) {
	body := map[string]interface{}{}
	if configID != "" {
		body["config_id"] = configID
	}
	if viewportWidth > 0 {
		body["viewport_width"] = viewportWidth
	}

	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = info.ID
	return &info, nil
}

// State fetches the current game state.
func (c *Client) State(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

func (c *Client) Start(ctx context.Context, viewportWidth int) (*service.CommandResult, error) {
	body := map[string]int{}
	if viewportWidth > 0 {
		body["viewport_width"] = viewportWidth
	}
	return c.command(ctx, "/start", body)
}

func (c *Client) Reset(ctx context.Context) (*service.CommandResult, error) {
	return c.command(ctx, "/reset", nil)
}

func (c *Client) CloseDialog(ctx context.Context) (*service.CommandResult, error) {
	return c.command(ctx, "/dialog/close", nil)
}

func (c *Client) BulkPilot(ctx context.Context, commands []string) (*service.BulkCommandResult, error) {
	var result service.BulkCommandResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/bulk-pilot"), map[string][]string{"commands": commands}, &result); err != nil {
		return nil, fmt.Errorf("bulk pilot: %w", err)
	}
	return &result, nil
}

func (c *Client) command(ctx context.Context, suffix string, body interface{}) (*service.CommandResult, error) {
	var result service.CommandResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath(suffix), body, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", strings.TrimPrefix(suffix, "/"), err)
	}
	return &result, nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + c.sessionID + suffix
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
