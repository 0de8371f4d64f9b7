package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/leaderchess/game/config"
	"github.com/wricardo/mcp-training/leaderchess/game/engine"
	"github.com/wricardo/mcp-training/leaderchess/game/service"
	"github.com/wricardo/mcp-training/leaderchess/game/session"
	"github.com/wricardo/mcp-training/leaderchess/transport/websocket"
)

func dialWS(serverURL, sessionID string) (*gorillaws.Conn, *http.Response, error) {
	url := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws?session=" + sessionID
	return gorillaws.DefaultDialer.Dial(url, nil)
}

// newIntegrationServer wires the real service over the shipped presets
func newIntegrationServer(t *testing.T) (*httptest.Server, *websocket.Hub) {
	t.Helper()

	configs, err := config.NewManager(filepath.Join("..", "configs"))
	if err != nil {
		t.Fatalf("Failed to load presets: %v", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	gameService := service.NewGameService(session.NewManager(), configs,
		service.WithStateListener(hub),
		service.WithHighlightDuration(50*time.Millisecond))

	ts := httptest.NewServer(NewServer(gameService, hub))
	t.Cleanup(ts.Close)
	return ts, hub
}

func post(t *testing.T, url, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestIntegration_GameFlow(t *testing.T) {
	ts, _ := newIntegrationServer(t)

	resp, created := post(t, ts.URL+"/api/sessions", `{"config_id": "classic"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	id, _ := created["id"].(string)
	if len(id) != 8 {
		t.Fatalf("Expected an 8 character session id, got %q", id)
	}
	base := ts.URL + "/api/sessions/" + id

	// Moves before the start are ignored
	resp, out := post(t, base+"/move", `{"from_square": "B1", "to_square": "B4"}`)
	if resp.StatusCode != http.StatusOK || out["success"] != false {
		t.Errorf("Expected an ignored move, got %d %v", resp.StatusCode, out)
	}

	// Invalid dimensions are rejected with the validation message
	resp, out = post(t, base+"/dimensions", `{"rows": "abc", "cols": "8"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
	if msg, _ := out["error"].(string); !strings.Contains(msg, "between 6 and 12") {
		t.Errorf("Expected dimension message, got %q", msg)
	}

	resp, out = post(t, base+"/start", "")
	if resp.StatusCode != http.StatusOK || out["accepted"] != true {
		t.Fatalf("Expected start to be accepted, got %d %v", resp.StatusCode, out)
	}

	// Resizing a running game conflicts
	resp, _ = post(t, base+"/dimensions", `{"rows": 10, "cols": 10}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409 while in progress, got %d", resp.StatusCode)
	}

	// Runners slide at most three squares
	resp, _ = post(t, base+"/move", `{"from_square": "B1", "to_square": "B8"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409 for an illegal move, got %d", resp.StatusCode)
	}

	// Black cannot move first
	resp, _ = post(t, base+"/move", `{"from_square": "G8", "to_square": "G5"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409 out of turn, got %d", resp.StatusCode)
	}

	resp, out = post(t, base+"/move", `{"from": {"row": 7, "col": 1}, "to": {"row": 4, "col": 1}}`)
	if resp.StatusCode != http.StatusOK || out["success"] != true {
		t.Fatalf("Expected a legal move, got %d %v", resp.StatusCode, out)
	}
	state := out["game_state"].(map[string]interface{})
	if state["turn"] != string(engine.Second) {
		t.Errorf("Expected black to move, got %v", state["turn"])
	}

	resp, err := http.Get(base + "/board.svg")
	if err != nil {
		t.Fatalf("GET board.svg failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 for board.svg, got %d", resp.StatusCode)
	}

	for _, path := range []string{"/state", "/board.svg", "/legal-moves?row=0&col=0"} {
		resp, err := http.Get(ts.URL + "/api/sessions/nope0000" + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404 for unknown session on %s, got %d", path, resp.StatusCode)
		}
	}
}

func TestIntegration_HighlightClearIsBroadcast(t *testing.T) {
	ts, _ := newIntegrationServer(t)

	_, created := post(t, ts.URL+"/api/sessions", `{}`)
	id := created["id"].(string)
	base := ts.URL + "/api/sessions/" + id
	post(t, base+"/start", "")

	conn, _, err := dialWS(ts.URL, id)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	post(t, base+"/move", `{"from_square": "A1", "to_square": "B2"}`)

	seen := map[string]bool{}
	deadline := time.Now().Add(2 * time.Second)
	for !seen[websocket.EventHighlightsCleared] && time.Now().Before(deadline) {
		var msg websocket.Message
		conn.SetReadDeadline(deadline)
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("Failed to read message: %v", err)
		}
		seen[msg.Event] = true
		if msg.Event == websocket.EventHighlightsCleared {
			if cells := msg.GameState.Board.HighlightedCells(); len(cells) != 0 {
				t.Errorf("Expected no highlighted cells after clear, got %v", cells)
			}
			if msg.GameState.LastMove != nil {
				t.Error("Expected last move cleared")
			}
		}
	}

	if !seen[websocket.EventStateUpdate] || !seen[websocket.EventHighlightsCleared] {
		t.Errorf("Expected both state_update and highlights_cleared, saw %v", seen)
	}
}
