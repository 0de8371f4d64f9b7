package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/leaderchess/api"
	"github.com/wricardo/mcp-training/leaderchess/game/config"
	"github.com/wricardo/mcp-training/leaderchess/game/engine"
	"github.com/wricardo/mcp-training/leaderchess/game/service"
	"github.com/wricardo/mcp-training/leaderchess/game/session"
	"github.com/wricardo/mcp-training/leaderchess/transport/websocket"
)

func TestWSURL(t *testing.T) {
	tests := []struct {
		base    string
		want    string
		wantErr bool
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws?session=abc", false},
		{"https://example.ngrok.app/", "wss://example.ngrok.app/ws?session=abc", false},
		{"ws://127.0.0.1:9000", "ws://127.0.0.1:9000/ws?session=abc", false},
		{"ftp://host", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got, err := wsURL(tt.base, "abc")
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got %s", got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Expected %s, got %s (%v)", tt.want, got, err)
			}
		})
	}
}

func TestPrintFrame(t *testing.T) {
	state := &engine.GameState{
		Board:     engine.InitializeBoard(6, 6),
		Rows:      6,
		Cols:      6,
		Turn:      engine.Second,
		Phase:     engine.PhaseInProgress,
		MoveCount: 1,
		LastMove:  &engine.Move{From: engine.Position{Row: 5, Col: 1}, To: engine.Position{Row: 2, Col: 1}},
	}

	var buf bytes.Buffer
	printFrame(&buf, &websocket.Message{SessionID: "abc", GameState: state, Event: websocket.EventStateUpdate})
	out := buf.String()

	for _, want := range []string{"--- abc (state_update)", "[6x6] move 2, black to move.", "Last move: B1 -> B4", " 6 . . . j r l"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}
}

func TestWatch(t *testing.T) {
	configs, err := config.NewManager(filepath.Join("..", "..", "configs"))
	if err != nil {
		t.Fatalf("Failed to load presets: %v", err)
	}
	hub := websocket.NewHub()
	go hub.Run()
	gameService := service.NewGameService(session.NewManager(), configs, service.WithStateListener(hub))
	ts := httptest.NewServer(api.NewServer(gameService, hub))
	defer ts.Close()

	info, err := gameService.CreateSession(context.Background(), "compact")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	endpoint, err := wsURL(ts.URL, info.ID)
	if err != nil {
		t.Fatalf("wsURL failed: %v", err)
	}

	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- watch(context.Background(), endpoint, &buf, 2)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount(info.ID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Watcher never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Post(ts.URL+"/api/sessions/"+info.ID+"/start", "application/json", nil)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	resp.Body.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch failed: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for two frames")
	}

	out := buf.String()
	if !strings.Contains(out, "[6x6] not started.") {
		t.Errorf("Expected the initial state first:\n%s", out)
	}
	if !strings.Contains(out, "[6x6] move 1, white to move.") {
		t.Errorf("Expected the started game:\n%s", out)
	}
}

func TestWatch_ConnectionRefused(t *testing.T) {
	if err := watch(context.Background(), "ws://127.0.0.1:1/ws?session=x", &bytes.Buffer{}, 1); err == nil {
		t.Error("Expected connection error")
	}
}
