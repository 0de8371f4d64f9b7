// Command watch follows a Leader Chess session over the server's websocket
// and prints the board every time it changes. It only reads; moves are made
// through the REST API, the MCP tools or another client.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	gorillaws "github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/leaderchess/game/render"
	"github.com/wricardo/mcp-training/leaderchess/transport/websocket"
)

func main() {
	cmd := &cli.Command{
		Name:  "watch",
		Usage: "Print a session's board whenever it changes",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.StringFlag{Name: "session", Required: true, Usage: "Session ID to follow"},
			&cli.IntFlag{Name: "count", Usage: "Stop after this many updates (0 = until the server closes)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			endpoint, err := wsURL(cmd.String("url"), cmd.String("session"))
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Printf("Watching %s", endpoint)
			return watch(ctx, endpoint, os.Stdout, int(cmd.Int("count")))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// wsURL turns the server's base URL into its websocket endpoint for sessionID
func wsURL(baseURL, sessionID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/ws"
	q := url.Values{}
	q.Set("session", sessionID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// watch prints every state the server pushes until limit frames were
// printed, ctx is done, or the server closes the connection
func watch(ctx context.Context, endpoint string, w io.Writer, limit int) error {
	conn, _, err := gorillaws.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	frames := 0
	for limit <= 0 || frames < limit {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || gorillaws.IsCloseError(err, gorillaws.CloseNormalClosure, gorillaws.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Skipping malformed message: %v", err)
			continue
		}
		if msg.GameState == nil {
			continue
		}

		printFrame(w, &msg)
		frames++
	}
	return nil
}

func printFrame(w io.Writer, msg *websocket.Message) {
	state := msg.GameState
	fmt.Fprintf(w, "--- %s (%s)\n", msg.SessionID, msg.Event)
	fmt.Fprintln(w, render.Summary(state))
	if state.LastMove != nil {
		fmt.Fprintf(w, "Last move: %s -> %s\n",
			state.LastMove.From.Label(state.Rows), state.LastMove.To.Label(state.Rows))
	}
	fmt.Fprint(w, render.ASCII(state.Board))
}
