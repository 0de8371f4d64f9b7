// Command selfplay plays Leader Chess games against itself through a running
// server's REST API and reports how they ended. Both sides use the same
// one-move-lookahead strategy; a seed makes a run repeatable.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/leaderchess/game/engine"
)

type playOptions struct {
	url      string
	config   string
	games    int
	maxMoves int
	seed     int64
	delay    time.Duration
	verbose  bool
}

// GameResult is the outcome of one game
type GameResult struct {
	Winner *engine.Side
	Moves  int
}

func main() {
	cmd := &cli.Command{
		Name:  "selfplay",
		Usage: "Play Leader Chess games against itself over the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.StringFlag{Name: "config", Usage: "Board preset (default: server default)"},
			&cli.IntFlag{Name: "games", Value: 10, Usage: "Number of games to play"},
			&cli.IntFlag{Name: "max-moves", Value: 200, Usage: "Moves after which a game is abandoned"},
			&cli.IntFlag{Name: "seed", Usage: "Random seed for tie-breaks (default: current time)"},
			&cli.IntFlag{Name: "delay", Usage: "Delay between moves in milliseconds"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			seed := int64(cmd.Int("seed"))
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			opts := playOptions{
				url:      cmd.String("url"),
				config:   cmd.String("config"),
				games:    int(cmd.Int("games")),
				maxMoves: int(cmd.Int("max-moves")),
				seed:     seed,
				delay:    time.Duration(cmd.Int("delay")) * time.Millisecond,
				verbose:  cmd.Bool("v"),
			}
			_, err := run(ctx, opts, os.Stdout)
			return err
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// run plays opts.games games in one session and prints a summary
func run(ctx context.Context, opts playOptions, w io.Writer) ([]GameResult, error) {
	client := NewClient(opts.url)
	strategy := NewGreedyStrategy(opts.seed)

	state, err := client.CreateSession(opts.config)
	if err != nil {
		return nil, err
	}
	log.Printf("Session created: %s (%dx%d, seed %d)", client.SessionID(), state.Rows, state.Cols, opts.seed)

	var results []GameResult
	for game := 1; game <= opts.games; game++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if err := nextGame(client, state); err != nil {
			return results, err
		}

		result, err := playGame(ctx, client, strategy, opts)
		if err != nil {
			return results, fmt.Errorf("game %d: %w", game, err)
		}
		results = append(results, result)

		outcome := "abandoned"
		if result.Winner != nil {
			outcome = result.Winner.ColorName() + " won"
		}
		fmt.Fprintf(w, "Game %d: %s after %d moves\n", game, outcome, result.Moves)

		if state, err = client.State(); err != nil {
			return results, err
		}
	}

	printSummary(w, results)
	return results, nil
}

// nextGame brings the session from whatever phase it is in to a fresh game
func nextGame(client *Client, state *engine.GameState) error {
	var err error
	switch state.Phase {
	case engine.PhaseNotStarted:
		_, err = client.Start()
	case engine.PhaseInProgress:
		_, err = client.Restart()
	case engine.PhaseConcluded:
		_, err = client.NewMatch()
	}
	return err
}

// playGame moves until someone wins or opts.maxMoves is reached
func playGame(ctx context.Context, client *Client, strategy *GreedyStrategy, opts playOptions) (GameResult, error) {
	state, err := client.State()
	if err != nil {
		return GameResult{}, err
	}

	for state.Phase == engine.PhaseInProgress && state.MoveCount < opts.maxMoves {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}

		move, ok := strategy.NextMove(state)
		if !ok {
			log.Printf("%s has no legal move", state.Turn.ColorName())
			break
		}

		result, err := client.Move(move)
		if err != nil {
			return GameResult{}, err
		}
		state = result.GameState

		if opts.verbose {
			log.Printf("#%d %s -> %s: %s", state.MoveCount,
				move.From.Label(state.Rows), move.To.Label(state.Rows), result.Message)
		}
		if opts.delay > 0 {
			time.Sleep(opts.delay)
		}
	}

	return GameResult{Winner: state.Winner, Moves: state.MoveCount}, nil
}

func printSummary(w io.Writer, results []GameResult) {
	wins := map[engine.Side]int{}
	abandoned, decided, totalMoves := 0, 0, 0
	for _, r := range results {
		if r.Winner == nil {
			abandoned++
			continue
		}
		wins[*r.Winner]++
		decided++
		totalMoves += r.Moves
	}

	fmt.Fprintf(w, "\n%d games: white %d, black %d, abandoned %d\n",
		len(results), wins[engine.First], wins[engine.Second], abandoned)
	if decided > 0 {
		fmt.Fprintf(w, "Average decided game: %.1f moves\n", float64(totalMoves)/float64(decided))
	}
}
