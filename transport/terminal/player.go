package terminal

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/nsf/termbox-go"
	"github.com/wricardo/mcp-training/leaderchess/game/engine"
	"github.com/wricardo/mcp-training/leaderchess/game/service"
)

// Redraw is a service.StateListener that wakes the terminal loop when state
// changes outside a key press, such as last-move markers expiring.
type Redraw struct {
	ch chan string
}

// NewRedraw creates a listener with room for one pending wake-up
func NewRedraw() *Redraw {
	return &Redraw{ch: make(chan string, 1)}
}

// OnStateChange never blocks; a wake-up already pending covers this one
func (r *Redraw) OnStateChange(sessionID string, state *engine.GameState) {
	select {
	case r.ch <- sessionID:
	default:
	}
}

// Player plays one session in the terminal
type Player struct {
	service   service.GameService
	sessionID string
	redraw    *Redraw

	state  *engine.GameState
	cursor engine.Position
	status string
}

// NewPlayer creates a player for sessionID. redraw may be nil.
func NewPlayer(gameService service.GameService, sessionID string, redraw *Redraw) *Player {
	return &Player{
		service:   gameService,
		sessionID: sessionID,
		redraw:    redraw,
		status:    "Press s to start.",
	}
}

// Refresh reloads the state and keeps the cursor on the board
func (p *Player) Refresh(ctx context.Context) error {
	state, err := p.service.GetGameState(ctx, p.sessionID)
	if err != nil {
		return err
	}
	p.state = state
	p.cursor.Row = min(max(p.cursor.Row, 0), state.Rows-1)
	p.cursor.Col = min(max(p.cursor.Col, 0), state.Cols-1)
	return nil
}

// Glyphs returns the current screen
func (p *Player) Glyphs() []Glyph {
	return Layout(p.state, p.cursor, p.status)
}

// Cursor returns the square under the cursor
func (p *Player) Cursor() engine.Position {
	return p.cursor
}

// Status returns the line shown under the board
func (p *Player) Status() string {
	return p.status
}

// HandleKey applies a key press and reports whether the player quit
func (p *Player) HandleKey(ctx context.Context, key termbox.Key, ch rune) bool {
	if p.state == nil {
		if err := p.Refresh(ctx); err != nil {
			p.status = err.Error()
			return false
		}
	}

	switch key {
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return true
	case termbox.KeyArrowUp:
		p.cursor.Row--
	case termbox.KeyArrowDown:
		p.cursor.Row++
	case termbox.KeyArrowLeft:
		p.cursor.Col--
	case termbox.KeyArrowRight:
		p.cursor.Col++
	case termbox.KeySpace, termbox.KeyEnter:
		p.activate(ctx)
	default:
		switch ch {
		case 'q', 'Q':
			return true
		case 'a':
			p.apply(p.service.AutoSelect(ctx, p.sessionID))
			if p.state.Selected != nil {
				p.cursor = *p.state.Selected
			}
			return false
		case 's':
			p.apply(p.service.StartGame(ctx, p.sessionID))
			return false
		case 'r':
			p.apply(p.service.Restart(ctx, p.sessionID))
			return false
		case 'n':
			p.apply(p.service.StartNewMatch(ctx, p.sessionID))
			return false
		case 'h':
			p.apply(p.service.GoBackToHome(ctx, p.sessionID))
			return false
		case '+', '=':
			p.resize(ctx, 1)
		case '-':
			p.resize(ctx, -1)
		}
	}

	if err := p.Refresh(ctx); err != nil {
		p.status = err.Error()
	}
	return false
}

// activate selects the square under the cursor, or moves the selected piece there
func (p *Player) activate(ctx context.Context) {
	if p.state.Phase != engine.PhaseInProgress {
		p.status = fmt.Sprintf("Game is %s. Press s to start or n for a new match.", p.state.Phase)
		return
	}

	sel := p.state.Selected
	if sel != nil && slices.Contains(p.state.LegalDestinations, p.cursor) {
		result, err := p.service.Move(ctx, p.sessionID, *sel, p.cursor)
		if err != nil {
			p.status = err.Error()
			return
		}
		p.state = result.GameState
		p.status = result.Message
		if len(result.Events) > 0 {
			p.status = result.Events[len(result.Events)-1].Message
		}
		return
	}

	cursor := p.cursor
	p.apply(p.service.SelectPiece(ctx, p.sessionID, &cursor))
}

func (p *Player) resize(ctx context.Context, delta int) {
	rows := strconv.Itoa(p.state.Rows + delta)
	cols := strconv.Itoa(p.state.Cols + delta)
	if _, err := p.service.ApplyDimensions(ctx, p.sessionID, rows, cols); err != nil {
		p.status = err.Error()
		return
	}
	p.status = fmt.Sprintf("Board is now %sx%s.", rows, cols)
}

func (p *Player) apply(result *service.ActionResult, err error) {
	if err != nil {
		p.status = err.Error()
		return
	}
	p.state = result.GameState
	p.status = result.Message
	if result.Accepted && len(result.Events) > 0 {
		p.status = result.Events[0].Message
	}
}

// Run takes over the terminal until the player quits or ctx is cancelled
func (p *Player) Run(ctx context.Context) error {
	if err := p.Refresh(ctx); err != nil {
		return err
	}

	if err := termbox.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Wake PollEvent when highlights expire
	go func() {
		var wake <-chan string
		if p.redraw != nil {
			wake = p.redraw.ch
		}
		for {
			select {
			case <-ctx.Done():
				return
			case id := <-wake:
				if id == p.sessionID {
					termbox.Interrupt()
				}
			}
		}
	}()

	for {
		if err := p.draw(); err != nil {
			return err
		}

		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventKey:
			if p.HandleKey(ctx, ev.Key, ev.Ch) {
				return nil
			}
		case termbox.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
			if err := p.Refresh(ctx); err != nil {
				p.status = err.Error()
			}
		case termbox.EventError:
			return ev.Err
		}
	}
}

func (p *Player) draw() error {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	for _, g := range p.Glyphs() {
		termbox.SetCell(g.X, g.Y, g.Ch, g.Fg, g.Bg)
	}
	return termbox.Flush()
}
