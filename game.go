package jigsaw

import (
	"fmt"
	"image"
)

// Game holds at most one active session and replaces it on restart.
//
// Game is not safe for concurrent use.
type Game struct {
	opts    []Option
	session *Session
}

// NewGame returns a game that creates sessions with opts.
func NewGame(opts ...Option) *Game {
	return &Game{opts: opts}
}

// Start closes the current session, if any, and starts a new puzzle.
// On failure no session is active.
func (g *Game) Start(img image.Image, n int) (*Session, error) {
	g.Reset()

	s, err := New(img, n, g.opts...)
	if err != nil {
		return nil, fmt.Errorf("jigsaw: start: %w", err)
	}
	g.session = s
	return s, nil
}

// Session returns the active session.
func (g *Game) Session() (*Session, error) {
	if g.session == nil {
		return nil, ErrNoSession
	}
	return g.session, nil
}

// Reset closes the active session, if any.
func (g *Game) Reset() {
	if g.session == nil {
		return
	}
	_ = g.session.Close()
	g.session = nil
}
