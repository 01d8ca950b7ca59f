package jigsaw

import (
	"math/rand/v2"

	"github.com/gogpu/jigsaw/internal/grid"
	"github.com/gogpu/jigsaw/internal/rasterize"
)

// Rand is the source of randomness for edge patterns and the tray
// shuffle. *rand.Rand from math/rand/v2 satisfies it.
type Rand = grid.Rand

// Option configures a Session during creation.
//
// Example:
//
//	// Reproducible 40-piece puzzle on a 900 unit wide board
//	s, err := jigsaw.New(img, 40,
//	    jigsaw.WithBoardWidth(900),
//	    jigsaw.WithSeed(7),
//	)
type Option func(*options)

// Defaults for session creation.
const (
	DefaultBoardWidth = 600
	DefaultTrayWidth  = 320
)

type options struct {
	boardWidth float64
	trayWidth  float64
	oversample float64
	rng        Rand
	workers    int
	onComplete func(Completion)
	shadow     bool
}

func defaultOptions() options {
	return options{
		boardWidth: DefaultBoardWidth,
		trayWidth:  DefaultTrayWidth,
		oversample: rasterize.DefaultOversample,
		rng:        globalRand{},
		shadow:     true,
	}
}

// WithBoardWidth sets the board width in board units. The board height
// follows from the image aspect ratio. Non-positive widths are ignored.
func WithBoardWidth(w float64) Option {
	return func(o *options) {
		if w > 0 {
			o.boardWidth = w
		}
	}
}

// WithTrayWidth sets the usable tray width. Non-positive widths are
// ignored.
func WithTrayWidth(w float64) Option {
	return func(o *options) {
		if w > 0 {
			o.trayWidth = w
		}
	}
}

// WithOversample sets how many piece image pixels cover one board unit.
// Values below 2 are raised to 2.
func WithOversample(f float64) Option {
	return func(o *options) {
		o.oversample = max(f, rasterize.DefaultOversample)
	}
}

// WithRand sets the random source for edge patterns and the tray shuffle.
func WithRand(r Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rng = r
		}
	}
}

// WithSeed makes the puzzle reproducible: the same image, piece count and
// seed produce the same pieces and tray order.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithWorkers sets the number of goroutines used to rasterize pieces.
// Zero or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithOnComplete registers a callback invoked once when the last piece is
// placed. It runs synchronously on the goroutine that delivered the drop.
func WithOnComplete(fn func(Completion)) Option {
	return func(o *options) {
		o.onComplete = fn
	}
}

// WithShadow enables or disables the inner shadow and edge highlight drawn
// on each piece. Enabled by default.
func WithShadow(enabled bool) Option {
	return func(o *options) {
		o.shadow = enabled
	}
}

// globalRand draws from the math/rand/v2 top-level generator.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }
