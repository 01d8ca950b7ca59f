package jigsaw

import "time"

// CompletionDelay is how long the display layer should wait after the last
// placement before announcing completion, so the final piece is seen
// settling first.
const CompletionDelay = 300 * time.Millisecond

// Completion reports a solved puzzle.
type Completion struct {
	Placed int
	Total  int
	Delay  time.Duration
}

// completionTracker turns placement counts into a single completion
// event per session.
type completionTracker struct {
	notify func(Completion)
	fired  bool
}

// observe reports whether this call completed the puzzle. It returns true
// at most once.
func (t *completionTracker) observe(placed, total int) bool {
	if t.fired || placed < total {
		return false
	}
	t.fired = true

	Logger().Info("jigsaw: puzzle complete", "pieces", total)
	if t.notify != nil {
		t.notify(Completion{Placed: placed, Total: total, Delay: CompletionDelay})
	}
	return true
}
