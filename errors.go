package jigsaw

import "errors"

var (
	// ErrNilImage is returned when a puzzle is requested without an image.
	ErrNilImage = errors.New("jigsaw: nil image")

	// ErrNoSurface is returned when the image or a piece has no pixels to
	// draw from.
	ErrNoSurface = errors.New("jigsaw: no drawing surface")

	// ErrNoSession is returned when no puzzle is active or the session
	// has been closed.
	ErrNoSession = errors.New("jigsaw: no active session")

	// ErrPieceIndex is returned for a piece index outside the session.
	ErrPieceIndex = errors.New("jigsaw: piece index out of range")
)
