// Package jigsaw turns a raster image into an interlocking jigsaw puzzle.
//
// # Overview
//
// A Session cuts an image into pieces with tab and socket edges, lays them
// out shuffled in a tray and lets pieces be dragged onto a board. Pieces
// that are dropped next to a matching neighbor lock together into a group
// and move as one from then on. Pieces dropped close to their solved
// position are placed and stay put. When every piece is placed the puzzle
// is complete.
//
// # Quick Start
//
//	img, _, err := image.Decode(f)
//	if err != nil { ... }
//
//	s, err := jigsaw.New(img, 40, jigsaw.WithOnComplete(func(c jigsaw.Completion) {
//	    fmt.Println("solved", c.Total, "pieces")
//	}))
//	if err != nil { ... }
//	defer s.Close()
//
//	d := jigsaw.NewDispatcher(s)
//	// forward pointer events:
//	d.Press(gg.Pt(x, y))
//	d.Move(gg.Pt(x, y))
//	d.Release(gg.Pt(x, y))
//
// # Coordinate System
//
// Everything is measured in board units. The board occupies the rectangle
// from the origin to (BoardWidth, BoardWidth/aspect); the tray lies to its
// right. Piece positions refer to the origin of the piece's grid cell; the
// piece image extends past the cell by Piece.Offset on sides with tabs.
// Piece images are oversampled, Piece.Scale pixels per board unit.
//
// # Snapping
//
// On drop the dragged group is rounded to the grid and clamped onto the
// board. Then, in order:
//   - neighbors within a quarter cell of their solved offset are merged
//   - pieces on the outer ring are pulled onto a board edge within 0.3 cells
//   - pieces within 0.15 cells of their solved position are placed
//
// All tolerances are strict and relative to the cell width.
//
// # Concurrency
//
// Pieces are rasterized in parallel while New runs. After that a Session
// is owned by a single event loop and is not safe for concurrent use.
//
// # Logging
//
// jigsaw is silent by default. Call SetLogger to receive structured
// log/slog records.
package jigsaw
