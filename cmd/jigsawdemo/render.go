package main

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/jigsaw"
)

const labelHeight = 28

// render draws the board, the tray and every piece in stacking order to a
// PNG at path. scale is the number of output pixels per board unit.
func render(s *jigsaw.Session, scale float64, label, path string) error {
	board, tray := s.Board(), s.Tray()
	w := int(math.Ceil(tray.Max.X * scale))
	h := int(math.Ceil(max(board.Max.Y, tray.Max.Y)*scale)) + labelHeight

	dc := gg.NewContext(w, h)
	defer func() { _ = dc.Close() }()
	dc.ClearWithColor(gg.RGB(0.16, 0.17, 0.2))

	dc.Push()
	dc.Scale(scale, scale)

	// Board and tray backgrounds.
	dc.SetRGB(0.93, 0.91, 0.86)
	dc.DrawRectangle(board.Min.X, board.Min.Y, board.Width(), board.Height())
	_ = dc.Fill()
	dc.SetRGB(0.3, 0.32, 0.36)
	dc.DrawRectangle(tray.Min.X, tray.Min.Y, tray.Width(), tray.Height())
	_ = dc.Fill()

	// Grid guide.
	cw, ch := s.CellSize()
	dc.SetRGBA(0, 0, 0, 0.08)
	dc.SetLineWidth(1 / scale)
	for c := 1; c < s.Cols(); c++ {
		x := board.Min.X + float64(c)*cw
		dc.MoveTo(x, board.Min.Y)
		dc.LineTo(x, board.Max.Y)
	}
	for r := 1; r < s.Rows(); r++ {
		y := board.Min.Y + float64(r)*ch
		dc.MoveTo(board.Min.X, y)
		dc.LineTo(board.Max.X, y)
	}
	_ = dc.Stroke()

	pieces := s.Pieces()
	for _, i := range s.DrawOrder() {
		p := pieces[i]
		if p.Image == nil {
			continue
		}
		box, err := s.Box(i)
		if err != nil {
			return err
		}
		dc.DrawImageEx(gg.ImageBufFromImage(p.Image), gg.DrawImageOptions{
			X:             box.Min.X,
			Y:             box.Min.Y,
			DstWidth:      box.Width(),
			DstHeight:     box.Height(),
			Interpolation: gg.InterpBilinear,
		})
	}
	dc.Pop()

	if err := drawLabel(dc, label, float64(h)-9); err != nil {
		return err
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

func drawLabel(dc *gg.Context, label string, baseline float64) error {
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return fmt.Errorf("font: %w", err)
	}
	defer func() { _ = src.Close() }()

	dc.SetFont(src.Face(14))
	dc.SetRGB(0.9, 0.9, 0.9)
	dc.DrawString(label, 10, baseline)
	return nil
}
