// Command jigsawdemo cuts an image into a jigsaw puzzle, solves it headless
// through the pointer dispatcher and renders the board to PNG.
//
// Images are added to a gallery file so they can be replayed later:
//
//	jigsawdemo -image photo.jpg -pieces 40 -out solved.png
//	jigsawdemo -list
//	jigsawdemo -load puzzle_1718000000000 -pieces 100
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/jigsaw"
	"github.com/gogpu/jigsaw/gallery"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "jigsawdemo:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("jigsawdemo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "YAML config file")
		imagePath  = fs.String("image", "", "image to cut (png, jpeg, webp, bmp, tiff)")
		name       = fs.String("name", "", "gallery name for a new image")
		load       = fs.String("load", "", "gallery id to replay instead of -image")
		list       = fs.Bool("list", false, "list gallery entries and exit")
		del        = fs.String("delete", "", "gallery id to delete and exit")
		pieces     = fs.Int("pieces", 0, "approximate piece count")
		seed       = fs.Uint64("seed", 0, "random seed, 0 for a random puzzle")
		out        = fs.String("out", "", "output PNG of the solved board")
		start      = fs.String("start", "", "optional PNG of the shuffled start")
		galleryP   = fs.String("gallery", "", "gallery file")
		logLevel   = fs.String("log-level", "", "debug|info|warn|error")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "image":
			cfg.Image = *imagePath
		case "name":
			cfg.Name = *name
		case "load":
			cfg.Load = *load
		case "pieces":
			cfg.Pieces = *pieces
		case "seed":
			cfg.Seed = *seed
		case "out":
			cfg.Out = *out
		case "start":
			cfg.Start = *start
		case "gallery":
			cfg.Gallery = *galleryP
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	lvl, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))
	jigsaw.SetLogger(logger)
	defer jigsaw.SetLogger(nil)

	store := gallery.NewFileStore(cfg.Gallery)
	switch {
	case *list:
		return listGallery(ctx, store, stdout)
	case *del != "":
		return store.Delete(ctx, *del)
	}

	if err := cfg.validate(); err != nil {
		return err
	}
	data, err := imageBytes(ctx, cfg, store)
	if err != nil {
		return err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	logger.Debug("image decoded", "format", format, "size", img.Bounds().Size())

	p := message.NewPrinter(language.Make(cfg.Lang))
	opts := append(cfg.options(), jigsaw.WithOnComplete(func(c jigsaw.Completion) {
		p.Fprintf(stdout, "Puzzle complete: %d pieces\n", c.Total)
	}))

	game := jigsaw.NewGame(opts...)
	defer game.Reset()
	s, err := game.Start(img, cfg.Pieces)
	if err != nil {
		return err
	}
	p.Fprintf(stdout, "Cut %d pieces (%d x %d)\n", s.Total(), s.Cols(), s.Rows())

	if cfg.Start != "" {
		if err := render(s, cfg.Scale, p.Sprintf("0 of %d placed", s.Total()), cfg.Start); err != nil {
			return err
		}
	}

	drops := 0
	err = solve(s, func(o jigsaw.Outcome) {
		drops++
		placed, total := s.Progress()
		logger.Debug("drop", "piece", o.Leader, "merged", len(o.Merged), "placed", placed, "total", total)
	})
	if err != nil {
		return err
	}

	placed, total := s.Progress()
	if err := render(s, cfg.Scale, p.Sprintf("%d of %d placed in %d drops", placed, total, drops), cfg.Out); err != nil {
		return err
	}
	p.Fprintf(stdout, "Saved %s\n", cfg.Out)
	return nil
}

// imageBytes returns the encoded image to cut: a new file, which is added
// to the gallery, or a gallery entry.
func imageBytes(ctx context.Context, cfg config, store gallery.Store) ([]byte, error) {
	if cfg.Load != "" {
		e, err := store.Get(ctx, cfg.Load)
		if err != nil {
			return nil, err
		}
		jigsaw.Logger().Info("loaded from gallery", "id", e.ID, "name", e.Name)
		return e.Image, nil
	}

	data, err := os.ReadFile(cfg.Image)
	if err != nil {
		return nil, err
	}
	if cfg.Gallery != "" {
		id, err := store.SaveNamed(ctx, data, cfg.Name)
		if err != nil {
			// The puzzle can still be played without the gallery.
			jigsaw.Logger().Warn("gallery save failed", "err", err)
		} else {
			jigsaw.Logger().Info("saved to gallery", "id", id)
		}
	}
	return data, nil
}

func listGallery(ctx context.Context, store gallery.Store, w io.Writer) error {
	entries, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "gallery is empty")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d bytes\n", e.ID, e.Name, e.Timestamp.Format("2006-01-02 15:04"), len(e.Image))
	}
	return nil
}
