// Command batchdemo renders a sprite scene through batch2d with the software
// backend and writes it to a PNG file.
//
// The scene is built in or read from a TOML file:
//
//	batchdemo -dump-config > scene.toml
//	batchdemo -config scene.toml -sdf -output scene.png
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/batch2d"
	"github.com/gogpu/batch2d/spritefont"
)

func main() {
	var (
		width    = flag.Int("width", 800, "image width")
		height   = flag.Int("height", 600, "image height")
		output   = flag.String("output", "batchdemo.png", "output file")
		config   = flag.String("config", "", "TOML scene file (default: built-in scene)")
		dump     = flag.Bool("dump-config", false, "print the built-in scene as TOML and exit")
		sdf      = flag.Bool("sdf", false, "draw text from a signed distance field atlas")
		fontSize = flag.Float64("font-size", 32, "font atlas size in pixels")
		verbose  = flag.Bool("v", false, "log batching details")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	batch2d.SetLogger(logger)

	if *dump {
		if err := writeScene(os.Stdout, defaultScene()); err != nil {
			log.Fatalf("Failed to write scene: %v", err)
		}
		return
	}

	s := defaultScene()
	if *config != "" {
		var err error
		if s, err = loadScene(*config); err != nil {
			log.Fatalf("Failed to load scene: %v", err)
		}
	}

	opts := spritefont.DefaultOptions()
	opts.Size = *fontSize
	opts.SDF = *sdf
	font, err := spritefont.New(goregular.TTF, opts)
	if err != nil {
		log.Fatalf("Failed to build font: %v", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, *width, *height))
	stats, err := render(dst, s, font)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	logger.Info("frame rendered",
		"quads", stats.Quads,
		"segments", stats.Segments,
		"native_batches", stats.NativeBatches,
		"passes", stats.Passes,
		"draw_calls", stats.DrawCalls)

	if err := savePNG(*output, dst); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
