package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/batch2d"
)

// scene describes what the demo draws. It is read from a TOML file:
//
//	background = "#203040"
//
//	[[sprite]]
//	texture = "checker"
//	x = 40
//	y = 40
//	w = 128
//	h = 128
//	rotation = 15
//	blend = "additive"
//	color = "#ffffffc0"
//
//	[[text]]
//	text = "Hello"
//	x = 40
//	y = 300
//	scale = 1.5
type scene struct {
	Background string       `toml:"background"`
	Sprites    []spriteItem `toml:"sprite"`
	Texts      []textItem   `toml:"text"`
	Lines      []lineItem   `toml:"line"`
}

type spriteItem struct {
	Texture string  `toml:"texture"`
	X       float32 `toml:"x"`
	Y       float32 `toml:"y"`
	W       float32 `toml:"w"`
	H       float32 `toml:"h"`

	// Rotation in degrees around the sprite center.
	Rotation float32            `toml:"rotation"`
	Blend    batch2d.BlendState `toml:"blend"`
	Color    string             `toml:"color"`

	// Clip is an optional [left, top, right, bottom] screen rectangle.
	Clip []float32 `toml:"clip"`
}

type textItem struct {
	Text  string  `toml:"text"`
	X     float32 `toml:"x"`
	Y     float32 `toml:"y"`
	Scale float32 `toml:"scale"`
	Color string  `toml:"color"`
}

type lineItem struct {
	From  [2]float32 `toml:"from"`
	To    [2]float32 `toml:"to"`
	Color string     `toml:"color"`
}

// textureNames lists the textures a sprite can reference.
var textureNames = []string{"checker", "gradient", "ring", "white"}

// defaultScene returns the built-in scene.
func defaultScene() scene {
	return scene{
		Background: "#1e2a3a",
		Sprites: []spriteItem{
			{Texture: "gradient", X: 0, Y: 0, W: 800, H: 120, Color: "#ffffff60"},
			{Texture: "checker", X: 40, Y: 150, W: 128, H: 128, Color: "#ffffff"},
			{Texture: "checker", X: 200, Y: 150, W: 128, H: 128, Rotation: 20, Color: "#ffd060"},
			{Texture: "ring", X: 360, Y: 150, W: 128, H: 128, Blend: batch2d.BlendStateAdditive, Color: "#ff4040"},
			{Texture: "ring", X: 400, Y: 180, W: 128, H: 128, Blend: batch2d.BlendStateAdditive, Color: "#4080ff"},
			{Texture: "checker", X: 560, Y: 150, W: 200, H: 200, Color: "#80ff80", Clip: []float32{600, 180, 720, 300}},
			{Texture: "white", X: 40, Y: 320, W: 200, H: 40, Blend: batch2d.BlendStateOpaque, Color: "#303030"},
			{Texture: "gradient", X: 260, Y: 320, W: 200, H: 40, Blend: batch2d.BlendStateNonPremultiplied, Color: "#ffffff80"},
		},
		Texts: []textItem{
			{Text: "batch2d", X: 40, Y: 380, Scale: 2, Color: "#ffffff"},
			{Text: "quads batched by texture and blend state", X: 40, Y: 470, Scale: 0.75, Color: "#c0d0e0"},
		},
		Lines: []lineItem{
			{From: [2]float32{40, 140}, To: [2]float32{760, 140}, Color: "#ffffff80"},
			{From: [2]float32{40, 140}, To: [2]float32{40, 560}, Color: "#ffffff80"},
		},
	}
}

// decodeScene reads a TOML scene. Keys that do not map to a scene field are
// rejected.
func decodeScene(r io.Reader) (scene, error) {
	var s scene
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return scene{}, fmt.Errorf("decode scene: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return scene{}, fmt.Errorf("decode scene: unknown keys %s", strings.Join(keys, ", "))
	}
	return s, s.validate()
}

// loadScene reads a TOML scene file.
func loadScene(path string) (scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return scene{}, err
	}
	defer f.Close()
	return decodeScene(f)
}

// writeScene encodes s as TOML.
func writeScene(w io.Writer, s scene) error {
	return toml.NewEncoder(w).Encode(s)
}

var errInvalidScene = errors.New("invalid scene")

func (s scene) validate() error {
	for i, sp := range s.Sprites {
		if !isTextureName(sp.Texture) {
			return fmt.Errorf("%w: sprite %d: unknown texture %q", errInvalidScene, i, sp.Texture)
		}
		if sp.W <= 0 || sp.H <= 0 {
			return fmt.Errorf("%w: sprite %d: size must be positive", errInvalidScene, i)
		}
		if len(sp.Clip) != 0 && len(sp.Clip) != 4 {
			return fmt.Errorf("%w: sprite %d: clip needs 4 values", errInvalidScene, i)
		}
	}
	for i, t := range s.Texts {
		if t.Scale < 0 {
			return fmt.Errorf("%w: text %d: negative scale", errInvalidScene, i)
		}
	}
	return nil
}

func isTextureName(name string) bool {
	return slices.Contains(textureNames, name)
}

// parseColor parses a hex color, defaulting to white.
func parseColor(hex string) batch2d.Color {
	if hex == "" {
		return batch2d.White
	}
	return batch2d.Hex(hex)
}
