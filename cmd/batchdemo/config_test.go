package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/batch2d"
)

const testScene = `
background = "#000000"

[[sprite]]
texture = "ring"
x = 10
y = 20
w = 32
h = 32
blend = "additive"
color = "#ff0000"

[[sprite]]
texture = "checker"
x = 0
y = 0
w = 64
h = 64
rotation = 45.5
clip = [0, 0, 32, 32]

[[text]]
text = "hi"
x = 4
y = 4
scale = 2

[[line]]
from = [0, 0]
to = [10, 10]
`

func TestDecodeScene(t *testing.T) {
	s, err := decodeScene(strings.NewReader(testScene))
	if err != nil {
		t.Fatalf("decodeScene() error = %v", err)
	}
	if len(s.Sprites) != 2 || len(s.Texts) != 1 || len(s.Lines) != 1 {
		t.Fatalf("decoded %d sprites, %d texts, %d lines", len(s.Sprites), len(s.Texts), len(s.Lines))
	}
	ring := s.Sprites[0]
	if ring.Blend != batch2d.BlendStateAdditive || ring.X != 10 || ring.W != 32 {
		t.Errorf("sprite 0 = %+v", ring)
	}
	checker := s.Sprites[1]
	if checker.Blend != batch2d.BlendStateAlphaBlend || checker.Rotation != 45.5 || len(checker.Clip) != 4 {
		t.Errorf("sprite 1 = %+v", checker)
	}
	if s.Texts[0].Text != "hi" || s.Texts[0].Scale != 2 {
		t.Errorf("text = %+v", s.Texts[0])
	}
	if s.Lines[0].To != [2]float32{10, 10} {
		t.Errorf("line = %+v", s.Lines[0])
	}
}

func TestDecodeSceneErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unknown texture", "[[sprite]]\ntexture = \"brick\"\nw = 1\nh = 1", errInvalidScene},
		{"empty size", "[[sprite]]\ntexture = \"ring\"", errInvalidScene},
		{"short clip", "[[sprite]]\ntexture = \"ring\"\nw = 1\nh = 1\nclip = [1, 2, 3]", errInvalidScene},
		{"negative scale", "[[text]]\ntext = \"a\"\nscale = -1", errInvalidScene},
		{"unknown blend", "[[sprite]]\ntexture = \"ring\"\nblend = \"multiply\"", batch2d.ErrUnknownBlendState},
		{"unknown key", "foreground = \"#fff\"", nil},
		{"syntax", "background = ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeScene(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("decodeScene() error = nil")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("decodeScene() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDefaultSceneDumpLoads(t *testing.T) {
	var buf bytes.Buffer
	if err := writeScene(&buf, defaultScene()); err != nil {
		t.Fatalf("writeScene() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "scene.toml")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := loadScene(path)
	if err != nil {
		t.Fatalf("loadScene() error = %v\n%s", err, buf.String())
	}
	want := defaultScene()
	if len(s.Sprites) != len(want.Sprites) || len(s.Texts) != len(want.Texts) {
		t.Fatalf("loaded %d sprites, %d texts; want %d, %d",
			len(s.Sprites), len(s.Texts), len(want.Sprites), len(want.Texts))
	}
	for i := range want.Sprites {
		if s.Sprites[i].Blend != want.Sprites[i].Blend {
			t.Errorf("sprite %d blend = %v, want %v", i, s.Sprites[i].Blend, want.Sprites[i].Blend)
		}
	}
}

func TestLoadSceneMissingFile(t *testing.T) {
	if _, err := loadScene(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("loadScene(missing) error = %v, want ErrNotExist", err)
	}
}

func TestParseColor(t *testing.T) {
	if got := parseColor(""); got != batch2d.White {
		t.Errorf("parseColor(\"\") = %v, want white", got)
	}
	if got := parseColor("#ff0000"); got != batch2d.RGB(1, 0, 0) {
		t.Errorf("parseColor(#ff0000) = %v", got)
	}
}
