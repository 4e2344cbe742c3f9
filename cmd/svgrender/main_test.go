package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const halfRed = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50">
	<title>Half</title>
	<rect id="left" width="50" height="50" fill="red"/>
</svg>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runApp runs the command line `args` and returns its standard output
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := writeFile(t, "config.yaml", "version: 1\nlogging:\n  console:\n    level: none\n")
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(contextWithEnv(context.Background()), append([]string{"svgrender", "--config", cfg}, args...))
	return out.String(), err
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestImageHost(t *testing.T) {
	if _, err := newImageHost("out.svg", zap.NewNop()); err == nil {
		t.Error("expected an unsupported format error")
	}

	dst := filepath.Join(t.TempDir(), "out.png")
	host, err := newImageHost(dst, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	host.background = color.White

	if _, err := host.RequestSurface(0, 10); err == nil {
		t.Error("expected an error for an empty surface")
	}

	img, err := host.RequestSurface(4, 3)
	if err != nil {
		t.Fatal(err)
	}
	if c := color.RGBAModel.Convert(img.At(3, 2)); c != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("expected background, got %v", c)
	}

	// failed renderings are discarded
	if err := host.FinishedRendering(img, errors.New("boom")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("no file should be written, got %v", err)
	}

	if err := host.FinishedRendering(img, nil); err != nil {
		t.Fatal(err)
	}
	if b := decodePNG(t, dst).Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("unexpected bounds %v", b)
	}

	host.path = filepath.Join(t.TempDir(), "missing", "out.png")
	if err := host.FinishedRendering(img, nil); err == nil {
		t.Error("expected a creation error")
	}
}

func TestParseNumbers(t *testing.T) {
	p, err := parsePoint("10,-2.5")
	if err != nil || p.X != 10 || p.Y != -2.5 {
		t.Errorf("unexpected point %v (%v)", p, err)
	}
	for _, s := range []string{"", "1", "1,2,3", "a,b"} {
		if _, err := parsePoint(s); err == nil {
			t.Errorf("%q: expected an error", s)
		}
	}
	if nums, err := parseNumbers("0 0 20 10", 4); err != nil || len(nums) != 4 {
		t.Errorf("unexpected box %v (%v)", nums, err)
	}
}

func TestRenderCommand(t *testing.T) {
	src := writeFile(t, "doc.svg", halfRed)
	dst := filepath.Join(t.TempDir(), "out.png")

	if _, err := runApp(t, "render", "--width", "20", "--background", "white", src, dst); err != nil {
		t.Fatal(err)
	}
	img := decodePNG(t, dst)
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("unexpected bounds %v", b)
	}
	if r, g, b, _ := img.At(2, 5).RGBA(); r>>8 < 0xfe || g != 0 || b != 0 {
		t.Errorf("expected red on the left, got %v", img.At(2, 5))
	}
	if r, g, b, _ := img.At(17, 5).RGBA(); r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff {
		t.Errorf("expected white on the right, got %v", img.At(17, 5))
	}

	// rotating by 180 degrees swaps the halves
	if _, err := runApp(t, "render", "--rotate", "180", src, dst); err != nil {
		t.Fatal(err)
	}
	img = decodePNG(t, dst)
	if _, _, _, a := img.At(10, 25).RGBA(); a != 0 {
		t.Errorf("expected transparent on the left, got %v", img.At(10, 25))
	}
	if r, _, _, a := img.At(90, 25).RGBA(); r>>8 < 0xfe || a>>8 < 0xfe {
		t.Errorf("expected red on the right, got %v", img.At(90, 25))
	}

	// the extension selects the format
	dst = filepath.Join(t.TempDir(), "out.jpg")
	if _, err := runApp(t, "render", "--height", "25", src, dst); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(dst)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	if err != nil || cfg.Width != 50 || cfg.Height != 25 {
		t.Errorf("unexpected jpeg %v (%v)", cfg, err)
	}
	if _, err := runApp(t, "render", src, filepath.Join(t.TempDir(), "out.svg")); err == nil {
		t.Error("expected an unsupported format error")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.png")
	if _, err := runApp(t, "render", filepath.Join(t.TempDir(), "missing.svg"), dst); err == nil {
		t.Error("expected an error for a missing source")
	}
	src := writeFile(t, "doc.svg", `<svg width="10" height="10"><path d="M 0 0 L"/></svg>`)
	if _, err := runApp(t, "render", src, dst); err == nil || !strings.Contains(err.Error(), "path") {
		t.Errorf("expected a path error, got %v", err)
	}
	if _, err := runApp(t, "render", "--background", "nope", writeFile(t, "ok.svg", halfRed), dst); err == nil {
		t.Error("expected an error for an invalid background")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("no image should be written, got %v", err)
	}
}

func TestMapCommand(t *testing.T) {
	src := writeFile(t, "doc.svg", halfRed)

	out, err := runApp(t, "map", "--width", "200", src, "20,20", "180,20")
	if err != nil {
		t.Fatal(err)
	}
	want := "20,20 -> 10,10 rect#left\n180,20 -> 90,10 -\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}

	out, err = runApp(t, "map", "--width", "200", "--reverse", src, "50,25")
	if err != nil {
		t.Fatal(err)
	}
	if want := "50,25 -> 100,50\n"; out != want {
		t.Errorf("expected %q, got %q", want, out)
	}

	if _, err := runApp(t, "map", src); err == nil {
		t.Error("expected an error without points")
	}
}

func TestInfoCommand(t *testing.T) {
	src := writeFile(t, "doc.svg", halfRed)
	out, err := runApp(t, "info", src)
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range []string{
		"size:      100 x 50",
		"viewBox:   0 0 100 50",
		"bounds:    0 0 50 50",
		"title:     Half",
		"warnings:  0",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("missing %q in %q", line, out)
		}
	}
}

func TestDumpConfigCommand(t *testing.T) {
	out, err := runApp(t, "dumpconfig")
	if err != nil {
		t.Fatal(err)
	}
	// the actual configuration has the console logging disabled
	if !strings.Contains(out, "level: none") || !strings.Contains(out, "error_mode: warn") {
		t.Errorf("unexpected configuration %q", out)
	}

	dst := filepath.Join(t.TempDir(), "default.yaml")
	if _, err := runApp(t, "dumpconfig", "--default", dst); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# svgrender configuration") {
		t.Errorf("unexpected default configuration %q", data)
	}
}
