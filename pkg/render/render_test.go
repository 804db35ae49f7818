package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func newTestFonts(t *testing.T) *FontManager {
	t.Helper()
	fm := NewFontManager()
	if err := fm.LoadBytes(goregular.TTF); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	return fm
}

func testValues(pixels int) Values {
	return Values{
		Date:           "2023.03.15",
		Weekday:        "Wednesday",
		DayOfMonth:     "15",
		Lunar:          "lunar",
		ProgressText:   "73 / 20%",
		ProgressPixels: pixels,
		PoemTitle:      "title",
		PoemContent:    "content",
		PoemAuthor:     "author",
	}
}

func rgb(c color.Color) [3]uint8 {
	r, g, b, _ := c.RGBA()
	return [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

var (
	primary   = [3]uint8{0x63, 0x91, 0xA9}
	remaining = [3]uint8{0xC9, 0xCD, 0xD8}
	white     = [3]uint8{0xFF, 0xFF, 0xFF}
)

func TestDefaultLayout(t *testing.T) {
	layout := DefaultLayout()

	outer, ok := layout.Find("frame_outer")
	if !ok || outer.X1 != 16 || outer.Y1 != 16 || outer.X2 != 585 || outer.Y2 != 785 || outer.Border != 5 {
		t.Errorf("frame_outer = %+v", outer)
	}
	author, ok := layout.Find("poem_author")
	if !ok || author.Prefix != "--- " || author.Align != AlignRight || author.X != 540 || author.Y != 672 {
		t.Errorf("poem_author = %+v", author)
	}
	day, ok := layout.Find("day")
	if !ok || day.Size != 150 || day.Align != AlignCenter {
		t.Errorf("day = %+v", day)
	}
	date, ok := layout.Find("date")
	if !ok || date.Align != AlignLeft || date.VAlign != VAlignBaseline {
		t.Errorf("date = %+v", date)
	}

	names := map[string]bool{}
	for _, e := range layout {
		if names[e.Name] {
			t.Errorf("duplicate element %s", e.Name)
		}
		names[e.Name] = true
	}
	if len(names) != 13 {
		t.Errorf("expected 13 elements, got %d", len(names))
	}
}

func TestRenderDrawsLayout(t *testing.T) {
	r := NewRenderer(newTestFonts(t), nil)

	img, err := r.Render(testValues(100))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if b := img.Bounds(); b.Dx() != Width || b.Dy() != Height {
		t.Fatalf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), Width, Height)
	}

	checks := []struct {
		name string
		x, y int
		want [3]uint8
	}{
		{"background", 5, 5, white},
		{"outer border", 16, 400, primary},
		{"inside frames", 40, 440, white},
		{"bar passed", 60, 415, primary},
		{"bar remaining", 540, 415, remaining},
		{"bar boundary passed side", 149, 415, primary},
		{"bar boundary remaining side", 152, 415, remaining},
	}
	for _, c := range checks {
		if got := rgb(img.At(c.x, c.y)); got != c.want {
			t.Errorf("%s at (%d,%d) = %v, want %v", c.name, c.x, c.y, got, c.want)
		}
	}
}

func TestRenderProgressExtremes(t *testing.T) {
	r := NewRenderer(newTestFonts(t), nil)

	empty, err := r.Render(testValues(0))
	if err != nil {
		t.Fatal(err)
	}
	if got := rgb(empty.At(55, 415)); got != remaining {
		t.Errorf("0%% bar start = %v, want remaining color", got)
	}

	full, err := r.Render(testValues(9999))
	if err != nil {
		t.Fatal(err)
	}
	if got := rgb(full.At(545, 415)); got != primary {
		t.Errorf("100%% bar end = %v, want primary color", got)
	}
}

func TestRenderWithoutFont(t *testing.T) {
	r := NewRenderer(NewFontManager(), nil)
	if _, err := r.Render(testValues(10)); !errors.Is(err, ErrFontLoad) {
		t.Errorf("expected ErrFontLoad, got %v", err)
	}
}

func TestFontManager(t *testing.T) {
	fm := newTestFonts(t)

	a, err := fm.Face(24)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := fm.Face(24)
	if a != b {
		t.Error("faces of the same size should be cached")
	}
	if _, err := fm.Face(150); err != nil {
		t.Fatal(err)
	}
	if fm.CacheSize() != 2 {
		t.Errorf("cache size = %d, want 2", fm.CacheSize())
	}

	if err := NewFontManager().LoadBytes([]byte("not a font")); !errors.Is(err, ErrFontLoad) {
		t.Errorf("expected ErrFontLoad for garbage, got %v", err)
	}
}

func TestFontManagerLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Go-Regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}

	fm := NewFontManager()
	if err := fm.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if fm.Path() != path {
		t.Errorf("Path = %s, want %s", fm.Path(), path)
	}

	if err := NewFontManager().LoadFile(filepath.Join(dir, "missing.ttf")); !errors.Is(err, ErrFontLoad) {
		t.Errorf("expected ErrFontLoad, got %v", err)
	}
}

func TestSaveFile(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	path := filepath.Join(t.TempDir(), "nested", "out.jpg")

	data, err := SaveFile(path, img, 90)
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, onDisk) {
		t.Error("returned bytes differ from file contents")
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(onDisk))
	if err != nil {
		t.Fatalf("not a JPEG: %v", err)
	}
	if cfg.Width != Width || cfg.Height != Height {
		t.Errorf("decoded %dx%d", cfg.Width, cfg.Height)
	}
}

func TestSaveFileFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if _, err := SaveFile(filepath.Join(blocker, "out.jpg"), img, 90); !errors.Is(err, ErrWrite) {
		t.Errorf("expected ErrWrite, got %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.jpg":  FormatJPEG,
		"a.jpeg": FormatJPEG,
		"a.PNG":  FormatPNG,
		"a":      FormatJPEG,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%s) = %s, want %s", path, got, want)
		}
	}
}
