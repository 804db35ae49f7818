// Package render draws the daily image from a declarative layout table.
package render

import (
	"fmt"
	"image"
	"sync"
	"time"

	"dailyimage/pkg/logger"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

// Values are the per-day strings and numbers the layout draws
type Values struct {
	Date           string // 2023.03.15
	Weekday        string
	DayOfMonth     string
	Lunar          string
	ProgressText   string
	ProgressPixels int
	PoemTitle      string
	PoemContent    string
	PoemAuthor     string
}

func (v Values) text(f Field) string {
	switch f {
	case FieldDate:
		return v.Date
	case FieldWeekday:
		return v.Weekday
	case FieldDayOfMonth:
		return v.DayOfMonth
	case FieldLunar:
		return v.Lunar
	case FieldProgressText:
		return v.ProgressText
	case FieldPoemTitle:
		return v.PoemTitle
	case FieldPoemContent:
		return v.PoemContent
	case FieldPoemAuthor:
		return v.PoemAuthor
	}
	return ""
}

// Renderer draws Values onto a fresh 600x800 canvas
type Renderer struct {
	fonts  *FontManager
	layout Layout
	// truetype faces keep a glyph cache and are not safe for concurrent use
	mu sync.Mutex
}

// NewRenderer creates a renderer; a nil layout means DefaultLayout
func NewRenderer(fonts *FontManager, layout Layout) *Renderer {
	if layout == nil {
		layout = DefaultLayout()
	}
	return &Renderer{fonts: fonts, layout: layout}
}

// Layout returns the table the renderer draws
func (r *Renderer) Layout() Layout {
	return r.layout
}

// Render draws every layout element in order
func (r *Renderer) Render(v Values) (image.Image, error) {
	if r.fonts == nil || !r.fonts.Loaded() {
		return nil, ErrFontLoad
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	dc := gg.NewContext(Width, Height)
	dc.SetHexColor(ColorBackground)
	dc.Clear()

	for _, e := range r.layout {
		if err := r.draw(dc, e, v); err != nil {
			return nil, fmt.Errorf("draw %s: %w", e.Name, err)
		}
	}

	logger.Debug("rendered daily image",
		zap.Int("elements", len(r.layout)),
		zap.Duration("elapsed", time.Since(start)))
	return dc.Image(), nil
}

func (r *Renderer) draw(dc *gg.Context, e Element, v Values) error {
	switch e.Kind {
	case KindRect:
		drawFrame(dc, e)
	case KindBarPassed:
		fillRect(dc, e.X1, e.Y1, e.X1+float64(clampPixels(v.ProgressPixels)), e.Y2, e.Fill)
	case KindBarRemaining:
		fillRect(dc, e.X1+float64(clampPixels(v.ProgressPixels)), e.Y1, e.X2, e.Y2, e.Fill)
	case KindText:
		s := v.text(e.Field)
		if s == "" {
			return nil
		}
		face, err := r.fonts.Face(e.Size)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		dc.SetHexColor(e.Color)
		dc.DrawStringAnchored(e.Prefix+s, e.X, e.Y, e.Align.anchor(), e.VAlign.anchor())
	default:
		return fmt.Errorf("unknown element kind %d", e.Kind)
	}
	return nil
}

// drawFrame fills the rectangle then strokes its border centred on the edge
func drawFrame(dc *gg.Context, e Element) {
	dc.DrawRectangle(e.X1, e.Y1, e.X2-e.X1, e.Y2-e.Y1)
	dc.SetHexColor(e.Fill)
	dc.FillPreserve()
	dc.SetHexColor(e.Color)
	dc.SetLineWidth(e.Border)
	dc.Stroke()
}

func fillRect(dc *gg.Context, x1, y1, x2, y2 float64, hex string) {
	if x2 <= x1 {
		return
	}
	dc.DrawRectangle(x1, y1, x2-x1, y2-y1)
	dc.SetHexColor(hex)
	dc.Fill()
}

func clampPixels(px int) int {
	if px < 0 {
		return 0
	}
	if px > BarLength {
		return BarLength
	}
	return px
}
