package render

// Canvas size and palette of the daily image
const (
	Width  = 600
	Height = 800

	ColorBackground = "#FFFFFF"
	ColorPrimary    = "#6391A9"
	ColorRemaining  = "#C9CDD8"

	BarX      = 51
	BarRight  = 550
	BarLength = 500
)

// Kind 元素类型
type Kind int

const (
	KindRect Kind = iota
	KindText
	KindBarPassed
	KindBarRemaining
)

// Align is the horizontal anchor of a text element
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) anchor() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignRight:
		return 1
	default:
		return 0
	}
}

// VAlign is the vertical anchor of a text element
type VAlign int

const (
	VAlignBaseline VAlign = iota
	VAlignMiddle
)

func (v VAlign) anchor() float64 {
	if v == VAlignMiddle {
		return 0.5
	}
	return 0
}

// Field names the value a text element draws
type Field string

const (
	FieldDate         Field = "date"
	FieldWeekday      Field = "weekday"
	FieldDayOfMonth   Field = "day"
	FieldLunar        Field = "lunar"
	FieldProgressText Field = "progress_text"
	FieldPoemTitle    Field = "poem_title"
	FieldPoemContent  Field = "poem_content"
	FieldPoemAuthor   Field = "poem_author"
)

// Element is one entry of the layout table. Rectangles use X1..Y2; text uses X, Y.
type Element struct {
	Name string
	Kind Kind

	X1, Y1, X2, Y2 float64
	Border         float64
	Fill           string

	X, Y   float64
	Size   float64
	Align  Align
	VAlign VAlign
	Field  Field
	Prefix string

	Color string
}

// Layout is drawn in order
type Layout []Element

// Find returns the element with the given name
func (l Layout) Find(name string) (Element, bool) {
	for _, e := range l {
		if e.Name == name {
			return e, true
		}
	}
	return Element{}, false
}

// DefaultLayout 每日图片的固定布局
func DefaultLayout() Layout {
	frame := func(name string, x1, y1, x2, y2, border float64) Element {
		return Element{Name: name, Kind: KindRect, X1: x1, Y1: y1, X2: x2, Y2: y2,
			Border: border, Fill: ColorBackground, Color: ColorPrimary}
	}
	text := func(name string, field Field, x, y, size float64, align Align, valign VAlign) Element {
		return Element{Name: name, Kind: KindText, Field: field, X: x, Y: y,
			Size: size, Align: align, VAlign: valign, Color: ColorPrimary}
	}

	author := text("poem_author", FieldPoemAuthor, 540, 672, 18, AlignRight, VAlignMiddle)
	author.Prefix = "--- "

	return Layout{
		frame("frame_outer", 16, 16, 585, 785, 5),
		frame("frame_middle", 26, 26, 575, 775, 2),
		frame("frame_poem", 51, 461, 550, 750, 1),

		text("date", FieldDate, 61, 81, 24, AlignLeft, VAlignBaseline),
		text("weekday", FieldWeekday, 540, 81, 24, AlignRight, VAlignBaseline),
		text("day", FieldDayOfMonth, 300, 200, 150, AlignCenter, VAlignMiddle),
		text("lunar", FieldLunar, 300, 320, 20, AlignCenter, VAlignMiddle),
		text("progress_text", FieldProgressText, 300, 360, 18, AlignCenter, VAlignMiddle),

		{Name: "progress_passed", Kind: KindBarPassed, X1: BarX, Y1: 401, X2: BarRight, Y2: 430, Fill: ColorPrimary},
		{Name: "progress_remaining", Kind: KindBarRemaining, X1: BarX, Y1: 401, X2: BarRight, Y2: 430, Fill: ColorRemaining},

		text("poem_title", FieldPoemTitle, 300, 520, 18, AlignCenter, VAlignMiddle),
		text("poem_content", FieldPoemContent, 300, 596, 20, AlignCenter, VAlignMiddle),
		author,
	}
}
