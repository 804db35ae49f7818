// Package daily runs the daily image pipeline: date values, lunar text,
// poem fetch, drawing and saving.
package daily

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dailyimage/pkg/calendar"
	"dailyimage/pkg/logger"
	"dailyimage/pkg/poem"
	"dailyimage/pkg/render"
	"dailyimage/pkg/utils/dateutils"

	"go.uber.org/zap"
)

var (
	// ErrInvalidDate 目标日期无法解析
	ErrInvalidDate = errors.New("invalid target date")
	// ErrInvalidName 输出文件名不是单纯的文件名
	ErrInvalidName = errors.New("invalid output file name")
)

// ValidateName reports whether name is a plain file name that stays inside
// the output directory. The empty name is valid and means the default.
func ValidateName(name string) error {
	if name == "" {
		return nil
	}
	if filepath.IsAbs(name) || filepath.Base(name) != name ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") || name == "." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Options are the per-invocation settings
type Options struct {
	Today string // YYYY-MM-DD, empty means now
	Name  string // output file name, empty means <YYYY-MM-DD>.jpg
}

// RenderContext is computed once per run and read-only afterwards
type RenderContext struct {
	TargetDate      time.Time
	OutputName      string
	Day             calendar.Day
	ProgressPercent float64
	ProgressPixels  int
	ProgressText    string
	Poem            poem.Poem
	PoemResult      poem.Result
}

// Values maps the context onto the strings the layout draws
func (rc RenderContext) Values() render.Values {
	return render.Values{
		Date:           dateutils.FormatDotted(rc.TargetDate),
		Weekday:        rc.Day.WeekdayName,
		DayOfMonth:     strconv.Itoa(rc.Day.DayOfMonth),
		Lunar:          rc.Day.LunarText,
		ProgressText:   rc.ProgressText,
		ProgressPixels: rc.ProgressPixels,
		PoemTitle:      rc.Poem.Title,
		PoemContent:    rc.Poem.Content,
		PoemAuthor:     rc.Poem.Author,
	}
}

// Result 一次生成的结果
type Result struct {
	Path       string
	Context    RenderContext
	PoemSource string
	Bytes      []byte
	Duration   time.Duration
}

// Generator builds and saves daily images. It is safe for concurrent use.
type Generator struct {
	poems       poem.Source
	renderer    *render.Renderer
	outputDir   string
	jpegQuality int
	location    *time.Location
	now         func() time.Time
}

// Option customises a Generator
type Option func(*Generator)

// WithOutputDir sets the directory output names are resolved against
func WithOutputDir(dir string) Option {
	return func(g *Generator) { g.outputDir = dir }
}

// WithJPEGQuality sets the JPEG encoder quality
func WithJPEGQuality(q int) Option {
	return func(g *Generator) { g.jpegQuality = q }
}

// WithLocation sets the time zone used for "today"
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.location = loc
		}
	}
}

// WithClock overrides the current time source
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New 创建生成器
func New(poems poem.Source, renderer *render.Renderer, opts ...Option) *Generator {
	g := &Generator{
		poems:       poems,
		renderer:    renderer,
		jpegQuality: render.DefaultJPEGQuality,
		location:    time.Local,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Build computes the render context: date values, lunar text and poem
func (g *Generator) Build(ctx context.Context, opts Options) (RenderContext, error) {
	if err := ValidateName(opts.Name); err != nil {
		return RenderContext{}, err
	}

	target, err := g.targetDate(opts.Today)
	if err != nil {
		return RenderContext{}, err
	}

	day, err := calendar.Compute(target)
	if err != nil {
		return RenderContext{}, err
	}

	name := opts.Name
	if name == "" {
		name = dateutils.FormatDate(target) + ".jpg"
	}

	percent := calendar.ProgressPercent(day.DayOfYear)
	rc := RenderContext{
		TargetDate:      target,
		OutputName:      name,
		Day:             day,
		ProgressPercent: percent,
		ProgressPixels:  calendar.ProgressPixels(percent, calendar.BarLength),
		ProgressText:    calendar.ProgressText(day.DayOfYear, percent),
	}

	res := g.fetchPoem(ctx)
	rc.Poem = res.Poem
	rc.PoemResult = res
	return rc, nil
}

// Render builds the context and draws it without touching the disk
func (g *Generator) Render(ctx context.Context, opts Options) (RenderContext, image.Image, error) {
	rc, err := g.Build(ctx, opts)
	if err != nil {
		return RenderContext{}, nil, err
	}
	img, err := g.renderer.Render(rc.Values())
	if err != nil {
		return RenderContext{}, nil, err
	}
	return rc, img, nil
}

// Generate runs the whole pipeline and writes the image file
func (g *Generator) Generate(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	rc, img, err := g.Render(ctx, opts)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithDate(ctx, dateutils.FormatDate(rc.TargetDate))
	path := g.outputPath(rc.OutputName)
	data, err := render.SaveFile(path, img, g.jpegQuality)
	if err != nil {
		logger.FromContext(ctx).Error("保存图片失败", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	result := &Result{
		Path:       path,
		Context:    rc,
		PoemSource: rc.PoemResult.Source(),
		Bytes:      data,
		Duration:   time.Since(start),
	}

	logger.FromContext(ctx).Info("每日图片已生成",
		zap.String("path", path),
		zap.String("lunar", rc.Day.LunarText),
		zap.Float64("progress_percent", rc.ProgressPercent),
		zap.String("poem_source", result.PoemSource),
		zap.Int("bytes", len(data)),
		logger.DurationField(result.Duration.Milliseconds()))
	return result, nil
}

func (g *Generator) targetDate(today string) (time.Time, error) {
	if today == "" {
		return g.now().In(g.location), nil
	}
	t, err := dateutils.ParseTargetDate(today, g.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	return t, nil
}

func (g *Generator) fetchPoem(ctx context.Context) poem.Result {
	if g.poems == nil {
		return poem.Result{Poem: poem.Default(), Fallback: true}
	}
	res := g.poems.Fetch(ctx)
	if res.Poem.Empty() {
		res = poem.Result{Poem: poem.Default(), Fallback: true, Reason: poem.ErrEmptyPoem}
	}
	return res
}

func (g *Generator) outputPath(name string) string {
	if g.outputDir == "" {
		return name
	}
	return filepath.Join(g.outputDir, name)
}
