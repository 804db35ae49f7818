package daily

import (
	"time"

	"dailyimage/pkg/config"
	"dailyimage/pkg/poem"
	"dailyimage/pkg/render"
)

// NewFromConfig wires the poem fetcher, font and renderer from configuration.
// A font that cannot be loaded is returned as an error.
func NewFromConfig(cfg *config.Config) (*Generator, error) {
	fonts := render.NewFontManager()
	if err := fonts.LoadFile(cfg.Generator.FontPath); err != nil {
		return nil, err
	}

	loc, err := cfg.App.Location()
	if err != nil {
		return nil, err
	}

	fetcher := poem.NewFetcher(&poem.Config{
		Endpoint:           cfg.Poem.Endpoint,
		Timeout:            time.Duration(cfg.Poem.Timeout) * time.Second,
		InsecureSkipVerify: cfg.Poem.InsecureSkipVerify,
		Token:              cfg.Poem.Token,
	})

	return New(fetcher, render.NewRenderer(fonts, nil),
		WithOutputDir(cfg.Generator.OutputDir),
		WithJPEGQuality(cfg.Generator.JPEGQuality),
		WithLocation(loc),
	), nil
}
