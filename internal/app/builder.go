package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"lifeviz/internal/chart"
	"lifeviz/internal/config"
	"lifeviz/internal/frames"
	"lifeviz/internal/logger"
	"lifeviz/internal/render"
	"lifeviz/internal/source"
	viewhttp "lifeviz/internal/transport/http/view"
)

type AppBuilder struct {
	cfg *config.Config

	sourceFn   func(context.Context, config.DataConfig) (*source.Handle, error)
	viewHTTPFn func(*config.Config, viewhttp.Builds) (*viewhttp.Server, error)
}

type AppBuilderOption func(*AppBuilder)

// WithSourceFunc replaces how the source handle is connected.
func WithSourceFunc(fn func(context.Context, config.DataConfig) (*source.Handle, error)) AppBuilderOption {
	return func(b *AppBuilder) {
		if fn != nil {
			b.sourceFn = fn
		}
	}
}

func NewAppBuilder(cfg *config.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:        cfg,
		sourceFn:   source.Connect,
		viewHTTPFn: buildViewHTTPServer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	cfg := b.cfg
	logger.SetLevel(cfg.App.LogLevel)

	handle, err := b.sourceFn(ctx, cfg.Data)
	if err != nil {
		return nil, err
	}
	if _, ok := handle.Source(cfg.Data.Dataset); !ok {
		_ = handle.Close()
		return nil, fmt.Errorf("%w: %s (configured: %v)", source.ErrUnknownDataset, cfg.Data.Dataset, handle.Names())
	}

	builds := newBuildCache()
	a := &App{
		cfg:       cfg,
		handle:    handle,
		assembler: chart.NewAssembler(styleFromConfig(cfg.Chart)),
		frameOpts: frameOptions(cfg.Chart),
		builds:    builds,
	}
	switch cfg.App.Mode {
	case config.ModeServe:
		srv, err := b.viewHTTPFn(cfg, builds)
		if err != nil {
			_ = handle.Close()
			return nil, err
		}
		a.viewHTTP = srv
	default:
		var term *render.Terminal
		if cfg.Render.Terminal {
			term = render.NewTerminal(os.Stdout, cfg.Render.TableMaxRows)
		}
		a.exporter = render.NewExporter(cfg.Render, cfg.Page, term)
	}
	a.Summary = buildSummary(cfg, handle)
	return a, nil
}

func buildViewHTTPServer(cfg *config.Config, builds viewhttp.Builds) (*viewhttp.Server, error) {
	return viewhttp.NewServer(viewhttp.ServerConfig{
		Addr:    cfg.App.HTTPAddr,
		Builds:  builds,
		Page:    cfg.Page,
		MaxRows: cfg.Render.TableMaxRows,
	})
}

func styleFromConfig(c config.ChartConfig) chart.Style {
	return chart.Style{
		Title:          c.Title,
		XLabel:         c.XLabel,
		YLabel:         c.YLabel,
		MarkerSize:     c.MarkerSize,
		MarkerColor:    c.MarkerColor,
		Template:       c.Template,
		ShowText:       c.ShowText,
		TextPosition:   c.TextPosition,
		SliderDuration: time.Duration(c.SliderDurationMs) * time.Millisecond,
		PlayDuration:   time.Duration(c.PlayDurationMs) * time.Millisecond,
	}
}

func frameOptions(c config.ChartConfig) frames.Options {
	var opts frames.Options
	if c.YearOrder == config.YearOrderFirstSeen {
		opts.Order = frames.OrderFirstSeen
	}
	if c.MalformedYear == config.MalformedYearSkip {
		opts.Malformed = frames.MalformedSkip
	}
	return opts
}
