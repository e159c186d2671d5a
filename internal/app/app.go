package app

import (
	"context"
	"fmt"
	"time"

	"lifeviz/internal/chart"
	"lifeviz/internal/config"
	"lifeviz/internal/frames"
	"lifeviz/internal/logger"
	"lifeviz/internal/render"
	"lifeviz/internal/source"
	viewhttp "lifeviz/internal/transport/http/view"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// App wires a source handle to the chart pipeline and its hosts:
// fetch → frames → assemble → validate, then export or serve.
type App struct {
	cfg       *config.Config
	handle    *source.Handle
	assembler *chart.Assembler
	frameOpts frames.Options
	exporter  *render.Exporter
	viewHTTP  *viewhttp.Server
	builds    *buildCache
	Summary   *StartupSummary
}

// NewApp builds the application from cfg without running it.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Build runs the pipeline once against the configured dataset and records
// the result as the current build.
func (a *App) Build(ctx context.Context) (viewhttp.Build, error) {
	if a == nil || a.handle == nil {
		return viewhttp.Build{}, fmt.Errorf("app not initialized")
	}
	start := time.Now()
	name := a.cfg.Data.Dataset
	ds, err := a.handle.Dataset(ctx, name)
	if err != nil {
		return viewhttp.Build{}, fmt.Errorf("fetch %s: %w", name, err)
	}
	fr, err := frames.Build(ds, a.frameOpts)
	if err != nil {
		return viewhttp.Build{}, fmt.Errorf("frames %s: %w", name, err)
	}
	spec, err := a.assembler.Build(ds, fr)
	if err != nil {
		return viewhttp.Build{}, err
	}
	raw, err := chart.ValidateSpec(spec)
	if err != nil {
		return viewhttp.Build{}, err
	}
	b := viewhttp.Build{
		ID:      uuid.NewString(),
		At:      time.Now().UTC(),
		Dataset: ds,
		Spec:    spec,
		Figure:  raw,
	}
	a.builds.Set(b)
	logger.Infof("app: build %s dataset=%s rows=%d frames=%d dur=%s", b.ID, ds.Name, ds.Len(), len(fr), time.Since(start).Round(time.Millisecond))
	return b, nil
}

// Current returns the latest successful build.
func (a *App) Current() (viewhttp.Build, bool) {
	if a == nil {
		return viewhttp.Build{}, false
	}
	return a.builds.Current()
}

// Run builds once, then exports or serves depending on app.mode.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Summary != nil {
		a.Summary.Print()
	}
	b, err := a.Build(ctx)
	if err != nil {
		return err
	}
	switch a.cfg.App.Mode {
	case config.ModeServe:
		return a.serve(ctx)
	default:
		return a.export(ctx, b)
	}
}

func (a *App) export(ctx context.Context, b viewhttp.Build) error {
	if a.exporter == nil {
		return fmt.Errorf("exporter not initialized")
	}
	a.exporter.SetBuildID(b.ID)
	return render.Show(ctx, a.exporter, b.Spec, b.Dataset)
}

func (a *App) serve(ctx context.Context) error {
	if a.viewHTTP == nil {
		return fmt.Errorf("view http server not initialized")
	}
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.viewHTTP.Start(ctx); err != nil {
			return fmt.Errorf("view http server error: %w", err)
		}
		return nil
	})
	if a.cfg.Data.Watch {
		group.Go(func() error {
			return a.handle.Watch(ctx, a.cfg.Data.Dataset, a.cfg.Data.Debounce(), func() { a.rebuild(ctx) })
		})
	}
	return group.Wait()
}

// rebuild keeps the previous build when the new one fails.
func (a *App) rebuild(ctx context.Context) {
	prev, _ := a.builds.Current()
	if _, err := a.Build(ctx); err != nil {
		logger.Errorf("app: rebuild failed, still serving build %s: %v", prev.ID, err)
	}
}

// Close releases the source handle.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.handle.Close()
}
