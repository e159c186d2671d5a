package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"lifeviz/internal/logger"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Watch calls onChange after the file behind the named dataset is written,
// created or replaced. Bursts of events within debounce collapse into one
// call. Watch blocks until ctx is done.
func (h *Handle) Watch(ctx context.Context, name string, debounce time.Duration, onChange func()) error {
	src, ok := h.Source(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDataset, name)
	}
	if onChange == nil {
		return fmt.Errorf("source watch requires a callback")
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	target, err := filepath.Abs(src.Path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	// Editors and exporters often replace the file, so watch its directory.
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	logger.Infof("source: watching %s for %s", target, src.Name)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		onChange()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != target {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
				continue
			}
			logger.Debugf("source: %s changed (%s)", src.Name, evt.Op)
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, fire)
			mu.Unlock()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("source: watch error for %s: %v", src.Name, err)
		}
	}
}
