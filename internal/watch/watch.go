// Package watch re-runs a callback when a single file changes on disk.
package watch

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/logfields"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc receives the current file content. An error is logged and
// watching continues.
type ChangeFunc func(ctx context.Context, content []byte) error

// FingerprintFunc identifies content. Changes with an equal fingerprint are
// skipped.
type FingerprintFunc func(content []byte) string

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before onChange runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithFingerprint replaces the default byte-level fingerprint.
func WithFingerprint(fn FingerprintFunc) Option {
	return func(w *Watcher) {
		if fn != nil {
			w.fingerprint = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher watches one file through its parent directory, so editors that
// replace the file by rename are still seen.
type Watcher struct {
	path        string
	onChange    ChangeFunc
	debounce    time.Duration
	fingerprint FingerprintFunc
	logger      *slog.Logger
	last        string
}

// New creates a watcher for path.
func New(path string, onChange ChangeFunc, opts ...Option) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.ValidationError("watch callback is required").Build()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve watch path").
			WithContext("path", path).
			Build()
	}
	w := &Watcher{
		path:     abs,
		onChange: onChange,
		debounce: DefaultDebounce,
		fingerprint: func(content []byte) string {
			return mdfp.CalculateFingerprintFromParts("", string(content))
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run calls onChange once for the current content, then again after each
// debounced change, until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher").Build()
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
			WithContext("path", dir).
			Build()
	}

	if err := w.fire(ctx); err != nil {
		return err
	}
	w.logger.Info("Watching for changes", logfields.File(w.path))

	name := filepath.Base(w.path)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op.Has(fsnotify.Remove) {
				w.logger.Warn("Watched file removed", logfields.File(w.path))
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		case <-timer.C:
			if err := w.fire(ctx); err != nil {
				w.logger.Warn("Skipping change", logfields.File(w.path), logfields.Error(err))
			}
		}
	}
}

// fire reads the file and calls onChange unless the fingerprint is
// unchanged. Only a read failure is returned.
func (w *Watcher) fire(ctx context.Context) error {
	content, err := os.ReadFile(w.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.NewError(errors.CategoryNotFound, "watched file not found").
				WithContext("path", w.path).
				Build()
		}
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to read watched file").
			WithContext("path", w.path).
			Build()
	}
	fp := w.fingerprint(content)
	if fp == w.last {
		w.logger.Debug("Content unchanged", logfields.File(w.path), logfields.Fingerprint(fp))
		return nil
	}
	w.last = fp
	if err := w.onChange(ctx, content); err != nil {
		w.logger.Error("Change handler failed", logfields.File(w.path), logfields.Error(err))
	}
	return nil
}
