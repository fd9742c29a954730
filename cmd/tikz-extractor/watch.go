package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tikzextractor "github.com/kataras/tikz-extractor"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// watcher reconverts an input whenever it changes on disk.
type watcher struct {
	fs      *fsnotify.Watcher
	targets map[string]string // absolute input path -> destination
	convert func(input, dest string) error
	log     tikzextractor.Logger
}

// newWatcher watches the directories holding the inputs of targets. Editors
// often replace a file instead of writing it, so the directory is watched
// and events are filtered by name.
func newWatcher(targets map[string]string, convert func(input, dest string) error, log tikzextractor.Logger) (*watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	w := &watcher{
		fs:      fs,
		targets: make(map[string]string, len(targets)),
		convert: convert,
		log:     log,
	}
	dirs := make(map[string]struct{})
	for input, dest := range targets {
		abs, err := filepath.Abs(input)
		if err != nil {
			fs.Close()
			return nil, fmt.Errorf("resolving %s: %w", input, err)
		}
		w.targets[abs] = dest
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fs.Add(dir); err != nil {
			fs.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return w, nil
}

// run handles events until ctx is done. Each change is converted on this
// goroutine.
func (w *watcher) run(ctx context.Context) error {
	defer w.fs.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.handle(event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Errorf("Watcher: %v", err)
		}
	}
}

func (w *watcher) handle(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}
	dest, ok := w.targets[abs]
	if !ok {
		return
	}
	if err := w.convert(abs, dest); err != nil {
		w.log.Errorf("%v", err)
		return
	}
	if dest == "" {
		w.log.Infof("Reconverted %s", abs)
	} else {
		w.log.Infof("Reconverted %s -> %s", abs, dest)
	}
}
