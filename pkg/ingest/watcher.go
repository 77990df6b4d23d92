package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher keeps a directory of documents in sync with the index: files are
// re-ingested on create and write, and removed from the index on delete.
type Watcher struct {
	ingestor *Ingestor
	dir      string
	logger   *zap.Logger
}

// NewWatcher creates a Watcher over one directory.
func NewWatcher(ingestor *Ingestor, dir string, logger *zap.Logger) *Watcher {
	return &Watcher{ingestor: ingestor, dir: dir, logger: logger}
}

// Run watches until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.logger.Info("watching directory", zap.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		if _, err := w.ingestor.IngestFile(ctx, event.Name); err != nil {
			if errors.Is(err, ErrUnsupportedType) {
				return
			}
			w.logger.Warn("re-ingest failed",
				zap.String("path", event.Name),
				zap.Error(err),
			)
			return
		}
		w.logger.Info("re-ingested on change", zap.String("path", event.Name))
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		w.removeByName(ctx, filepath.Base(event.Name))
	}
}

// removeByName drops the index entries of a document whose backing file
// disappeared.
func (w *Watcher) removeByName(ctx context.Context, name string) {
	if !supportedName(name) {
		return
	}
	docs, err := w.ingestor.store.Docs(ctx)
	if err != nil {
		w.logger.Warn("listing documents", zap.Error(err))
		return
	}
	for _, d := range docs {
		if d.DocName != name {
			continue
		}
		if err := w.ingestor.store.DeleteDoc(ctx, d.DocID); err != nil {
			w.logger.Warn("removing document",
				zap.String("doc_id", d.DocID),
				zap.Error(err),
			)
			return
		}
		w.logger.Info("removed document for deleted file",
			zap.String("doc_name", name),
			zap.String("doc_id", d.DocID),
		)
		return
	}
}

func supportedName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return true
	}
	return false
}
