// Package pipeline runs every extraction on a document and writes the
// results to both storage backends.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tsawler/docextract"
	"github.com/tsawler/docextract/extract"
	"github.com/tsawler/docextract/model"
	"github.com/tsawler/docextract/storage"
)

// ErrFileTooLarge is returned for documents over Config.MaxFileSize.
var ErrFileTooLarge = errors.New("pipeline: file too large")

// Driver extracts documents and stores their artifacts. Each artifact is
// written to the file tree under its kind name and to the database under
// its kind label.
type Driver struct {
	cfg    Config
	files  *storage.FileStorage
	db     *storage.SQLStorage
	ownsDB bool
	runID  string
	logger *slog.Logger
}

// New creates a Driver that writes to the given backends. The caller keeps
// ownership of db.
func New(cfg Config, files *storage.FileStorage, db *storage.SQLStorage) *Driver {
	cfg.defaults()
	runID := uuid.NewString()
	return &Driver{
		cfg:    cfg,
		files:  files,
		db:     db,
		runID:  runID,
		logger: cfg.Logger.With("run_id", runID),
	}
}

// Open creates a Driver writing under cfg.OutDir and to the database at
// cfg.DBPath, which it opens and later closes.
func Open(cfg Config) (*Driver, error) {
	cfg.defaults()
	db, err := storage.OpenSQL(cfg.DBPath, storage.WithMkdirAll())
	if err != nil {
		return nil, err
	}
	d := New(cfg, storage.NewFileStorage(cfg.OutDir), db)
	d.ownsDB = true
	return d, nil
}

// RunID identifies this driver's run in its log records.
func (d *Driver) RunID() string { return d.runID }

// Close closes the database if the driver opened it.
func (d *Driver) Close() error {
	if d.ownsDB {
		return d.db.Close()
	}
	return nil
}

// Process extracts text, images, URLs and tables from path, in that
// order, then stores each result in the file tree and the database. Nothing
// is stored when an extraction fails.
func (d *Driver) Process(ctx context.Context, path string) error {
	e, err := docextract.ForPath(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", extract.ErrFileNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > d.cfg.MaxFileSize {
		return fmt.Errorf("%w: %s is %d bytes (max %d)", ErrFileTooLarge, path, info.Size(), d.cfg.MaxFileSize)
	}

	logger := d.logger.With("path", path, "format", e.Format())
	logger.Debug("loading document")

	if err := e.Load(path); err != nil {
		return err
	}
	defer e.Close()

	type result struct {
		kind     model.Kind
		artifact any
	}
	results := make([]result, 0, len(model.Kinds()))
	for _, kind := range model.Kinds() {
		artifact, count, err := extractKind(e, kind)
		if err != nil {
			return fmt.Errorf("extract %s from %s: %w", kind, path, err)
		}
		logger.Debug("extracted artifact", "kind", kind, "count", count)
		results = append(results, result{kind, artifact})
	}

	source := filepath.Base(path)
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.files.Store(r.artifact, source, r.kind); err != nil {
			return fmt.Errorf("store %s for %s: %w", r.kind, path, err)
		}
		if err := d.db.Store(ctx, r.kind.Label(), r.artifact); err != nil {
			return fmt.Errorf("store %s for %s: %w", r.kind.Label(), path, err)
		}
	}

	logger.Info("processed document")
	return nil
}

// ProcessAll processes each path in turn. A failing document is logged
// and skipped; the returned error joins every failure.
func (d *Driver) ProcessAll(ctx context.Context, paths []string) error {
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := d.Process(ctx, path); err != nil {
			d.logger.Error("failed to process document", "path", path, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// extractKind runs the extraction for kind and returns the result with
// its item count: characters for text, entries otherwise.
func extractKind(e extract.Extractor, kind model.Kind) (any, int, error) {
	switch kind {
	case model.KindText:
		text, err := e.ExtractText()
		return text, len(text), err
	case model.KindImage:
		images, err := e.ExtractImages()
		return images, len(images), err
	case model.KindURL:
		links, err := e.ExtractURLs()
		return links, len(links), err
	case model.KindTable:
		tables, err := e.ExtractTables()
		return tables, len(tables), err
	}
	return nil, 0, fmt.Errorf("unknown kind %v", kind)
}
