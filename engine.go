package resxsweep

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jward/resxsweep/internal/resx"
	"github.com/jward/resxsweep/internal/store"
	"github.com/jward/resxsweep/internal/xmlfile"
)

// Engine runs scans and deletions. It owns the optional SQLite journal and
// an in-flight flag that rejects a second operation while one is running.
// Scans and deletions are sequential and I/O bound; callers with an
// interactive thread should run them on another goroutine.
type Engine struct {
	store       *store.Store // nil when journaling is disabled
	journalPath string

	logger   *slog.Logger
	progress func(status string)
	busy     atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithProgress registers a callback that receives human-readable status
// lines ("Finding unused keys...") as an operation advances.
func WithProgress(fn func(status string)) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// WithJournal records scans and deletions in a SQLite database at dbPath.
// Deletions are journaled stage by stage before any store is modified, so
// an interrupted run can be reported precisely afterwards.
func WithJournal(dbPath string) Option {
	return func(e *Engine) {
		e.journalPath = dbPath
	}
}

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.journalPath != "" {
		s, err := store.NewStore(e.journalPath)
		if err != nil {
			return nil, fmt.Errorf("resxsweep: open journal: %w", err)
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, fmt.Errorf("resxsweep: migrate journal: %w", err)
		}
		e.store = s
	}
	return e, nil
}

// Close releases the journal, if any.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Journal returns the journal store, or nil when journaling is disabled.
func (e *Engine) Journal() *Journal {
	return e.store
}

// Busy reports whether a scan or deletion is in flight.
func (e *Engine) Busy() bool {
	return e.busy.Load()
}

func (e *Engine) begin() error {
	if !e.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (e *Engine) end() {
	e.busy.Store(false)
}

// status reports a progress line to the callback and the log.
func (e *Engine) status(ctx context.Context, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if e.progress != nil {
		e.progress(msg)
	}
	e.logger.InfoContext(ctx, msg)
}

// scanResult is everything one pass of the scan pipeline produces.
type scanResult struct {
	cfg        ScanConfig
	keys       KeySet
	candidates int
	records    []UnusedRecord
	fileCount  int
}

// Scan loads the manifest, builds the candidate keys, enumerates the source
// files, removes every referenced key and returns a Session holding the
// unused resources.
func (e *Engine) Scan(ctx context.Context, cfg ScanConfig) (*Session, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	id, res, err := e.scan(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &Session{engine: e, scanID: id}
	s.apply(res)
	return s, nil
}

// scan runs the pipeline and journals it.
func (e *Engine) scan(ctx context.Context, cfg ScanConfig) (string, *scanResult, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return "", nil, err
	}

	started := time.Now()
	id := e.journalScanStart(ctx, cfg, started)

	res, err := e.runScan(ctx, cfg)
	if err != nil {
		e.logger.ErrorContext(ctx, "scan failed", "manifest", cfg.ManifestPath, "error", err)
		e.journalScanFinish(ctx, id, nil, err)
		return "", nil, err
	}
	e.logger.DebugContext(ctx, "scan finished",
		"scan_id", id,
		"files", res.fileCount,
		"unused", len(res.records),
		"elapsed", time.Since(started).Round(time.Millisecond),
	)
	e.journalScanFinish(ctx, id, res, nil)
	return id, res, nil
}

func (e *Engine) runScan(ctx context.Context, cfg ScanConfig) (*scanResult, error) {
	e.status(ctx, "Populating search list...")
	m, err := loadManifest(cfg.ManifestPath)
	if err != nil {
		return nil, err
	}
	keys, err := BuildKeySet(m, cfg.ExcludePrefixes)
	if err != nil {
		return nil, err
	}
	candidates := keys.Len()

	e.status(ctx, "Populating file list...")
	files, err := ListFiles(cfg.ProjectRoot, cfg.Extensions, cfg.SkipDirs)
	if err != nil {
		return nil, err
	}
	e.logger.DebugContext(ctx, "source files listed",
		"root", cfg.ProjectRoot,
		"extensions", strings.Join(cfg.Extensions, ","),
		"files", len(files),
		"candidates", candidates,
	)

	e.status(ctx, "Finding unused keys...")
	if err := ScanReferences(keys, files, cfg.ReferenceFormats, cfg.Match); err != nil {
		return nil, err
	}

	e.status(ctx, "Getting resource values...")
	records, err := BuildRecords(m, keys)
	if err != nil {
		return nil, err
	}

	e.status(ctx, "Found %d unused resource(s).", len(records))
	return &scanResult{
		cfg:        cfg,
		keys:       keys,
		candidates: candidates,
		records:    records,
		fileCount:  len(files),
	}, nil
}

// loadManifest reads the resource manifest for a scan. Unreadable files are
// a *FileError; malformed XML is a *ParseError.
func loadManifest(path string) (*resx.Manifest, error) {
	m, err := resx.Load(path)
	if err != nil {
		if xmlfile.IsSyntax(err) {
			return nil, &ParseError{Path: path, Msg: "invalid resource file", Err: err}
		}
		return nil, &FileError{Op: "load resource file", Path: path, Err: err}
	}
	return m, nil
}
