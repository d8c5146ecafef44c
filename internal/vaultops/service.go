// Package vaultops coordinates the scan, sync, and fix engines behind
// one service shared by the HTTP API and the MCP server.
package vaultops

import (
	"log/slog"

	"github.com/halvard/bifrost/internal/fix"
	"github.com/halvard/bifrost/internal/models"
	"github.com/halvard/bifrost/internal/reconcile"
	"github.com/halvard/bifrost/internal/scan"
	"github.com/halvard/bifrost/internal/storage"
)

// Options carries the vault-relative store locations and scanner
// configuration the service operates with.
type Options struct {
	LogseqConfig     string
	Bookmarks        string
	AppJSON          string
	DailyNotes       string
	PagesFolder      string
	JournalsFolder   string
	Checks           scan.Checks
	DefaultDirection reconcile.Direction
}

// Service coordinates scan, sync, and fix operations for the API and MCP layers.
// Each public method is stateless between invocations: operations build
// their own corpus snapshot and hold no state beyond the stores.
type Service struct {
	store  storage.Provider
	logger *slog.Logger
	opts   Options
}

// NewService creates a new vault operations service.
func NewService(store storage.Provider, logger *slog.Logger, opts Options) *Service {
	return &Service{store: store, logger: logger, opts: opts}
}

// DefaultDirection returns the configured sync direction.
func (s *Service) DefaultDirection() reconcile.Direction {
	return s.opts.DefaultDirection
}

// Scan runs the compatibility battery once.
func (s *Service) Scan() ([]models.Issue, error) {
	sc := scan.New(s.store, s.logger,
		s.opts.LogseqConfig, s.opts.AppJSON, s.opts.DailyNotes,
		s.opts.PagesFolder, s.opts.JournalsFolder, s.opts.Checks)
	return sc.Scan()
}

// ApplyFixes applies a user-selected subset of issues.
func (s *Service) ApplyFixes(issues []models.Issue, dryRun bool) fix.Result {
	return fix.New(s.store, s.logger, dryRun).Apply(issues)
}

// Sync runs one bookmark reconciliation pass.
func (s *Service) Sync(direction reconcile.Direction) (*reconcile.Report, error) {
	return s.reconciler().Sync(direction)
}

// ResolveAmbiguous commits a candidate choice for one ambiguous name.
func (s *Service) ResolveAmbiguous(name, path string) error {
	return s.reconciler().ResolveAmbiguous(name, path)
}

// CreateMissing creates and bookmarks an empty page for a missing name.
func (s *Service) CreateMissing(name string) (models.CorpusFile, error) {
	return s.reconciler().CreateMissing(name)
}

// CorpusSize returns the number of files and folders in the corpus
// snapshot.
func (s *Service) CorpusSize() (files, folders int, err error) {
	fs, err := s.store.List("")
	if err != nil {
		return 0, 0, err
	}
	dirs, err := s.store.ListFolders("")
	if err != nil {
		return 0, 0, err
	}
	return len(fs), len(dirs), nil
}

func (s *Service) reconciler() *reconcile.Reconciler {
	return reconcile.New(s.store, s.logger,
		s.opts.LogseqConfig, s.opts.Bookmarks, s.opts.PagesFolder)
}
