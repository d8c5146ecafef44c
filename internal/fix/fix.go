// Package fix applies user-approved compatibility fixes to the vault.
package fix

import (
	"fmt"
	"log/slog"

	"github.com/halvard/bifrost/internal/models"
	"github.com/halvard/bifrost/internal/obsidian"
	"github.com/halvard/bifrost/internal/parser"
	"github.com/halvard/bifrost/internal/storage"
)

// Result aggregates one apply pass. Counts are reported once at the
// end, not per item.
type Result struct {
	Renames         int `json:"renames"`
	ContentFixes    int `json:"content_fixes"`
	SettingsUpdates int `json:"settings_updates"`
	Skipped         int `json:"skipped"`
	Failed          int `json:"failed"`
}

// Applicator consumes a selected subset of one scan's issues. Issues
// are processed in presentation order; one item's failure is logged and
// does not stop the rest.
type Applicator struct {
	store  storage.Provider
	logger *slog.Logger
	dryRun bool
}

// New creates an Applicator. With dryRun set it classifies and counts
// but refuses every write.
func New(store storage.Provider, logger *slog.Logger, dryRun bool) *Applicator {
	return &Applicator{store: store, logger: logger, dryRun: dryRun}
}

// Apply processes the selected issues against the in-memory snapshot
// they came from; nothing is re-validated against a fresh scan.
func (a *Applicator) Apply(issues []models.Issue) Result {
	var res Result
	for _, issue := range issues {
		if issue.Fix == nil {
			res.Skipped++
			continue
		}
		if err := a.applyOne(issue); err != nil {
			res.Failed++
			a.logger.Warn("fix: apply failed",
				slog.String("type", string(issue.Type)),
				slog.String("kind", string(issue.Fix.Kind)),
				slog.String("error", err.Error()))
			continue
		}
		switch issue.Fix.Kind {
		case models.FixRename, models.FixNamespaceRename:
			res.Renames++
		case models.FixContentReplace:
			res.ContentFixes++
		case models.FixSettingsUpdate:
			res.SettingsUpdates++
		}
	}
	a.logger.Info("fix: apply complete",
		slog.Bool("dry_run", a.dryRun),
		slog.Int("renames", res.Renames),
		slog.Int("content_fixes", res.ContentFixes),
		slog.Int("settings_updates", res.SettingsUpdates),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed))
	return res
}

func (a *Applicator) applyOne(issue models.Issue) error {
	f := issue.Fix
	switch f.Kind {
	case models.FixRename:
		if issue.File == nil {
			return fmt.Errorf("fix: rename without file")
		}
		if a.dryRun {
			return nil
		}
		return a.store.Rename(issue.File.Path, f.NewPath)

	case models.FixNamespaceRename:
		if issue.File == nil {
			return fmt.Errorf("fix: namespace rename without file")
		}
		if a.dryRun {
			return nil
		}
		// Content mutation precedes the rename so the tags line is
		// written while the file still exists at its old path.
		data, err := a.store.Read(issue.File.Path)
		if err != nil {
			return err
		}
		updated := parser.InsertAfterFrontmatter(string(data), "tags: "+f.NamespacePath)
		if err := a.store.Write(issue.File.Path, []byte(updated)); err != nil {
			return err
		}
		return a.store.Rename(issue.File.Path, f.NewPath)

	case models.FixContentReplace:
		if issue.File == nil {
			return fmt.Errorf("fix: content replace without file")
		}
		if a.dryRun {
			return nil
		}
		// The replacement is re-derived deterministically from the
		// marker vocabulary at apply time.
		return a.store.Write(issue.File.Path, []byte(parser.RewriteTaskMarkers(f.Content)))

	case models.FixSettingsUpdate:
		if a.dryRun {
			return nil
		}
		return obsidian.UpdateSetting(a.store, f.Target, f.Key, f.Value)
	}
	return fmt.Errorf("fix: unknown fix kind %q", f.Kind)
}
