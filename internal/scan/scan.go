// Package scan walks the vault and its configuration, applying a fixed
// battery of structural-compatibility checks.
package scan

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/halvard/bifrost/internal/logseq"
	"github.com/halvard/bifrost/internal/models"
	"github.com/halvard/bifrost/internal/obsidian"
	"github.com/halvard/bifrost/internal/parser"
	"github.com/halvard/bifrost/internal/storage"
)

// NamespaceDelim separates hierarchy segments inside a Logseq page
// filename.
const NamespaceDelim = "___"

// Checks toggles each scanner rule individually.
type Checks struct {
	NewFileFolder   bool `yaml:"new_file_folder"`
	NewFileLocation bool `yaml:"new_file_location"`
	DailyFolder     bool `yaml:"daily_folder"`
	DailyFormat     bool `yaml:"daily_format"`
	Namespace       bool `yaml:"namespace"`
	TaskMarker      bool `yaml:"task_marker"`
}

// AllChecks enables every rule.
func AllChecks() Checks {
	return Checks{
		NewFileFolder:   true,
		NewFileLocation: true,
		DailyFolder:     true,
		DailyFormat:     true,
		Namespace:       true,
		TaskMarker:      true,
	}
}

// Scanner runs the compatibility battery over one vault. Checks are
// independent: none depends on another's output.
type Scanner struct {
	store  storage.Provider
	logger *slog.Logger

	logseqConfigPath string
	appJSONPath      string
	dailyNotesPath   string
	pagesFolder      string
	journalsFolder   string
	checks           Checks
}

// New creates a Scanner. All store paths are vault-relative.
func New(store storage.Provider, logger *slog.Logger, logseqConfigPath, appJSONPath, dailyNotesPath, pagesFolder, journalsFolder string, checks Checks) *Scanner {
	return &Scanner{
		store:            store,
		logger:           logger,
		logseqConfigPath: logseqConfigPath,
		appJSONPath:      appJSONPath,
		dailyNotesPath:   dailyNotesPath,
		pagesFolder:      pagesFolder,
		journalsFolder:   journalsFolder,
		checks:           checks,
	}
}

// Scan produces issues in a stable order: settings issues first in the
// fixed check order, then per corpus file in enumeration order, with
// Namespace before TaskMarker for a given file. An empty (non-nil)
// result means the vault is clean, a distinct outcome from "not run".
func (s *Scanner) Scan() ([]models.Issue, error) {
	issues := []models.Issue{}
	issues = append(issues, s.settingsIssues()...)

	files, err := s.store.List("")
	if err != nil {
		return nil, fmt.Errorf("scan: list corpus: %w", err)
	}
	for _, f := range files {
		if s.checks.Namespace {
			if issue, ok := s.namespaceIssue(f); ok {
				issues = append(issues, issue)
			}
		}
		if s.checks.TaskMarker {
			if issue, ok := s.taskMarkerIssue(f); ok {
				issues = append(issues, issue)
			}
		}
	}

	s.logger.Info("scan: complete", slog.Int("issues", len(issues)))
	return issues, nil
}

// settingsIssues runs the four settings checks against the Obsidian
// config files. Unreadable or unparsable sources degrade silently to
// absent values, which still count as mismatches against the expected
// defaults.
func (s *Scanner) settingsIssues() []models.Issue {
	var issues []models.Issue
	app := obsidian.ReadSettings(s.store, s.appJSONPath)
	daily := obsidian.ReadSettings(s.store, s.dailyNotesPath)

	if s.checks.NewFileFolder {
		got := obsidian.StringSetting(app, obsidian.KeyNewFileFolderPath)
		if got != s.pagesFolder {
			issues = append(issues, settingsIssue(models.IssueSettings,
				fmt.Sprintf("new-file folder is %q, expected %q", got, s.pagesFolder),
				fmt.Sprintf("set %s to %q", obsidian.KeyNewFileFolderPath, s.pagesFolder),
				s.appJSONPath, obsidian.KeyNewFileFolderPath, s.pagesFolder))
		}
	}
	if s.checks.NewFileLocation {
		got := obsidian.StringSetting(app, obsidian.KeyNewFileLocation)
		if got != obsidian.NewFileLocationFolder {
			issues = append(issues, settingsIssue(models.IssueSettings,
				fmt.Sprintf("new-file location mode is %q, expected %q", got, obsidian.NewFileLocationFolder),
				fmt.Sprintf("set %s to %q", obsidian.KeyNewFileLocation, obsidian.NewFileLocationFolder),
				s.appJSONPath, obsidian.KeyNewFileLocation, obsidian.NewFileLocationFolder))
		}
	}
	if s.checks.DailyFolder {
		got := obsidian.StringSetting(daily, obsidian.KeyDailyFolder)
		if got != s.journalsFolder {
			issues = append(issues, settingsIssue(models.IssueSettings,
				fmt.Sprintf("daily-note folder is %q, expected %q", got, s.journalsFolder),
				fmt.Sprintf("set %s to %q", obsidian.KeyDailyFolder, s.journalsFolder),
				s.dailyNotesPath, obsidian.KeyDailyFolder, s.journalsFolder))
		}
	}
	if s.checks.DailyFormat {
		expected := s.expectedDailyFormat()
		got := obsidian.StringSetting(daily, obsidian.KeyDailyFormat)
		if got != expected {
			issues = append(issues, settingsIssue(models.IssueDate,
				fmt.Sprintf("daily-note date format is %q, expected %q", got, expected),
				fmt.Sprintf("set %s to %q", obsidian.KeyDailyFormat, expected),
				s.dailyNotesPath, obsidian.KeyDailyFormat, expected))
		}
	}
	return issues
}

// expectedDailyFormat derives the Obsidian format from the Logseq
// journal title format, falling back to the default when the config
// cannot be read.
func (s *Scanner) expectedDailyFormat() string {
	data, err := s.store.Read(s.logseqConfigPath)
	if err != nil {
		return DefaultDailyFormat
	}
	return TranslateDateFormat(logseq.PageTitleFormat(string(data)))
}

// namespaceIssue flags a pages-folder file whose basename encodes a
// triple-underscore hierarchy.
func (s *Scanner) namespaceIssue(f models.CorpusFile) (models.Issue, bool) {
	if !strings.HasPrefix(f.Path, s.pagesFolder+"/") {
		return models.Issue{}, false
	}
	if strings.HasPrefix(f.Basename, ".") || !strings.Contains(f.Basename, NamespaceDelim) {
		return models.Issue{}, false
	}
	segments := strings.Split(f.Basename, NamespaceDelim)
	final := segments[len(segments)-1]
	hierarchy := strings.Join(segments[:len(segments)-1], "/")
	newPath := s.pagesFolder + "/" + final + ".md"

	file := f
	return models.Issue{
		Type:         models.IssueNamespace,
		File:         &file,
		Description:  fmt.Sprintf("%s encodes namespace %q in its filename", f.Path, hierarchy),
		SuggestedFix: fmt.Sprintf("rename to %s and record %q as tags", newPath, hierarchy),
		Fix: &models.Fix{
			Kind:          models.FixNamespaceRename,
			NewPath:       newPath,
			NamespacePath: hierarchy,
			OriginalName:  f.Basename,
		},
	}, true
}

// taskMarkerIssue flags a file containing Logseq task markers. The fix
// carries the original content; the substitution is computed at apply
// time.
func (s *Scanner) taskMarkerIssue(f models.CorpusFile) (models.Issue, bool) {
	data, err := s.store.Read(f.Path)
	if err != nil {
		s.logger.Warn("scan: read failed", slog.String("path", f.Path), slog.String("error", err.Error()))
		return models.Issue{}, false
	}
	content := string(data)
	if !parser.HasTaskMarker(content) {
		return models.Issue{}, false
	}
	file := f
	return models.Issue{
		Type:         models.IssueTaskMarker,
		File:         &file,
		Description:  fmt.Sprintf("%s uses Logseq task markers", f.Path),
		SuggestedFix: "convert markers to checkbox task syntax",
		Fix: &models.Fix{
			Kind:    models.FixContentReplace,
			Content: content,
		},
	}, true
}

func settingsIssue(typ models.IssueType, description, suggested, target, key, value string) models.Issue {
	return models.Issue{
		Type:         typ,
		Description:  description,
		SuggestedFix: suggested,
		Fix: &models.Fix{
			Kind:   models.FixSettingsUpdate,
			Target: target,
			Key:    key,
			Value:  value,
		},
	}
}
