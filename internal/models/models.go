// Package models defines the domain types for Bifrost.
package models

// CorpusFile identifies one managed document in the vault.
// A path uniquely identifies a file; a basename may be shared by
// several files at different paths.
type CorpusFile struct {
	Path     string `json:"path"`
	Basename string `json:"basename"`
}

// IssueType classifies a compatibility issue found by the scanner.
type IssueType string

const (
	IssueDate       IssueType = "date"
	IssueNamespace  IssueType = "namespace"
	IssueTaskMarker IssueType = "task_marker"
	IssueSettings   IssueType = "settings"
)

// FixKind discriminates the Fix variants.
type FixKind string

const (
	FixRename          FixKind = "rename"
	FixNamespaceRename FixKind = "namespace_rename"
	FixContentReplace  FixKind = "content_replace"
	FixSettingsUpdate  FixKind = "settings_update"
)

// Fix is the proposed remediation attached to an Issue. Exactly the
// fields for its Kind are populated.
type Fix struct {
	Kind FixKind `json:"kind"`

	// Rename / NamespaceRename.
	NewPath string `json:"new_path,omitempty"`

	// NamespaceRename only.
	NamespacePath string `json:"namespace_path,omitempty"`
	OriginalName  string `json:"original_name,omitempty"`

	// ContentReplace: the original content as seen at scan time. The
	// actual substitution is computed at apply time.
	Content string `json:"content,omitempty"`

	// SettingsUpdate: target config file (vault-relative), one key, one value.
	Target string `json:"target,omitempty"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Issue is one compatibility finding. Issues are ephemeral: produced by
// a single scan, optionally selected by the user, consumed once by the
// applicator, never persisted.
type Issue struct {
	Type         IssueType   `json:"type"`
	File         *CorpusFile `json:"file,omitempty"`
	Description  string      `json:"description"`
	SuggestedFix string      `json:"suggested_fix"`
	// Fix is nil when the issue was detected but is not auto-fixable.
	Fix *Fix `json:"fix,omitempty"`
}
