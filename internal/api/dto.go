package api

import (
	"github.com/halvard/bifrost/internal/fix"
	"github.com/halvard/bifrost/internal/models"
	"github.com/halvard/bifrost/internal/reconcile"
)

// ScanResponse wraps one scan's findings. Clean distinguishes "no
// issues found" from a scan that never ran.
type ScanResponse struct {
	Issues []models.Issue `json:"issues"`
	Clean  bool           `json:"clean"`
}

// FixRequest carries the user-selected issues to apply.
type FixRequest struct {
	Issues []models.Issue `json:"issues"`
	DryRun bool           `json:"dry_run"`
}

// FixResponse is the aggregate apply outcome.
type FixResponse = fix.Result

// SyncRequest selects the sync direction; empty means the configured
// default.
type SyncRequest struct {
	Direction string `json:"direction"`
}

// SyncResponse is the reconciliation report.
type SyncResponse = reconcile.Report

// ResolveRequest commits one candidate choice for an ambiguous name.
type ResolveRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// CreateMissingRequest creates an empty page for an unresolved name.
type CreateMissingRequest struct {
	Name string `json:"name"`
}

// StatusResponse reports serve-mode health details.
type StatusResponse struct {
	Files   int `json:"files"`
	Folders int `json:"folders"`
}
