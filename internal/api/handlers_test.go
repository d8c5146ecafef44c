package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/halvard/bifrost/internal/reconcile"
	"github.com/halvard/bifrost/internal/sse"
	"github.com/halvard/bifrost/internal/scan"
	"github.com/halvard/bifrost/internal/storage"
	"github.com/halvard/bifrost/internal/testutil"
	"github.com/halvard/bifrost/internal/vaultops"
)

func newTestRouter(t *testing.T) (storage.Provider, http.Handler) {
	t.Helper()
	_, store := testutil.TestVault(t)
	svc := vaultops.NewService(store, testutil.Logger(), vaultops.Options{
		LogseqConfig:     "logseq/config.edn",
		Bookmarks:        ".obsidian/bookmarks.json",
		AppJSON:          ".obsidian/app.json",
		DailyNotes:       ".obsidian/daily-notes.json",
		PagesFolder:      "pages",
		JournalsFolder:   "journals",
		Checks:           scan.AllChecks(),
		DefaultDirection: reconcile.Both,
	})
	return store, NewRouter(svc, false, "", nil)
}

func mustWrite(t *testing.T, store storage.Provider, path, content string) {
	t.Helper()
	if err := store.Write(path, []byte(content)); err != nil {
		t.Fatal(err)
	}
}

func writeConformingVault(t *testing.T, store storage.Provider) {
	t.Helper()
	mustWrite(t, store, "logseq/config.edn", `{:favorites []}`)
	mustWrite(t, store, ".obsidian/app.json", `{"newFileLocation":"folder","newFileFolderPath":"pages"}`)
	mustWrite(t, store, ".obsidian/daily-notes.json", `{"folder":"journals","format":"YYYY-MM-DD"}`)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestScanEndpoint_CleanVault(t *testing.T) {
	store, router := newTestRouter(t)
	writeConformingVault(t, store)

	rec := doJSON(t, router, http.MethodGet, "/scan", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp ScanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Clean || len(resp.Issues) != 0 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestScanEndpoint_ReportsIssues(t *testing.T) {
	store, router := newTestRouter(t)
	writeConformingVault(t, store)
	mustWrite(t, store, "pages/tasks.md", "TODO refill\n")

	rec := doJSON(t, router, http.MethodGet, "/scan", "")
	var resp ScanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Clean || len(resp.Issues) != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestFixEndpoint_AppliesScannedIssues(t *testing.T) {
	store, router := newTestRouter(t)
	writeConformingVault(t, store)
	mustWrite(t, store, "pages/tasks.md", "TODO refill\n")

	scanRec := doJSON(t, router, http.MethodGet, "/scan", "")
	var scanResp ScanResponse
	if err := json.Unmarshal(scanRec.Body.Bytes(), &scanResp); err != nil {
		t.Fatal(err)
	}

	body, err := json.Marshal(FixRequest{Issues: scanResp.Issues})
	if err != nil {
		t.Fatal(err)
	}
	rec := doJSON(t, router, http.MethodPost, "/fix", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var res FixResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.ContentFixes != 1 || res.Failed != 0 {
		t.Errorf("result = %+v", res)
	}
	data, err := store.Read("pages/tasks.md")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "- [ ] refill\n" {
		t.Errorf("content = %q", data)
	}
}

func TestFixEndpoint_BadBody(t *testing.T) {
	_, router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/fix", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSyncEndpoint_DefaultDirection(t *testing.T) {
	store, router := newTestRouter(t)
	writeConformingVault(t, store)
	mustWrite(t, store, "logseq/config.edn", `{:favorites ["alpha"]}`)
	mustWrite(t, store, "pages/alpha.md", "a\n")

	rec := doJSON(t, router, http.MethodPost, "/sync", "{}")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var report SyncResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Direction != reconcile.Both || report.BookmarksAdded != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestSyncEndpoint_UnknownDirection(t *testing.T) {
	_, router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/sync", `{"direction":"sideways"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSyncEndpoint_CorruptBookmarksIs422(t *testing.T) {
	store, router := newTestRouter(t)
	writeConformingVault(t, store)
	mustWrite(t, store, ".obsidian/bookmarks.json", "{broken")

	rec := doJSON(t, router, http.MethodPost, "/sync", "{}")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestCreateEndpoint(t *testing.T) {
	store, router := newTestRouter(t)
	writeConformingVault(t, store)

	rec := doJSON(t, router, http.MethodPost, "/sync/create", `{"name":"ghost"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !store.Exists("pages/ghost.md") {
		t.Error("page not created")
	}

	rec = doJSON(t, router, http.MethodPost, "/sync/create", `{"name":"ghost"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/sync/create", `{"name":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d", rec.Code)
	}
}

func TestResolveEndpoint(t *testing.T) {
	store, router := newTestRouter(t)
	writeConformingVault(t, store)
	mustWrite(t, store, "pages/dup.md", "x\n")

	rec := doJSON(t, router, http.MethodPost, "/sync/resolve", `{"name":"dup","path":"pages/dup.md"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, router, http.MethodPost, "/sync/resolve", `{"name":"dup"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing path status = %d", rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	store, router := newTestRouter(t)
	mustWrite(t, store, "pages/a.md", "x")
	mustWrite(t, store, "pages/b.md", "y")

	rec := doJSON(t, router, http.MethodGet, "/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Files != 2 {
		t.Errorf("files = %d, want 2", resp.Files)
	}
	if resp.Folders != 1 {
		t.Errorf("folders = %d, want 1", resp.Folders)
	}
}

func TestScanEndpoint_PublishesOutcomeEvent(t *testing.T) {
	_, store := testutil.TestVault(t)
	svc := vaultops.NewService(store, testutil.Logger(), vaultops.Options{
		LogseqConfig: "logseq/config.edn",
		AppJSON:      ".obsidian/app.json",
		DailyNotes:   ".obsidian/daily-notes.json",
		PagesFolder:  "pages", JournalsFolder: "journals",
		Checks: scan.AllChecks(), DefaultDirection: reconcile.Both,
	})
	broker := sse.NewBroker(time.Second)
	defer broker.Close()
	router := NewRouter(svc, false, "", broker)

	ch := broker.Subscribe()
	doJSON(t, router, http.MethodGet, "/scan", "")

	select {
	case msg := <-ch:
		if !strings.Contains(string(msg), "event: scan.completed") {
			t.Errorf("msg = %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no scan.completed event broadcast")
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, store := testutil.TestVault(t)
	svc := vaultops.NewService(store, testutil.Logger(), vaultops.Options{
		PagesFolder: "pages", DefaultDirection: reconcile.Both,
	})
	router := NewRouter(svc, true, "secret", nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token status = %d", rec.Code)
	}
}
