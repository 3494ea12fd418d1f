package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/lritter14/filing-rag/internal/storage"
	storagemocks "github.com/lritter14/filing-rag/internal/storage/mocks"
	"github.com/lritter14/filing-rag/internal/store"
)

func TestFilingsHandler_ListsArtifactStatus(t *testing.T) {
	fs := store.NewFileStore(t.TempDir())
	if err := fs.WriteText(testKey, "Item 1. Business"); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	h := NewFilingsHandler(fs)

	w := getPath(t, h, "/api/filings")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp FilingsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Filings) != 1 {
		t.Fatalf("filings = %d, want 1", len(resp.Filings))
	}
	f := resp.Filings[0]
	if f.Ticker != "NVDA" || f.Form != "10-K" || f.Filed != "2024-11-01" {
		t.Errorf("filing = %+v", f)
	}
	if !f.HasText || f.Sections != 0 || f.Chunks != 0 || f.Embeddings != 0 {
		t.Errorf("artifact status = %+v, want text only", f)
	}
}

func TestFilingsHandler_EmptyRoot(t *testing.T) {
	h := NewFilingsHandler(store.NewFileStore(t.TempDir()))
	w := getPath(t, h, "/api/filings")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp FilingsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Filings) != 0 {
		t.Errorf("filings = %d, want 0", len(resp.Filings))
	}
}

func TestRunsHandler_Recent(t *testing.T) {
	ctrl := gomock.NewController(t)
	runs := storagemocks.NewMockRunStore(ctrl)
	runs.EXPECT().ListRecent(gomock.Any(), 20).
		Return([]*storage.RunRecord{{ID: "run-1", Ticker: "NVDA"}}, nil)

	h := NewRunsHandler(runs)
	w := getPath(t, h, "/api/runs")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp RunsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Runs) != 1 || resp.Runs[0].ID != "run-1" {
		t.Errorf("runs = %+v", resp.Runs)
	}
}

func TestRunsHandler_FiledScoped(t *testing.T) {
	ctrl := gomock.NewController(t)
	runs := storagemocks.NewMockRunStore(ctrl)
	runs.EXPECT().ListByFiling(gomock.Any(), "NVDA", "10-K", "2024-11-01", 5).
		Return(nil, nil)

	h := NewRunsHandler(runs)
	w := getPath(t, h, "/api/runs?ticker=NVDA&form=10-K&filed=2024-11-01&limit=5")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp RunsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Runs == nil || len(resp.Runs) != 0 {
		t.Errorf("runs = %#v, want empty non-nil slice", resp.Runs)
	}
}

func TestRunsHandler_LimitClamped(t *testing.T) {
	ctrl := gomock.NewController(t)
	runs := storagemocks.NewMockRunStore(ctrl)
	// Out-of-range limits fall back to the default.
	runs.EXPECT().ListRecent(gomock.Any(), 20).Return(nil, nil)

	h := NewRunsHandler(runs)
	if w := getPath(t, h, "/api/runs?limit=9999"); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
