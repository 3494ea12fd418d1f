package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func testDB(t *testing.T) *RunRepo {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewRunRepo(db)
}

func newRun(ticker string, start, embedded, total int) *RunRecord {
	return &RunRecord{
		ID:         uuid.New().String(),
		Ticker:     ticker,
		Form:       "10-K",
		Filed:      "2024-11-01",
		StartIndex: start,
		Embedded:   embedded,
		Total:      total,
		DurationMs: 120,
	}
}

func TestRunRepo_InsertAndListByFiling(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	if err := repo.Insert(ctx, newRun("NVDA", 0, 5, 12)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := repo.Insert(ctx, newRun("NVDA", 5, 5, 12)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := repo.Insert(ctx, newRun("AAPL", 0, 3, 3)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	runs, err := repo.ListByFiling(ctx, "NVDA", "10-K", "2024-11-01", 10)
	if err != nil {
		t.Fatalf("ListByFiling() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListByFiling() = %d runs, want 2", len(runs))
	}
	for _, run := range runs {
		if run.Ticker != "NVDA" {
			t.Errorf("run ticker = %q, want NVDA", run.Ticker)
		}
	}
}

func TestRunRepo_ListRecent_Limit(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.Insert(ctx, newRun("NVDA", i*2, 2, 10)); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	runs, err := repo.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("ListRecent() = %d runs, want 3", len(runs))
	}
}

func TestRunRepo_ListByFiling_Empty(t *testing.T) {
	repo := testDB(t)

	runs, err := repo.ListByFiling(context.Background(), "MSFT", "10-K", "2023-07-27", 10)
	if err != nil {
		t.Fatalf("ListByFiling() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("ListByFiling() = %d runs, want 0", len(runs))
	}
}
