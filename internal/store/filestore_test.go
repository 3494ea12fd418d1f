package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lritter14/filing-rag/internal/chunker"
	"github.com/lritter14/filing-rag/internal/filing"
)

var testKey = filing.NewKey("NVDA", "10-K", "2024-11-01")

func testChunk(text string, start int) chunker.Chunk {
	return chunker.Chunk{
		Text: text,
		Metadata: chunker.Metadata{
			Ticker:    "NVDA",
			Form:      "10-K",
			Filed:     "2024-11-01",
			Section:   "Item 1A: Risk Factors",
			CharStart: start,
			CharEnd:   start + len(text),
		},
	}
}

func TestFileStore_TextRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if _, err := s.ReadText(testKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadText() before write error = %v, want ErrNotFound", err)
	}

	want := "Item 1. Business\nWe design chips.\n"
	if err := s.WriteText(testKey, want); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	got, err := s.ReadText(testKey)
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if got != want {
		t.Errorf("ReadText() = %q, want %q", got, want)
	}
}

func TestFileStore_Layout(t *testing.T) {
	root := t.TempDir()
	s := NewFileStore(root)

	if err := s.WriteText(testKey, "text"); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}

	want := filepath.Join(root, "NVDA", "10-K_2024-11-01", "text.txt")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected artifact at %s: %v", want, err)
	}
}

func TestFileStore_ChunksRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())

	chunks := []chunker.Chunk{
		testChunk(strings.Repeat("a", 150), 0),
		testChunk(strings.Repeat("b", 150), 800),
		testChunk(strings.Repeat("c", 120), 1600),
	}
	if err := s.WriteChunks(testKey, chunks); err != nil {
		t.Fatalf("WriteChunks() error = %v", err)
	}

	got, err := s.ReadChunks(testKey)
	if err != nil {
		t.Fatalf("ReadChunks() error = %v", err)
	}
	if len(got) != len(chunks) {
		t.Fatalf("ReadChunks() = %d chunks, want %d", len(got), len(chunks))
	}
	for i := range chunks {
		if got[i] != chunks[i] {
			t.Errorf("chunk %d = %+v, want %+v", i, got[i], chunks[i])
		}
	}
}

func TestFileStore_ChunksAreJSONL(t *testing.T) {
	root := t.TempDir()
	s := NewFileStore(root)

	chunks := []chunker.Chunk{
		testChunk(strings.Repeat("a", 150), 0),
		testChunk(strings.Repeat("b", 150), 800),
	}
	if err := s.WriteChunks(testKey, chunks); err != nil {
		t.Fatalf("WriteChunks() error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(root, "NVDA", "10-K_2024-11-01", "chunks.jsonl"))
	if err != nil {
		t.Fatalf("read chunks.jsonl: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("chunks.jsonl has %d lines, want 2", len(lines))
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, `{"text":`) {
			t.Errorf("line %d is not a chunk object: %q", i, line)
		}
	}
}

func TestFileStore_ReadChunks_NotFound(t *testing.T) {
	s := NewFileStore(t.TempDir())
	if _, err := s.ReadChunks(testKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadChunks() error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_EmbeddingsRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if _, err := s.ReadEmbeddings(testKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadEmbeddings() error = %v, want ErrNotFound", err)
	}

	existing, err := s.ExistingEmbeddings(testKey)
	if err != nil {
		t.Fatalf("ExistingEmbeddings() error = %v", err)
	}
	if len(existing) != 0 {
		t.Errorf("ExistingEmbeddings() = %d records, want 0", len(existing))
	}

	records := []EmbeddingRecord{
		{Embedding: []float32{0.1, 0.2, 0.3}, Text: strings.Repeat("a", 150), Metadata: testChunk("", 0).Metadata},
		{Embedding: []float32{0.4, 0.5, 0.6}, Text: strings.Repeat("b", 150), Metadata: testChunk("", 800).Metadata},
	}
	if err := s.WriteEmbeddings(testKey, records); err != nil {
		t.Fatalf("WriteEmbeddings() error = %v", err)
	}

	got, err := s.ReadEmbeddings(testKey)
	if err != nil {
		t.Fatalf("ReadEmbeddings() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadEmbeddings() = %d records, want 2", len(got))
	}
	if got[0].Text != records[0].Text || len(got[0].Embedding) != 3 {
		t.Errorf("record 0 = %+v", got[0])
	}
}

func TestFileStore_WriteEmbeddings_ReplacesWholeArray(t *testing.T) {
	s := NewFileStore(t.TempDir())

	first := []EmbeddingRecord{{Embedding: []float32{1}, Text: "one"}}
	if err := s.WriteEmbeddings(testKey, first); err != nil {
		t.Fatalf("WriteEmbeddings() error = %v", err)
	}

	merged := append(first, EmbeddingRecord{Embedding: []float32{2}, Text: "two"})
	if err := s.WriteEmbeddings(testKey, merged); err != nil {
		t.Fatalf("WriteEmbeddings() error = %v", err)
	}

	got, err := s.ReadEmbeddings(testKey)
	if err != nil {
		t.Fatalf("ReadEmbeddings() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ReadEmbeddings() = %d records, want 2", len(got))
	}
	if got[1].Text != "two" {
		t.Errorf("record order not preserved: %+v", got)
	}
}

func TestFileStore_SectionsRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())

	doc := &SectionsDoc{
		Ticker: "NVDA",
		Form:   "10-K",
		Filed:  "2024-11-01",
		Sections: []SectionSummary{
			{Name: "Item 1: Business", StartLine: 0, EndLine: 10, CharStart: 0, CharEnd: 1200, CharCount: 1200, Chunks: 2, Preview: "Item 1. Business"},
		},
	}
	if err := s.WriteSections(testKey, doc); err != nil {
		t.Fatalf("WriteSections() error = %v", err)
	}

	got, err := s.ReadSections(testKey)
	if err != nil {
		t.Fatalf("ReadSections() error = %v", err)
	}
	if got.Ticker != "NVDA" || len(got.Sections) != 1 {
		t.Errorf("ReadSections() = %+v", got)
	}
	if got.Sections[0].Chunks != 2 {
		t.Errorf("section chunk count = %d, want 2", got.Sections[0].Chunks)
	}
}

func TestFileStore_Lock_SameKeySameMutex(t *testing.T) {
	s := NewFileStore(t.TempDir())

	a := s.Lock(filing.NewKey("nvda", "10-k", "2024-11-01"))
	b := s.Lock(filing.NewKey(" NVDA ", "10-K", "2024-11-01"))
	if a != b {
		t.Error("equivalent keys must share a lock")
	}

	c := s.Lock(filing.NewKey("AAPL", "10-K", "2024-11-01"))
	if a == c {
		t.Error("distinct keys must not share a lock")
	}
}

func TestFileStore_ListFilings(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if err := s.WriteText(testKey, "text"); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	other := filing.NewKey("AAPL", "10-Q", "2024-05-02")
	if err := s.WriteChunks(other, []chunker.Chunk{testChunk(strings.Repeat("x", 150), 0)}); err != nil {
		t.Fatalf("WriteChunks() error = %v", err)
	}

	filings, err := s.ListFilings()
	if err != nil {
		t.Fatalf("ListFilings() error = %v", err)
	}
	if len(filings) != 2 {
		t.Fatalf("ListFilings() = %d filings, want 2", len(filings))
	}

	byTicker := map[string]FilingStatus{}
	for _, f := range filings {
		byTicker[f.Ticker] = f
	}
	if st := byTicker["NVDA"]; !st.HasText || st.Chunks != 0 {
		t.Errorf("NVDA status = %+v", st)
	}
	if st := byTicker["AAPL"]; st.HasText || st.Chunks != 1 {
		t.Errorf("AAPL status = %+v", st)
	}
}

func TestFileStore_ListFilings_EmptyRoot(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "does-not-exist"))
	filings, err := s.ListFilings()
	if err != nil {
		t.Fatalf("ListFilings() error = %v", err)
	}
	if len(filings) != 0 {
		t.Errorf("ListFilings() = %d filings, want 0", len(filings))
	}
}

func TestFileStore_Status(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if _, err := s.Status(testKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Status() error = %v, want ErrNotFound", err)
	}

	if err := s.WriteText(testKey, "text"); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	st, err := s.Status(testKey)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !st.HasText || st.Embeddings != 0 {
		t.Errorf("Status() = %+v", st)
	}
}
