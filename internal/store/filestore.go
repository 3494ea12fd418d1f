package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lritter14/filing-rag/internal/chunker"
	"github.com/lritter14/filing-rag/internal/filing"
)

// ErrNotFound is returned when a required filing artifact does not exist.
// It tells the caller which prior pipeline stage still needs to run.
var ErrNotFound = errors.New("not found")

const (
	textFile       = "text.txt"
	sectionsFile   = "sections.json"
	chunksFile     = "chunks.jsonl"
	embeddingsFile = "embeddings.json"
)

// FileStore persists filing artifacts under a root data directory, one
// subdirectory per ticker, one per "{FORM}_{filed}" below that.
type FileStore struct {
	root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		root:  dir,
		locks: make(map[string]*sync.Mutex),
	}
}

// Root returns the data root directory.
func (s *FileStore) Root() string {
	return s.root
}

// Lock returns the mutex serializing read-modify-write cycles for one filing.
// Callers must hold it for the full duration of a store mutation that depends
// on previously read state.
func (s *FileStore) Lock(key filing.Key) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := key.String()
	if l, ok := s.locks[id]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[id] = l
	return l
}

func (s *FileStore) dir(key filing.Key) string {
	return filepath.Join(s.root, filepath.FromSlash(key.Dir()))
}

func (s *FileStore) path(key filing.Key, name string) string {
	return filepath.Join(s.dir(key), name)
}

// WriteText stores the plain document text for a filing, creating the filing
// directory if needed.
func (s *FileStore) WriteText(key filing.Key, text string) error {
	if err := os.MkdirAll(s.dir(key), 0755); err != nil {
		return fmt.Errorf("failed to create filing directory: %w", err)
	}
	return s.atomicWrite(s.path(key, textFile), []byte(text))
}

// ReadText loads the plain document text. Returns ErrNotFound if the filing
// has no text yet.
func (s *FileStore) ReadText(key filing.Key) (string, error) {
	data, err := os.ReadFile(s.path(key, textFile))
	if os.IsNotExist(err) {
		return "", fmt.Errorf("text for %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}
	return string(data), nil
}

// WriteSections overwrites the sectioning summary for a filing. A sectioning
// run fully replaces any prior result.
func (s *FileStore) WriteSections(key filing.Key, doc *SectionsDoc) error {
	if err := os.MkdirAll(s.dir(key), 0755); err != nil {
		return fmt.Errorf("failed to create filing directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sections: %w", err)
	}
	return s.atomicWrite(s.path(key, sectionsFile), data)
}

// ReadSections loads the sectioning summary. Returns ErrNotFound if the
// filing has not been sectioned.
func (s *FileStore) ReadSections(key filing.Key) (*SectionsDoc, error) {
	data, err := os.ReadFile(s.path(key, sectionsFile))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("sections for %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sections: %w", err)
	}
	var doc SectionsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse sections: %w", err)
	}
	return &doc, nil
}

// WriteChunks overwrites the chunk stream for a filing, one JSON object per
// line in generation order.
func (s *FileStore) WriteChunks(key filing.Key, chunks []chunker.Chunk) error {
	if err := os.MkdirAll(s.dir(key), 0755); err != nil {
		return fmt.Errorf("failed to create filing directory: %w", err)
	}
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	for _, c := range chunks {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("failed to encode chunk: %w", err)
		}
	}
	return s.atomicWrite(s.path(key, chunksFile), []byte(buf.String()))
}

// ReadChunks loads the chunk stream in generation order. Returns ErrNotFound
// if the filing has not been chunked.
func (s *FileStore) ReadChunks(key filing.Key) ([]chunker.Chunk, error) {
	f, err := os.Open(s.path(key, chunksFile))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("chunks for %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open chunks: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var chunks []chunker.Chunk
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var c chunker.Chunk
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			return nil, fmt.Errorf("failed to parse chunk line: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan chunks: %w", err)
	}
	return chunks, nil
}

// WriteEmbeddings replaces the embedding record array for a filing as a
// single atomic write. The caller must hold the filing lock across the read
// that produced the merged list.
func (s *FileStore) WriteEmbeddings(key filing.Key, records []EmbeddingRecord) error {
	if err := os.MkdirAll(s.dir(key), 0755); err != nil {
		return fmt.Errorf("failed to create filing directory: %w", err)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal embeddings: %w", err)
	}
	return s.atomicWrite(s.path(key, embeddingsFile), data)
}

// ReadEmbeddings loads all embedding records for a filing. A missing file
// yields ErrNotFound; an empty array is returned as an empty slice.
func (s *FileStore) ReadEmbeddings(key filing.Key) ([]EmbeddingRecord, error) {
	data, err := os.ReadFile(s.path(key, embeddingsFile))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("embeddings for %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read embeddings: %w", err)
	}
	var records []EmbeddingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse embeddings: %w", err)
	}
	return records, nil
}

// ExistingEmbeddings is ReadEmbeddings with a missing file treated as an
// empty store, for callers about to append the first records.
func (s *FileStore) ExistingEmbeddings(key filing.Key) ([]EmbeddingRecord, error) {
	records, err := s.ReadEmbeddings(key)
	if errors.Is(err, ErrNotFound) {
		return []EmbeddingRecord{}, nil
	}
	return records, err
}

// atomicWrite writes data to a temp file in the target directory and renames
// it into place so readers never observe a partial file.
func (s *FileStore) atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
