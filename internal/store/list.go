package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lritter14/filing-rag/internal/filing"
)

// ListFilings walks the data root and reports every filing directory with
// its artifact status. An absent root yields an empty list.
func (s *FileStore) ListFilings() ([]FilingStatus, error) {
	tickers, err := os.ReadDir(s.root)
	if os.IsNotExist(err) {
		return []FilingStatus{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data root: %w", err)
	}

	filings := []FilingStatus{}
	for _, tickerEntry := range tickers {
		if !tickerEntry.IsDir() {
			continue
		}
		ticker := tickerEntry.Name()
		subdirs, err := os.ReadDir(filepath.Join(s.root, ticker))
		if err != nil {
			return nil, fmt.Errorf("failed to read ticker dir %s: %w", ticker, err)
		}
		for _, sub := range subdirs {
			if !sub.IsDir() {
				continue
			}
			form, filed, ok := splitFilingDir(sub.Name())
			if !ok {
				continue
			}
			key := filing.NewKey(ticker, form, filed)
			filings = append(filings, s.status(key))
		}
	}
	return filings, nil
}

// splitFilingDir parses a "{FORM}_{filed}" directory name. The filed date is
// everything after the last underscore, so forms containing underscores
// still round-trip.
func splitFilingDir(name string) (form, filed string, ok bool) {
	i := strings.LastIndex(name, "_")
	if i <= 0 || i == len(name)-1 {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}

func (s *FileStore) status(key filing.Key) FilingStatus {
	st := FilingStatus{
		Ticker: key.Ticker,
		Form:   key.Form,
		Filed:  key.Filed,
	}
	if _, err := os.Stat(s.path(key, textFile)); err == nil {
		st.HasText = true
	}
	if doc, err := s.ReadSections(key); err == nil {
		st.Sections = len(doc.Sections)
	}
	if chunks, err := s.ReadChunks(key); err == nil {
		st.Chunks = len(chunks)
	}
	if records, err := s.ReadEmbeddings(key); err == nil {
		st.Embeddings = len(records)
	}
	return st
}

// Status reports the artifact status for a single filing. Returns ErrNotFound
// if the filing directory does not exist at all.
func (s *FileStore) Status(key filing.Key) (FilingStatus, error) {
	if _, err := os.Stat(s.dir(key)); err != nil {
		if os.IsNotExist(err) {
			return FilingStatus{}, fmt.Errorf("filing %s: %w", key, ErrNotFound)
		}
		return FilingStatus{}, fmt.Errorf("failed to stat filing dir: %w", err)
	}
	return s.status(key), nil
}
