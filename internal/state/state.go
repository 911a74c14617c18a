package state

import (
	"sync"

	"kwintel/internal/analysis"
	"kwintel/internal/table"
)

// File indexes for the two sides of the analysis.
const (
	OrganicIndex = 1
	PaidIndex    = 2
)

// Dataset is one uploaded or DB-loaded table plus its origin name.
type Dataset struct {
	Table    *table.Table
	Filename string
	Warnings []string
}

// AppState holds what the server keeps between requests: the two loaded
// datasets and the last pipeline result. The pipeline itself is stateless;
// this is purely request-to-request plumbing for the API.
type AppState struct {
	mu sync.RWMutex

	organic *Dataset
	paid    *Dataset
	result  *analysis.Result
}

// New creates an empty state.
func New() *AppState {
	return &AppState{}
}

// SetDataset stores the dataset for the given file index (1 organic,
// 2 paid) and clears any stale result.
func (s *AppState) SetDataset(fileIndex int, ds *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch fileIndex {
	case OrganicIndex:
		s.organic = ds
	case PaidIndex:
		s.paid = ds
	}
	s.result = nil
}

// GetDataset retrieves the dataset for the given file index, or nil.
func (s *AppState) GetDataset(fileIndex int) *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch fileIndex {
	case OrganicIndex:
		return s.organic
	case PaidIndex:
		return s.paid
	}
	return nil
}

// SetResult stores the latest pipeline result.
func (s *AppState) SetResult(r *analysis.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = r
}

// GetResult returns the latest pipeline result, or nil if none has run.
func (s *AppState) GetResult() *analysis.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}
