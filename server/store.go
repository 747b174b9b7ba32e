package server

import (
	"sync"
	"time"

	"github.com/tsawler/wordhtml/batch"
)

// JobStatus is the pollable state of a conversion job.
type JobStatus struct {
	ID             string       `json:"id"`
	Status         batch.Status `json:"status"`
	Mode           string       `json:"mode"`
	Progress       float64      `json:"progress"`
	CurrentFile    string       `json:"current_file,omitempty"`
	CompletedFiles int          `json:"completed_files"`
	TotalFiles     int          `json:"total_files"`
	Results        []FileResult `json:"results"`
	Errors         []FileError  `json:"errors"`
	StartTime      time.Time    `json:"start_time"`
	EndTime        *time.Time   `json:"end_time,omitempty"`
}

// FileResult describes one converted file.
type FileResult struct {
	SourceFile      string `json:"source_file"`
	OutputFile      string `json:"output_file"`
	Status          string `json:"status"`
	ImagesExtracted int    `json:"images_extracted"`
	ImagesDir       string `json:"images_dir,omitempty"`
	Warnings        int    `json:"warnings,omitempty"`
}

// FileError describes one failed file.
type FileError struct {
	SourceFile string `json:"source_file"`
	Error      string `json:"error"`
	ErrorCode  string `json:"error_code"`
}

// store keeps job state in memory.
type store struct {
	mu   sync.RWMutex
	jobs map[string]*JobStatus
}

func newStore() *store {
	return &store{jobs: make(map[string]*JobStatus)}
}

func (s *store) add(st *JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[st.ID] = st
}

// get returns a copy of the job's state.
func (s *store) get(id string) (JobStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.jobs[id]
	if !ok {
		return JobStatus{}, false
	}
	cp := *st
	cp.Results = append([]FileResult{}, st.Results...)
	cp.Errors = append([]FileError{}, st.Errors...)
	if st.EndTime != nil {
		end := *st.EndTime
		cp.EndTime = &end
	}
	return cp, true
}

// update applies fn to the job's state under the store lock.
func (s *store) update(id string, fn func(*JobStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.jobs[id]; ok {
		fn(st)
	}
}
