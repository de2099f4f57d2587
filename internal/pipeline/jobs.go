package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of a batch export job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
)

// PageResult is the outcome of converting one page within a job. Exactly
// one of Markdown and Error is set.
type PageResult struct {
	PageID   string `json:"page_id"`
	Markdown string `json:"markdown,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Job tracks the state of one batch export.
type Job struct {
	mu sync.Mutex

	ID      string
	PageIDs []string

	status  JobStatus
	results []PageResult
	updated time.Time
}

func NewJob(id string, pageIDs []string) *Job {
	return &Job{
		ID:      id,
		PageIDs: pageIDs,
		status:  StatusQueued,
		updated: time.Now(),
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = status
	j.updated = time.Now()
}

// AddResult records the outcome for one page.
func (j *Job) AddResult(r PageResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results = append(j.results, r)
	j.updated = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID      string       `json:"job_id"`
	Status  JobStatus    `json:"status"`
	Pages   int          `json:"pages"`
	Results []PageResult `json:"results"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	results := make([]PageResult, len(j.results))
	copy(results, j.results)
	return JobSnapshot{
		ID:      j.ID,
		Status:  j.status,
		Pages:   len(j.PageIDs),
		Results: results,
	}
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.updated
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes jobs untouched for longer than the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
