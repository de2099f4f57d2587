// Package pipeline runs batch page exports on a bounded worker pool. Each
// page still converts as a single sequential depth-first walk; concurrency
// exists only across independent conversions.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sll518/notion-to-md/internal/notion"
)

// ErrQueueFull means the export queue rejected a submission.
var ErrQueueFull = errors.New("export queue is full")

// PageConverter is the conversion capability a worker needs.
type PageConverter interface {
	PageToMarkdown(ctx context.Context, pageID string) (string, error)
}

// Config sizes the exporter.
type Config struct {
	Workers      int
	MaxQueueSize int
	JobTTL       time.Duration
}

// Exporter manages the batch export queue and workers.
type Exporter struct {
	jobs      *JobStore
	queue     chan *Job
	converter PageConverter
	log       *slog.Logger
	cfg       Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewExporter(cfg Config, converter PageConverter, log *slog.Logger) *Exporter {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 64
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = time.Hour
	}
	return &Exporter{
		jobs:      NewJobStore(cfg.JobTTL),
		queue:     make(chan *Job, cfg.MaxQueueSize),
		converter: converter,
		log:       log,
		cfg:       cfg,
	}
}

// Start launches worker goroutines and the job store janitor.
func (e *Exporter) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	for i := 0; i < e.cfg.Workers; i++ {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-e.queue:
					if !ok {
						return
					}
					e.process(workerCtx, job)
				}
			}
		}()
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				e.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the exporter.
func (e *Exporter) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	close(e.queue)
	e.wg.Wait()
}

// Submit normalizes the page IDs and queues a new batch export.
func (e *Exporter) Submit(pageIDs []string) (*Job, error) {
	ids := make([]string, 0, len(pageIDs))
	for _, raw := range pageIDs {
		id, err := notion.NormalizeID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	job := NewJob(uuid.NewString(), ids)
	e.jobs.Put(job)
	select {
	case e.queue <- job:
		return job, nil
	default:
		job.SetStatus(StatusFailed)
		return nil, fmt.Errorf("%w (%d)", ErrQueueFull, e.cfg.MaxQueueSize)
	}
}

// Job returns a job by ID, or nil when unknown or expired.
func (e *Exporter) Job(id string) *Job {
	return e.jobs.Get(id)
}

// QueueDepth returns the current queue depth.
func (e *Exporter) QueueDepth() int {
	return len(e.queue)
}

// process converts every page of a job in order. A failed page records an
// error result and the job continues; each page itself is still converted
// complete-or-not-at-all.
func (e *Exporter) process(ctx context.Context, job *Job) {
	job.SetStatus(StatusRunning)
	failed := 0
	for _, pageID := range job.PageIDs {
		markdown, err := e.converter.PageToMarkdown(ctx, pageID)
		if err != nil {
			failed++
			job.AddResult(PageResult{PageID: pageID, Error: err.Error()})
			e.log.Error("page export failed", "job", job.ID, "page", pageID, "error", err)
			continue
		}
		job.AddResult(PageResult{PageID: pageID, Markdown: markdown})
	}

	switch {
	case failed == 0:
		job.SetStatus(StatusCompleted)
	case failed == len(job.PageIDs):
		job.SetStatus(StatusFailed)
	default:
		job.SetStatus(StatusPartial)
	}
	e.log.Info("export job finished", "job", job.ID, "pages", len(job.PageIDs), "failed", failed)
}
