// Package queue serializes document processing: one upload/extract round trip
// in flight at a time, in submission order.
package queue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claimlens/claimlens/internal/document"
	"github.com/claimlens/claimlens/internal/extract"
	"github.com/claimlens/claimlens/internal/progress"
	"github.com/claimlens/claimlens/internal/registry"
)

// File is one upload handed to Enqueue.
type File struct {
	Name  string
	Path  string
	Size  int64
	Pages int
}

type item struct {
	id   string
	path string
}

// Processor owns the pending list and the single drain goroutine.
type Processor struct {
	store    *registry.Store
	client   *extract.Client
	script   progress.Script
	simulate bool
	logger   *slog.Logger
	ctx      context.Context

	mu         sync.Mutex
	pending    []item
	processing bool
}

// Config configures a Processor.
type Config struct {
	Store  *registry.Store
	Client *extract.Client
	Logger *slog.Logger

	// Simulate enables the scripted stage narrative while requests run.
	Simulate bool
	// Script overrides the default stage script (mainly for tests).
	Script progress.Script
	// BaseContext bounds in-flight extraction requests. The drain goroutine
	// outlives any single caller, so request contexts must not be used here.
	// Defaults to context.Background().
	BaseContext context.Context
}

// New creates a Processor.
func New(cfg Config) *Processor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	script := cfg.Script
	if script == nil {
		script = progress.DefaultScript()
	}
	ctx := cfg.BaseContext
	if ctx == nil {
		ctx = context.Background()
	}
	return &Processor{
		store:    cfg.Store,
		client:   cfg.Client,
		script:   script,
		simulate: cfg.Simulate,
		logger:   logger.With("component", "queue"),
		ctx:      ctx,
	}
}

// Enqueue registers each file as a queued document, appends it to the pending
// list, and starts the drain goroutine if one isn't already running. Calling
// Enqueue while a drain is active only appends: the running drain picks the
// new items up. Returns the generated identifiers in input order.
func (p *Processor) Enqueue(files []File) []string {
	ids := make([]string, 0, len(files))

	p.mu.Lock()
	for _, f := range files {
		id := uuid.New().String()
		p.store.Add(document.New(id, f.Name, f.Path, f.Size, f.Pages))
		p.pending = append(p.pending, item{id: id, path: f.Path})
		ids = append(ids, id)
	}
	start := !p.processing && len(p.pending) > 0
	if start {
		p.processing = true
	}
	p.mu.Unlock()

	if start {
		go p.drain(p.ctx)
	}
	return ids
}

// drain pops pending items one at a time until the list is empty.
func (p *Processor) drain(ctx context.Context) {
	for {
		p.mu.Lock()
		if len(p.pending) == 0 {
			p.processing = false
			p.mu.Unlock()
			return
		}
		next := p.pending[0]
		p.pending = p.pending[1:]
		p.mu.Unlock()

		p.process(ctx, next.id, next.path)
	}
}

// process runs one document to a terminal state. A panic here must not take
// the drain down with it: the document is force-failed and the queue moves on.
func (p *Processor) process(ctx context.Context, id, path string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("document processing panicked", "id", id, "panic", r)
			p.store.Update(id, func(d *document.Document) {
				d.Stage = document.StageError
				d.Message = "Processing failed"
				d.Error = "unexpected failure while processing document"
				now := time.Now().UTC()
				d.CompletedAt = &now
			})
		}
	}()

	p.store.Update(id, func(d *document.Document) {
		d.Stage = document.StageRotationCheck
		d.Message = "Uploading document"
		now := time.Now().UTC()
		d.StartedAt = &now
	})

	var sim *progress.Simulator
	if p.simulate {
		sim = progress.Start(p.store, id, p.script)
	}

	payload, err := p.client.ExtractFull(ctx, path)

	// Always silence the simulator before the authoritative write.
	if sim != nil {
		sim.Stop()
	}

	if err != nil {
		p.logger.Warn("extraction failed", "id", id, "error", err)
		p.store.Update(id, func(d *document.Document) {
			d.Stage = document.StageError
			d.Message = "Extraction failed"
			d.Error = err.Error()
			now := time.Now().UTC()
			d.CompletedAt = &now
		})
		return
	}

	meta := extract.ProjectMetadata(payload)
	p.store.Update(id, func(d *document.Document) {
		d.Stage = document.StageComplete
		d.Message = "Extraction complete"
		if payload != nil && payload.ExtractedSchema != nil {
			d.Result = payload.ExtractedSchema.Raw
			d.Claims = payload.ExtractedSchema.Claims
		}
		d.Metadata = &meta
		now := time.Now().UTC()
		d.CompletedAt = &now
	})
	p.logger.Info("document complete", "id", id, "claims", meta.ClaimCount)
}

// Busy reports whether a drain goroutine is currently running.
func (p *Processor) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processing
}

// PendingCount returns the number of queued-but-not-started items.
func (p *Processor) PendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Wait blocks until the queue is idle and every registered document has
// settled, or the context is cancelled.
func (p *Processor) Wait(ctx context.Context) error {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()
	for {
		if !p.Busy() && p.store.Settled() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
