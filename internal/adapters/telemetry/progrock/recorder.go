// Package progrock provides the Progrock implementation of the telemetry
// adapter.
package progrock

import (
	"context"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/comet/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements ports.Telemetry using a progrock tape.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Recorder backed by a fresh tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts recording a new vertex for the named operation.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	d := digest.FromString(name)
	v := r.rec.Vertex(d, name)
	vertex := &Vertex{vertex: v}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Feed is a progrock.Writer that also exposes the update stream for a live
// view to consume. Close ends the stream.
type Feed struct {
	mu      sync.Mutex
	updates chan *progrock.StatusUpdate
	closed  bool
}

// NewFeed creates a Feed.
func NewFeed() *Feed {
	return &Feed{updates: make(chan *progrock.StatusUpdate, 64)}
}

// WriteStatus forwards the update to the consumer. Updates are dropped when
// the consumer falls behind rather than blocking the recorder.
func (f *Feed) WriteStatus(update *progrock.StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	select {
	case f.updates <- update:
	default:
	}
	return nil
}

// Close ends the update stream.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.updates)
	}
	return nil
}

// Read returns the next update, or ok=false when the stream has ended.
func (f *Feed) Read() (*progrock.StatusUpdate, bool) {
	update, ok := <-f.updates
	return update, ok
}
