// Package telemetry provides progress recording implementations.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/comet/internal/core/ports"
)

// NoOp is a no-op implementation of ports.Telemetry, used when no progress
// display is wanted.
type NoOp struct{}

// NewNoOp creates a NoOp telemetry.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns a no-op vertex.
func (t *NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

// Close does nothing.
func (t *NoOp) Close() error {
	return nil
}

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer { return io.Discard }

func (noopVertex) Complete(error) {}
