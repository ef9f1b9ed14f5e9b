// Package telemetry traces optimization steps with OpenTelemetry and
// forwards finished spans to a progress renderer.
package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/smush/internal/core/ports"
)

var errStepFailed = errors.New("step failed")

// Bridge is a synchronous span processor that turns file and step spans
// into renderer events.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge reporting to renderer. A nil renderer drops
// every span.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart reports a file span (no parent) or a step span (parented to
// its file).
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return
	}

	var parentID string
	if ps := trace.SpanFromContext(parent).SpanContext(); ps.IsValid() {
		parentID = ps.SpanID().String()
	}

	b.renderer.OnStepStart(s.SpanContext().SpanID().String(), parentID, s.Name(), s.StartTime())
}

// OnEnd reports the result of a span together with the smush attributes
// recorded on it.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return
	}

	result := spanResult(s.Attributes())
	result.EndTime = s.EndTime()
	if status := s.Status(); status.Code == codes.Error {
		result.Err = errStepFailed
		if status.Description != "" {
			result.Err = errors.New(status.Description)
		}
	}

	b.renderer.OnStepComplete(s.SpanContext().SpanID().String(), result)
}

func spanResult(attrs []attribute.KeyValue) ports.SpanResult {
	result := ports.SpanResult{ExitCode: -1}
	for _, kv := range attrs {
		switch string(kv.Key) {
		case ports.AttrFormat:
			result.Format = kv.Value.AsString()
		case ports.AttrAnimated:
			result.Animated = kv.Value.AsBool()
		case ports.AttrExitCode:
			result.ExitCode = int(kv.Value.AsInt64())
		}
	}
	return result
}

// ForceFlush does nothing; spans are forwarded as they end.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
