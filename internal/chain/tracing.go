package chain

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/fossillogic/jellyfish/internal/chain")

// InitTracing installs a process-wide otel SDK TracerProvider so spans
// started by Traced go somewhere real instead of the otel API's default
// no-op provider silently discarding them. Call once per process (the
// CLI's Execute does, before running any subcommand, serve included); the
// returned func flushes and shuts the provider down.
func InitTracing() func(context.Context) error {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}

// tracedOps is the subset of Chain's surface that Traced wraps. It's
// satisfied by both *Chain directly and by *Instrumented, so a host can
// compose tracing on top of metrics on top of the same underlying chain
// instead of choosing one decorator or the other.
type tracedOps interface {
	Learn(input, output string) error
	Reason(input string) string
	ReasonVerbose(input string) (output string, confidence float64, block *Block, ok bool)
	Decay(decayRateSeconds float64)
}

// Traced wraps a Chain (or an Instrumented) so Learn/Reason/Decay run
// inside an otel span. Like Instrumented, this is a decorator — the core
// Chain stays free of tracing dependencies.
type Traced struct {
	tracedOps
}

// NewTraced wraps c for span-observed operations.
func NewTraced(c tracedOps) *Traced {
	return &Traced{tracedOps: c}
}

func (tc *Traced) LearnCtx(ctx context.Context, input, output string) error {
	_, span := tracer.Start(ctx, "chain.Learn")
	defer span.End()
	return tc.tracedOps.Learn(input, output)
}

func (tc *Traced) ReasonCtx(ctx context.Context, input string) string {
	_, span := tracer.Start(ctx, "chain.Reason")
	defer span.End()
	out := tc.tracedOps.Reason(input)
	span.SetAttributes(attribute.Bool("chain.hit", out != unknownOutput))
	return out
}

func (tc *Traced) ReasonVerboseCtx(ctx context.Context, input string) (output string, confidence float64, block *Block, ok bool) {
	_, span := tracer.Start(ctx, "chain.ReasonVerbose")
	defer span.End()
	output, confidence, block, ok = tc.tracedOps.ReasonVerbose(input)
	span.SetAttributes(
		attribute.Bool("chain.hit", ok),
		attribute.Float64("chain.confidence", confidence),
	)
	return output, confidence, block, ok
}

func (tc *Traced) DecayCtx(ctx context.Context, decayRateSeconds float64) {
	_, span := tracer.Start(ctx, "chain.Decay", trace.WithAttributes(
		attribute.Float64("chain.half_life_seconds", decayRateSeconds),
	))
	defer span.End()
	tc.tracedOps.Decay(decayRateSeconds)
}
