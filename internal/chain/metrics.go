package chain

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for chain operations. It is a
// thin decorator around *Chain, not a field of Chain itself — the core
// data structure stays free of observability dependencies, and a host
// (server, CLI) opts into instrumentation by wrapping a chain with
// NewInstrumented.
type Metrics struct {
	admits      prometheus.Counter
	reinforces  prometheus.Counter
	reasonHits  prometheus.Counter
	reasonMiss  prometheus.Counter
	decayRuns   prometheus.Counter
	invalidated prometheus.Counter
	pruned      prometheus.Counter
	deduped     prometheus.Counter
}

// NewMetrics registers chain counters on reg and returns a Metrics handle.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		admits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_chain_admits_total",
			Help: "Number of new blocks admitted into a chain.",
		}),
		reinforces: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_chain_reinforces_total",
			Help: "Number of Learn calls that reinforced an existing block.",
		}),
		reasonHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_chain_reason_hits_total",
			Help: "Number of Reason calls that returned a known output.",
		}),
		reasonMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_chain_reason_misses_total",
			Help: "Number of Reason calls that fell back to Unknown.",
		}),
		decayRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_chain_decay_runs_total",
			Help: "Number of Decay invocations.",
		}),
		invalidated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_chain_decay_invalidated_total",
			Help: "Number of blocks marked invalid by decay.",
		}),
		pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_chain_pruned_total",
			Help: "Number of blocks removed by Prune.",
		}),
		deduped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jellyfish_chain_deduped_total",
			Help: "Number of blocks removed by Dedupe.",
		}),
	}
	for _, c := range []prometheus.Collector{
		m.admits, m.reinforces, m.reasonHits, m.reasonMiss,
		m.decayRuns, m.invalidated, m.pruned, m.deduped,
	} {
		reg.MustRegister(c)
	}
	return m
}

// Instrumented wraps a Chain so its operations also update Metrics.
type Instrumented struct {
	*Chain
	m *Metrics
}

// NewInstrumented wraps c for metrics-observed operations.
func NewInstrumented(c *Chain, m *Metrics) *Instrumented {
	return &Instrumented{Chain: c, m: m}
}

func (ic *Instrumented) Learn(input, output string) error {
	before := ic.Count
	wasReinforce := false
	for i := 0; i < ic.Count; i++ {
		b := &ic.Memory[i]
		if b.Valid && b.Input == truncate(input, InCap) && b.Output == truncate(output, OutCap) {
			wasReinforce = true
			break
		}
	}
	err := ic.Chain.Learn(input, output)
	if err == nil {
		if wasReinforce {
			ic.m.reinforces.Inc()
		} else if ic.Count > before {
			ic.m.admits.Inc()
		}
	}
	return err
}

func (ic *Instrumented) Reason(input string) string {
	out := ic.Chain.Reason(input)
	if out == unknownOutput {
		ic.m.reasonMiss.Inc()
	} else {
		ic.m.reasonHits.Inc()
	}
	return out
}

func (ic *Instrumented) Decay(decayRateSeconds float64) {
	validBefore := 0
	for i := 0; i < ic.Count; i++ {
		if ic.Memory[i].Valid {
			validBefore++
		}
	}
	ic.Chain.Decay(decayRateSeconds)
	validAfter := 0
	for i := 0; i < ic.Count; i++ {
		if ic.Memory[i].Valid {
			validAfter++
		}
	}
	ic.m.decayRuns.Inc()
	if validBefore > validAfter {
		ic.m.invalidated.Add(float64(validBefore - validAfter))
	}
}

func (ic *Instrumented) Prune(minConf float64) int {
	n := ic.Chain.Prune(minConf)
	ic.m.pruned.Add(float64(n))
	return n
}

func (ic *Instrumented) Dedupe() int {
	n := ic.Chain.Dedupe()
	ic.m.deduped.Add(float64(n))
	return n
}
