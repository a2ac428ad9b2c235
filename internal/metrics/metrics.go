// Package metrics exposes Prometheus collectors for the diagram pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Registry *prometheus.Registry

	GenerateTotal      *prometheus.CounterVec
	RenderSeconds      prometheus.Histogram
	TemplateFallbacks  prometheus.Counter
	AssistantTurns     prometheus.Counter
	AssistantDiagrams  prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		GenerateTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "diagen_generate_total",
			Help: "Diagram generation requests by outcome.",
		}, []string{"outcome"}),
		RenderSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "diagen_render_seconds",
			Help:    "Wall time of successful Graphviz renders.",
			Buckets: prometheus.DefBuckets,
		}),
		TemplateFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "diagen_template_fallback_total",
			Help: "Requests where an empty parse was replaced by a template graph.",
		}),
		AssistantTurns: factory.NewCounter(prometheus.CounterOpts{
			Name: "diagen_assistant_turns_total",
			Help: "Assistant chat turns processed.",
		}),
		AssistantDiagrams: factory.NewCounter(prometheus.CounterOpts{
			Name: "diagen_assistant_diagrams_total",
			Help: "Diagrams generated from the assistant pathway.",
		}),
	}
}

// Outcome labels for GenerateTotal.
const (
	OutcomeOK              = "ok"
	OutcomeValidationError = "validation_error"
	OutcomeRenderError     = "render_error"
)
