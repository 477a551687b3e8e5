// Package telemetry exports Prometheus metrics for predictions and model reloads.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Manideep667320/Email-Spam-detection/internal/core"
)

// Metrics holds the spam filter Prometheus metrics
type Metrics struct {
	Predictions        *prometheus.CounterVec
	Failures           *prometheus.CounterVec
	PredictionDuration *prometheus.HistogramVec
	Confidence         prometheus.Histogram
	Degraded           prometheus.Counter

	ModelLoaded  prometheus.Gauge
	ModelReloads *prometheus.CounterVec
}

// Provider owns a private registry so several providers can coexist in one process
type Provider struct {
	Metrics  *Metrics
	registry *prometheus.Registry
}

// NewProvider creates a provider with Go runtime and process collectors registered
func NewProvider() *Provider {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Provider{
		Metrics:  initMetrics(promauto.With(reg)),
		registry: reg,
	}
}

func initMetrics(factory promauto.Factory) *Metrics {
	return &Metrics{
		Predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spam_filter_predictions_total",
			Help: "Total predictions by label and source (model or cache)",
		}, []string{"label", "source"}),

		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spam_filter_prediction_failures_total",
			Help: "Total failed prediction requests by reason",
		}, []string{"reason"}),

		PredictionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spam_filter_prediction_duration_seconds",
			Help:    "Time to produce a single prediction",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1.0},
		}, []string{"source"}),

		Confidence: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "spam_filter_prediction_confidence",
			Help:    "Distribution of reported prediction confidence",
			Buckets: []float64{0.5, 0.6, 0.7, 0.75, 0.8, 0.9, 0.95, 0.99, 1.0},
		}),

		Degraded: factory.NewCounter(prometheus.CounterOpts{
			Name: "spam_filter_degraded_predictions_total",
			Help: "Predictions that fell back to the neutral confidence",
		}),

		ModelLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "spam_filter_model_loaded",
			Help: "1 when a model artifact is loaded, 0 otherwise",
		}),

		ModelReloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spam_filter_model_reloads_total",
			Help: "Model reload attempts by result",
		}, []string{"result"}),
	}
}

// ObservePrediction records one successful prediction
func (p *Provider) ObservePrediction(pred *core.Prediction, source string, elapsed time.Duration) {
	p.Metrics.Predictions.WithLabelValues(pred.Label.String(), source).Inc()
	p.Metrics.PredictionDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	p.Metrics.Confidence.Observe(pred.Confidence)
	if pred.Degraded {
		p.Metrics.Degraded.Inc()
	}
}

// ObserveFailure records one failed prediction request
func (p *Provider) ObserveFailure(reason string) {
	p.Metrics.Failures.WithLabelValues(reason).Inc()
}

// SetModelLoaded updates the model availability gauge
func (p *Provider) SetModelLoaded(loaded bool) {
	if loaded {
		p.Metrics.ModelLoaded.Set(1)
		return
	}
	p.Metrics.ModelLoaded.Set(0)
}

// ObserveReload records the outcome of a model reload
func (p *Provider) ObserveReload(err error) {
	if err != nil {
		p.Metrics.ModelReloads.WithLabelValues("failure").Inc()
		return
	}
	p.Metrics.ModelReloads.WithLabelValues("success").Inc()
}

// Handler returns the Prometheus exposition handler for this provider's registry
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

var _ core.MetricsRecorder = (*Provider)(nil)
