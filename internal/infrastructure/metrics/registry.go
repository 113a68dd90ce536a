package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Labels is a set of label name/value pairs for one emission.
type Labels map[string]string

type collector struct {
	def       definition
	counter   *prometheus.CounterVec
	histogram *prometheus.HistogramVec
	gauge     *prometheus.GaugeVec
}

// Registry owns a Prometheus registry populated with the metric catalog.
// The collector map is built once in NewRegistry and only read afterwards,
// so emission never takes a registry level lock.
type Registry struct {
	namespace  string
	prom       *prometheus.Registry
	collectors map[string]*collector
	byFullName map[string]string
	log        zerolog.Logger
}

// NewRegistry builds a registry with every catalog metric registered under namespace.
func NewRegistry(namespace string, log zerolog.Logger) *Registry {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = DefaultNamespace
	}

	r := &Registry{
		namespace:  namespace,
		prom:       prometheus.NewRegistry(),
		collectors: make(map[string]*collector, len(catalog)),
		byFullName: make(map[string]string, len(catalog)),
		log:        log.With().Str("component", "metrics").Logger(),
	}

	for _, def := range catalog {
		c := &collector{def: def}
		switch def.kind {
		case kindCounter:
			c.counter = prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      def.name,
				Help:      def.help,
			}, def.labels)
			r.prom.MustRegister(c.counter)
		case kindHistogram:
			c.histogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      def.name,
				Help:      def.help,
				Buckets:   def.buckets,
			}, def.labels)
			r.prom.MustRegister(c.histogram)
		case kindGauge:
			c.gauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      def.name,
				Help:      def.help,
			}, def.labels)
			r.prom.MustRegister(c.gauge)
		}
		r.collectors[def.name] = c
		r.byFullName[prometheus.BuildFQName(namespace, "", def.name)] = def.name
	}

	return r
}

// Namespace returns the prefix applied to exported metric names.
func (r *Registry) Namespace() string {
	return r.namespace
}

// Gatherer exposes the underlying registry for scraping.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.prom
}

// Handler serves the Prometheus text exposition for this registry only.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{
		ErrorLog:      promLogger{log: r.log},
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// IncCounter adds amount to a counter. Negative amounts are dropped.
func (r *Registry) IncCounter(name string, labels Labels, amount float64) {
	if amount < 0 {
		r.log.Warn().Str("metric", name).Float64("amount", amount).Msg("dropping negative counter increment")
		return
	}
	c, ok := r.lookup(name, kindCounter, labels)
	if !ok {
		return
	}
	r.safely(name, func() {
		c.counter.With(prometheus.Labels(labels)).Add(amount)
	})
}

// ObserveHistogram records one observation.
func (r *Registry) ObserveHistogram(name string, labels Labels, value float64) {
	c, ok := r.lookup(name, kindHistogram, labels)
	if !ok {
		return
	}
	r.safely(name, func() {
		c.histogram.With(prometheus.Labels(labels)).Observe(value)
	})
}

// SetGauge sets a gauge to value.
func (r *Registry) SetGauge(name string, labels Labels, value float64) {
	c, ok := r.lookup(name, kindGauge, labels)
	if !ok {
		return
	}
	r.safely(name, func() {
		c.gauge.With(prometheus.Labels(labels)).Set(value)
	})
}

// IncGauge adds amount to a gauge.
func (r *Registry) IncGauge(name string, labels Labels, amount float64) {
	c, ok := r.lookup(name, kindGauge, labels)
	if !ok {
		return
	}
	r.safely(name, func() {
		c.gauge.With(prometheus.Labels(labels)).Add(amount)
	})
}

// DecGauge subtracts amount from a gauge.
func (r *Registry) DecGauge(name string, labels Labels, amount float64) {
	c, ok := r.lookup(name, kindGauge, labels)
	if !ok {
		return
	}
	r.safely(name, func() {
		c.gauge.With(prometheus.Labels(labels)).Sub(amount)
	})
}

func (r *Registry) lookup(name string, want kind, labels Labels) (*collector, bool) {
	c, ok := r.collectors[name]
	if !ok {
		r.log.Warn().Str("metric", name).Msg("unknown metric")
		return nil, false
	}
	if c.def.kind != want {
		r.log.Warn().
			Str("metric", name).
			Str("registered_as", c.def.kind.String()).
			Str("used_as", want.String()).
			Msg("metric type mismatch")
		return nil, false
	}
	if !labelsMatch(c.def.labels, labels) {
		r.log.Warn().
			Str("metric", name).
			Strs("expected_labels", c.def.labels).
			Interface("labels", labels).
			Msg("label set mismatch, sample dropped")
		return nil, false
	}
	return c, true
}

func (r *Registry) safely(name string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Str("metric", name).Interface("panic", rec).Msg("metric emission failed")
		}
	}()
	fn()
}

func labelsMatch(expected []string, got Labels) bool {
	if len(expected) != len(got) {
		return false
	}
	for _, name := range expected {
		if _, ok := got[name]; !ok {
			return false
		}
	}
	return true
}

type promLogger struct {
	log zerolog.Logger
}

func (l promLogger) Println(v ...interface{}) {
	l.log.Error().Msgf("%v", v)
}
