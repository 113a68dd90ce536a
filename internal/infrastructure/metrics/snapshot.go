package metrics

import (
	"sort"

	dto "github.com/prometheus/client_model/go"
)

// Sample is one label combination of a metric at snapshot time.
// Counters and gauges use Value; histograms use Count, Sum and Buckets.
type Sample struct {
	Labels  Labels             `json:"labels,omitempty"`
	Value   float64            `json:"value"`
	Count   uint64             `json:"count,omitempty"`
	Sum     float64            `json:"sum,omitempty"`
	Buckets map[float64]uint64 `json:"-"`
}

// Snapshot is a point-in-time copy of every registered metric keyed by logical name.
type Snapshot map[string][]Sample

// Snapshot gathers the current state of the registry. Writers keep emitting
// while it runs; each vector is read atomically per label combination.
func (r *Registry) Snapshot() Snapshot {
	snap := make(Snapshot, len(r.collectors))
	families, err := r.prom.Gather()
	if err != nil {
		r.log.Warn().Err(err).Msg("partial metrics gather")
	}

	for _, family := range families {
		name, ok := r.byFullName[family.GetName()]
		if !ok {
			continue
		}
		samples := make([]Sample, 0, len(family.GetMetric()))
		for _, m := range family.GetMetric() {
			samples = append(samples, toSample(family.GetType(), m))
		}
		snap[name] = samples
	}
	return snap
}

func toSample(t dto.MetricType, m *dto.Metric) Sample {
	s := Sample{}
	if pairs := m.GetLabel(); len(pairs) > 0 {
		s.Labels = make(Labels, len(pairs))
		for _, p := range pairs {
			s.Labels[p.GetName()] = p.GetValue()
		}
	}

	switch t {
	case dto.MetricType_COUNTER:
		s.Value = m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		s.Value = m.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		s.Count = h.GetSampleCount()
		s.Sum = h.GetSampleSum()
		s.Value = s.Sum
		s.Buckets = make(map[float64]uint64, len(h.GetBucket()))
		for _, b := range h.GetBucket() {
			s.Buckets[b.GetUpperBound()] = b.GetCumulativeCount()
		}
	}
	return s
}

// Find returns the sample whose labels equal labels exactly.
func (s Snapshot) Find(name string, labels Labels) (Sample, bool) {
	for _, sample := range s[name] {
		if sameLabels(sample.Labels, labels) {
			return sample, true
		}
	}
	return Sample{}, false
}

// Value returns the counter or gauge value for labels, zero when never emitted.
func (s Snapshot) Value(name string, labels Labels) float64 {
	sample, _ := s.Find(name, labels)
	return sample.Value
}

// Count returns the histogram observation count for labels.
func (s Snapshot) Count(name string, labels Labels) uint64 {
	sample, _ := s.Find(name, labels)
	return sample.Count
}

// Total sums Value across every label combination of name.
func (s Snapshot) Total(name string) float64 {
	var total float64
	for _, sample := range s[name] {
		total += sample.Value
	}
	return total
}

// SumBy sums Value grouped by one label.
func (s Snapshot) SumBy(name, label string) map[string]float64 {
	out := make(map[string]float64)
	for _, sample := range s[name] {
		out[sample.Labels[label]] += sample.Value
	}
	return out
}

// Names lists the metric names present in the snapshot, sorted.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sameLabels(a, b Labels) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
