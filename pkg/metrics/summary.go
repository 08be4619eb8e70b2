package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Sample is one gathered value. Histograms contribute a _count and a _sum
// sample, the same way the text exposition format lays them out.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

// Summarize gathers g and flattens counters, gauges and histograms into
// samples ordered by name and labels.
func Summarize(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for _, mf := range families {
		name := mf.GetName()
		for _, m := range mf.GetMetric() {
			pairs := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			labels := strings.Join(pairs, ",")

			switch {
			case m.GetCounter() != nil:
				samples = append(samples, Sample{name, labels, m.GetCounter().GetValue()})
			case m.GetGauge() != nil:
				samples = append(samples, Sample{name, labels, m.GetGauge().GetValue()})
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				samples = append(samples,
					Sample{name + "_count", labels, float64(h.GetSampleCount())},
					Sample{name + "_sum", labels, h.GetSampleSum()},
				)
			}
		}
	}

	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].Name != samples[j].Name {
			return samples[i].Name < samples[j].Name
		}
		return samples[i].Labels < samples[j].Labels
	})
	return samples, nil
}
