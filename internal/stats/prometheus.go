package stats

import (
	"strconv"
	"strings"

	"github.com/CZERTAINLY/log-lens/internal/model"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports the counters of a model.Stats as Prometheus counters.
// Values are read on every scrape, so the expvar maps stay the only source.
type Collector struct {
	stats model.Stats
}

func NewCollector(s model.Stats) *Collector {
	return &Collector{stats: s}
}

// Describe sends nothing, Collect uses const metrics, which makes the
// collector unchecked.
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for key, value := range c.stats.Stats() {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			continue
		}
		desc := prometheus.NewDesc(metricName(key), "log-lens counter "+key, nil, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, v)
	}
}

func metricName(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == ':':
			return r
		}
		return '_'
	}, key)
}
