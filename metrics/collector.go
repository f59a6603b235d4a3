// Package metrics exposes DAG builds as Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/voxelsplace/voxeldag/vdag"
)

const (
	levelLabel = "level"
	stageLabel = "stage"
)

// Collector records build checkpoints. It implements vdag.Observer.
type Collector struct {
	levelNodes    *prometheus.GaugeVec
	levelUnique   *prometheus.GaugeVec
	levelWords    *prometheus.GaugeVec
	refsRewritten *prometheus.CounterVec
	stages        *prometheus.CounterVec
	builds        prometheus.Counter
	buildDuration prometheus.Histogram
}

// NewCollector registers the build metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		levelNodes: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vdag_level_nodes",
			Help: "The number of nodes of a level before deduplication.",
		}, []string{levelLabel}),

		levelUnique: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vdag_level_unique_nodes",
			Help: "The number of canonical nodes of a level.",
		}, []string{levelLabel}),

		levelWords: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vdag_level_words",
			Help: "The packed size of a level in 64-bit words.",
		}, []string{levelLabel}),

		refsRewritten: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vdag_refs_rewritten_total",
			Help: "The number of child references redirected to canonical nodes.",
		}, []string{levelLabel}),

		stages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vdag_stages_total",
			Help: "The number of times the build pipeline entered a stage.",
		}, []string{stageLabel}),

		builds: f.NewCounter(prometheus.CounterOpts{
			Name: "vdag_builds_total",
			Help: "The number of completed builds.",
		}),

		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vdag_build_duration_seconds",
			Help:    "The time spent compacting and encoding a DAG.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

func level(k int) prometheus.Labels {
	return prometheus.Labels{levelLabel: strconv.Itoa(k)}
}

func (c *Collector) LevelStarted(k, nodes int) {
	c.levelNodes.With(level(k)).Set(float64(nodes))
}

func (c *Collector) LevelCanonicalized(k, nodes, unique int) {
	c.levelNodes.With(level(k)).Set(float64(nodes))
	c.levelUnique.With(level(k)).Set(float64(unique))
}

func (c *Collector) ParentRewritten(k, refs int) {
	c.refsRewritten.With(level(k)).Add(float64(refs))
}

func (c *Collector) LevelEncoded(k, _, words int) {
	c.levelWords.With(level(k)).Set(float64(words))
}

func (c *Collector) StageEntered(s vdag.Stage, _ int) {
	c.stages.With(prometheus.Labels{stageLabel: s.String()}).Inc()
}

func (c *Collector) BuildDone(elapsed time.Duration) {
	c.builds.Inc()
	c.buildDuration.Observe(elapsed.Seconds())
}

// WriteTextfile dumps everything g gathers to path in the text exposition
// format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return errors.Wrapf(err, "write metrics to %s", path)
	}
	return nil
}
