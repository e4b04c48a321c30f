// Package metrics exposes evolution progress as Prometheus collectors. A nil
// *Collector is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	generations   prometheus.Counter
	children      prometheus.Counter
	accepted      prometheus.Counter
	snapshots     prometheus.Counter
	championScore prometheus.Gauge
	polygons      prometheus.Gauge
	points        prometheus.Gauge
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evoimage_generations_total",
			Help: "Generations evaluated.",
		}),
		children: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evoimage_children_evaluated_total",
			Help: "Children rendered and scored.",
		}),
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evoimage_champions_accepted_total",
			Help: "Children that replaced the champion.",
		}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evoimage_snapshots_total",
			Help: "Snapshot images written.",
		}),
		championScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "evoimage_champion_score",
			Help: "Fitness score of the current champion (lower is better).",
		}),
		polygons: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "evoimage_champion_polygons",
			Help: "Polygon count of the current champion.",
		}),
		points: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "evoimage_champion_points",
			Help: "Vertex count of the current champion.",
		}),
	}
	c.registry.MustRegister(c.generations, c.children, c.accepted, c.snapshots, c.championScore, c.polygons, c.points)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveGeneration(children int) {
	if c == nil {
		return
	}
	c.generations.Inc()
	c.children.Add(float64(children))
}

func (c *Collector) ObserveChampion(score uint64, polygons, points int, accepted bool) {
	if c == nil {
		return
	}
	if accepted {
		c.accepted.Inc()
	}
	c.championScore.Set(float64(score))
	c.polygons.Set(float64(polygons))
	c.points.Set(float64(points))
}

func (c *Collector) ObserveSnapshot() {
	if c == nil {
		return
	}
	c.snapshots.Inc()
}
