package httpserver

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tinytelemetry/chatstats/internal/appshell"
	"github.com/tinytelemetry/chatstats/internal/model"
)

// metrics is a per-server registry so several servers can coexist in one
// process.
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	loads    *prometheus.CounterVec
}

func newMetrics(data model.DatasetReader) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatstats_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatstats_loads_total",
			Help: "Chat log loads by resulting state.",
		}, []string{"state"}),
	}

	buckets := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "chatstats_dataset_minutes",
		Help: "Minutes in the current dataset, 0 when none is loaded.",
	}, func() float64 {
		d, ok := data.Dataset()
		if !ok {
			return 0
		}
		return float64(len(d.Stats))
	})
	messages := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "chatstats_dataset_messages",
		Help: "Messages in the current dataset, 0 when none is loaded.",
	}, func() float64 {
		d, ok := data.Dataset()
		if !ok {
			return 0
		}
		return float64(d.Summary.Total)
	})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.loads,
		buckets,
		messages,
	)
	return m
}

// middleware counts every request by its route pattern.
func (m *metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func (m *metrics) observeLoad(st appshell.State) {
	m.loads.WithLabelValues(st.Name()).Inc()
}

func (m *metrics) handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
