package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DatasetFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cellloc_dataset_fetches_total",
		Help: "Dataset downloads by result (ok, network, io)",
	}, []string{"result"})
	DatasetFetchBytesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cellloc_dataset_fetch_bytes_total",
		Help: "Total number of dataset bytes written to the cache directory",
	})
	DatasetEvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cellloc_dataset_evictions_total",
		Help: "Datasets removed from the cache directory to honour the dataset cap",
	})
	TrigIndexBuildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cellloc_trig_index_builds_total",
		Help: "Number of times a trig index was populated on open",
	})
	OpenStores = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cellloc_open_stores",
		Help: "Proximity stores currently retained by the coordinator",
	})
	QueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cellloc_queries_total",
		Help: "Proximity queries by result (ok, geocode, fetch, open, query, closed)",
	}, []string{"result"})
	QueryDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cellloc_query_duration_ms",
		Help:    "QueryNear duration in milliseconds, including fetch and open",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000, 30000},
	})
	PositionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cellloc_positions_total",
		Help: "Positions submitted to the hub, by whether they passed the movement gate",
	}, []string{"moved"})
)

func init() {
	prometheus.MustRegister(DatasetFetchesTotal)
	prometheus.MustRegister(DatasetFetchBytesTotal)
	prometheus.MustRegister(DatasetEvictionsTotal)
	prometheus.MustRegister(TrigIndexBuildsTotal)
	prometheus.MustRegister(OpenStores)
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDurationMs)
	prometheus.MustRegister(PositionsTotal)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
