package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	stageDuration *prom.HistogramVec
	fileDuration  prom.Histogram
	fileOutcomes  *prom.CounterVec
	workerCount   prom.Gauge
	downloaded    prom.Counter
}

// NewPrometheusRecorder constructs and registers the pipeline metrics on a
// fresh registry (or the provided one).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "skyglow",
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual preprocessing stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.fileDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "skyglow",
		Name:      "file_duration_seconds",
		Help:      "End-to-end preprocessing duration per input file",
		Buckets:   prom.DefBuckets,
	})
	pr.fileOutcomes = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "skyglow",
		Name:      "file_outcomes_total",
		Help:      "Per-file terminal states by outcome",
	}, []string{"outcome"})
	pr.workerCount = prom.NewGauge(prom.GaugeOpts{
		Namespace: "skyglow",
		Name:      "batch_workers",
		Help:      "Worker pool size of the current batch run",
	})
	pr.downloaded = prom.NewCounter(prom.CounterOpts{
		Namespace: "skyglow",
		Name:      "downloaded_files_total",
		Help:      "Files fetched by the order downloader",
	})
	reg.MustRegister(pr.stageDuration, pr.fileDuration, pr.fileOutcomes, pr.workerCount, pr.downloaded)
	return pr
}

func (pr *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	pr.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveFileDuration(d time.Duration) {
	pr.fileDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncFileOutcome(outcome string) {
	pr.fileOutcomes.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) SetWorkerCount(n int) {
	pr.workerCount.Set(float64(n))
}

func (pr *PrometheusRecorder) IncDownloadedFiles(n int) {
	pr.downloaded.Add(float64(n))
}

// Handler exposes the registry for scraping.
func (pr *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(pr.registry, promhttp.HandlerOpts{})
}
