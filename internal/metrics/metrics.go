package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	TasksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "video_downloader_tasks_created_total",
		Help: "Total number of download tasks created",
	})

	TasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "video_downloader_tasks_completed_total",
		Help: "Total number of download tasks completed",
	})

	TasksFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "video_downloader_tasks_failed_total",
		Help: "Total number of download tasks failed",
	})

	TasksPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "video_downloader_tasks_pruned_total",
		Help: "Total number of finished tasks removed by retention",
	})

	ActiveDownloads = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "video_downloader_active_downloads",
		Help: "Number of downloads currently running",
	})

	Downloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "video_downloader_downloads_total",
		Help: "Download attempts by source type and result",
	}, []string{"source", "result"})

	DownloadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "video_downloader_download_duration_seconds",
		Help:    "Download duration in seconds by source type",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 1800},
	}, []string{"source"})

	DownloadBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "video_downloader_download_bytes_total",
		Help: "Total bytes of completed artifacts by source type",
	}, []string{"source"})
)
