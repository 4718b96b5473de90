// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure stages for UploadFailures.
const (
	StageRequest = "request"
	StageImage   = "image"
	StageLog     = "log"
)

var (
	Uploads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocapture_uploads_total",
			Help: "Total number of captures stored",
		},
	)

	UploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocapture_upload_bytes_total",
			Help: "Total number of image bytes written to the upload directory",
		},
	)

	UploadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocapture_upload_failures_total",
			Help: "Total number of failed uploads",
		},
		[]string{"stage"}, // request, image, log
	)

	GalleryRenders = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocapture_gallery_renders_total",
			Help: "Total number of gallery pages rendered",
		},
	)

	LiveViewers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "geocapture_live_viewers",
			Help: "Current number of connected live feed viewers",
		},
	)
)

// RecordUpload counts one stored capture of size bytes.
func RecordUpload(size int64) {
	Uploads.Inc()
	UploadBytes.Add(float64(size))
}

// RecordUploadFailure counts one failed upload at the given stage.
func RecordUploadFailure(stage string) {
	UploadFailures.WithLabelValues(stage).Inc()
}
