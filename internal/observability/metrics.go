package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LikeToggles counts like-set mutations by resulting action ("like" or "unlike").
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waypost_like_toggles_total",
		Help: "Total number of like toggles by resulting action",
	}, []string{"action"})

	// Uploads counts accepted uploads by kind ("post_image" or "avatar").
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waypost_uploads_total",
		Help: "Total number of accepted uploads by kind",
	}, []string{"kind"})

	// UploadRejections counts rejected uploads by reason ("media_type", "size", "count", "decode").
	UploadRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waypost_upload_rejections_total",
		Help: "Total number of rejected uploads by reason",
	}, []string{"reason"})

	// CleanupFailures counts image files that could not be removed after a
	// post deletion. Cleanup is best-effort; failures are counted, never surfaced.
	CleanupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waypost_image_cleanup_failures_total",
		Help: "Total number of image file cleanup failures",
	})
)
