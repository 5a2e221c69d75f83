package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ContentMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sekolahku_content_mutations_total",
		Help: "Jumlah create/update/delete per entitas.",
	}, []string{"entity", "action"})

	RepositoryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sekolahku_repository_errors_total",
		Help: "Error repository per entitas dan jenis.",
	}, []string{"entity", "kind"})

	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sekolahku_uploads_total",
		Help: "Upload file per driver dan hasil.",
	}, []string{"driver", "outcome"})

	UploadBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sekolahku_upload_bytes",
		Help:    "Ukuran object yang ditulis ke storage.",
		Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8),
	}, []string{"driver"})

	EventsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sekolahku_events_delivered_total",
		Help: "Event yang masuk ke buffer subscriber.",
	}, []string{"topic"})

	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sekolahku_events_dropped_total",
		Help: "Event yang dibuang karena buffer subscriber penuh.",
	}, []string{"topic"})

	BatchItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sekolahku_gallery_batch_items_total",
		Help: "Item batch upload galeri per hasil.",
	}, []string{"outcome"})

	EditorSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sekolahku_editor_sessions",
		Help: "Sesi editor yang sedang aktif.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sekolahku_http_requests_total",
		Help: "Request HTTP per route dan status.",
	}, []string{"method", "route", "status"})
)
