package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "groupr"

type metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	membersAdded    *prometheus.CounterVec
	membersRemoved  prometheus.Counter
	formRejections  *prometheus.CounterVec
	imagesUploaded  prometheus.Counter
	seedRuns        *prometheus.CounterVec
	rateLimited     prometheus.Counter
}

// newMetrics registers the server's collectors on reg. Each server owns its
// registry so several servers can coexist in one process.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		membersAdded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "members_added_total",
			Help:      "Members stored, by how they were added.",
		}, []string{"source"}),
		membersRemoved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "members_removed_total",
			Help:      "Members removed from a group.",
		}),
		formRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_rejections_total",
			Help:      "Form submissions rejected before reaching storage.",
		}, []string{"form"}),
		imagesUploaded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_uploaded_total",
			Help:      "Placeholder images stored.",
		}),
		seedRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_runs_total",
			Help:      "Seed endpoint runs by outcome.",
		}, []string{"outcome"}),
		rateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}
}

func (m *metrics) observeRequest(route, method string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// routeLabel keeps label cardinality bounded by using the matched pattern
// rather than the raw path.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	return r.Pattern
}
