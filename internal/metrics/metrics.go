package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// JobPostsOpen is the number of posts whose work date has not passed yet.
	// Refreshed periodically from the database.
	JobPostsOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "job_posts_open",
			Help: "Number of job posts with a work date of today or later",
		},
	)

	// JobPostsMutations counts post mutations by action (create, update, delete).
	JobPostsMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_posts_mutations_total",
			Help: "Total number of job post mutations by action",
		},
		[]string{"action"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, JobPostsOpen, JobPostsMutations)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /job-posts/123 -> /job-posts/{id}, /users/45 -> /users/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// SetJobPostsOpen updates the open-posts gauge (call from the stats refresher).
func SetJobPostsOpen(n int) {
	JobPostsOpen.Set(float64(n))
}

// IncJobPostsMutation increments the mutation counter for the given action (create, update, delete).
func IncJobPostsMutation(action string) {
	JobPostsMutations.WithLabelValues(action).Inc()
}
