// Package metrics collects and exposes Prometheus metrics for the bot.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements service.Metrics and the transport counters.
type Collector struct {
	quizzesStarted  prometheus.Counter
	quizzesFinished prometheus.Counter
	quizScore       prometheus.Histogram
	answers         *prometheus.CounterVec
	registrations   *prometheus.CounterVec
	archives        prometheus.Counter
	updates         *prometheus.CounterVec
	droppedUpdates  *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		quizzesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verben_quizzes_started_total",
			Help: "Number of quiz sessions started.",
		}),
		quizzesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verben_quizzes_finished_total",
			Help: "Number of quiz sessions played to the last question.",
		}),
		quizScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "verben_quiz_score_ratio",
			Help:    "Share of correct answers in a finished quiz.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verben_answers_total",
			Help: "Number of logged answers by correctness.",
		}, []string{"correct"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verben_registrations_total",
			Help: "Number of registrations, split into new rows and reactivations.",
		}, []string{"reactivated"}),
		archives: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verben_archives_total",
			Help: "Number of archived user identities.",
		}),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verben_updates_total",
			Help: "Telegram updates received by kind.",
		}, []string{"kind"}),
		droppedUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verben_updates_dropped_total",
			Help: "Telegram updates dropped before handling, by reason (rate_limited, queue_full).",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.quizzesStarted,
		c.quizzesFinished,
		c.quizScore,
		c.answers,
		c.registrations,
		c.archives,
		c.updates,
		c.droppedUpdates,
	)

	return c
}

func (c *Collector) RecordQuizStarted() {
	c.quizzesStarted.Inc()
}

func (c *Collector) RecordAnswer(isCorrect bool) {
	c.answers.WithLabelValues(strconv.FormatBool(isCorrect)).Inc()
}

// RecordQuizFinished counts a finished quiz and observes its score ratio.
func (c *Collector) RecordQuizFinished(score, total int) {
	c.quizzesFinished.Inc()
	if total > 0 {
		c.quizScore.Observe(float64(score) / float64(total))
	}
}

func (c *Collector) RecordRegistration(reactivated bool) {
	c.registrations.WithLabelValues(strconv.FormatBool(reactivated)).Inc()
}

func (c *Collector) RecordArchive() {
	c.archives.Inc()
}

// RecordUpdate counts an inbound update; kind is "message", "callback" or "other".
func (c *Collector) RecordUpdate(kind string) {
	c.updates.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordDroppedUpdate(reason string) {
	c.droppedUpdates.WithLabelValues(reason).Inc()
}

// Handler returns an HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute returns a mux serving /metrics.
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
