// Package metrics defines package-level Prometheus metric variables for
// burnnote. Call Register() once at startup to expose them on the default
// registry, or RegisterWith() to use an isolated registry in tests.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// NotesStored counts notes accepted for one-time retrieval.
	NotesStored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "burnnote_notes_stored_total",
		Help: "Total notes accepted for one-time retrieval.",
	})

	// NotesConsumed counts notes destroyed by retrieval.
	NotesConsumed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "burnnote_notes_consumed_total",
		Help: "Total notes retrieved and destroyed.",
	})

	// NotesSwept counts notes evicted unread by the expiry sweeper.
	NotesSwept = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "burnnote_notes_swept_total",
		Help: "Total notes evicted unread after their TTL.",
	})

	// NotesLive is a gauge of notes currently held.
	NotesLive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "burnnote_notes_live",
		Help: "Notes currently held and awaiting retrieval.",
	})

	// IDCollisions counts id generation collisions during submission.
	IDCollisions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "burnnote_id_collisions_total",
		Help: "Generated note ids that collided with a live note.",
	})

	// RequestsRejected counts admission rejections, labelled by scope.
	RequestsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "burnnote_requests_rejected_total",
		Help: "Requests rejected by a hard rate limit, by scope.",
	}, []string{"scope"})

	// SlowdownDelay observes the artificial delay applied to responses by
	// the progressive slowdown policy.
	SlowdownDelay = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "burnnote_slowdown_delay_seconds",
		Help:    "Artificial response delay applied by the slowdown policy.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 8),
	})

	// SweepFailures counts sweep ticks that returned an error.
	SweepFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "burnnote_sweep_failures_total",
		Help: "Expiry sweep runs that failed.",
	})
)

// Register registers all metrics with prometheus.DefaultRegisterer.
// Call once at process startup.
func Register() {
	RegisterWith(prometheus.DefaultRegisterer)
}

// RegisterWith registers all metrics with the given registerer.
// Use an isolated prometheus.NewRegistry() in tests to avoid conflicts.
func RegisterWith(reg prometheus.Registerer) {
	reg.MustRegister(
		NotesStored,
		NotesConsumed,
		NotesSwept,
		NotesLive,
		IDCollisions,
		RequestsRejected,
		SlowdownDelay,
		SweepFailures,
	)
}
