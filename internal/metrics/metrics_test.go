package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/serroba/burnnote-go/internal/metrics"
	"github.com/stretchr/testify/assert"
)

func TestRegisterWith(t *testing.T) {
	t.Run("registers all metrics without panicking", func(t *testing.T) {
		assert.NotPanics(t, func() {
			metrics.RegisterWith(prometheus.NewRegistry())
		})
	})

	t.Run("panics on double registration", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		metrics.RegisterWith(reg)

		assert.Panics(t, func() {
			metrics.RegisterWith(reg)
		})
	})
}

func TestCounters(t *testing.T) {
	t.Run("stored counter increments", func(t *testing.T) {
		before := testutil.ToFloat64(metrics.NotesStored)

		metrics.NotesStored.Inc()

		assert.InDelta(t, before+1, testutil.ToFloat64(metrics.NotesStored), 0.001)
	})

	t.Run("rejected counter tracks scopes independently", func(t *testing.T) {
		before := testutil.ToFloat64(metrics.RequestsRejected.WithLabelValues("write"))

		metrics.RequestsRejected.WithLabelValues("write").Inc()
		metrics.RequestsRejected.WithLabelValues("write").Inc()

		assert.InDelta(t, before+2, testutil.ToFloat64(metrics.RequestsRejected.WithLabelValues("write")), 0.001)
	})

	t.Run("live gauge reflects last set value", func(t *testing.T) {
		metrics.NotesLive.Set(42)

		assert.InDelta(t, 42, testutil.ToFloat64(metrics.NotesLive), 0.001)
	})
}
