package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveCall("image", "gemini", "imagen", true, time.Second)
	r.ObserveCall("image", "gemini", "imagen", false, time.Second)
	r.ObserveCall("svg", "gemini", "flash", true, time.Second)
	r.ObserveBatch("success", 10*time.Second)
	r.IncLogoFailure()
	r.IncLogoFailure()

	assert.Equal(t, 1.0, testutil.ToFloat64(r.callsTotal.WithLabelValues("image", "gemini", "imagen", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.callsTotal.WithLabelValues("svg", "gemini", "flash", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.batchesTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.logoFailures))
}

func TestNewRecorder_SeparateRegistries(t *testing.T) {
	// Registering twice on distinct registries must not panic.
	assert.NotPanics(t, func() {
		NewRecorder(prometheus.NewRegistry())
		NewRecorder(prometheus.NewRegistry())
	})
}
