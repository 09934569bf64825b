package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder("test", reg)
	require.NoError(t, err)

	r.RecordUpload("bucket", "images", time.Millisecond, 128, "")
	r.RecordUpload("bucket", "images", time.Millisecond, 64, "signing")
	r.RecordPersistFailure()
	r.RecordLogin(true)
	r.RecordLogin(false)
	r.RecordLogin(false)

	assert.Equal(t, 128.0, testutil.ToFloat64(r.uploadBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.uploadErrors.WithLabelValues("bucket", "signing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.persistFailures))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.logins.WithLabelValues("failure")))
}

func TestRecorder_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder("test", reg)
	require.NoError(t, err)
	_, err = NewRecorder("test", reg)
	assert.NoError(t, err)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.RecordUpload("bucket", "images", time.Second, 1, "")
		r.RecordPersistFailure()
		r.RecordLogin(true)
	})
}
