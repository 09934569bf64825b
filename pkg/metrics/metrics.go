package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exports the service counters. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	uploadDuration  *prometheus.HistogramVec
	uploadErrors    *prometheus.CounterVec
	uploadBytes     prometheus.Counter
	persistFailures prometheus.Counter
	logins          *prometheus.CounterVec
}

func NewRecorder(namespace string, reg prometheus.Registerer) (*Recorder, error) {
	if namespace == "" {
		namespace = "portfolio"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		uploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "asset_upload_duration_seconds",
			Help:      "Latency of remote asset uploads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "bucket"}),
		uploadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_upload_errors_total",
			Help:      "Remote asset uploads that failed, by classification.",
		}, []string{"provider", "kind"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_uploaded_bytes_total",
			Help:      "Bytes successfully pushed to object storage.",
		}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_persist_failures_total",
			Help:      "Profile snapshot writes that fell back to memory only.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_logins_total",
			Help:      "Admin login attempts by outcome.",
		}, []string{"outcome"}),
	}

	collectors := []prometheus.Collector{r.uploadDuration, r.uploadErrors, r.uploadBytes, r.persistFailures, r.logins}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return r, nil
}

func (r *Recorder) RecordUpload(provider, bucket string, duration time.Duration, size int64, errKind string) {
	if r == nil {
		return
	}
	r.uploadDuration.WithLabelValues(provider, bucket).Observe(duration.Seconds())
	if errKind != "" {
		r.uploadErrors.WithLabelValues(provider, errKind).Inc()
		return
	}
	if size > 0 {
		r.uploadBytes.Add(float64(size))
	}
}

func (r *Recorder) RecordPersistFailure() {
	if r == nil {
		return
	}
	r.persistFailures.Inc()
}

func (r *Recorder) RecordLogin(success bool) {
	if r == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	r.logins.WithLabelValues(outcome).Inc()
}
