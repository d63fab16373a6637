package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace     = "hf"
	cronSubsystem = "cron"
)

// CronJobMetrics tracks the cron-worker's jobs. A nil *CronJobMetrics is a
// valid no-op recorder.
type CronJobMetrics struct {
	duration    *prometheus.HistogramVec
	runs        *prometheus.CounterVec
	lastSuccess *prometheus.GaugeVec
	skipped     prometheus.Counter
}

func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return nil
	}
	m := &CronJobMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: cronSubsystem,
			Name:      "job_duration_seconds",
			Help:      "Duration of cron jobs in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: cronSubsystem,
			Name:      "job_runs_total",
			Help:      "Cron job executions by outcome.",
		}, []string{"job", "outcome"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: cronSubsystem,
			Name:      "job_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run per job.",
		}, []string{"job"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: cronSubsystem,
			Name:      "cycles_skipped_total",
			Help:      "Cycles skipped because another worker held the lock.",
		}),
	}
	reg.MustRegister(m.duration, m.runs, m.lastSuccess, m.skipped)
	return m
}

// ObserveRun records one finished job execution.
func (c *CronJobMetrics) ObserveRun(job string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	if job == "" {
		job = "unknown"
	}
	c.duration.WithLabelValues(job).Observe(elapsed.Seconds())
	if err != nil {
		c.runs.WithLabelValues(job, "failure").Inc()
		return
	}
	c.runs.WithLabelValues(job, "success").Inc()
	c.lastSuccess.WithLabelValues(job).SetToCurrentTime()
}

func (c *CronJobMetrics) IncSkipped() {
	if c == nil {
		return
	}
	c.skipped.Inc()
}
