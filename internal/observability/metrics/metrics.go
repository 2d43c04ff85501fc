package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters/histograms for the message pipeline.
type PipelineMetrics struct {
	inboundTotal     *prometheus.CounterVec
	stageFailures    *prometheus.CounterVec
	leadsPersisted   *prometheus.CounterVec
	outboundTotal    *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadline",
			Subsystem: "pipeline",
			Name:      "inbound_total",
			Help:      "Total inbound webhook messages",
		}, []string{"type", "status"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadline",
			Subsystem: "pipeline",
			Name:      "stage_failures_total",
			Help:      "Failures degraded to fallbacks, by stage",
		}, []string{"stage"}),
		leadsPersisted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadline",
			Subsystem: "pipeline",
			Name:      "leads_persisted_total",
			Help:      "Lead records appended, by score",
		}, []string{"score"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadline",
			Subsystem: "pipeline",
			Name:      "outbound_total",
			Help:      "Outbound WhatsApp sends",
		}, []string{"status"}),
		pipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leadline",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "End-to-end pipeline latency per event",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.stageFailures, m.leadsPersisted, m.outboundTotal, m.pipelineDuration)
	return m
}

func (m *PipelineMetrics) ObserveInbound(msgType, status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(msgType, status).Inc()
}

func (m *PipelineMetrics) ObserveStageFailure(stage string) {
	if m == nil {
		return
	}
	m.stageFailures.WithLabelValues(stage).Inc()
}

func (m *PipelineMetrics) ObserveLeadPersisted(score string) {
	if m == nil {
		return
	}
	m.leadsPersisted.WithLabelValues(score).Inc()
}

func (m *PipelineMetrics) ObserveOutbound(status string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(status).Inc()
}

func (m *PipelineMetrics) ObserveDuration(seconds float64) {
	if m == nil {
		return
	}
	m.pipelineDuration.Observe(seconds)
}
