package metrics

import (
	"shopfloor/internal/core/domain/model/group"

	"github.com/prometheus/client_golang/prometheus"
)

// RealtimeMetrics observes the session registry and the broadcast router.
type RealtimeMetrics struct {
	ConnectedSessions   prometheus.Gauge
	GroupMembers        *prometheus.GaugeVec
	BroadcastsTotal     *prometheus.CounterVec
	BroadcastRecipients *prometheus.CounterVec
	SweepEvictions      prometheus.Counter
}

// NewRealtimeMetrics creates and registers realtime metrics on the given registry.
func NewRealtimeMetrics(reg prometheus.Registerer) *RealtimeMetrics {
	m := &RealtimeMetrics{
		ConnectedSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "connected_sessions",
			Help:      "Number of sessions in the registry.",
		}),
		GroupMembers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "group_members",
			Help:      "Number of sessions per group.",
		}, []string{"group"}),
		BroadcastsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "broadcasts_total",
			Help:      "Total number of order broadcasts, by event.",
		}, []string{"event"}),
		BroadcastRecipients: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "broadcast_recipients_total",
			Help:      "Total number of connections reached by order broadcasts, by event.",
		}, []string{"event"}),
		SweepEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "sweep_evictions_total",
			Help:      "Total number of dead sessions removed by the liveness sweep.",
		}),
	}

	reg.MustRegister(m.ConnectedSessions, m.GroupMembers, m.BroadcastsTotal, m.BroadcastRecipients, m.SweepEvictions)
	return m
}

// SessionsChanged implements realtime.Observer. Every known group is set so
// emptied groups drop to zero.
func (m *RealtimeMetrics) SessionsChanged(total int, groupSizes map[group.Name]int) {
	m.ConnectedSessions.Set(float64(total))
	m.GroupMembers.WithLabelValues(group.Dispatchers.String()).Set(float64(groupSizes[group.Dispatchers]))
	for _, team := range group.Teams() {
		m.GroupMembers.WithLabelValues(team.String()).Set(float64(groupSizes[team]))
	}
}

// Broadcast implements realtime.Observer.
func (m *RealtimeMetrics) Broadcast(event string, recipients int) {
	m.BroadcastsTotal.WithLabelValues(event).Inc()
	m.BroadcastRecipients.WithLabelValues(event).Add(float64(recipients))
}

// SweepEvicted implements realtime.Observer.
func (m *RealtimeMetrics) SweepEvicted(n int) {
	m.SweepEvictions.Add(float64(n))
}
