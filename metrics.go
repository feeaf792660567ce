package framesock

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Disconnect reasons used as the "reason" label of disconnects_total.
const (
	reasonPeerClosed = "peer_closed"
	reasonLocal      = "local"
	reasonTooLarge   = "message_too_large"
)

// Metrics holds the Prometheus collectors for connections. A nil *Metrics
// records nothing.
type Metrics struct {
	active       prometheus.Gauge
	accepted     prometheus.Counter
	disconnects  *prometheus.CounterVec
	messagesIn   prometheus.Counter
	messagesOut  prometheus.Counter
	bytesIn      prometheus.Counter
	bytesOut     prometheus.Counter
	sendFailures prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	const ns = "framesock"

	m := &Metrics{
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "connections_active",
			Help:      "Number of currently connected peers.",
		}),
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "connections_total",
			Help:      "Total number of connections created.",
		}),
		disconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "disconnects_total",
			Help:      "Total number of disconnects by reason.",
		}, []string{"reason"}),
		messagesIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "messages_received_total",
			Help:      "Total number of non-empty messages received.",
		}),
		messagesOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "messages_sent_total",
			Help:      "Total number of messages sent.",
		}),
		bytesIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "bytes_received_total",
			Help:      "Total payload bytes received.",
		}),
		bytesOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "bytes_sent_total",
			Help:      "Total payload bytes sent.",
		}),
		sendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "send_failures_total",
			Help:      "Total number of messages that could not be sent.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.active, m.accepted, m.disconnects, m.messagesIn,
		m.messagesOut, m.bytesIn, m.bytesOut, m.sendFailures,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) connected() {
	if m == nil {
		return
	}
	m.accepted.Inc()
	m.active.Inc()
}

func (m *Metrics) disconnected(reason string) {
	if m == nil {
		return
	}
	m.active.Dec()
	m.disconnects.WithLabelValues(reason).Inc()
}

func (m *Metrics) received(n int) {
	if m == nil {
		return
	}
	m.messagesIn.Inc()
	m.bytesIn.Add(float64(n))
}

func (m *Metrics) sent(n int) {
	if m == nil {
		return
	}
	m.messagesOut.Inc()
	m.bytesOut.Add(float64(n))
}

func (m *Metrics) sendFailed() {
	if m == nil {
		return
	}
	m.sendFailures.Inc()
}
