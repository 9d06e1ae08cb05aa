package transport

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts transport traffic. A nil *Metrics records nothing.
type Metrics struct {
	messages     *prometheus.CounterVec
	acks         *prometheus.CounterVec
	decodeErrors prometheus.Counter
	peers        prometheus.Gauge
}

// NewMetrics builds an unregistered metric set; pass Collectors to the
// registry of your choice.
func NewMetrics() *Metrics {
	return &Metrics{
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coproto",
				Subsystem: "transport",
				Name:      "messages_total",
				Help:      "Values sent or received, by command name.",
			},
			[]string{"direction", "kind"},
		),
		acks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coproto",
				Subsystem: "transport",
				Name:      "acks_total",
				Help:      "Message outcomes: ack, nack or timeout.",
			},
			[]string{"result"},
		),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coproto",
			Subsystem: "transport",
			Name:      "decode_errors_total",
			Help:      "Streams dropped or messages skipped because they did not decode.",
		}),
		peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "coproto",
			Subsystem: "transport",
			Name:      "peers_connected",
			Help:      "Registered peers currently connected.",
		}),
	}
}

// Collectors returns every metric for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	if m == nil {
		return nil
	}
	return []prometheus.Collector{m.messages, m.acks, m.decodeErrors, m.peers}
}

// Register adds the metrics to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

const (
	directionIn  = "in"
	directionOut = "out"

	resultAck     = "ack"
	resultNack    = "nack"
	resultTimeout = "timeout"
)

func (m *Metrics) message(direction, kind string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(direction, kind).Inc()
}

func (m *Metrics) ack(result string) {
	if m == nil {
		return
	}
	m.acks.WithLabelValues(result).Inc()
}

func (m *Metrics) decodeError() {
	if m == nil {
		return
	}
	m.decodeErrors.Inc()
}

func (m *Metrics) peerConnected() {
	if m == nil {
		return
	}
	m.peers.Inc()
}

func (m *Metrics) peerDisconnected() {
	if m == nil {
		return
	}
	m.peers.Dec()
}
