package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// Metrics owns the prometheus registry and the KPI instruments the
// surrounding services feed.
type Metrics struct {
	Registry *prometheus.Registry

	SignupsTotal     prometheus.Counter
	LinkVisitsTotal  prometheus.Counter
	ImagesDerived    prometheus.Counter
	MessagesConsumed *prometheus.CounterVec
	MessagesDead     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		Registry: reg,
		SignupsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carvis_user_signups_total",
			Help: "New user signups consumed from the event channel.",
		}),
		LinkVisitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carvis_shareable_link_visits_total",
			Help: "Shareable link visit events counted.",
		}),
		ImagesDerived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "carvis_images_derived_total",
			Help: "Image size variants derived on demand.",
		}),
		MessagesConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carvis_messages_consumed_total",
			Help: "Messages acknowledged per channel.",
		}, []string{"channel"}),
		MessagesDead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carvis_messages_dead_lettered_total",
			Help: "Messages placed on a dead-letter topic per channel.",
		}, []string{"channel"}),
	}

	reg.MustRegister(m.SignupsTotal, m.LinkVisitsTotal, m.ImagesDerived, m.MessagesConsumed, m.MessagesDead)

	return m
}

// RegisterActiveUsers binds a gauge to the given sampling func, typically
// the active-user window's Count.
func (m *Metrics) RegisterActiveUsers(sample func() float64) {
	m.Registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "carvis_active_users",
		Help: "Approximate count of users seen within the activity window.",
	}, sample))
}

func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
