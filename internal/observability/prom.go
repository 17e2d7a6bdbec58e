package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec

	// Store
	StoreOpDuration  *prometheus.HistogramVec
	StoreErrorsTotal *prometheus.CounterVec
	CacheLookups     *prometheus.CounterVec

	// Mail
	MailResults      *prometheus.CounterVec
	MailSendDuration prometheus.Histogram
	QRFailures       prometheus.Counter
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "eventmail",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "eventmail",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				// bulk sends can hold a request for minutes
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 300},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "eventmail",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		StoreOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "eventmail",
				Subsystem: "store",
				Name:      "op_duration_seconds",
				Help:      "Document store operation latency by logical op.",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
			},
			[]string{"op", "status"},
		),
		StoreErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "eventmail",
				Subsystem: "store",
				Name:      "errors_total",
				Help:      "Document store errors by logical op and class.",
			},
			[]string{"op", "class"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "eventmail",
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Store cache lookups by result.",
			},
			[]string{"result"}, // hit|miss
		),
		MailResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "eventmail",
				Subsystem: "mail",
				Name:      "sent_total",
				Help:      "Emails handed to the relay by result.",
			},
			[]string{"result"}, // ok|failed
		),
		MailSendDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "eventmail",
				Subsystem: "mail",
				Name:      "send_duration_seconds",
				Help:      "Time to compose and relay one email.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),
		QRFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "eventmail",
				Subsystem: "mail",
				Name:      "qr_failures_total",
				Help:      "QR codes that could not be generated; the email went out without one.",
			},
		),
	}
	reg.MustRegister(
		p.RequestsTotal, p.RequestsDuration, p.InFlight,
		p.StoreOpDuration, p.StoreErrorsTotal, p.CacheLookups,
		p.MailResults, p.MailSendDuration, p.QRFailures,
	)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}

// ObserveMail records one send. Safe on a nil receiver.
func (p *Prom) ObserveMail(start time.Time, ok bool) {
	if p == nil {
		return
	}

	result := "ok"
	if !ok {
		result = "failed"
	}
	p.MailResults.WithLabelValues(result).Inc()
	p.MailSendDuration.Observe(time.Since(start).Seconds())
}

func (p *Prom) IncQRFailure() {
	if p == nil {
		return
	}
	p.QRFailures.Inc()
}

func (p *Prom) ObserveCache(hit bool) {
	if p == nil {
		return
	}

	if hit {
		p.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	p.CacheLookups.WithLabelValues("miss").Inc()
}
