package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/geocoder89/eventmail/internal/http/handlers"
	"github.com/geocoder89/eventmail/internal/http/middlewares"
	"github.com/geocoder89/eventmail/internal/observability"
)

// ParticipantStore is everything the read endpoints need from the store layer.
type ParticipantStore interface {
	handlers.ParticipantLister
	handlers.EventLister
	Ping(ctx context.Context) error
}

type Deps struct {
	Env  string
	Log  *slog.Logger
	Prom *observability.Prom
	// Gatherer backs /metrics; nil leaves the route unmounted.
	Gatherer prometheus.Gatherer

	Participants ParticipantStore
	Dispatcher   handlers.EmailDispatcher

	AllowedOrigins []string
	MaxBodyBytes   int64
}

func NewRouter(d Deps) *gin.Engine {
	if d.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}

	r := gin.New()

	// middleware
	r.Use(middlewares.Recovery(d.Log))
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(observability.ServiceName))
	r.Use(middlewares.RequestLogger(d.Log))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.CORSMiddleware(d.AllowedOrigins))
	r.Use(middlewares.SecurityHeaders())
	if d.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(d.MaxBodyBytes))
	}

	// health
	var ping func(ctx context.Context) error
	if d.Participants != nil {
		ping = d.Participants.Ping
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/test", h.Test)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// Wire up handlers
	participantsHandler := handlers.NewParticipantsHandler(d.Participants, d.Log)
	eventsHandler := handlers.NewEventsHandler(d.Participants)
	emailsHandler := handlers.NewEmailsHandler(d.Dispatcher)

	r.GET("/participants", participantsHandler.ListParticipants)
	r.GET("/events", eventsHandler.ListEvents)
	r.POST("/send-emails", emailsHandler.SendEmails)

	return r
}
