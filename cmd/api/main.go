package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/geocoder89/eventmail/internal/cache"
	"github.com/geocoder89/eventmail/internal/cache/memory"
	"github.com/geocoder89/eventmail/internal/cache/redis"
	"github.com/geocoder89/eventmail/internal/config"
	"github.com/geocoder89/eventmail/internal/dispatch"
	httpx "github.com/geocoder89/eventmail/internal/http"
	"github.com/geocoder89/eventmail/internal/mailer"
	"github.com/geocoder89/eventmail/internal/observability"
	"github.com/geocoder89/eventmail/internal/participants"
	"github.com/geocoder89/eventmail/internal/store"
	"github.com/geocoder89/eventmail/internal/store/file"
	"github.com/geocoder89/eventmail/internal/store/firestore"
	"github.com/geocoder89/eventmail/internal/store/postgres"
)

func main() {
	// Load the config set up
	config.LoadDotEnv()
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	startCtx, cancelStart := config.WithTimeout(15 * time.Second)
	defer cancelStart()

	shutdownTracer, err := observability.InitTracer(startCtx, observability.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	// store initialization
	backend, closers, err := openStore(startCtx, cfg, log)
	if err != nil {
		log.Error("store init failed", "backend", cfg.Store.Backend, "err", err)
		os.Exit(1)
	}

	backend, cacheCloser := withCache(backend, cfg.Cache, prom, log)
	if cacheCloser != nil {
		closers = append(closers, cacheCloser)
	}

	svc := participants.NewService(backend, log, prom)

	// mail
	var sender mailer.Sender
	switch cfg.Mail.Driver {
	case "log":
		log.Warn("mail driver is log; emails will not leave this process")
		sender = mailer.NewLogSender(log)
	default:
		if cfg.Mail.User == "" {
			log.Warn("EMAIL_USER is not set; the relay will reject every send")
		}
		sender = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			User:     cfg.Mail.User,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
	}

	m := mailer.New(sender, log, prom)
	dispatcher := dispatch.New(dispatch.Config{Concurrency: cfg.SendConcurrency}, m, log)

	router := httpx.NewRouter(httpx.Deps{
		Env:            cfg.Env,
		Log:            log,
		Prom:           prom,
		Gatherer:       reg,
		Participants:   svc,
		Dispatcher:     dispatcher,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// a bulk send holds the request open until every email is attempted;
		// zero (the default) disables the limit
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.Store.Backend, "mail", cfg.Mail.Driver)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		for _, c := range closers {
			if err := c.Close(); err != nil {
				log.Warn("close failed", "err", err)
			}
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Warn("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store.Backend, []io.Closer, error) {
	switch cfg.Store.Backend {
	case "firestore":
		b, err := firestore.New(ctx, firestore.Config{
			ProjectID:       cfg.Store.ProjectID,
			CredentialsFile: cfg.Store.CredentialsFile,
		})
		if err != nil {
			return nil, nil, err
		}
		return b, []io.Closer{b}, nil

	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Store.DBURL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewBackend(pool), []io.Closer{closerFunc(func() error { pool.Close(); return nil })}, nil

	case "file":
		return file.NewBackend(cfg.Store.ParticipantsFile, log), nil, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", store.ErrUnknownBackend, cfg.Store.Backend)
}

func withCache(backend store.Backend, cfg config.CacheConfig, prom *observability.Prom, log *slog.Logger) (store.Backend, io.Closer) {
	switch cfg.Driver {
	case "memory":
		return cache.Wrap(backend, memory.New(cfg.TTL), cfg.TTL, prom, log), nil

	case "redis":
		c := redis.New(redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, log)
		return cache.Wrap(backend, c, cfg.TTL, prom, log), c

	case "", "none":
		return backend, nil
	}

	log.Warn("unknown cache driver, caching disabled", "driver", cfg.Driver)
	return backend, nil
}
