package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apphttp "github.com/hirehub/backend/internal/application/http"
	apprepo "github.com/hirehub/backend/internal/application/repository"
	appservice "github.com/hirehub/backend/internal/application/service"
	"github.com/hirehub/backend/internal/common/bootstrap"
	"github.com/hirehub/backend/internal/common/clock"
	"github.com/hirehub/backend/internal/common/constants"
	"github.com/hirehub/backend/internal/common/crypto"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
	"github.com/hirehub/backend/internal/common/events"
	commonhttp "github.com/hirehub/backend/internal/common/http"
	"github.com/hirehub/backend/internal/common/jwtverify"
	"github.com/hirehub/backend/internal/common/resilience"
	srv "github.com/hirehub/backend/internal/common/server"
	jobrepo "github.com/hirehub/backend/internal/job/repository"
	"github.com/hirehub/backend/internal/messaging/directory"
	"github.com/hirehub/backend/internal/messaging/eligibility"
	msghttp "github.com/hirehub/backend/internal/messaging/http"
	"github.com/hirehub/backend/internal/messaging/limiter"
	"github.com/hirehub/backend/internal/messaging/relay"
	msgrepo "github.com/hirehub/backend/internal/messaging/repository"
	msgservice "github.com/hirehub/backend/internal/messaging/service"
	"github.com/hirehub/backend/internal/messaging/websocket"
	userdomain "github.com/hirehub/backend/internal/user/domain"
	userrepo "github.com/hirehub/backend/internal/user/repository"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.NewAPIApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start api: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	log := app.Log
	cfg := app.Config

	userRepo := userrepo.NewPgRepository(app.Pool)
	jobRepo := jobrepo.NewPgRepository(app.Pool)
	applicationRepo := apprepo.NewPgRepository(app.Pool, app.TxManager)
	messageRepo := msgrepo.NewPgRepository(app.Pool)

	bus := events.NewBus(log)
	idGen := crypto.NewUUIDGenerator()
	clk := clock.NewRealClock()

	dir := directory.New()
	var dispatcher msgservice.Dispatcher = dir

	var wg sync.WaitGroup
	if app.Redis != nil {
		rel := relay.New(app.Redis, constants.RelayChannel, dir, log)
		dispatcher = rel
		wg.Add(1)
		go func() {
			defer wg.Done()
			rel.Run(ctx)
		}()
	}

	messagingService := msgservice.NewMessagingService(msgservice.MessagingServiceDeps{
		Messages:   messageRepo,
		Profiles:   userRepo,
		Gate:       eligibility.NewGate(userRepo, jobRepo, applicationRepo, log),
		Dispatcher: dispatcher,
		Limiter:    limiter.New(app.Redis, cfg.MessageRateLimit, cfg.MessageRateWindow, log),
		Breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Threshold:   cfg.CircuitBreakerThreshold,
			Timeout:     cfg.CircuitBreakerTimeout,
			ResetAfter:  cfg.CircuitBreakerReset,
			Name:        "message_store",
			Logger:      log,
			IgnoreError: commonerrors.IsDomainError,
		}),
		IDGenerator: idGen,
		Clock:       clk,
		Log:         log,
	})
	messagingService.Subscribe(bus)

	applicationService := appservice.NewApplicationService(appservice.ApplicationServiceDeps{
		Applications: applicationRepo,
		Jobs:         jobRepo,
		Users:        userRepo,
		Events:       bus,
		IDGenerator:  idGen,
		Clock:        clk,
		Log:          log,
	})

	rateLimiter := commonhttp.NewStrictRateLimiter(jwtverify.UserKey)
	jwtMw := jwtverify.Middleware(cfg.JWTSecret, log)

	wsCfg := websocket.ClientConfig{
		WriteWait:   cfg.WebSocketWriteWait,
		PongWait:    cfg.WebSocketPongWait,
		PingPeriod:  cfg.WebSocketPingPeriod,
		MaxMsgSize:  cfg.WebSocketMaxMsgSize,
		SendBufSize: cfg.WebSocketSendBufSize,
	}
	wsRouter := websocket.NewRouter(dir, messagingService, cfg.RequestTimeout, log)
	wsHandler := websocket.NewHandler(wsRouter, wsCfg, cfg.ClientURL, log)

	checks := map[string]commonhttp.HealthCheck{"postgres": app.Pool.Ping}
	if app.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() }
	}

	r := chi.NewRouter()
	r.Get("/health", commonhttp.HealthHandler(log, checks))
	r.Handle("/metrics", promhttp.Handler())
	r.With(jwtMw).Handle("/ws", wsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtMw)
		r.Use(jwtverify.RequireRoles(string(userdomain.RoleStudent), string(userdomain.RoleRecruiter)))
		r.Use(rateLimiter.General())
		r.Use(commonhttp.WithTimeout(cfg.RequestTimeout))

		msghttp.NewHandler(messagingService, log, rateLimiter.Send()).Routes(r)
		apphttp.NewHandler(applicationService, log).Routes(r)
	})
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		commonhttp.WriteError(w, http.StatusNotFound, commonhttp.CodeNotFound, "route not found")
	})

	handler := commonhttp.BuildBaseHandler("api", cfg.ClientURL, log, r)
	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), handler)

	if err := srv.Run(ctx, server, log, "api",
		func(context.Context) error {
			rateLimiter.Stop()
			return nil
		},
		func(shutdownCtx context.Context) error {
			cancel()
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-shutdownCtx.Done():
				return shutdownCtx.Err()
			}
		},
	); err != nil {
		log.Errorf("api service exited with error: %v", err)
	}
}
