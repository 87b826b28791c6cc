package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/Guyuepp/market-front/domain"
	"github.com/Guyuepp/market-front/internal/client"
	myRedisCache "github.com/Guyuepp/market-front/internal/repository/redis"
	"github.com/Guyuepp/market-front/internal/rest"
	"github.com/Guyuepp/market-front/internal/session"
	"github.com/Guyuepp/market-front/internal/socket"
	"github.com/Guyuepp/market-front/internal/workers"
)

func serve(_ *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// backend client
	// API_RATE_LIMIT <= 0 turns throttling off
	rateLimit := envInt("API_RATE_LIMIT", defaultRateLimit)
	api, err := client.New(
		envString("MARKET_API_BASE_URL", defaultBackendURL),
		client.WithRateLimit(rate.Limit(rateLimit), rateLimit),
	)
	if err != nil {
		return err
	}

	// prepare cache, optional
	var productCache domain.ProductCache
	if host := envString("CACHE_HOST", ""); host != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     host + ":" + envString("CACHE_PORT", "6379"),
			Password: envString("CACHE_PASS", ""),
			DB:       envInt("CACHE_DB", defaultCacheDB),
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				logrus.Errorf("got error when closing the cache connection: %v", err)
			}
		}()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		productCache = myRedisCache.NewProductCache(rdb)
	} else {
		logrus.Info("CACHE_HOST is empty, product pages are not cached")
	}

	// Start worker
	hub := socket.NewHub()
	notifier := workers.NewNotifyWorker(hub)
	workerDone := make(chan struct{})
	go func() {
		notifier.Start(ctx)
		close(workerDone)
	}()

	idle := time.Duration(envInt("SESSION_IDLE_MINUTES", defaultIdleMinutes)) * time.Minute
	sessions := session.NewManager(session.Config{
		Client:   api,
		Cache:    productCache,
		CacheTTL: envSeconds("PRODUCT_CACHE_TTL_SEC", defaultCacheTTLSec),
		Notifier: notifier,
		OnClose:  hub.CloseSession,
	})
	go sessions.Sweep(ctx, idle, time.Minute)

	route, err := rest.NewRouter(rest.RouterConfig{
		Registry:      sessions,
		Socket:        hub,
		Timeout:       envSeconds("CONTEXT_TIMEOUT", defaultTimeout),
		SessionMaxAge: int(idle.Seconds()),
	})
	if err != nil {
		return err
	}

	// Start Server
	address := envString("SERVER_ADDRESS", defaultAddress)
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	return run(ctx, srv, func() {
		hub.Close()
		logrus.Info("Waiting for worker to cleanup...")
		<-workerDone
	})
}

// run serves until ctx is done and then shuts down, cleanup runs after the server stopped
func run(ctx context.Context, srv *http.Server, cleanup func()) error {
	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Server is running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if cleanup != nil {
		cleanup()
	}
	logrus.Info("Server exiting")
	return nil
}
