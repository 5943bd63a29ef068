// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

// Command nexus serves the game catalog browser API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	"github.com/rewful008-cloud/nexus-game-catalog/internal/catalog"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/config"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/content"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/controller"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/logging"
	"github.com/rewful008-cloud/nexus-game-catalog/internal/web"
)

const fetchTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "nexus: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, syncLog, err := logging.New(logging.Options{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return fmt.Errorf("initialise logger: %w", err)
	}

	defer func() {
		_ = syncLog()
	}()

	logf.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logf.IntoContext(ctx, log)

	var store *catalog.Store

	if cfg.Data.Source == config.SourceConfigMap {
		store, err = watchConfigMap(ctx, log, cfg.Data)
		if err != nil {
			return err
		}
	} else {
		source, srcErr := newSource(cfg.Data)
		if srcErr != nil {
			return srcErr
		}

		store = catalog.NewStore(source, content.NewRenderer())
	}

	go func() {
		report := store.Load(ctx)
		log.Info("Catalog settled",
			"games", report.Games.Loaded,
			"plans", report.Plans.Loaded,
			"articles", report.Articles.Loaded)
	}()

	srv := web.NewServer(store, web.Options{
		RateLimit:    cfg.Limits.RatePerSecond,
		RateBurst:    cfg.Limits.Burst,
		MaxClients:   cfg.Limits.MaxClients,
		TrustProxy:   cfg.Limits.TrustProxy,
		SessionTTL:   cfg.Sessions.TTL,
		MaxSessions:  cfg.Sessions.MaxSessions,
		SecureCookie: cfg.Sessions.SecureCookie,
		Logger:       log,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, log, httpServer, cfg.Server.ShutdownTimeout)
}

func serve(ctx context.Context, log logr.Logger, httpServer *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "addr", httpServer.Addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

func newSource(cfg config.DataConfig) (catalog.Source, error) {
	if cfg.Source == config.SourceHTTP {
		source, err := catalog.NewHTTPSource(cfg.BaseURL, &http.Client{Timeout: fetchTimeout})
		if err != nil {
			return nil, fmt.Errorf("http source: %w", err)
		}

		return source, nil
	}

	return catalog.NewDirSource(os.DirFS(cfg.Dir)), nil
}

// watchConfigMap builds a store backed by the catalog ConfigMap and starts a
// manager that reloads it when the ConfigMap changes.
func watchConfigMap(ctx context.Context, log logr.Logger, cfg config.DataConfig) (*catalog.Store, error) {
	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		return nil, fmt.Errorf("register scheme: %w", err)
	}

	restConfig, err := ctrl.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("kubernetes config: %w", err)
	}

	mgr, err := ctrl.NewManager(restConfig, ctrl.Options{
		Scheme:  scheme,
		Metrics: metricsserver.Options{BindAddress: "0"},
		Cache: cache.Options{
			DefaultNamespaces: map[string]cache.Config{cfg.ConfigMapNamespace: {}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create manager: %w", err)
	}

	source := catalog.NewConfigMapSource(mgr.GetAPIReader(), cfg.ConfigMapNamespace, cfg.ConfigMapName)
	store := catalog.NewStore(source, content.NewRenderer())

	reconciler := &controller.CatalogReconciler{
		Client: mgr.GetClient(),
		Key:    types.NamespacedName{Namespace: cfg.ConfigMapNamespace, Name: cfg.ConfigMapName},
		Loader: store,
	}

	if err := reconciler.SetupWithManager(mgr); err != nil {
		return nil, fmt.Errorf("setup catalog controller: %w", err)
	}

	go func() {
		if err := mgr.Start(ctx); err != nil {
			log.Error(err, "Catalog watcher stopped")
		}
	}()

	return store, nil
}
