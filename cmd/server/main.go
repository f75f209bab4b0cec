package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/alerts"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/backend"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/config"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/money"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/news"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/notify"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/portfolio"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/quotes"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/rates"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/refresh"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/session"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/tax"
	"github.com/avelthuis/portfolio-dashboard-gateway/internal/transactions"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Session token store
	sess, err := session.NewStore(cfg.Session.Path, cfg.Session.Key)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}

	// Outbound clients
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, sess)
	rateStore := rates.NewStore(cfg.Rates.Endpoint, cfg.Rates.Timeout)
	newsClient := news.NewClient(cfg.News.BaseURL, cfg.News.APIKey)
	taxClient := tax.NewClient(cfg.Tax.Endpoint)

	// Core services
	hub := refresh.NewHub()
	formatter := money.NewService(rateStore)
	aggregator := portfolio.New(client, hub)
	cryptoService := transactions.NewService(client, hub, backend.AssetCrypto)
	stockService := transactions.NewService(client, hub, backend.AssetStock)

	registry := alerts.NewRegistry()
	registrar := alerts.NewRegistrar(client, registry)

	// Background refresh of aggregated summaries
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	go aggregator.Watch(watchCtx)

	// Warm the dashboard when a session survived a restart.
	if sess.Active() {
		loadCtx, cancelLoad := context.WithTimeout(watchCtx, cfg.Backend.Timeout)
		if err := aggregator.Load(loadCtx); err != nil {
			log.Printf("Initial summary load failed: %v", err)
		}
		cancelLoad()
	}

	// Alert watcher on a cron schedule
	scheduler := cron.New()
	if cfg.Alerts.Enabled {
		stockQuotes := quotes.NewAlphaVantageClient(cfg.Quotes.AlphaVantageURL, cfg.Quotes.AlphaVantageKey, cfg.Quotes.RequestsPerMinute)
		cryptoQuotes := quotes.NewCoinMarketCapClient(cfg.Quotes.CoinMarketCapURL, cfg.Quotes.CoinMarketCapKey, cfg.Quotes.RequestsPerMinute)
		sender := notify.NewEmailClient(cfg.Notify.Endpoint, cfg.Notify.Token, cfg.Notify.Recipient, cfg.Notify.UserID)
		watcher := alerts.NewWatcher(registry, stockQuotes, cryptoQuotes, sender)

		if _, err := scheduler.AddFunc(cfg.Alerts.Schedule, func() {
			watcher.Sweep(watchCtx)
		}); err != nil {
			log.Fatalf("Failed to schedule alert watcher: %v", err)
		}
		scheduler.Start()
		log.Printf("Alert watcher scheduled: %s", cfg.Alerts.Schedule)
	}

	// Create router
	router := api.NewRouter(api.Dependencies{
		Config:     cfg,
		Session:    sess,
		Backend:    client,
		Rates:      rateStore,
		Money:      formatter,
		Aggregator: aggregator,
		Crypto:     cryptoService,
		Stocks:     stockService,
		Registrar:  registrar,
		Registry:   registry,
		News:       newsClient,
		Tax:        taxClient,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	cancelWatch()
	<-scheduler.Stop().Done()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
