// cmd/search-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"scholarship-workers/internal/common/aws"
	"scholarship-workers/internal/common/camunda"
	"scholarship-workers/internal/common/config"
	httpclient "scholarship-workers/internal/common/http"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/observability"
	"scholarship-workers/internal/common/retry"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/search/aggregate"
	"scholarship-workers/internal/search/criteria"
	"scholarship-workers/internal/search/engine"
	"scholarship-workers/internal/search/enrich"
	"scholarship-workers/internal/search/sources/bedrock"
	"scholarship-workers/internal/search/sources/dynamo"
	"scholarship-workers/internal/search/sources/scrape"

	ss "scholarship-workers/internal/workers/scholarship/search-scholarships"
	sts "scholarship-workers/internal/workers/scholarship/store-scholarship"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting search manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("search-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init AWS Clients ---
	dynamoClient, err := aws.NewDynamoDBClient(ctx, cfg.AWS.Region)
	if err != nil {
		zapLog.Fatal("dynamodb client failed", zap.Error(err))
	}

	bedrockClient, err := aws.NewBedrockClient(ctx, cfg.AWS.Region)
	if err != nil {
		zapLog.Fatal("bedrock client failed", zap.Error(err))
	}

	zapLog.Info("AWS clients initialized")

	// --- Build the search pipeline ---
	store := dynamo.NewStore(dynamoClient, cfg.AWS.DynamoDB, log)

	adapters := []aggregate.Adapter{
		dynamo.NewAdapter(store),
		bedrock.NewAdapter(bedrockClient, cfg.AWS.Bedrock, log),
	}

	browserClient := httpclient.NewBrowserClient(
		time.Duration(cfg.Scraper.Timeout)*time.Millisecond,
		cfg.Scraper.UserAgent,
	)
	throttle := scrape.NewThrottle(time.Duration(cfg.Scraper.BaseDelay) * time.Millisecond)
	retryCfg := retry.Config{
		Attempts:  cfg.Scraper.RetryAttempts,
		BaseDelay: time.Duration(cfg.Scraper.BaseDelay) * time.Millisecond,
		MaxDelay:  5 * time.Second,
	}
	for _, scraper := range scrape.NewAdapters(scrapeSites(cfg), browserClient, retryCfg, throttle, log) {
		adapters = append(adapters, scraper)
	}

	aggregator := aggregate.New(
		adapters,
		store,
		time.Duration(cfg.Search.PerAdapterTimeout)*time.Millisecond,
		time.Duration(cfg.Search.OverallTimeout)*time.Millisecond,
		log,
	)

	var enricher engine.Enricher
	if cfg.AWS.Comprehend.Enabled {
		comprehendClient, err := aws.NewComprehendClient(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Fatal("comprehend client failed", zap.Error(err))
		}
		enricher = enrich.New(comprehendClient, cfg.AWS.Comprehend, log)
		zapLog.Info("Text analysis enabled")
	}

	searchEngine := engine.New(
		criteria.NewNormalizer(cfg.Search.DefaultMaxResults, cfg.Search.MaxResultsCap),
		aggregator,
		enricher,
		obs,
		log,
	)

	// --- Register Workers ---
	manager := camunda.NewWorkerManager(camundaClient.GetClient(), zapLog)

	if wcfg := cfg.Workers[ss.TaskType]; wcfg.Enabled {
		handler := ss.NewHandler(
			&ss.Config{
				Timeout: time.Duration(wcfg.Timeout) * time.Millisecond,
			},
			searchEngine, log,
		)
		manager.Start(ss.TaskType, wcfg.MaxJobsActive, time.Duration(wcfg.Timeout)*time.Millisecond, handler.Handle)
	}

	if wcfg := cfg.Workers[sts.TaskType]; wcfg.Enabled {
		handler := sts.NewHandler(
			&sts.Config{
				Timeout: time.Duration(wcfg.Timeout) * time.Millisecond,
			},
			store, log,
		)
		manager.Start(sts.TaskType, wcfg.MaxJobsActive, time.Duration(wcfg.Timeout)*time.Millisecond, handler.Handle)
	}
	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	manager.Close()

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Search manager stopped gracefully")
}

// scrapeSites maps configured sites onto the catalog, falling back to the
// defaults when none are configured.
func scrapeSites(cfg *config.Config) []models.ScrapeSite {
	if len(cfg.Scraper.Sites) == 0 {
		return scrape.DefaultSites
	}

	sites := make([]models.ScrapeSite, 0, len(cfg.Scraper.Sites))
	for _, s := range cfg.Scraper.Sites {
		sites = append(sites, models.ScrapeSite{
			Name:      s.Name,
			URL:       s.URL,
			SearchURL: s.SearchURL,
		})
	}
	return sites
}
