package di

import (
	"fmt"

	drepo "OddsCast/internal/domain/repository"
	"OddsCast/internal/handler/api"
	internalrepo "OddsCast/internal/repository"
	"OddsCast/internal/service/cache"
	"OddsCast/internal/service/leader"
	"OddsCast/internal/service/markets"
	"OddsCast/internal/usecase"
	"OddsCast/pkg/config"
	xhttp "OddsCast/pkg/http"
	pkgkafka "OddsCast/pkg/kafka"
	applogger "OddsCast/pkg/logger"
	"OddsCast/pkg/metrics"
	"OddsCast/pkg/server"

	"github.com/benbjohnson/clock"
	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Log.Format
	if format == "" {
		format = "console"
	}
	output := cfg.Log.Output
	if output == "" {
		output = "stdout"
	}
	l, err := applogger.New(&applogger.Config{Level: level, Format: format, Output: output})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideClock provides the real wall clock.
func ProvideClock() clock.Clock {
	return clock.New()
}

// ProvideSnapshotLog creates the file-backed snapshot log.
func ProvideSnapshotLog(cfg *config.Config, l *applogger.Logger, m drepo.Metrics) drepo.SnapshotLog {
	return internalrepo.NewFileSnapshotLog(cfg.Storage.LogPath, cfg.Storage.LegacyPath, l, m)
}

// ProvidePolymarketSource creates the Polymarket polling client.
func ProvidePolymarketSource(cfg *config.Config) drepo.PolymarketSource {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Polymarket.Timeout))
	return markets.NewPolymarket(cfg.Polymarket.URL, client)
}

// ProvideKalshiSource creates the Kalshi polling client.
func ProvideKalshiSource(cfg *config.Config) drepo.KalshiSource {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Kalshi.Timeout))
	return markets.NewKalshi(cfg.Kalshi.URL, client)
}

// ProvidePublisher creates the optional Kafka snapshot publisher.
// Returns nil when Kafka is disabled.
func ProvidePublisher(cfg *config.Config) (drepo.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideLeaderLock creates the ingestion leader lock. Without Redis the
// process is assumed to be the only ingester.
func ProvideLeaderLock(cfg *config.Config) drepo.LeaderLock {
	if !cfg.Redis.Enabled {
		return leader.NoopLock{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return leader.NewRedisLock(client, cfg.Redis.LockKey, cfg.Redis.LeaseTTL)
}

// ProvideAggregator wires the two market sources into the aggregator.
func ProvideAggregator(poly drepo.PolymarketSource, kalshi drepo.KalshiSource, m drepo.Metrics, l *applogger.Logger, clk clock.Clock) *usecase.Aggregator {
	return usecase.NewAggregator(poly, kalshi, m, l, clk)
}

// ProvideDampener creates the process-scoped spike dampener.
func ProvideDampener() *usecase.SpikeDampener {
	return usecase.NewSpikeDampener()
}

// ProvideRecorder wires the full ingestion cycle.
func ProvideRecorder(agg *usecase.Aggregator, damp *usecase.SpikeDampener, log drepo.SnapshotLog, pub drepo.Publisher, m drepo.Metrics, l *applogger.Logger) *usecase.Recorder {
	return usecase.NewRecorder(agg, damp, log, pub, m, l)
}

// ProvideCollector creates the periodic ingestion loop.
func ProvideCollector(cfg *config.Config, rec *usecase.Recorder, lock drepo.LeaderLock, clk clock.Clock, l *applogger.Logger) *usecase.Collector {
	return usecase.NewCollector(rec, lock, cfg.Ingest.Interval, clk, l)
}

// ProvideChartCache creates the short-lived chart result cache.
func ProvideChartCache(cfg *config.Config, clk clock.Clock) *cache.ChartCache {
	return cache.NewWithClock(cfg.Chart.CacheTTL, clk)
}

// ProvideSeriesUseCase wires the read path.
func ProvideSeriesUseCase(log drepo.SnapshotLog, c *cache.ChartCache, m drepo.Metrics, clk clock.Clock) *usecase.SeriesUseCase {
	return usecase.NewSeriesUseCase(log, c, m, clk)
}

// ProvideHTTPHandler creates the API handler.
func ProvideHTTPHandler(l *applogger.Logger, series *usecase.SeriesUseCase, rec *usecase.Recorder) xhttp.Handler {
	return api.NewChartsEchoHandler(l, series, rec)
}

// ProvideApp assembles the application.
func ProvideApp(cfg *config.Config, l *applogger.Logger, log drepo.SnapshotLog, collector *usecase.Collector, handler xhttp.Handler, pub drepo.Publisher) *server.App {
	return server.New(cfg, l, log, collector, handler, pub)
}
