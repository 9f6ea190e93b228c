package di

import (
	"context"
	"fmt"
	"time"

	"Kundali/internal/domain/repository"
	domsvc "Kundali/internal/domain/service"
	"Kundali/internal/handler/api"
	mid "Kundali/internal/middleware"
	internalrepo "Kundali/internal/repository"
	"Kundali/internal/service/ratelimit"
	"Kundali/internal/services/ephemeris"
	"Kundali/internal/services/prediction"
	"Kundali/internal/usecase"
	"Kundali/pkg/cache"
	pkgch "Kundali/pkg/clickhouse"
	"Kundali/pkg/config"
	xhttp "Kundali/pkg/http"
	pkgkafka "Kundali/pkg/kafka"
	applogger "Kundali/pkg/logger"
	"Kundali/pkg/metrics"
	"Kundali/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Log.Pretty {
		format = "console"
	}
	l, err := applogger.New(&applogger.Config{Level: cfg.Log.Level, Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEphemeris selects the ephemeris source. A remote source falls back
// to the analytic one when configured to.
func ProvideEphemeris(cfg *config.Config, log *applogger.Logger) domsvc.Ephemeris {
	ec := cfg.Astro.Ephemeris
	if ec.Provider != "remote" {
		return ephemeris.NewAnalytic()
	}
	remote := ephemeris.NewRemote(ec.URL, ec.Timeout)
	if !ec.Fallback {
		return remote
	}
	return &ephemeris.Fallback{
		Primary:   remote,
		Secondary: ephemeris.NewAnalytic(),
		OnFallback: func(err error) {
			log.Warn("remote ephemeris failed, using analytic", applogger.Error(err))
		},
	}
}

// ProvidePredictor selects the scoring model. A model that cannot be set up
// is replaced by one that reports ModelsNotLoaded, so charts still work.
func ProvidePredictor(cfg *config.Config, log *applogger.Logger) domsvc.Predictor {
	pc := cfg.Prediction
	switch pc.Provider {
	case "http":
		if pc.URL == "" {
			log.Warn("prediction.url is empty, predictions disabled")
			return prediction.Unavailable{Reason: "model service url not configured"}
		}
		return prediction.NewHTTPPredictor(pc.URL, pc.Timeout, pc.Retries)
	case "linear":
		m, err := prediction.LoadLinearModel(pc.WeightsPath)
		if err != nil {
			log.Error("linear model load failed", applogger.String("path", pc.WeightsPath), applogger.Error(err))
			return prediction.Unavailable{Reason: err.Error()}
		}
		return m
	default:
		return prediction.Unavailable{Reason: "prediction disabled"}
	}
}

// ProvideCache creates the chart cache: memory only, or memory in front of
// Redis when Redis is enabled and reachable.
func ProvideCache(cfg *config.Config, log *applogger.Logger) cache.Service {
	cc := cfg.Cache
	if !cc.Enabled {
		return cache.Noop{}
	}
	if cc.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cc.Redis.Addr),
			cache.WithRedisPassword(cc.Redis.Password),
			cache.WithRedisDB(cc.Redis.DB),
			cache.WithRedisPrefix(cc.Redis.Prefix),
		)
		if err == nil {
			log.Info("chart cache: layered", applogger.String("redis", cc.Redis.Addr))
			return cache.NewLayeredCache(rc,
				cache.WithLayeredMemorySize(cc.Memory.MaxEntries),
				cache.WithLayeredMemoryTTL(cc.TTL),
			)
		}
		log.Warn("redis unavailable, using memory cache", applogger.Error(err))
	}
	return cache.NewMemoryCache(
		cache.WithMemoryMaxSize(cc.Memory.MaxEntries),
		cache.WithMemoryCleanup(cc.Memory.CleanupInterval),
	)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	cc := cfg.ClickHouse
	if !cc.Enabled {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cc.Host),
		pkgch.WithPort(cc.Port),
		pkgch.WithDatabase(cc.Database),
		pkgch.WithCredentials(cc.User, cc.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cc.UseHTTP),
		pkgch.WithAsyncInsert(cc.AsyncInsert, cc.WaitForAsync),
		pkgch.WithTimeouts(cc.DialTimeout, cc.ReadTimeout, cc.WriteTimeout),
		pkgch.WithMaxExecutionTime(cc.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideFeatureStore creates the ClickHouse feature store and its schema.
// Returns a nil store when ClickHouse is disabled.
func ProvideFeatureStore(ch *pkgch.Client, cfg *config.Config, log *applogger.Logger) (repository.FeatureStore, error) {
	if ch == nil {
		return nil, nil
	}
	store := internalrepo.NewCHFeatureStore(ch, cfg.ClickHouse.Table, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	kc := cfg.Kafka
	if !kc.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(kc.Brokers),
		pkgkafka.WithCompression(kc.Compression),
		pkgkafka.WithRequiredAcks(kc.RequiredAcks),
		pkgkafka.WithBatching(kc.Producer.BatchSize, kc.Producer.Linger),
		pkgkafka.WithWriteTimeout(kc.Producer.WriteTimeout),
		pkgkafka.WithMaxAttempts(kc.Producer.MaxAttempts),
		pkgkafka.WithAsync(kc.Producer.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEventPublisher publishes chart.generated events, or returns nil
// without a producer.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.ChartEventsTopic)
}

// ProvideChartSink routes chart records to the enabled backends.
func ProvideChartSink(pub repository.EventPublisher, store repository.FeatureStore, m repository.Metrics) *usecase.ChartSink {
	return usecase.NewChartSink(pub, store, m)
}

// ProvideSinkPipeline buffers records between the generator and the sink.
// Returns nil when no backend is enabled.
func ProvideSinkPipeline(sink *usecase.ChartSink, m repository.Metrics, log *applogger.Logger) *mid.SinkPipeline {
	if !sink.Enabled() {
		return nil
	}
	return mid.NewSinkPipeline(sink, m,
		mid.WithBufferSize(2000),
		mid.WithLogger(log),
	)
}

// ProvideChartGenerator creates the chart pipeline.
func ProvideChartGenerator(
	cfg *config.Config,
	eph domsvc.Ephemeris,
	c cache.Service,
	pipe *mid.SinkPipeline,
	m repository.Metrics,
	log *applogger.Logger,
) (*usecase.ChartGenerator, error) {
	opts := []usecase.GeneratorOption{
		usecase.WithCache(c, cfg.Cache.TTL),
		usecase.WithMetrics(m),
		usecase.WithLogger(log),
	}
	if pipe != nil {
		opts = append(opts, usecase.WithSink(pipe))
	}
	return usecase.NewChartGenerator(eph, usecase.GeneratorConfig{
		Ayanamsa:          cfg.Astro.Ayanamsa,
		DashaHorizonYears: cfg.Astro.DashaHorizonYears,
		Parallel:          cfg.Astro.Parallel,
	}, opts...)
}

// ProvidePredictionService creates the prediction use case.
func ProvidePredictionService(
	gen *usecase.ChartGenerator,
	p domsvc.Predictor,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.PredictionService {
	return usecase.NewPredictionService(gen, p, m, log)
}

// ProvideHTTPServer creates the echo server with the chart routes.
func ProvideHTTPServer(
	cfg *config.Config,
	log *applogger.Logger,
	gen *usecase.ChartGenerator,
	ps *usecase.PredictionService,
) *xhttp.Server {
	sc := cfg.Server
	opts := []xhttp.ServerOption{
		xhttp.WithPort(sc.Port),
		xhttp.WithTimeouts(sc.ReadTimeout, sc.WriteTimeout, sc.ShutdownTimeout),
		xhttp.WithCORSOrigins(sc.CORSOrigins),
		xhttp.WithLogger(log),
	}
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	opts = append(opts, xhttp.WithMetricsPath(metricsPath))
	if sc.RateLimit.Enabled {
		lim := ratelimit.New(sc.RateLimit.RPS, sc.RateLimit.Burst)
		opts = append(opts, xhttp.WithMiddleware(lim.Middleware("/healthz", metricsPath)))
	}

	h := api.NewChartsEchoHandler(log, gen, ps)
	return xhttp.NewServer([]xhttp.Handler{h}, opts...)
}

// ProvideKafkaConsumer creates the chart request consumer, or nil when Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config, log *applogger.Logger) (*pkgkafka.Consumer, error) {
	kc := cfg.Kafka
	if !kc.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(log,
		pkgkafka.WithConsumerBrokers(kc.Brokers),
		pkgkafka.WithConsumerGroupID(kc.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(kc.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(kc.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(kc.Consumer.RetryMax, kc.Consumer.BackoffMin, kc.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(kc.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(kc.Consumer.MinBytes, kc.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.TraceHook())
	return consumer, nil
}

// ProvideChartRequestsHandler handles the chart request topic. It writes
// through the sink directly so failures reach the consumer's retry loop.
func ProvideChartRequestsHandler(
	cfg *config.Config,
	gen *usecase.ChartGenerator,
	ps *usecase.PredictionService,
	sink *usecase.ChartSink,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.ChartRequestsHandler {
	return usecase.NewChartRequestsHandler(cfg.Kafka.ChartRequestsTopic, gen, ps, sink, m, log)
}

// ProvideApp assembles the application and registers resource cleanup.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	srv *xhttp.Server,
	consumer *pkgkafka.Consumer,
	kh *usecase.ChartRequestsHandler,
	pipe *mid.SinkPipeline,
	sink *usecase.ChartSink,
	c cache.Service,
	ch *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	var handler pkgkafka.MessageHandler
	if consumer != nil {
		handler = kh
	}
	app := server.New(cfg, log, srv, consumer, handler, pipe)

	if ch != nil {
		app.OnClose("clickhouse", ch.Close)
	}
	app.OnClose("cache", c.Close)
	app.OnClose("sink", func() error {
		sink.Close()
		return nil
	})
	if producer != nil {
		log.AddCollector(&applogger.CollectionConfig{
			Topic:     cfg.Kafka.ErrorLogsTopic,
			Publisher: producer,
		})
		app.OnClose("log collector", func() error {
			log.RemoveCollector()
			return nil
		})
	}
	return app
}
