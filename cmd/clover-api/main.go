package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/config"
	"github.com/Ramsey-B/clover/internal/repositories/collectorsettings"
	"github.com/Ramsey-B/clover/internal/repositories/missingcard"
	"github.com/Ramsey-B/clover/internal/repositories/scanrecord"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/httpclient"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/list"
	"github.com/Ramsey-B/clover/pkg/match"
	"github.com/Ramsey-B/clover/pkg/middleware"
	"github.com/Ramsey-B/clover/pkg/routes/health"
	"github.com/Ramsey-B/clover/pkg/routes/missing"
	"github.com/Ramsey-B/clover/pkg/routes/resolve"
	"github.com/Ramsey-B/clover/pkg/routes/scans"
	"github.com/Ramsey-B/clover/pkg/routes/settings"
	"github.com/Ramsey-B/clover/pkg/scan"
	"github.com/Ramsey-B/clover/pkg/sheets"
	"github.com/Ramsey-B/clover/pkg/startup"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/Ramsey-B/clover/pkg/tracing/exporters"
	"github.com/Ramsey-B/clover/pkg/vision"

	_ "github.com/lib/pq"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, flush := newLogger(cfg)
	defer flush()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("Service exited with error")
		flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger ectologger.Logger) error {
	shutdownTracing, err := setupTracing(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer shutdownTracing()

	var db *sqlx.DB
	boot := startup.New(logger, cfg.StartupMaxAttempts)

	boot.AddDependency(&databaseDependency{cfg: cfg, logger: logger, db: &db})
	boot.AddDependency(&migrationDependency{cfg: cfg, logger: logger, db: &db})

	if err := boot.Start(ctx); err != nil {
		return err
	}
	defer boot.Stop(context.Background())

	var producer *kafka.Producer
	if cfg.KafkaEnabled {
		producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer producer.Close()
	}

	e := echo.New()
	if err := wire(cfg, logger, db, producer, e); err != nil {
		return err
	}

	boot.AddDependency(&serverDependency{cfg: cfg, logger: logger, echo: e})
	if err := boot.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("Shutdown signal received")
	return nil
}

// wire builds the object graph and registers routes. Runs after startup so
// the database handle exists.
func wire(cfg config.Config, logger ectologger.Logger, db *sqlx.DB, producer *kafka.Producer, e *echo.Echo) error {
	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return fmt.Errorf("failed to create DI container: %w", err)
	}

	dbInstance := database.NewInstance(db, logger)

	missingRepo := missingcard.NewRepository(dbInstance, logger)
	scanRepo := scanrecord.NewRepository(dbInstance, logger)
	settingsRepo := collectorsettings.NewRepository(dbInstance, logger)

	sheetHTTP := httpclient.NewClient(httpclient.Config{
		Timeout:         cfg.SheetFetchTimeout,
		MaxResponseSize: cfg.SheetMaxBodyBytes,
	}, logger)
	sheetClient := sheets.NewClient(sheetHTTP, logger, cfg.SheetMaxListEntries)

	visionHTTP := httpclient.NewClient(httpclient.Config{
		Timeout: cfg.VisionTimeout,
	}, logger)
	visionClient := vision.NewClient(visionHTTP, logger, vision.Config{
		BaseURL:     cfg.VisionBaseURL,
		APIKey:      cfg.VisionAPIKey,
		Model:       cfg.VisionModel,
		Temperature: cfg.VisionTemperature,
		MaxTokens:   cfg.VisionMaxTokens,
	})

	var publisher events.Publisher
	if producer != nil {
		publisher = producer
	}
	emitter := events.NewEmitter(publisher, logger)

	resolver := match.NewResolver(match.Config{
		ContainmentThreshold: cfg.MatchContainmentThreshold,
		FuzzyThreshold:       cfg.MatchFuzzyThreshold,
	})

	listSvc := list.NewService(sheetClient, missingRepo, settingsRepo, emitter, list.Config{
		DefaultSheetURL: cfg.SheetBaseURL,
		DefaultColumn:   cfg.SheetColumnHeader,
	}, logger)
	scanSvc := scan.NewService(visionClient, listSvc, scanRepo, settingsRepo, emitter, resolver, logger)

	validate := validator.New()

	registrations := []error{
		ectoinject.RegisterInstance[ectologger.Logger](container, logger),
		ectoinject.RegisterInstance[*validator.Validate](container, validate),
		ectoinject.RegisterInstance[*collectorsettings.Repository](container, settingsRepo),
		ectoinject.RegisterInstance[*match.Resolver](container, resolver),
		ectoinject.RegisterInstance[*list.Service](container, listSvc),
		ectoinject.RegisterInstance[*scan.Service](container, scanSvc),
	}
	for _, err := range registrations {
		if err != nil {
			return fmt.Errorf("failed to register dependency: %w", err)
		}
	}

	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	if cfg.TracingEnabled {
		e.Use(otelecho.Middleware(cfg.AppName))
	}

	checker := health.NewChecker(db, version)
	checker.RegisterRoutes(e)
	checker.SetReady(true)

	api := e.Group("/api/v1")
	missing.Register(api.Group("/missing"))
	scans.Register(api.Group("/scans"), cfg.MaxImageBytes)
	resolve.Register(api.Group("/match"))
	settings.Register(api.Group("/settings"))

	return nil
}

func setupTracing(ctx context.Context, cfg config.Config) (func(), error) {
	if !cfg.TracingEnabled {
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(&exporters.NoopExporter{}))
		tracing.SetTracer(tp.Tracer(cfg.AppName))
		return func() {}, nil
	}

	exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
		Endpoint: cfg.TracingOTLPEndpoint,
		Protocol: cfg.TracingOTLPProtocol,
		Insecure: cfg.TracingInsecure,
	})
	if err != nil {
		return nil, err
	}

	res, err := sdkresource.New(ctx,
		sdkresource.WithAttributes(
			semconv.ServiceName(cfg.AppName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	tracing.SetTracer(tp.Tracer(cfg.AppName))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}, nil
}

func newLogger(cfg config.Config) (ectologger.Logger, func()) {
	var zapLogger *zap.Logger
	if cfg.PrettyLogs {
		zapLogger, _ = zap.NewDevelopment()
	} else {
		zapLogger, _ = zap.NewProduction()
	}
	sink := zapLogger.Sugar()

	debugEnabled := cfg.LogLevel == "debug"

	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		fields := make([]any, 0, len(msg.Fields)*2)
		for k, v := range msg.Fields {
			fields = append(fields, k, v)
		}

		switch msg.Level {
		case "debug":
			if debugEnabled {
				sink.Debugw(msg.Message, fields...)
			}
		case "warn":
			sink.Warnw(msg.Message, fields...)
		case "error", "fatal":
			sink.Errorw(msg.Message, fields...)
		default:
			sink.Infow(msg.Message, fields...)
		}
	})

	return logger, func() { _ = zapLogger.Sync() }
}

// databaseDependency opens the Postgres pool during startup.
type databaseDependency struct {
	cfg    config.Config
	logger ectologger.Logger
	db     **sqlx.DB
}

func (d *databaseDependency) GetName() string { return "postgres" }

func (d *databaseDependency) Start(ctx context.Context) error {
	db, err := database.Connect(ctx, database.ConnectConfig{
		Host:            d.cfg.DatabaseHost,
		Port:            d.cfg.DatabasePort,
		UserName:        d.cfg.DatabaseUserName,
		Password:        d.cfg.DatabasePassword,
		Name:            d.cfg.DatabaseName,
		SSLMode:         d.cfg.DatabaseSSLMode,
		MaxOpenConns:    d.cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    d.cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: d.cfg.DatabaseConnMaxLifetime,
	}, d.logger)
	if err != nil {
		return err
	}
	*d.db = db
	return nil
}

func (d *databaseDependency) Stop(ctx context.Context) error {
	if *d.db == nil {
		return nil
	}
	return (*d.db).Close()
}

// migrationDependency applies schema migrations once the pool is up.
type migrationDependency struct {
	cfg    config.Config
	logger ectologger.Logger
	db     **sqlx.DB
}

func (d *migrationDependency) GetName() string { return "migrations" }

func (d *migrationDependency) Start(ctx context.Context) error {
	driver, err := migratepg.WithInstance((*d.db).DB, &migratepg.Config{})
	if err != nil {
		return err
	}

	ms := database.NewMigrationService(d.logger, &database.MigrationConfig{
		MigrationFolderPath: d.cfg.DatabaseMigrationFolderPath,
		Version:             uint(d.cfg.DatabaseMigrationVersion),
		Force:               d.cfg.DatabaseMigrationForce,
		AutoRollback:        d.cfg.DatabaseMigrationAutoRollback,
	})
	return ms.Migrate(d.cfg.DatabaseName, driver)
}

func (d *migrationDependency) Stop(ctx context.Context) error { return nil }

// serverDependency runs the echo server.
type serverDependency struct {
	cfg    config.Config
	logger ectologger.Logger
	echo   *echo.Echo
}

func (d *serverDependency) GetName() string { return "http-server" }

func (d *serverDependency) Start(ctx context.Context) error {
	d.echo.HideBanner = true
	d.echo.Server.ReadTimeout = time.Duration(d.cfg.HttpServerReadTimeoutSeconds) * time.Second
	d.echo.Server.WriteTimeout = time.Duration(d.cfg.HttpServerWriteTimeoutSeconds) * time.Second
	d.echo.Server.IdleTimeout = time.Duration(d.cfg.HttpServerIdleTimeoutSeconds) * time.Second
	d.echo.Server.MaxHeaderBytes = d.cfg.MaxHeaderBytes

	go func() {
		addr := fmt.Sprintf(":%d", d.cfg.Port)
		if err := d.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			d.logger.WithError(err).Error("HTTP server stopped unexpectedly")
		}
	}()
	return nil
}

func (d *serverDependency) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return d.echo.Shutdown(shutdownCtx)
}
