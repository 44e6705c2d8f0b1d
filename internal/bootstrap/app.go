package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/locvowork/timekeeper/internal/config"
	"github.com/locvowork/timekeeper/internal/database"
	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/handler"
	"github.com/locvowork/timekeeper/internal/logger"
	"github.com/locvowork/timekeeper/internal/notify"
	"github.com/locvowork/timekeeper/internal/report"
	"github.com/locvowork/timekeeper/internal/repository"
	"github.com/locvowork/timekeeper/internal/service"
	"github.com/locvowork/timekeeper/internal/syncengine"
	"github.com/locvowork/timekeeper/pkg/retry"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Echo *echo.Echo
	DB   *sql.DB
	Repo domain.StateRepository
	// Remote is the shared document store; an in-memory store when no
	// Datastore project is configured.
	Remote           domain.DocumentStore
	RemoteConfigured bool

	Attendance *service.AttendanceService
	Engine     *syncengine.Engine
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

// InitStorage loads configuration and logging and opens local and remote
// storage. The seeder CLI stops here.
func (a *App) InitStorage(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	// Initialize logging
	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	// Initialize local storage
	dbConfig := database.Config{
		Driver:          cfg.LOCAL_DB_DRIVER,
		Path:            cfg.LOCAL_DB_PATH,
		Host:            cfg.DB_HOST,
		Port:            cfg.DB_PORT,
		User:            cfg.DB_USER,
		Password:        cfg.DB_PASSWORD,
		DBName:          cfg.DB_NAME,
		SSLMode:         cfg.DB_SSL_MODE,
		MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
		MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
	}
	db, err := database.NewSQLDB(ctx, dbConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db

	kv := database.NewKVStore(db)
	if err := kv.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare local storage: %w", err)
	}
	a.Repo = repository.NewStateRepository(kv, database.DefaultRoster())

	// Initialize the shared document store
	if cfg.DATASTORE_PROJECT_ID != "" {
		a.Remote = database.NewDatastoreClient(cfg.DATASTORE_PROJECT_ID, cfg.DATASTORE_KIND, cfg.DATASTORE_DOC_NAME, cfg.SYNC_POLL_INTERVAL)
		a.RemoteConfigured = true
	} else {
		logger.WarnLog(ctx, "DATASTORE_PROJECT_ID not set, running with an in-memory document store")
		a.Remote = database.NewMemoryStore()
	}
	connect := retry.Policy{MaxRetries: 3, Backoff: time.Second}
	if err := retry.Do(ctx, connect, a.Remote.Connect); err != nil {
		return fmt.Errorf("failed to connect document store: %w", err)
	}
	return nil
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.InitStorage(ctx); err != nil {
		return err
	}
	cfg := config.DefaultEnvConfig
	loc := cfg.Location()

	// Session state
	a.Attendance = service.NewAttendanceService(a.Repo, loc)
	if err := a.Attendance.Load(ctx); err != nil {
		return fmt.Errorf("failed to load local state: %w", err)
	}
	a.Engine = syncengine.New(a.Remote, a.Attendance, cfg.SYNC_DEBOUNCE)
	a.Attendance.SetNotifier(a.Engine)

	// Optional integrations
	if cfg.ELASTIC_URL != "" {
		es, err := database.NewElasticSearchClient(cfg.ELASTIC_URL, cfg.ELASTIC_INDEX)
		if err == nil {
			err = es.EnsureIndex(ctx)
		}
		if err != nil {
			logger.WarnLog(ctx, "Attendance search index disabled: %v", err)
		} else {
			a.Attendance.SetIndex(es)
		}
	}
	if cfg.TELEGRAM_TOKEN != "" {
		tg, err := notify.NewTelegramNotifier(ctx, cfg.TELEGRAM_TOKEN, cfg.TELEGRAM_CHAT_ID)
		if err != nil {
			logger.WarnLog(ctx, "Summary sharing disabled: %v", err)
		} else {
			a.Attendance.SetSummarySender(tg)
		}
	}

	// Reports
	layout, err := report.LoadLayout(cfg.REPORT_LAYOUT_PATH)
	if err != nil {
		return fmt.Errorf("failed to load report layout: %w", err)
	}
	generator := report.NewGenerator(layout, report.NewTemplateSource(cfg.TEMPLATE_PATH, cfg.TEMPLATE_URL), loc)

	// Initialize dependencies
	handlers := &handler.Handlers{
		Employee:   handler.NewEmployeeHandler(a.Attendance),
		Attendance: handler.NewAttendanceHandler(a.Attendance),
		Report:     handler.NewReportHandler(service.NewReportService(a.Attendance, generator)),
		Backup:     handler.NewBackupHandler(a.Attendance),
		Sync:       handler.NewSyncHandler(a.Engine),
	}

	a.Echo.HideBanner = true
	a.Echo.Validator = handler.NewRequestValidator()

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	handlers.Register(a.Echo)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

// Run serves the API and runs the sync engine until ctx is cancelled, then
// shuts both down and releases storage.
func (a *App) Run(ctx context.Context) error {
	defer a.Close(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// sync failures degrade to local-only operation
		if err := a.Engine.Run(gctx); err != nil {
			logger.ErrorLog(gctx, "Sync engine stopped: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		addr := ":" + config.DefaultEnvConfig.APP_PORT
		logger.InfoLog(gctx, "HTTP server listening on %s", addr)
		if err := a.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return a.Echo.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close disconnects the document store and closes the database.
func (a *App) Close(ctx context.Context) {
	if a.Remote != nil {
		if err := a.Remote.Disconnect(); err != nil {
			logger.ErrorLog(ctx, "Failed to disconnect document store: %v", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			logger.ErrorLog(ctx, "Failed to close database: %v", err)
		}
	}
}
