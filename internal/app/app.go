package app

import (
	"context"
	"errors"
	"fmt"
	"gw-currency-trader/internal/api/handlers"
	"gw-currency-trader/internal/api/middlew"
	"gw-currency-trader/internal/config"
	"gw-currency-trader/internal/db"
	"gw-currency-trader/internal/grpc_server"
	"gw-currency-trader/internal/kafka"
	"gw-currency-trader/internal/nbp"
	"gw-currency-trader/internal/server"
	"gw-currency-trader/internal/service"
	"gw-currency-trader/internal/storage/postgres"
	"gw-currency-trader/pkg/logger"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ulule/limiter/v3"
)

const shutdownTimeout = 30 * time.Second

type repositories struct {
	users        postgres.UserRepository
	wallets      postgres.WalletRepository
	rates        postgres.RateRepository
	transactions postgres.TransactionRepository
	favorites    postgres.FavoriteRepository
}

type App struct {
	log     *slog.Logger
	logFile io.Closer
	cfg     *config.Config
	server  *server.Server
	pool    *pgxpool.Pool

	txManager service.TxManager
	repos     repositories

	authService  service.Auth
	rateService  *service.RateService
	tradeService *service.TradeService

	kafkaProducer kafka.Producer
	importer      *nbp.Importer
	healthServer  *grpc_server.HealthServer
}

func NewApp() (*App, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerWithFile, err := logger.NewLoggerWithFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	log := loggerWithFile.Logger
	slog.SetDefault(log)
	log.Info("configuration loaded", slog.String("port", cfg.HTTPPort), slog.String("log_level", cfg.Log.Level))

	log.Info("running database migrations")
	if err := db.RunMigrations(cfg.DB.MigrationURL(), cfg.DB.MigrationsPath, log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	poolCfg := db.PoolConfig{
		MaxConns:          50,
		MinConns:          5,
		HealthCheckPeriod: 30 * time.Second,
		PoolTimeout:       5 * time.Second,
		RetryAttempts:     5,
		RetryDelay:        1 * time.Second,
		ApplicationName:   grpc_server.ServiceName,
	}

	pool, err := db.NewPool(context.Background(), cfg.DB.DSN(), poolCfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("database connection established")

	var kafkaProducer kafka.Producer
	if cfg.Kafka.Enabled {
		log.Info("initializing kafka producer", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("topic", cfg.Kafka.Topic))
		kafkaProducer, err = kafka.NewTradeProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, grpc_server.ServiceName, log)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to init kafka: %w", err)
		}
	} else {
		log.Info("kafka disabled, trade events will only be logged")
		kafkaProducer = kafka.NewLogProducer(log)
	}

	authLimiter, err := middlew.NewIPLimiter(cfg.RateLimit.Auth)
	if err != nil {
		pool.Close()
		return nil, err
	}

	srv := server.NewServer(cfg.HTTPPort)
	srv.Router.Use(middleware.RequestID)
	srv.Router.Use(middleware.RealIP)
	srv.Router.Use(middlew.WithLogger(log))
	srv.Router.Use(middlew.AccessLog)
	srv.Router.Use(middleware.Recoverer)
	srv.Router.Use(middlew.CORS(cfg.CORS.AllowedOrigins))
	srv.RegisterSwagger()

	a := &App{
		log:           log,
		logFile:       loggerWithFile.LogFile,
		cfg:           cfg,
		server:        srv,
		pool:          pool,
		txManager:     service.NewPgxTxManager(pool),
		kafkaProducer: kafkaProducer,
		repos: repositories{
			users:        postgres.NewUserRepository(pool),
			wallets:      postgres.NewWalletRepository(pool),
			rates:        postgres.NewRateRepository(pool),
			transactions: postgres.NewTransactionRepository(pool),
			favorites:    postgres.NewFavoriteRepository(pool),
		},
	}

	a.buildUserLayer(authLimiter)
	a.buildCurrencyLayer()
	a.buildTransactionLayer()
	a.buildBackground()

	return a, nil
}

func (a *App) buildUserLayer(authLimiter *limiter.Limiter) {
	a.authService = service.NewAuthService(
		a.repos.users,
		a.repos.wallets,
		a.txManager,
		a.cfg.JWT.Secret,
		a.cfg.JWT.Expiration,
		a.log,
	)
	authHandler := handlers.NewAuthHandler(a.authService)
	walletHandler := handlers.NewWalletHandler(service.NewWalletService(a.repos.wallets, a.repos.transactions, a.txManager, a.log))
	favoriteHandler := handlers.NewFavoriteHandler(service.NewFavoriteService(a.repos.favorites, a.repos.rates, a.txManager, a.log))

	a.server.Router.Route("/user", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middlew.RateLimit(authLimiter))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middlew.RequireAuth(a.authService))
			r.Get("/profile", authHandler.Profile)
			r.Get("/wallet", walletHandler.GetWallet)
			r.Post("/deposit", walletHandler.Deposit)
			r.Post("/withdraw", walletHandler.Withdraw)
			r.Get("/favorites", favoriteHandler.List)
			r.Post("/favorites", favoriteHandler.Add)
			r.Delete("/favorites/{code}", favoriteHandler.Remove)
		})
	})

	a.log.Info("user routes registered")
}

func (a *App) buildCurrencyLayer() {
	a.rateService = service.NewRateService(a.repos.rates, a.txManager, a.cfg.Rates.CacheTTL, a.cfg.Rates.KeepDate, a.log)
	currencyHandler := handlers.NewCurrencyHandler(a.rateService)

	a.server.Router.Route("/currency", func(r chi.Router) {
		r.Get("/currency-rates", currencyHandler.GetAllRates)
		r.Get("/currency-rates/{code}", currencyHandler.GetRates)
		r.Delete("/delete-old-currency-rates", currencyHandler.DeleteOldRates)
	})

	a.log.Info("currency routes registered")
}

func (a *App) buildTransactionLayer() {
	a.tradeService = service.NewTradeService(
		a.repos.wallets,
		a.rateService,
		a.repos.transactions,
		a.txManager,
		a.kafkaProducer,
		a.cfg.Kafka.Threshold,
		a.log,
	)
	txHandler := handlers.NewTransactionHandler(a.tradeService, service.NewTransactionService(a.repos.transactions, a.log))

	a.server.Router.Route("/transactions", func(r chi.Router) {
		r.Use(middlew.RequireAuth(a.authService))
		r.Get("/transactions", txHandler.List)
		r.Post("/transaction/buy", txHandler.Buy)
		r.Post("/transaction/sell", txHandler.Sell)
	})

	a.log.Info("transaction routes registered")
}

func (a *App) buildBackground() {
	if a.cfg.NBP.Enabled {
		client := nbp.NewClient(a.cfg.NBP.BaseURL, nil, a.log)
		a.importer = nbp.NewImporter(client, a.rateService, a.cfg.NBP.Interval, a.cfg.NBP.BackfillDays, a.log)
	} else {
		a.log.Info("NBP importer disabled")
	}

	a.healthServer = grpc_server.NewHealthServer(a.pool, a.cfg.GRPC.HealthInterval, a.cfg.GRPC.Timeout, a.log)
}

func (a *App) Run() error {
	serverErr := make(chan error, 2)

	go func() {
		a.log.Info("http server starting", slog.String("port", a.cfg.HTTPPort))
		if err := a.server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("http server failed: %w", err)
		}
	}()

	go func() {
		a.log.Info("grpc health server starting", slog.String("port", a.cfg.GRPC.HealthPort))
		if err := a.healthServer.Listen(a.cfg.GRPC.HealthPort); err != nil {
			serverErr <- fmt.Errorf("grpc health server failed: %w", err)
		}
	}()

	if a.importer != nil {
		a.importer.Start(context.Background())
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case runErr = <-serverErr:
		a.log.Error("server stopped unexpectedly", slog.String("error", runErr.Error()))
	case sig := <-shutdownChan:
		a.log.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	a.shutdown()
	return runErr
}

func (a *App) shutdown() {
	a.log.Info("application stopping")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("failed to stop http server", slog.String("error", err.Error()))
	}

	if err := a.tradeService.Shutdown(ctx); err != nil {
		a.log.Error("failed to stop trade event workers", slog.String("error", err.Error()))
	}

	if a.importer != nil {
		if err := a.importer.Shutdown(ctx); err != nil {
			a.log.Error("failed to stop rate importer", slog.String("error", err.Error()))
		}
	}

	a.healthServer.Stop()

	if err := a.kafkaProducer.Close(); err != nil {
		a.log.Error("failed to close kafka producer", slog.String("error", err.Error()))
	}

	a.log.Info("closing database pool")
	a.pool.Close()

	a.log.Info("application stopped")
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			a.log.Error("failed to close log file", slog.String("error", err.Error()))
		}
	}
}
