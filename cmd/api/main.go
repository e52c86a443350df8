package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"taskease/internal/access"
	"taskease/internal/adapter/memory"
	"taskease/internal/adapter/repo"
	"taskease/internal/decompose"
	"taskease/internal/domain"
	"taskease/internal/http/handlers"
	httpapi "taskease/internal/http/httpapi"
	"taskease/internal/infra"
	"taskease/internal/infra/credentials"
	"taskease/internal/infra/geoip"
	"taskease/internal/infra/google"
	"taskease/internal/ledger"
	"taskease/internal/middleware"
	"taskease/internal/payment"
	"taskease/internal/planner"
	"taskease/internal/tasks"
)

type stores struct {
	credits  domain.CreditRepository
	tasks    domain.TaskRepository
	admins   domain.AdminRepository
	orders   domain.PaymentRepository
	consents domain.ConsentRepository
	close    func()
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)
	ctx := context.Background()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage")
	}
	defer st.close()

	metrics := infra.NewMetrics()

	ledgerSvc := ledger.NewService(st.credits, ledger.Options{
		StartingCredits: cfg.LedgerStartingCredits,
		PromoCredits:    cfg.PromoGrantCredits,
		Logger:          logger.With().Str("component", "ledger").Logger(),
		Metrics:         metrics,
	})
	taskSvc := tasks.NewService(st.tasks)

	gate := access.NewGate(st.admins, logger.With().Str("component", "access").Logger())
	bootCtx, cancelBoot := context.WithTimeout(ctx, 10*time.Second)
	if err := gate.EnsureBootstrap(bootCtx, cfg.AdminBootstrapEmail); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure bootstrap admin")
	}
	cancelBoot()

	gateway, err := decompose.NewFromConfig(cfg, logger.With().Str("component", "decompose").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure decomposition provider")
	}
	plannerSvc := planner.NewService(ledgerSvc, taskSvc, gateway, logger.With().Str("component", "planner").Logger(), metrics)

	catalog, err := payment.LoadCatalog(cfg.PricingFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load pricing catalog")
	}
	signer := payment.NewHTTPSigner(payment.HTTPSignerOptions{
		Endpoint:     cfg.PaymentSignURL,
		APIKey:       cfg.PaymentAPIKey,
		MerchantCode: cfg.PaymentMerchantCode,
		Passphrase:   cfg.PaymentPassphrase,
	})
	paymentSvc := payment.NewService(catalog, signer, st.orders, ledgerSvc, payment.Options{
		PageURL:        cfg.PaymentPageURL,
		Currency:       cfg.PaymentCurrency,
		FXRate:         cfg.PaymentFXRate,
		MaxAmount:      cfg.PaymentMaxAmount,
		PayerDigits:    cfg.PaymentPayerDigits,
		CallbackSecret: cfg.PaymentCallbackSecret,
		Logger:         logger.With().Str("component", "payment").Logger(),
		Metrics:        metrics,
	})
	if cfg.PaymentCallbackSecret == "" {
		logger.Warn().Msg("PAYMENT_CALLBACK_SECRET is empty, every payment callback will be rejected")
	}

	issuer := access.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)
	authenticator := access.NewAuthenticator(
		google.NewVerifier(cfg.GoogleIssuer, cfg.GoogleClientID),
		issuer, ledgerSvc, gate,
		logger.With().Str("component", "auth").Logger(),
	)

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer geo.Close()

	app := &handlers.App{
		Auth:     authenticator,
		Gate:     gate,
		Ledger:   ledgerSvc,
		Tasks:    taskSvc,
		Planner:  plannerSvc,
		Payments: paymentSvc,
		Consents: st.consents,
		Logger:   logger,
		Metrics:  metrics,
	}
	var lookup middleware.CountryLookup
	if fn := geo.Lookup(); fn != nil {
		lookup = fn
	}
	router := httpapi.NewRouter(app, httpapi.Options{
		Sessions:       issuer,
		Admins:         gate,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit:      cfg.RateLimitPerMin,
		DefaultLocale:  "en",
		CountryLookup:  lookup,
		Logger:         logger,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("storage", cfg.StorageDriver).Str("decomposer", gateway.Name()).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// openStores builds the repositories for the configured driver. Postgres
// mode also fills provider keys missing from the environment.
func openStores(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (*stores, error) {
	if cfg.StorageDriver == infra.StorageDriverMemory {
		if cfg.IsProduction() {
			logger.Warn().Msg("memory storage in production loses all data on restart")
		}
		return &stores{
			credits:  memory.NewCreditStore(),
			tasks:    memory.NewTaskStore(),
			admins:   memory.NewAdminStore(),
			orders:   memory.NewPaymentStore(),
			consents: memory.NewConsentStore(),
			close:    func() {},
		}, nil
	}

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	runner := infra.NewSQLRunner(pool, logger.With().Str("component", "sql").Logger())

	keyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := credentials.NewStore(runner).Fill(keyCtx, cfg); err != nil {
		logger.Warn().Err(err).Msg("could not load stored provider keys")
	}

	return &stores{
		credits:  repo.NewCreditRepository(runner),
		tasks:    repo.NewTaskRepository(runner),
		admins:   repo.NewAdminRepository(runner),
		orders:   repo.NewPaymentRepository(runner),
		consents: repo.NewConsentRepository(runner),
		close:    pool.Close,
	}, nil
}
