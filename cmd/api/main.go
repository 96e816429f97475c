package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spsina/bookStore/internal/config"
	"github.com/spsina/bookStore/internal/handler"
	"github.com/spsina/bookStore/internal/infra/auth"
	"github.com/spsina/bookStore/internal/infra/db"
	"github.com/spsina/bookStore/internal/infra/events"
	"github.com/spsina/bookStore/internal/infra/gateway"
	infraRepo "github.com/spsina/bookStore/internal/infra/repository"
	"github.com/spsina/bookStore/internal/infra/sms"
	"github.com/spsina/bookStore/internal/logging"
	"github.com/spsina/bookStore/internal/server"
	"github.com/spsina/bookStore/internal/usecase"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now().UTC()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// database
	gormDB, err := db.Connect(ctx, cfg.DSN())
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("migrate db", zap.Error(err))
	}
	// baskets snapshot the fee from this row
	if err := infraRepo.NewSiteConfigGormRepository(gormDB).SetDeliveryFee(ctx, cfg.DefaultDeliveryFee); err != nil {
		logger.Fatal("seed delivery fee", zap.Error(err))
	}

	// repositories
	books := infraRepo.NewBookGormRepository(gormDB)
	items := infraRepo.NewItemGormRepository(gormDB)
	baskets := infraRepo.NewBasketGormRepository(gormDB)
	profiles := infraRepo.NewUserProfileGormRepository(gormDB)
	verifications := infraRepo.NewPhoneVerificationGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	// usecase dependencies
	clock := &realClock{}
	idGen := &uuidGenerator{}
	ledger := usecase.NewStockLedger(clock)

	var publisher usecase.EventPublisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer func() {
			if err := kp.Close(); err != nil {
				logger.Warn("kafka close", zap.Error(err))
			}
		}()
		publisher = kp
	} else {
		logger.Info("KAFKA_BROKERS not set, events are dropped")
	}

	vandar := gateway.NewVandarClient(gateway.VandarOptions{
		APIKey:  cfg.Vandar.APIKey,
		BaseURL: cfg.Vandar.BaseURL,
		IPGURL:  cfg.Vandar.IPGURL,
		Timeout: cfg.Vandar.Timeout,
		Breaker: gateway.BreakerSettings{
			MaxRequests: cfg.Breaker.MaxRequests,
			Interval:    cfg.Breaker.Interval,
			Timeout:     cfg.Breaker.Timeout,
		},
	}, logger)

	// usecases
	bookUC := usecase.NewBookUsecase(books, items, ledger)
	basketUC := usecase.NewBasketUsecase(txm, books, baskets, ledger, idGen, clock, publisher, logger)
	paymentUC := usecase.NewPaymentUsecase(txm, vandar, clock, publisher, logger)
	phoneUC := usecase.NewPhoneAuthUsecase(
		profiles,
		verifications,
		auth.NewBcryptCodeHasher(bcrypt.DefaultCost),
		auth.DigitCodeGenerator{},
		sms.NewLogSender(logger),
		auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTTL),
		clock,
		logger,
	)

	// handlers
	h := server.Handlers{
		Books:     handler.NewBookHandler(bookUC),
		Baskets:   handler.NewBasketHandler(basketUC),
		Payments:  handler.NewPaymentHandler(paymentUC, cfg.PublicBaseURL, cfg.StorefrontURL),
		PhoneAuth: handler.NewPhoneAuthHandler(phoneUC),
		Health:    handler.NewHealthHandler(func(ctx context.Context) error { return db.Ping(ctx, gormDB) }),
	}

	// server
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}

	e := server.New(logger, cfg.JWTSecret, h)
	if err := server.Start(ctx, e, addr, logger); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
