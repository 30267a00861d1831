package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"makeoverapi/config"
	"makeoverapi/controllers"
	"makeoverapi/dbhelper"
	"makeoverapi/flows"
	"makeoverapi/logger"
	"makeoverapi/services"
	"makeoverapi/store"
	"makeoverapi/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %s", err)
	}
	zlog := logger.Must(cfg.Env)
	defer zlog.Sync()

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Env,
		Release:          cfg.Release,
		Debug:            false,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Recover()
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := dbhelper.SetupDB(cfg)

	var firestoreClient *firestore.Client
	if cfg.StoreBackend == store.BackendFirestore {
		app, err := firebase.NewApp(ctx, nil)
		if err != nil {
			log.Fatalf("error initializing firebase app: %v\n", err)
		}
		firestoreClient, err = app.Firestore(ctx)
		if err != nil {
			log.Fatalf("error initializing firestore: %v\n", err)
		}
		defer firestoreClient.Close()
	}
	stores, err := store.Open(cfg.StoreBackend, db, firestoreClient)
	if err != nil {
		log.Fatal(err)
	}

	bucket, err := services.NewR2Bucket(ctx, cfg.R2)
	if err != nil {
		log.Fatalf("Failed to initialize R2 bucket: %v", err)
	}
	readURLs, err := services.NewReadURLCache(bucket)
	if err != nil {
		log.Fatalf("Failed to initialize read url cache: %v", err)
	}

	stylist, err := services.NewGeminiStylist(
		ctx,
		cfg.GoogleAPIKey,
		services.ParseLLMModelName(cfg.TextModel, services.Flash20),
		services.ParseLLMModelName(cfg.ImageModel, services.Flash20Image),
		zlog,
	)
	if err != nil {
		log.Fatalf("Failed to initialize stylist: %v", err)
	}
	var products flows.ProductFinder = services.NewMockProductFinder(time.Now().UnixNano())
	if cfg.ProductFinder == "shop" {
		products = services.NewShopSearchFinder(cfg.ShopSearchURL)
	}
	actions := flows.NewActions(flows.NewPipeline(stylist, stylist, products, zlog), zlog)

	if cfg.TelegramBot {
		if err := telegram.RunStyleBot(ctx, cfg, actions, zlog); err != nil && ctx.Err() == nil {
			zlog.Fatal("telegram bot stopped", zap.Error(err))
		}
		return
	}

	deps := controllers.Dependencies{
		DB:       db,
		Config:   cfg,
		Google:   services.GoogleService{},
		Bucket:   bucket,
		ReadURLs: readURLs,
		Stores:   stores,
		Actions:  actions,
		Logger:   zlog,
	}
	// the in-memory store lives in this process only, the worker cannot see its looks
	if cfg.StoreBackend != store.BackendMemory {
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.AsyncBrokerAddress})
		defer asynqClient.Close()
		deps.Tasks = asynqClient
	}

	e := controllers.SetupServer(deps)
	e.Debug = !cfg.IsProduction()
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(3)))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			zlog.Error("shutdown", zap.Error(err))
		}
	}()
	zlog.Info("starting api", zap.String("address", cfg.Address()), zap.String("store", cfg.StoreBackend))
	if err := e.Start(cfg.Address()); err != nil && ctx.Err() == nil {
		e.Logger.Fatal(err)
	}
}
