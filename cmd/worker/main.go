package main

import (
	"context"
	"log"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"makeoverapi/config"
	"makeoverapi/dbhelper"
	"makeoverapi/flows"
	"makeoverapi/logger"
	"makeoverapi/services"
	"makeoverapi/store"
	"makeoverapi/tasks"
)

func runScheduler(cfg *config.Config) {
	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: cfg.AsyncBrokerAddress}, &asynq.SchedulerOpts{
		LogLevel: asynq.InfoLevel,
	})

	entries := []struct {
		cron string
		task *asynq.Task
		opts []asynq.Option
		desc string
	}{
		{
			cron: cfg.DailyLookCron,
			task: tasks.NewDailyLookTask(),
			opts: []asynq.Option{asynq.Queue(tasks.QueueGenerate), asynq.MaxRetry(1), asynq.Timeout(30 * time.Minute)},
			desc: "Daily look notifications",
		},
	}

	for _, entry := range entries {
		entryID, err := scheduler.Register(entry.cron, entry.task, entry.opts...)
		if err != nil {
			log.Fatalf("Failed to register task '%s': %v", entry.desc, err)
		}
		log.Printf("Registered task '%s' with ID: %s, cron: %s", entry.desc, entryID, entry.cron)
	}

	log.Println("Starting scheduler...")
	if err := scheduler.Run(); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %s", err)
	}
	zlog := logger.Must(cfg.Env)
	defer zlog.Sync()

	err = sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Env,
		Release:     cfg.Release,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)

	if cfg.StoreBackend == store.BackendMemory {
		log.Fatal("[Queue] the worker needs a shared store, STORE_BACKEND=memory is API only")
	}

	ctx := context.Background()
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.AsyncBrokerAddress},
		asynq.Config{Concurrency: 10, Queues: map[string]int{
			tasks.QueueGenerate: 7,
			"default":           3,
		}},
	)
	bucket, err := services.NewR2Bucket(ctx, cfg.R2)
	if err != nil {
		log.Fatalf("[Queue] Failed to initialize R2 bucket: %v", err)
	}
	app, err := firebase.NewApp(ctx, nil)
	if err != nil {
		log.Fatalf("error initializing firebase app: %v\n", err)
	}
	db := dbhelper.SetupDB(cfg)

	stores, err := openStores(ctx, cfg, app, db)
	if err != nil {
		log.Fatal(err)
	}

	stylist, err := services.NewGeminiStylist(
		ctx,
		cfg.GoogleAPIKey,
		services.ParseLLMModelName(cfg.TextModel, services.Flash20),
		services.ParseLLMModelName(cfg.ImageModel, services.Flash20Image),
		zlog,
	)
	if err != nil {
		log.Fatalf("[Queue] Failed to initialize stylist: %v", err)
	}
	pipeline := flows.NewPipeline(stylist, stylist, services.NewMockProductFinder(time.Now().UnixNano()), zlog)

	worker := &tasks.Worker{
		DB:       db,
		Stores:   stores,
		Actions:  flows.NewActions(pipeline, zlog),
		Bucket:   bucket,
		Notifier: services.PushNotifier{App: app, DB: db},
		Logger:   zlog,
		Pause:    time.Second,
	}
	mux := asynq.NewServeMux()
	worker.Register(mux)

	go runScheduler(cfg)
	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}

func openStores(ctx context.Context, cfg *config.Config, app *firebase.App, db *gorm.DB) (store.Factory, error) {
	if cfg.StoreBackend != store.BackendFirestore {
		return store.Open(cfg.StoreBackend, db, nil)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.StoreBackend, nil, client)
}
