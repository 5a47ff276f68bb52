package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"daily-routine/internal/api"
	"daily-routine/internal/bot"
	"daily-routine/internal/config"
	"daily-routine/internal/notify"
	"daily-routine/internal/repository"
	"daily-routine/internal/service"
	"daily-routine/internal/storage"
	"daily-routine/internal/template"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.TelegramToken == "" && cfg.HTTPAddr == "" {
		log.Fatal("config: set TELEGRAM_TOKEN or HTTP_ADDR, nothing to run")
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	var kv storage.KV
	switch cfg.StorageBackend {
	case config.BackendRedis:
		redisKV, err := repository.NewRedisKV(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisKV.Close()
		kv = redisKV
	case config.BackendMemory:
		log.Println("[warn] memory storage backend, routine data is lost on restart")
		kv = storage.NewMemoryKV()
	default:
		kv = repository.NewKVRepository(db)
	}
	store := storage.NewAdapter(kv)
	log.Printf("[info] storage backend %s", cfg.StorageBackend)

	var botAPI *tgbotapi.BotAPI
	var platform notify.Platform = notify.LogPlatform{}
	if cfg.TelegramToken != "" {
		botAPI, err = bot.Connect(cfg.TelegramToken)
		if err != nil {
			log.Fatalf("bot: %v", err)
		}
		platform = bot.NewPlatform(botAPI, notify.LogPlatform{})
	} else {
		log.Println("[warn] TELEGRAM_TOKEN is empty, notifications go to the log")
	}
	notifier := notify.NewService(platform, notify.WithLocation(cfg.Location))

	catalog, err := template.Default()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	taskSvc := service.NewTaskService(store, notifier, cfg.AnalysisDelay)
	trackerSvc := service.NewTrackerService(store, notifier, taskSvc, cfg.Location)
	templateSvc := service.NewTemplateService(catalog, taskSvc)
	reportSvc := service.NewReportService(taskSvc, trackerSvc)
	authSvc := service.NewAuthService(userRepo)

	jobs := service.NewDailyJobs(userRepo, taskSvc, trackerSvc, reportSvc, notifier, cfg.Location)
	scheduler := service.NewSchedulerService(cfg.Location)
	if err := jobs.Register(scheduler, service.JobTimes{
		Motivation:     cfg.MotivationTime,
		StreakReminder: cfg.StreakReminderTime,
		DailyReport:    cfg.DailyReportTime,
	}); err != nil {
		log.Fatalf("schedule jobs: %v", err)
	}
	jobs.RearmReminders(ctx)
	scheduler.Start()
	defer scheduler.Stop()

	var server *http.Server
	if cfg.HTTPAddr != "" {
		server = &http.Server{
			Addr: cfg.HTTPAddr,
			Handler: api.NewRouter(api.Deps{
				Tasks:     taskSvc,
				Templates: templateSvc,
				Trackers:  trackerSvc,
				Reports:   reportSvc,
				Auth:      authSvc,
				Notifier:  notifier,
				Location:  cfg.Location,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Printf("[info] http api listening on %s", cfg.HTTPAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server: %v", err)
				stop()
			}
		}()
	}

	log.Println("Daily routine started.")
	if botAPI != nil {
		telegramBot := bot.New(botAPI, bot.Deps{
			Users:     userRepo,
			Tasks:     taskSvc,
			Templates: templateSvc,
			Trackers:  trackerSvc,
			Reports:   reportSvc,
			Notifier:  notifier,
			Location:  cfg.Location,
		})
		if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("bot stopped with error: %v", err)
		}
	} else {
		<-ctx.Done()
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
	}
	log.Printf("[info] cancelled %d pending reminders", notifier.Shutdown())
	log.Println("Shutdown complete.")
}
