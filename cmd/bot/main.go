// Package main contains the entrypoint for the Telegram bot application.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"

	"github.com/ozodbek/kinokodbot/internal/bot"
	"github.com/ozodbek/kinokodbot/internal/bot/handlers"
	"github.com/ozodbek/kinokodbot/internal/bot/tasks"
	"github.com/ozodbek/kinokodbot/internal/broadcast"
	"github.com/ozodbek/kinokodbot/internal/config"
	"github.com/ozodbek/kinokodbot/internal/database"
	"github.com/ozodbek/kinokodbot/internal/gate"
	"github.com/ozodbek/kinokodbot/internal/health"
	"github.com/ozodbek/kinokodbot/internal/logger"
	"github.com/ozodbek/kinokodbot/internal/session"
	"github.com/ozodbek/kinokodbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components, starts the orchestrator, and returns the
// process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	// Handlers read TG, Gate, and Broadcaster from deps at call time, so the
	// struct can be completed after the bot instance exists.
	deps := &handlers.Deps{
		Logger:   log,
		Config:   cfg,
		Store:    store,
		Sessions: session.NewTracker(),
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewRouter(deps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	deps.TG = tg
	deps.Gate = gate.New(store, tg, cfg.Telegram.AdminID, log)
	deps.Broadcaster = broadcast.New(tg, cfg.Broadcast.Stagger, cfg.Broadcast.Workers, log)

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	cfg.Telegram.BotUsername = me.Username
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCallbacks(deps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
		TG:     tg,
	}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	healthSrv := health.NewServer(cfg.Health.Addr, store, log)
	app := bot.NewBot(log, cfg, db, store, tg, sched, healthSrv)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
