package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"BazaarWatch/internal/collector"
	"BazaarWatch/internal/config"
	"BazaarWatch/internal/notifier"
	"BazaarWatch/internal/scheduler"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env file could not be read, using environment variables")
	}

	// Stdout belongs to the console front end.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Info().Str("mode", cfg.Mode).Str("frontend", cfg.Frontend).Msg("BazaarWatch starting")

	fetcher := collector.NewHypixelFetcher(cfg.DataSource.URL, cfg.Proxy, cfg.DataSource.Timeout)
	log.Info().Str("source", fetcher.Name()).Str("url", cfg.DataSource.URL).Msg("data source")
	col := collector.NewCollector(fetcher)

	formatter := notifier.NewFormatter(cfg.Display.Locale, *cfg.Display.ZeroAsMissing)

	var frontend notifier.Frontend
	switch cfg.Frontend {
	case config.FrontendTelegram:
		frontend = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	default:
		frontend = notifier.NewConsoleNotifier(os.Stdin, os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(ctx, col, formatter, frontend, scheduler.Options{
		Mode:            cfg.Mode,
		FixedProduct:    cfg.FixedProduct,
		MaxSuggestions:  cfg.Display.MaxSuggestions,
		OrderDepth:      cfg.Display.OrderDepth,
		ReadyClearAfter: cfg.Display.ReadyClearAfter,
	})
	if err := sched.RegisterReload(cfg.ReloadCron); err != nil {
		log.Fatal().Err(err).Msg("register reload task")
	}

	if cfg.Mode == config.ModeFixed && cfg.ReloadCron == "" {
		err := sched.RunFixed()
		sched.Stop()
		if err != nil {
			log.Fatal().Err(err).Msg("fixed product view")
		}
		return
	}

	sched.Start()
	defer sched.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if cfg.Mode == config.ModeFixed {
			_ = sched.RunFixed()
			<-gctx.Done()
			return nil
		}
		// A failed load is reported on the front end; the session stays usable
		// for /status until the next reload.
		_ = sched.LoadNow()
		return nil
	})
	g.Go(func() error {
		defer stop()
		return frontend.Run(gctx, sched.HandleCommand)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("front end stopped")
	}
	log.Info().Msg("BazaarWatch stopped")
}
