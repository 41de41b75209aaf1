package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"waste-sorter/config"
	"waste-sorter/internal/api/httpserver"
	"waste-sorter/internal/api/telegram"
	"waste-sorter/internal/container"
	"waste-sorter/internal/infrastructure/storage"
	"waste-sorter/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := cfg.Logger()
	if cfg.SlogLevel() > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Модель получает ключ пользователя на каждый запрос, здесь только адрес и имя модели
	model := vision.NewOpenAIModel(cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.RequestTimeout)

	// Собираем сервисы приложения
	appContainer := container.New(storage.NewMemoryUserRepository(), model, logger)

	g, ctx := errgroup.WithContext(ctx)

	server := httpserver.NewServer(appContainer.ClassificationService, logger, cfg.RequestTimeout)
	g.Go(func() error {
		logger.Info("http server is running", "addr", cfg.HTTPAddr, "model", model.Model())
		if err := server.Run(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.UserService, appContainer.ClassificationService, logger, cfg.RequestTimeout)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}
		g.Go(func() error {
			logger.Info("telegram bot is running")
			return bot.Run(ctx)
		})
	} else {
		logger.Info("TELEGRAM_TOKEN is not set, telegram bot disabled")
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
