package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yu010101/picohub/api"
	"github.com/yu010101/picohub/config"
	"github.com/yu010101/picohub/line"
	"github.com/yu010101/picohub/mercari"
	"github.com/yu010101/picohub/notion"
	"github.com/yu010101/picohub/openweather"
	"github.com/yu010101/picohub/rakuten"
	"github.com/yu010101/picohub/weather"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	port := flag.String("port", "", "Port to run the server on (overrides PORT)")
	devLogging := flag.Bool("dev", false, "Use human-readable development logging")
	flag.Parse()

	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}

	logger, err := newLogger(*devLogging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	skills := buildSkills(cfg, logger)
	server := api.NewServer(cfg.Port, skills, cfg.APIRateLimit, logger)

	// Set up channel for graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバーが停止しました", zap.Error(err))
		}
	}()

	sig := <-shutdownChan
	logger.Info("シャットダウンします", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("シャットダウンに失敗しました", zap.Error(err))
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildSkills constructs every skill whose credentials are present.
func buildSkills(cfg *config.Config, logger *zap.Logger) api.Skills {
	skills := api.Skills{
		Mercari: mercari.NewSkill(logger),
	}

	if cfg.OpenWeatherAPIKey != "" {
		client, err := openweather.NewClient(cfg.OpenWeatherAPIKey)
		if err != nil {
			logger.Fatal("OpenWeatherMapクライアントの初期化に失敗しました", zap.Error(err))
		}
		source := weather.NewRateLimitedSource(client, cfg.WeatherRPS, cfg.WeatherBurst)
		skills.Weather = weather.NewSkill(source, logger)
	} else {
		logger.Warn("OPENWEATHERMAP_API_KEY が未設定のため、天気スキルは無効です")
	}

	if cfg.LineChannelAccessToken != "" {
		skill, err := line.NewSkill(cfg.LineChannelAccessToken, cfg.LineChannelSecret, logger)
		if err != nil {
			logger.Fatal("LINEスキルの初期化に失敗しました", zap.Error(err))
		}
		skills.Line = skill
	} else {
		logger.Warn("LINE_CHANNEL_ACCESS_TOKEN が未設定のため、LINEスキルは無効です")
	}

	if cfg.NotionAPIKey != "" {
		skill, err := notion.NewSkill(cfg.NotionAPIKey, logger)
		if err != nil {
			logger.Fatal("Notionスキルの初期化に失敗しました", zap.Error(err))
		}
		skills.Notion = skill
	} else {
		logger.Warn("NOTION_API_KEY が未設定のため、Notionスキルは無効です")
	}

	if cfg.RakutenAppID != "" {
		skill, err := rakuten.NewSkill(cfg.RakutenAppID, cfg.RakutenAffiliateID, logger)
		if err != nil {
			logger.Fatal("楽天スキルの初期化に失敗しました", zap.Error(err))
		}
		skills.Rakuten = skill
	} else {
		logger.Warn("RAKUTEN_APP_ID が未設定のため、楽天スキルは無効です")
	}

	return skills
}
