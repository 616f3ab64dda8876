package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
}

func Load() (*Config, error) {

	token := getEnv("TG_TOKEN", "")
	if token == "" {
		log.Fatal("❌ TG_TOKEN не установлен. Установите переменную окружения или создайте .env файл")
	}

	chatIDStr := getEnv("TG_CHAT_ID", "")
	if chatIDStr == "" {
		log.Fatal("❌ TG_CHAT_ID не установлен")
	}

	chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		log.Fatalf("❌ Неверный TG_CHAT_ID: %v", err)
	}

	cfg := &Config{}
	cfg.Telegram.Token = token
	cfg.Telegram.ChatID = chatID
	cfg.Database.Path = getEnv("DB_PATH", "/data/winter-arc.db")

	log.Printf("✅ Конфигурация загружена: БД=%s", cfg.Database.Path)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
