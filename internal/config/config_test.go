package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production") // не подхватывать .env разработчика
	t.Setenv("CONFIG_PATH", "/nonexistent")
	t.Setenv("DATABASE_CONFIG_PATH", "/nonexistent")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/bot")

	cfg := Load()
	if cfg.ServerAddr != ":8080" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr)
	}
	if cfg.CooldownMinutes != 4 {
		t.Errorf("CooldownMinutes = %d", cfg.CooldownMinutes)
	}
	if cfg.Cooldown() != 4*time.Minute {
		t.Errorf("Cooldown = %v", cfg.Cooldown())
	}
	if cfg.DBMaxConnections() != 10 {
		t.Errorf("DBMaxConnections = %d", cfg.DBMaxConnections())
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("CONFIG_PATH", "/nonexistent")
	t.Setenv("DATABASE_CONFIG_PATH", "/nonexistent")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("COOLDOWN_MINUTES", "10")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/bot")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("SERVER_ADDR", ":9000")

	cfg := Load()
	if cfg.BotToken != "123:abc" {
		t.Errorf("BotToken = %q", cfg.BotToken)
	}
	if cfg.CooldownMinutes != 10 {
		t.Errorf("CooldownMinutes = %d", cfg.CooldownMinutes)
	}
	if cfg.DatabaseURL() != "postgres://u:p@db:5432/bot" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL())
	}
	if cfg.Redis.URL != "redis://cache:6379/1" {
		t.Errorf("Redis.URL = %q", cfg.Redis.URL)
	}
	if cfg.ServerAddr != ":9000" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bot.yaml")
	yaml := "server_addr: \":7070\"\ncooldown_minutes: 2\nmodel_path: models/test.txt\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_ENV", "production")
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DATABASE_CONFIG_PATH", "/nonexistent")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/bot")

	cfg := Load()
	if cfg.ServerAddr != ":7070" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr)
	}
	if cfg.CooldownMinutes != 2 {
		t.Errorf("CooldownMinutes = %d", cfg.CooldownMinutes)
	}
	if cfg.ModelPath != "models/test.txt" {
		t.Errorf("ModelPath = %q", cfg.ModelPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{CooldownMinutes: 4}
	if err := cfg.Validate(false); err == nil {
		t.Error("без токена вне -dev должна быть ошибка")
	}
	if err := cfg.Validate(true); err != nil {
		t.Errorf("в -dev токен не обязателен: %v", err)
	}

	cfg = &Config{BotToken: "x", CooldownMinutes: 0}
	if err := cfg.Validate(false); err == nil {
		t.Error("нулевой кулдаун должен отклоняться")
	}

	cfg = &Config{BotToken: "x", CooldownMinutes: 4, ModelPath: "/definitely/missing/model.txt"}
	if err := cfg.Validate(false); err == nil {
		t.Error("отсутствующий файл модели должен отклоняться")
	}

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.txt")
	if err := os.WriteFile(modelPath, []byte("tree\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg = &Config{BotToken: "x", CooldownMinutes: 4, ModelPath: modelPath}
	if err := cfg.Validate(false); err != nil {
		t.Errorf("валидная конфигурация: %v", err)
	}
}
