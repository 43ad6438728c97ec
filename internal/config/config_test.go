package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != 5001 {
		t.Errorf("default port = %d, want 5001", cfg.App.Port)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("default mongo uri = %q", cfg.Mongo.URI)
	}
	if cfg.JWT.TTLHours != 24 {
		t.Errorf("default token ttl hours = %d, want 24", cfg.JWT.TTLHours)
	}
	if !cfg.App.Development() {
		t.Error("default env should be development")
	}
	if cfg.JWT.Secret == "" {
		t.Error("development fallback secret not applied")
	}
}

func TestLoad_YamlFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
app:
  env: production
  port: 9000
jwt:
  secret: yaml-secret
mongo:
  database: datingdb
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.App.Port)
	}
	if cfg.Mongo.Database != "datingdb" {
		t.Errorf("database = %q, want datingdb", cfg.Mongo.Database)
	}
	if cfg.JWT.Secret != "yaml-secret" {
		t.Errorf("secret = %q, want yaml-secret", cfg.JWT.Secret)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("app:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != 8080 {
		t.Errorf("port = %d, want env override 8080", cfg.App.Port)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("secret = %q, want env-secret", cfg.JWT.Secret)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "k1:9092" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(""); err == nil {
		t.Error("Load() should fail without a jwt secret outside development")
	}
}
