package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	// Test default version
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		ConfigPath:       "./config.yaml",
		DataDir:          "./data",
		OllamaURL:        "http://localhost:11434",
		OllamaModel:      "llama3.1:8b",
		ImageAPIURL:      "http://localhost:7860",
		DeepLURL:         "https://api-free.deepl.com",
		TargetLang:       "IT",
		BotToken:         "test-token",
		DeepLKey:         "test-key",
		SweepInterval:    30,
		MaxDailyPosts:    5,
		MaxEntryAgeHours: 96,
		BatchSize:        20,
		Port:             "8080",
		UserAgent:        "Test Agent",
		Timezone:         "UTC",
		Debug:            true,
		Version:          "test-version",
	}

	if cfg.ConfigPath != "./config.yaml" {
		t.Errorf("Expected config path './config.yaml', got '%s'", cfg.ConfigPath)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("Expected data dir './data', got '%s'", cfg.DataDir)
	}
	if cfg.OllamaModel != "llama3.1:8b" {
		t.Errorf("Expected model 'llama3.1:8b', got '%s'", cfg.OllamaModel)
	}
	if cfg.TargetLang != "IT" {
		t.Errorf("Expected target language 'IT', got '%s'", cfg.TargetLang)
	}
	if cfg.SweepInterval != 30 {
		t.Errorf("Expected sweep interval 30, got %d", cfg.SweepInterval)
	}
	if cfg.MaxDailyPosts != 5 {
		t.Errorf("Expected daily quota 5, got %d", cfg.MaxDailyPosts)
	}
	if cfg.MaxEntryAgeHours != 96 {
		t.Errorf("Expected max entry age 96, got %d", cfg.MaxEntryAgeHours)
	}
	if cfg.BatchSize != 20 {
		t.Errorf("Expected batch size 20, got %d", cfg.BatchSize)
	}
	if cfg.MarkEvaluated {
		t.Error("Expected mark-evaluated to default to disabled")
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}
