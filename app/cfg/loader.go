package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Editorial configuration
	ConfigPath string `long:"config" env:"CONFIG_PATH" default:"./config.yaml" description:"Path to the editorial configuration file (feeds, channels, persona)"`
	DataDir    string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory for the dedup ledger and daily counter files"`

	// Backend endpoints
	OllamaURL   string `long:"ollama-url" env:"OLLAMA_URL" default:"http://localhost:11434" description:"Base URL of the Ollama-compatible text backend"`
	OllamaModel string `long:"ollama-model" env:"OLLAMA_MODEL" default:"llama3.1:8b" description:"Model name for classification and rewriting"`
	ImageAPIURL string `long:"image-api-url" env:"IMAGE_API_URL" default:"http://localhost:7860" description:"Base URL of the txt2img image backend"`
	DeepLURL    string `long:"deepl-url" env:"DEEPL_URL" default:"https://api-free.deepl.com" description:"Base URL of the DeepL translation API"`
	TargetLang  string `long:"target-lang" env:"TARGET_LANG" default:"IT" description:"Target language code for translation"`

	// Secrets (environment only, no flag defaults)
	BotToken string `long:"bot-token" env:"BOT_TOKEN" description:"Telegram bot token (required)" required:"true"`
	DeepLKey string `long:"deepl-key" env:"DEEPL_KEY" description:"DeepL API key (required)" required:"true"`

	// Pipeline tuning
	SweepInterval    int  `long:"sweep-interval" env:"SWEEP_INTERVAL" default:"30" description:"Minutes between feed sweeps"`
	MaxDailyPosts    int  `long:"max-daily-posts" env:"MAX_DAILY_POSTS" default:"5" description:"Daily publish quota"`
	MaxEntryAgeHours int  `long:"max-entry-age" env:"MAX_ENTRY_AGE_HOURS" default:"96" description:"Maximum entry age in hours before it is skipped as stale"`
	BatchSize        int  `long:"batch-size" env:"BATCH_SIZE" default:"20" description:"Maximum entries considered per feed per sweep"`
	MarkEvaluated    bool `long:"mark-evaluated" env:"MARK_EVALUATED" description:"Record ignored and unclassifiable entries in the ledger so they are never re-evaluated"`

	// Ops server
	Port string `long:"port" env:"PORT" default:"8080" description:"HTTP port for the ops endpoints"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Curator/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Rome)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		ConfigPath:       raw.ConfigPath,
		DataDir:          raw.DataDir,
		OllamaURL:        raw.OllamaURL,
		OllamaModel:      raw.OllamaModel,
		ImageAPIURL:      raw.ImageAPIURL,
		DeepLURL:         raw.DeepLURL,
		TargetLang:       raw.TargetLang,
		BotToken:         raw.BotToken,
		DeepLKey:         raw.DeepLKey,
		SweepInterval:    raw.SweepInterval,
		MaxDailyPosts:    raw.MaxDailyPosts,
		MaxEntryAgeHours: raw.MaxEntryAgeHours,
		BatchSize:        raw.BatchSize,
		MarkEvaluated:    raw.MarkEvaluated,
		Port:             raw.Port,
		UserAgent:        raw.UserAgent,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
