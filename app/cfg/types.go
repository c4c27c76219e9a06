package cfg

type Cfg struct {
	// Editorial configuration
	ConfigPath string
	DataDir    string

	// Backend endpoints
	OllamaURL   string
	OllamaModel string
	ImageAPIURL string
	DeepLURL    string
	TargetLang  string

	// Secrets (environment only)
	BotToken string
	DeepLKey string

	// Pipeline tuning
	SweepInterval    int // minutes
	MaxDailyPosts    int
	MaxEntryAgeHours int
	BatchSize        int
	MarkEvaluated    bool

	// Ops server
	Port string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
