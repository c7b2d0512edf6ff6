package model

// ================ Config ================

// Oracle providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

type OracleConfig struct {
	Provider       string  `envconfig:"ORACLE_PROVIDER" default:"gemini"`
	Model          string  `envconfig:"ORACLE_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens      int     `envconfig:"ORACLE_MAX_TOKENS" default:"256"`
	Temperature    float32 `envconfig:"ORACLE_TEMPERATURE" default:"0"`
	Timeout        string  `envconfig:"ORACLE_TIMEOUT" default:"8s"`
	ThinkingBudget int32   `envconfig:"ORACLE_THINKING_BUDGET" default:"0"`
}

type DialogConfig struct {
	HistoryLimit    int `envconfig:"DIALOG_HISTORY_LIMIT" default:"20"`
	NLUContextTurns int `envconfig:"DIALOG_NLU_CONTEXT_TURNS" default:"4"`
	MenuLimit       int `envconfig:"DIALOG_MENU_LIMIT" default:"8"`
	ListLimit       int `envconfig:"DIALOG_LIST_LIMIT" default:"10"`
}

// WithDefaults fills zero values, for configs built by hand (tests, embedding).
func (c DialogConfig) WithDefaults() DialogConfig {
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if c.NLUContextTurns <= 0 {
		c.NLUContextTurns = 4
	}
	if c.MenuLimit <= 0 {
		c.MenuLimit = 8
	}
	if c.ListLimit <= 0 {
		c.ListLimit = 10
	}
	return c
}

// Session stores.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type SessionConfig struct {
	Store           string `envconfig:"SESSION_STORE" default:"memory"`
	TTL             string `envconfig:"SESSION_TTL" default:"24h"`
	CleanupInterval string `envconfig:"SESSION_CLEANUP_INTERVAL" default:"10m"`
}

type CatalogConfig struct {
	// Path to a YAML catalog; the embedded catalog is used when empty.
	Path string `envconfig:"CATALOG_PATH"`
}
