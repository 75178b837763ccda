package config

// Config is the process-level configuration surface (spec §6): the
// persistent store connection, the `serve` front-end address, the
// substitute cache's bounds, the optional Ollama LLM-adapter settings,
// and structured-logging tuning.
type Config struct {
	Version string        `yaml:"version"`
	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
	Cache   CacheConfig   `yaml:"cache"`
	Ollama  OllamaConfig  `yaml:"ollama"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig names the persistent substitute store. An empty DSN runs
// the engine against internal/store/memstore instead of Postgres.
type StoreConfig struct {
	DSN string `yaml:"dsn"`
}

// ServerConfig holds a server listen address. It is defaulted, overridable
// via FUNGEN_SERVER_ADDRESS and validated, but `serve` listens on its own
// --addr flag and no other code reads this field.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// CacheConfig tunes the substitute cache's bounds. Spec §4.6 names
// MaxEntries=20 and TTLSeconds=60 as the defaults; they're exposed here
// as operator-tunable knobs rather than hard constants, since nothing in
// the spec forbids retuning them for a given deployment.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
	TTLSeconds int `yaml:"ttl_seconds"`
}

// OllamaConfig configures the optional LLM-backend adapter consumed by
// generate_ai (spec §6).
type OllamaConfig struct {
	Endpoint      string  `yaml:"endpoint"`
	Model         string  `yaml:"model"`
	Temperature   float64 `yaml:"temperature"`
	RepeatPenalty float64 `yaml:"repeat_penalty"`
	TopK          int     `yaml:"top_k"`
	TopP          float64 `yaml:"top_p"`
	SystemPrompt  string  `yaml:"system_prompt"`
	Template      string  `yaml:"template"`
	MaxPredict    int     `yaml:"max_predict"`
}

// LoggingConfig tunes the structured process logger (A2).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the configuration used when no config file is found
// or a field is left unset: an in-memory store, a loopback server
// address, the spec's cache bounds, no Ollama adapter, and info/text
// logging.
func Defaults() *Config {
	return &Config{
		Version: "1",
		Store:   StoreConfig{},
		Server:  ServerConfig{Address: "127.0.0.1:8765"},
		Cache:   CacheConfig{MaxEntries: 20, TTLSeconds: 60},
		Ollama:  OllamaConfig{MaxPredict: 512},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
