package config

// ProviderType identifies the LLM provider the backend should route chat turns to.
type ProviderType string

const (
	ProviderClaude ProviderType = "claude"
	ProviderOpenAI ProviderType = "openai"
	ProviderGoogle ProviderType = "google"
	ProviderMeta   ProviderType = "meta"
)

// Config is the top-level draftdesk configuration, corresponding to .draftdesk.yml.
type Config struct {
	BackendURL      string       `yaml:"backend_url" koanf:"backend_url"`
	RequestTimeout  int          `yaml:"request_timeout" koanf:"request_timeout"` // seconds
	DebounceMS      int          `yaml:"debounce_ms" koanf:"debounce_ms"`
	AppendDefault   bool         `yaml:"append_default" koanf:"append_default"`
	IncludeSections bool         `yaml:"include_sections" koanf:"include_sections"`
	StatePath       string       `yaml:"state_path" koanf:"state_path"`
	Provider        ProviderType `yaml:"provider" koanf:"provider"`
	Model           string       `yaml:"model" koanf:"model"`
	Sections        []string     `yaml:"sections" koanf:"sections"`
	OutputDir       string       `yaml:"output_dir" koanf:"output_dir"`
	LogLevel        string       `yaml:"log_level" koanf:"log_level"`
	Stub            StubConfig   `yaml:"stub" koanf:"stub"`
}

// StubConfig holds settings for the local stub backend.
type StubConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
}
