package config

// DefaultSections is the acquisition strategy template. The last entry is the
// scratch pad, which is always available as a chat response destination.
var DefaultSections = []string{
	"Executive Summary",
	"Program Overview",
	"Risk Assessment",
	"Market Research",
	"Competition Strategy",
	"Source Selection Planning",
	"Business Considerations",
	"Multi-Year Procurement",
	"Lease-Purchase Analysis",
	"Source of Support",
	"Environmental Considerations",
	"Security Considerations",
	"Make or Buy Program",
	"Contract Types",
	"Sustainment Strategy",
	"Supporting Documents",
	"Scratch Pad",
}

// ScratchPad is the title of the always-available fallback section.
const ScratchPad = "Scratch Pad"

// defaultModels maps each provider to the model selected when none is configured.
var defaultModels = map[ProviderType]string{
	ProviderClaude: "claude-3-sonnet-20240229",
	ProviderOpenAI: "gpt-4-turbo-preview",
	ProviderGoogle: "gemini-pro",
	ProviderMeta:   "llama-2-70b-chat",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BackendURL:      "http://localhost:8000",
		RequestTimeout:  120,
		DebounceMS:      1000,
		AppendDefault:   true,
		IncludeSections: true,
		StatePath:       ".draftdesk/state.db",
		Provider:        ProviderClaude,
		Model:           defaultModels[ProviderClaude],
		Sections:        append([]string(nil), DefaultSections...),
		OutputDir:       ".",
		LogLevel:        "info",
		Stub: StubConfig{
			Port:     8000,
			AllowAll: true,
		},
	}
}

// DefaultModel returns the default model for a provider, or "" if unknown.
func DefaultModel(provider ProviderType) string {
	return defaultModels[provider]
}
