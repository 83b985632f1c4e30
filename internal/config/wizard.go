package config

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to draftdesk! Let's connect to your drafting assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	backendPrompt := promptui.Prompt{
		Label:    "Backend URL",
		Default:  cfg.BackendURL,
		Validate: validateURL,
	}
	backendURL, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	cfg.BackendURL = backendURL

	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"claude", "openai", "google", "meta"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	cfg.Model = DefaultModel(cfg.Provider)

	modePrompt := promptui.Select{
		Label: "When loading a chat response into a section",
		Items: []string{
			"append: keep existing text and add the response below it",
			"overwrite: replace the section with the response",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("append mode: %w", err)
	}
	cfg.AppendDefault = modeIdx == 0

	debouncePrompt := promptui.Prompt{
		Label:    "Autosave delay in milliseconds",
		Default:  strconv.Itoa(cfg.DebounceMS),
		Validate: validatePositiveInt,
	}
	debounceStr, err := debouncePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("debounce: %w", err)
	}
	cfg.DebounceMS, _ = strconv.Atoi(debounceStr)

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("enter an absolute URL such as http://localhost:8000")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}
