package api

import "github.com/ziadkadry99/draftdesk/internal/document"

// Prompt is a reusable instruction template served by the backend.
type Prompt struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category,omitempty"`
	Description   string `json:"description,omitempty"`
	PromptText    string `json:"prompt"`
	TargetSection string `json:"targetSection,omitempty"`
}

type promptsResponse struct {
	Prompts []Prompt `json:"prompts"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message         string            `json:"message"`
	Provider        string            `json:"provider,omitempty"`
	Model           string            `json:"model,omitempty"`
	PromptID        string            `json:"promptId,omitempty"`
	TargetSection   string            `json:"targetSection,omitempty"`
	IncludeSections bool              `json:"includeSections"`
	CurrentContent  map[string]string `json:"currentContent,omitempty"`
	// UploadedDocuments lists document names the backend should consult.
	UploadedDocuments []string `json:"uploadedDocuments,omitempty"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Response         string `json:"response"`
	TargetSection    string `json:"targetSection,omitempty"`
	SuggestedSection string `json:"suggestedSection,omitempty"`
	Error            string `json:"error,omitempty"`
}

// Suggested returns the section the backend wants the response loaded into.
// targetSection wins over suggestedSection.
func (r ChatResponse) Suggested() string {
	if r.TargetSection != "" {
		return r.TargetSection
	}
	return r.SuggestedSection
}

type updateSectionRequest struct {
	Section string `json:"section"`
	Content string `json:"content"`
}

// RequiredDocument is a supporting document with its applicability score (0-100).
type RequiredDocument struct {
	Name          string `json:"name"`
	Applicability int    `json:"applicability"`
}

type requiredDocumentsResponse struct {
	Documents []RequiredDocument `json:"documents"`
}

type versionsResponse struct {
	Versions []string `json:"versions"`
}

type saveVersionRequest struct {
	Version  string             `json:"version"`
	Sections []document.Section `json:"sections"`
}

type saveVersionResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// VersionData is the body of GET /load_version/{name}.
type VersionData struct {
	Version   string             `json:"version,omitempty"`
	Timestamp string             `json:"timestamp,omitempty"`
	Sections  []document.Section `json:"sections"`
}

type printRequest struct {
	Sections map[string]string `json:"sections"`
}

type documentsResponse struct {
	Documents []string `json:"documents"`
	Count     int      `json:"count"`
}

// Document is the backend's copy of the current draft.
type Document struct {
	Title    string             `json:"title"`
	Sections []document.Section `json:"sections"`
}

// Model is a selectable provider/model pair.
type Model struct {
	Provider string `json:"provider"`
	Name     string `json:"name"`
}

// CurrentModel is the backend's active model.
type CurrentModel struct {
	Provider string `json:"provider"`
	Version  string `json:"version"`
}

type selectModelRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// errorEnvelope captures the structured {error} payload any endpoint may return.
type errorEnvelope struct {
	Error string `json:"error"`
}
