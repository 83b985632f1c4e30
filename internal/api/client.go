package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/draftdesk/internal/apperr"
	"github.com/ziadkadry99/draftdesk/internal/document"
)

// Client talks JSON over HTTP to the drafting assistant backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the backend at baseURL. A zero timeout disables
// the per-request deadline.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root URL.
func (c *Client) BaseURL() string { return c.baseURL }

// ListPrompts returns every prompt in the backend's repository.
func (c *Client) ListPrompts(ctx context.Context) ([]Prompt, error) {
	var resp promptsResponse
	if err := c.doJSON(ctx, "list prompts", http.MethodGet, "/prompts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Prompts, nil
}

// GetPrompt returns one prompt by ID.
func (c *Client) GetPrompt(ctx context.Context, id string) (*Prompt, error) {
	if id == "" {
		return nil, apperr.Validation("prompt id", "is required")
	}
	var p Prompt
	if err := c.doJSON(ctx, "get prompt", http.MethodGet, "/prompt/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Chat sends one chat turn.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, apperr.Validation("", "Please enter a message")
	}
	var resp ChatResponse
	if err := c.doJSON(ctx, "chat", http.MethodPost, "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateSection mirrors one section's content to the backend document.
func (c *Client) UpdateSection(ctx context.Context, section, content string) error {
	if section == "" {
		return apperr.Validation("section", "is required")
	}
	body := updateSectionRequest{Section: section, Content: content}
	return c.doJSON(ctx, "update section", http.MethodPost, "/update_section", body, nil)
}

// RequiredDocuments returns the supporting documents suggested for the draft.
func (c *Client) RequiredDocuments(ctx context.Context) ([]RequiredDocument, error) {
	var resp requiredDocumentsResponse
	if err := c.doJSON(ctx, "required documents", http.MethodPost, "/get_required_documents", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// GetDocument returns the backend's copy of the current draft.
func (c *Client) GetDocument(ctx context.Context) (*Document, error) {
	var doc Document
	if err := c.doJSON(ctx, "get document", http.MethodGet, "/get_document", nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListVersions returns saved version names, newest first.
func (c *Client) ListVersions(ctx context.Context) ([]string, error) {
	var resp versionsResponse
	if err := c.doJSON(ctx, "list versions", http.MethodGet, "/list_versions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Versions, nil
}

// SaveVersion stores sections under name and returns the name the backend
// recorded.
func (c *Client) SaveVersion(ctx context.Context, name string, sections []document.Section) (string, error) {
	if name == "" {
		return "", apperr.Validation("version", "Version name is required")
	}
	var resp saveVersionResponse
	body := saveVersionRequest{Version: name, Sections: sections}
	if err := c.doJSON(ctx, "save version", http.MethodPost, "/save_version", body, &resp); err != nil {
		return "", err
	}
	if resp.Version == "" {
		resp.Version = name
	}
	return resp.Version, nil
}

// LoadVersion fetches a saved version.
func (c *Client) LoadVersion(ctx context.Context, name string) (*VersionData, error) {
	if name == "" {
		return nil, apperr.Validation("version", "Version name is required")
	}
	var data VersionData
	if err := c.doJSON(ctx, "load version", http.MethodGet, "/load_version/"+url.PathEscape(name), nil, &data); err != nil {
		return nil, err
	}
	if data.Sections == nil {
		return nil, &apperr.BackendError{Op: "load version", Message: "Invalid version data: missing sections array"}
	}
	return &data, nil
}

// DeleteVersion removes a saved version.
func (c *Client) DeleteVersion(ctx context.Context, name string) error {
	if name == "" {
		return apperr.Validation("version", "Version name is required")
	}
	return c.doJSON(ctx, "delete version", http.MethodDelete, "/delete_version/"+url.PathEscape(name), nil, nil)
}

// Upload sends one file as multipart form field "file". The body is
// streamed, so r may be wrapped with a progress reader.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) error {
	if filename == "" {
		return apperr.Validation("filename", "is required")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		pr.Close()
		return fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, err = c.send(req, "upload", nil)
	pr.Close()
	return err
}

// ListDocuments returns the names of uploaded documents.
func (c *Client) ListDocuments(ctx context.Context) ([]string, error) {
	var resp documentsResponse
	if err := c.doJSON(ctx, "list documents", http.MethodGet, "/documents", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// DeleteDocument removes an uploaded document.
func (c *Client) DeleteDocument(ctx context.Context, name string) error {
	if name == "" {
		return apperr.Validation("filename", "is required")
	}
	return c.doJSON(ctx, "delete document", http.MethodDelete, "/delete_document/"+url.PathEscape(name), nil, nil)
}

// PrintDocument asks the backend to render sections and streams the
// resulting document into w.
func (c *Client) PrintDocument(ctx context.Context, sections map[string]string, w io.Writer) (int64, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/print_document", printRequest{Sections: sections})
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &apperr.NetworkError{Op: "print document", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return 0, statusError("print document", resp.StatusCode, body)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &apperr.NetworkError{Op: "print document", Err: err}
	}
	return n, nil
}

// ClearSession resets the backend's session state.
func (c *Client) ClearSession(ctx context.Context) error {
	return c.doJSON(ctx, "clear session", http.MethodPost, "/clear_session", nil, nil)
}

// ListModels returns every selectable provider/model pair.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var models []Model
	if err := c.doJSON(ctx, "list models", http.MethodGet, "/api/models", nil, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// CurrentModel returns the backend's active model.
func (c *Client) CurrentModel(ctx context.Context) (*CurrentModel, error) {
	var cur CurrentModel
	if err := c.doJSON(ctx, "current model", http.MethodGet, "/api/models/current", nil, &cur); err != nil {
		return nil, err
	}
	return &cur, nil
}

// SelectModel switches the backend to provider/model.
func (c *Client) SelectModel(ctx context.Context, provider, model string) error {
	if provider == "" || model == "" {
		return apperr.Validation("model", "provider and model are required")
	}
	body := selectModelRequest{Provider: provider, Model: model}
	return c.doJSON(ctx, "select model", http.MethodPost, "/api/models/select", body, nil)
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshalling %s request: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, body, out any) error {
	req, err := c.newJSONRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	_, err = c.send(req, op, out)
	return err
}

// send executes req and decodes a 2xx body into out. Any response carrying
// a non-empty {error} field is a BackendError, whatever its status.
func (c *Client) send(req *http.Request, op string, out any) (int, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("op", op).Msg("backend request failed")
		return 0, &apperr.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &apperr.NetworkError{Op: op, Status: resp.StatusCode, Err: err}
	}

	c.logger.Debug().
		Str("op", op).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, statusError(op, resp.StatusCode, body)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return resp.StatusCode, nil
	}

	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error != "" {
		return resp.StatusCode, &apperr.BackendError{Op: op, Status: resp.StatusCode, Message: env.Error}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, &apperr.BackendError{
				Op:      op,
				Status:  resp.StatusCode,
				Message: fmt.Sprintf("decoding response: %v", err),
			}
		}
	}
	return resp.StatusCode, nil
}

func statusError(op string, status int, body []byte) error {
	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error != "" {
		return &apperr.BackendError{Op: op, Status: status, Message: env.Error}
	}
	return &apperr.NetworkError{Op: op, Status: status}
}
