package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 32 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return io.EOF
	}
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	s.state.mu.Lock()
	prompts := append([]Prompt(nil), s.state.prompts...)
	s.state.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"prompts": prompts})
}

func (s *Server) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.state.mu.Lock()
	p := s.state.findPrompt(id)
	s.state.mu.Unlock()
	if p == nil {
		writeError(w, http.StatusNotFound, "Prompt not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var in ChatInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if strings.TrimSpace(in.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	s.state.mu.Lock()
	var prompt *Prompt
	if in.PromptID != "" {
		prompt = s.state.findPrompt(in.PromptID)
	}
	responder := s.state.responder
	s.state.mu.Unlock()

	out := responder(in, prompt)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	sections := make([]Section, 0, len(s.state.titles))
	for _, title := range s.state.titles {
		sections = append(sections, Section{Title: title, Content: s.state.sections[title]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"title": s.state.title, "sections": sections})
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Section string `json:"section"`
		Content string `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil || body.Section == "" {
		writeError(w, http.StatusBadRequest, "Missing section or content")
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if !s.state.hasTitle(body.Section) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Section %s not found", body.Section))
		return
	}
	s.state.sections[body.Section] = body.Content
	s.state.updates[body.Section] = append(s.state.updates[body.Section], body.Content)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully updated " + body.Section})
}

func (s *Server) handleRequiredDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"documents": []map[string]any{
		{"name": "Systems Engineering Plan (SEP)", "applicability": 85},
		{"name": "Test and Evaluation Master Plan (TEMP)", "applicability": 75},
		{"name": "Cybersecurity Strategy", "applicability": 90},
		{"name": "Life Cycle Sustainment Plan (LCSP)", "applicability": 80},
	}})
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Sections map[string]string `json:"sections"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	s.state.mu.Lock()
	titles := append([]string(nil), s.state.titles...)
	docTitle := s.state.title
	s.state.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", docTitle)
	for _, title := range titles {
		content, ok := body.Sections[title]
		if !ok || strings.TrimSpace(content) == "" {
			continue
		}
		fmt.Fprintf(&b, "%s\n%s\n\n%s\n\n", title, strings.Repeat("=", len(title)), content)
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="acquisition_strategy.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, b.String())
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	s.state.mu.Lock()
	records := make([]*versionRecord, 0, len(s.state.versions))
	for _, rec := range s.state.versions {
		records = append(records, rec)
	}
	s.state.mu.Unlock()

	// Newest first.
	sort.Slice(records, func(i, j int) bool {
		if !records[i].savedAt.Equal(records[j].savedAt) {
			return records[i].savedAt.After(records[j].savedAt)
		}
		return records[i].seq > records[j].seq
	})
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.name)
	}
	writeJSON(w, http.StatusOK, map[string]any{"versions": names})
}

func (s *Server) handleSaveVersion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Version  string    `json:"version"`
		Sections []Section `json:"sections"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if strings.TrimSpace(body.Version) == "" {
		writeError(w, http.StatusBadRequest, "Version name is required")
		return
	}
	name := versionFileName(body.Version)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if _, exists := s.state.versions[name]; exists {
		writeError(w, http.StatusConflict, fmt.Sprintf("Version %s already exists", name))
		return
	}
	s.state.seq++
	s.state.versions[name] = &versionRecord{
		name:     name,
		seq:      s.state.seq,
		savedAt:  s.state.now().UTC(),
		sections: append([]Section{}, body.Sections...),
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Version saved successfully", "version": name})
}

func (s *Server) lookupVersion(name string) (*versionRecord, bool) {
	if rec, ok := s.state.versions[name]; ok {
		return rec, true
	}
	rec, ok := s.state.versions[versionFileName(name)]
	return rec, ok
}

func (s *Server) handleLoadVersion(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.state.mu.Lock()
	rec, ok := s.lookupVersion(name)
	s.state.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Version not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version":   rec.name,
		"timestamp": rec.savedAt.Format("2006-01-02T15:04:05.000000"),
		"sections":  rec.sections,
	})
}

func (s *Server) handleDeleteVersion(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	rec, ok := s.lookupVersion(name)
	if !ok {
		writeError(w, http.StatusNotFound, "Version not found")
		return
	}
	delete(s.state.versions, rec.name)
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Version %s deleted successfully", rec.name)})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No selected file")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.state.mu.Lock()
	s.state.documents[header.Filename] = data
	s.state.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "File uploaded successfully",
		"filename": header.Filename,
		"id":       newUploadID(),
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	s.state.mu.Lock()
	names := s.state.documentNamesLocked()
	s.state.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"documents": names, "count": len(names)})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if _, ok := s.state.documents[name]; !ok {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}
	delete(s.state.documents, name)
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Document %s deleted successfully", name)})
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	s.state.mu.Lock()
	s.state.documents = make(map[string][]byte)
	s.state.sections = make(map[string]string)
	s.state.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session cleared successfully"})
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	s.state.mu.Lock()
	models := append([]Model(nil), s.state.models...)
	s.state.mu.Unlock()
	writeJSON(w, http.StatusOK, models)
}

func (s *Server) handleCurrentModel(w http.ResponseWriter, r *http.Request) {
	s.state.mu.Lock()
	cur := s.state.current
	s.state.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"provider": cur.Provider, "version": cur.Name})
}

func (s *Server) handleSelectModel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Provider string `json:"provider"`
		Model    string `json:"model"`
	}
	if err := decodeBody(r, &body); err != nil || body.Provider == "" || body.Model == "" {
		writeError(w, http.StatusBadRequest, "Provider and model are required")
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	for _, m := range s.state.models {
		if m.Provider == body.Provider && m.Name == body.Model {
			s.state.current = m
			writeJSON(w, http.StatusOK, map[string]string{"message": "Model selected", "provider": m.Provider, "model": m.Name})
			return
		}
	}
	writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown model %s/%s", body.Provider, body.Model))
}
