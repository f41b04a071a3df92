package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/modeldocs/portal/internal/extractor"
	"github.com/modeldocs/portal/internal/models"
	"github.com/modeldocs/portal/internal/storage"
)

// HandleAnalyze accepts a document upload, runs the analysis provider,
// extracts metadata from whatever the model returned, and stores the
// pre-filled draft as a session the client can edit and submit.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("files")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	// Limit file size to 10MB
	fileData, err := io.ReadAll(io.LimitReader(file, 10*1024*1024))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fileData) >= 10*1024*1024 {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	kind := models.ItemKind(r.FormValue("kind"))
	if kind == "" {
		kind = models.KindArticle
	}
	provider := r.FormValue("provider")
	model := r.FormValue("model")
	if provider == "" {
		provider = h.cfg.Provider
	}
	if model == "" {
		model = h.cfg.Model
	}

	session := h.buildDraftSession(r, header.Filename, fileData, kind, provider, model)

	h.drafts.Set(session.ID, session)

	h.writeJSON(w, session)
}

// buildDraftSession runs analysis and extraction. Analysis failure is not
// fatal: the session still gets created with an empty draft so the user
// can fill the form manually.
func (h *Handler) buildDraftSession(r *http.Request, filename string, fileData []byte, kind models.ItemKind, provider, model string) *storage.DraftSession {
	baseFilename := strings.TrimSuffix(filename, filepath.Ext(filename))
	sessionID := fmt.Sprintf("%s_%d", baseFilename, time.Now().Unix())

	session := &storage.DraftSession{
		ID:        sessionID,
		Draft:     models.UploadDraft{Kind: kind},
		Provider:  provider,
		Model:     model,
		CreatedAt: time.Now(),
	}

	raw, err := h.analyzer.AnalyzeDocument(r.Context(), string(fileData), provider, model)
	if err != nil {
		slog.Error("Document analysis failed", "error", err, "session_id", sessionID)
		return session
	}

	payload, err := json.Marshal(map[string]string{"rawAnalysis": raw})
	if err != nil {
		slog.Error("Failed to wrap analysis response", "error", err)
		return session
	}

	res := extractor.Extract(payload)
	session.Parsed = res.Parsed

	draft := extractor.PrefillDraft(res, kind)
	draft.FileName = filename
	draft.FileData = fileData
	session.Draft = draft

	keywords := extractor.NormalizeKeywords(res.Fields["keywords"])
	var rec extractor.Reconciler
	session.SuggestedTags = rec.Reconcile(keywords, h.articles.Tags())

	slog.Info("Draft session created", "session_id", sessionID, "parsed", res.Parsed, "keywords", len(keywords))
	return session
}
